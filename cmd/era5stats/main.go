package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/rtm0/era5stats/internal/logging"
)

// A Command is an implementation of an era5stats command like
// era5stats daily or era5stats serve.
type Command struct {
	// Run runs the command. The args are the arguments after the command
	// name.
	Run func(cmd *Command, args []string)

	// UsageLine is the one-line usage message. The first word in the line
	// is taken to be the command name.
	UsageLine string

	// Short is the short description shown in the 'era5stats help' output.
	Short string

	// Long is the long message shown in the 'era5stats help <this-command>'
	// output.
	Long string

	// Flag is a set of flags specific to this command.
	Flag flag.FlagSet

	// CustomFlags indicates that the command will do its own flag parsing.
	CustomFlags bool
}

// Name returns the command's name: the first word in the usage line.
func (c *Command) Name() string {
	name := c.UsageLine
	if i := strings.Index(name, " "); i >= 0 {
		name = name[:i]
	}
	return name
}

func (c *Command) Usage() {
	fmt.Fprintf(os.Stderr, "usage: era5stats %s\n\n", c.UsageLine)
	fmt.Fprintf(os.Stderr, "%s\n", strings.TrimSpace(c.Long))
	if c.hasFlags() {
		fmt.Fprintf(os.Stderr, "\nflags:\n")
		c.Flag.PrintDefaults()
	}
	os.Exit(2)
}

func (c *Command) hasFlags() bool {
	n := 0
	c.Flag.VisitAll(func(*flag.Flag) { n++ })
	return n > 0
}

// Runnable reports whether the command can be run; otherwise it is a
// documentation pseudo-command such as 'credentials'.
func (c *Command) Runnable() bool {
	return c.Run != nil
}

// Commands lists the available commands and help topics.
// The order here is the order in which they are printed by 'era5stats help'.
var commands = []*Command{
	cmdDaily,
	cmdPoint,
	cmdCatalogue,
	cmdServe,
	cmdExport,

	helpCredentials,
}

// Global flags
var (
	logLevel  = flag.String("log-level", "info", "minimum log level (debug, info, warn, error)")
	logFormat = flag.String("log-format", "text", "log output format (text, json)")
)

var logger *slog.Logger

func main() {
	flag.Usage = usage
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "era5stats: %v\n", err)
		os.Exit(2)
	}
	logger = logging.New(os.Stderr, logging.Format(*logFormat), level)
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) < 1 {
		usage()
	}

	if args[0] == "help" {
		help(args[1:])
		return
	}

	// Set signal handler so that "atexit" functions are called on keyboard
	// interrupt.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for s := range c {
			logger.Info("captured signal, cleaning up", "signal", s)
			setExitStatus(1)
			exit()
		}
	}()

	for _, cmd := range commands {
		if cmd.Name() == args[0] && cmd.Runnable() {
			cmd.Flag.Usage = func() { cmd.Usage() }
			if cmd.CustomFlags {
				args = args[1:]
			} else {
				cmd.Flag.Parse(args[1:])
				args = cmd.Flag.Args()
			}
			cmd.Run(cmd, args)
			exit()
			return
		}
	}

	fmt.Fprintf(os.Stderr, "era5stats: unknown subcommand %q\nRun 'era5stats help' for usage.\n", args[0])
	setExitStatus(2)
	exit()
}

// fatal logs err and exits with status 1.
func fatal(msg string, err error) {
	logging.LogError(logger, msg, err)
	setExitStatus(1)
	exit()
}

var exitStatus = 0
var exitMu sync.Mutex

func setExitStatus(n int) {
	exitMu.Lock()
	if exitStatus < n {
		exitStatus = n
	}
	exitMu.Unlock()
}

var (
	atexitMu    sync.Mutex
	atexitFuncs []func()
)

func atexit(f func()) {
	atexitMu.Lock()
	atexitFuncs = append(atexitFuncs, f)
	atexitMu.Unlock()
}

func exit() {
	atexitMu.Lock()
	funcs := atexitFuncs
	atexitFuncs = nil
	atexitMu.Unlock()
	for _, f := range funcs {
		f()
	}
	os.Exit(exitStatus)
}
