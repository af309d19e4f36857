package catalogue

// Variables whose values are accumulated over the hour preceding the
// timestamp.
var accumulatedFields = []string{
	"large_scale_precipitation_fraction",
	"downward_uv_radiation_at_the_surface",
	"boundary_layer_dissipation",
	"surface_sensible_heat_flux",
	"surface_latent_heat_flux",
	"surface_solar_radiation_downwards",
	"surface_thermal_radiation_downwards",
	"surface_net_solar_radiation",
	"surface_net_thermal_radiation",
	"top_net_solar_radiation",
	"top_net_thermal_radiation",
	"eastward_turbulent_surface_stress",
	"northward_turbulent_surface_stress",
	"eastward_gravity_wave_surface_stress",
	"northward_gravity_wave_surface_stress",
	"gravity_wave_dissipation",
	"top_net_solar_radiation_clear_sky",
	"top_net_thermal_radiation_clear_sky",
	"surface_net_solar_radiation_clear_sky",
	"surface_net_thermal_radiation_clear_sky",
	"toa_incident_solar_radiation",
	"vertically_integrated_moisture_divergence",
	"total_sky_direct_solar_radiation_at_surface",
	"clear_sky_direct_solar_radiation_at_surface",
	"surface_solar_radiation_downward_clear_sky",
	"surface_thermal_radiation_downward_clear_sky",
	"surface_runoff",
	"sub_surface_runoff",
	"snow_evaporation",
	"snowmelt",
	"large_scale_precipitation",
	"convective_precipitation",
	"snowfall",
	"evaporation",
	"runoff",
	"total_precipitation",
	"convective_snowfall",
	"large_scale_snowfall",
	"potential_evaporation",
	"total_evaporation",
	"evaporation_from_bare_soil",
	"evaporation_from_the_top_of_canopy",
	"evaporation_from_open_water_surfaces_excluding_oceans",
	"evaporation_from_vegetation_transpiration",
}

// Labels of the mean-rate variables. Like accumulated fields, a value
// stamped hh:00 describes the preceding hour.
var meanFieldLabels = []string{
	"Mean boundary layer dissipation",
	"Mean convective precipitation rate",
	"Mean convective snowfall rate",
	"Mean eastward gravity wave surface stress",
	"Mean eastward turbulent surface stress",
	"Mean evaporation rate",
	"Mean gravity wave dissipation",
	"Mean large-scale precipitation fraction",
	"Mean large-scale precipitation rate",
	"Mean large-scale snowfall rate",
	"Mean northward gravity wave surface stress",
	"Mean northward turbulent surface stress",
	"Mean potential evaporation rate",
	"Mean runoff rate",
	"Mean snow evaporation rate",
	"Mean snowfall rate",
	"Mean snowmelt rate",
	"Mean sub-surface runoff rate",
	"Mean surface direct short-wave radiation flux",
	"Mean surface direct short-wave radiation flux, clear sky",
	"Mean surface downward UV radiation flux",
	"Mean surface downward long-wave radiation flux",
	"Mean surface downward long-wave radiation flux, clear sky",
	"Mean surface downward short-wave radiation flux",
	"Mean surface downward short-wave radiation flux, clear sky",
	"Mean surface latent heat flux",
	"Mean surface net long-wave radiation flux",
	"Mean surface net long-wave radiation flux, clear sky",
	"Mean surface net short-wave radiation flux",
	"Mean surface net short-wave radiation flux, clear sky",
	"Mean surface runoff rate",
	"Mean surface sensible heat flux",
	"Mean top downward short-wave radiation flux",
	"Mean top net long-wave radiation flux",
	"Mean top net long-wave radiation flux, clear sky",
	"Mean top net short-wave radiation flux",
	"Mean top net short-wave radiation flux, clear sky",
	"Mean total precipitation rate",
	"Mean vertically integrated moisture divergence",
}

var singleLevelLabels = []string{
	"10m u-component of wind",
	"10m v-component of wind",
	"2m dewpoint temperature",
	"2m temperature",
	"Mean sea level pressure",
	"Mean wave direction",
	"Mean wave period",
	"Sea surface temperature",
	"Significant height of combined wind waves and swell",
	"Surface pressure",
	"Total precipitation",
	"2m dewpoint temperature",
	"2m temperature",
	"Ice temperature layer 1",
	"Ice temperature layer 2",
	"Ice temperature layer 3",
	"Ice temperature layer 4",
	"Maximum 2m temperature since previous post-processing",
	"Mean sea level pressure",
	"Minimum 2m temperature since previous post-processing",
	"Sea surface temperature",
	"Skin temperature",
	"Surface pressure",
	"100m u-component of wind",
	"100m v-component of wind",
	"10m u-component of neutral wind",
	"10m u-component of wind",
	"10m v-component of neutral wind",
	"10m v-component of wind",
	"10m wind gust since previous post-processing",
	"Instantaneous 10m wind gust",
	"Mean boundary layer dissipation",
	"Mean convective precipitation rate",
	"Mean convective snowfall rate",
	"Mean eastward gravity wave surface stress",
	"Mean eastward turbulent surface stress",
	"Mean evaporation rate",
	"Mean gravity wave dissipation",
	"Mean large-scale precipitation fraction",
	"Mean large-scale precipitation rate",
	"Mean large-scale snowfall rate",
	"Mean northward gravity wave surface stress",
	"Mean northward turbulent surface stress",
	"Mean potential evaporation rate",
	"Mean runoff rate",
	"Mean snow evaporation rate",
	"Mean snowfall rate",
	"Mean snowmelt rate",
	"Mean sub-surface runoff rate",
	"Mean surface direct short-wave radiation flux",
	"Mean surface direct short-wave radiation flux, clear sky",
	"Mean surface downward UV radiation flux",
	"Mean surface downward long-wave radiation flux",
	"Mean surface downward long-wave radiation flux, clear sky",
	"Mean surface downward short-wave radiation flux",
	"Mean surface downward short-wave radiation flux, clear sky",
	"Mean surface latent heat flux",
	"Mean surface net long-wave radiation flux",
	"Mean surface net long-wave radiation flux, clear sky",
	"Mean surface net short-wave radiation flux",
	"Mean surface net short-wave radiation flux, clear sky",
	"Mean surface runoff rate",
	"Mean surface sensible heat flux",
	"Mean top downward short-wave radiation flux",
	"Mean top net long-wave radiation flux",
	"Mean top net long-wave radiation flux, clear sky",
	"Mean top net short-wave radiation flux",
	"Mean top net short-wave radiation flux, clear sky",
	"Mean total precipitation rate",
	"Mean vertically integrated moisture divergence",
	"Clear-sky direct solar radiation at surface",
	"Downward UV radiation at the surface",
	"Forecast logarithm of surface roughness for heat",
	"Instantaneous surface sensible heat flux",
	"Near IR albedo for diffuse radiation",
	"Near IR albedo for direct radiation",
	"Surface latent heat flux",
	"Surface net solar radiation",
	"Surface net solar radiation, clear sky",
	"Surface net thermal radiation",
	"Surface net thermal radiation, clear sky",
	"Surface sensible heat flux",
	"Surface solar radiation downward, clear sky",
	"Surface solar radiation downwards",
	"Surface thermal radiation downward, clear sky",
	"Surface thermal radiation downwards",
	"TOA incident solar radiation",
	"Top net solar radiation",
	"Top net solar radiation, clear sky",
	"Top net thermal radiation",
	"Top net thermal radiation, clear sky",
	"Total sky direct solar radiation at surface",
	"UV visible albedo for diffuse radiation",
	"UV visible albedo for direct radiation",
	"Cloud base height",
	"High cloud cover",
	"Low cloud cover",
	"Medium cloud cover",
	"Total cloud cover",
	"Total column cloud ice water",
	"Total column cloud liquid water",
	"Vertical integral of divergence of cloud frozen water flux",
	"Vertical integral of divergence of cloud liquid water flux",
	"Vertical integral of eastward cloud frozen water flux",
	"Vertical integral of eastward cloud liquid water flux",
	"Vertical integral of northward cloud frozen water flux",
	"Vertical integral of northward cloud liquid water flux",
	"Lake bottom temperature",
	"Lake ice depth",
	"Lake ice temperature",
	"Lake mix-layer depth",
	"Lake mix-layer temperature",
	"Lake shape factor",
	"Lake total layer temperature",
	"Evaporation",
	"Potential evaporation",
	"Runoff",
	"Sub-surface runoff",
	"Surface runoff",
	"Convective precipitation",
	"Convective rain rate",
	"Instantaneous large-scale surface precipitation fraction",
	"Large scale rain rate",
	"Large-scale precipitation",
	"Large-scale precipitation fraction",
	"Maximum total precipitation rate since previous post-processing",
	"Minimum total precipitation rate since previous post-processing",
	"Precipitation type",
	"Total column rain water",
	"Total precipitation",
	"Convective snowfall",
	"Convective snowfall rate water equivalent",
	"Large scale snowfall rate water equivalent",
	"Large-scale snowfall",
	"Snow albedo",
	"Snow density",
	"Snow depth",
	"Snow evaporation",
	"Snowfall",
	"Snowmelt",
	"Temperature of snow layer",
	"Total column snow water",
	"Soil temperature level 1",
	"Soil temperature level 2",
	"Soil temperature level 3",
	"Soil temperature level 4",
	"Volumetric soil water layer 1",
	"Volumetric soil water layer 2",
	"Volumetric soil water layer 3",
	"Volumetric soil water layer 4",
	"Vertical integral of divergence of cloud frozen water flux",
	"Vertical integral of divergence of cloud liquid water flux",
	"Vertical integral of divergence of geopotential flux",
	"Vertical integral of divergence of kinetic energy flux",
	"Vertical integral of divergence of mass flux",
	"Vertical integral of divergence of moisture flux",
	"Vertical integral of divergence of ozone flux",
	"Vertical integral of divergence of thermal energy flux",
	"Vertical integral of divergence of total energy flux",
	"Vertical integral of eastward cloud frozen water flux",
	"Vertical integral of eastward cloud liquid water flux",
	"Vertical integral of eastward geopotential flux",
	"Vertical integral of eastward heat flux",
	"Vertical integral of eastward kinetic energy flux",
	"Vertical integral of eastward mass flux",
	"Vertical integral of eastward ozone flux",
	"Vertical integral of eastward total energy flux",
	"Vertical integral of eastward water vapour flux",
	"Vertical integral of energy conversion",
	"Vertical integral of kinetic energy",
	"Vertical integral of mass of atmosphere",
	"Vertical integral of mass tendency",
	"Vertical integral of northward cloud frozen water flux",
	"Vertical integral of northward cloud liquid water flux",
	"Vertical integral of northward geopotential flux",
	"Vertical integral of northward heat flux",
	"Vertical integral of northward kinetic energy flux",
	"Vertical integral of northward mass flux",
	"Vertical integral of northward ozone flux",
	"Vertical integral of northward total energy flux",
	"Vertical integral of northward water vapour flux",
	"Vertical integral of potential and internal energy",
	"Vertical integral of potential, internal and latent energy",
	"Vertical integral of temperature",
	"Vertical integral of thermal energy",
	"Vertical integral of total energy",
	"Vertically integrated moisture divergence",
	"Leaf area index, high vegetation",
	"Leaf area index, low vegetation",
	"Air density over the oceans",
	"Altimeter corrected wave height",
	"Altimeter wave height",
	"Coefficient of drag with waves",
	"Free convective velocity over the oceans",
	"Maximum individual wave height",
	"Mean direction of total swell",
	"Mean direction of wind waves",
	"Mean period of total swell",
	"Mean period of wind waves",
	"Mean square slope of waves",
	"Mean wave direction",
	"Mean wave direction of first swell partition",
	"Mean wave direction of second swell partition",
	"Mean wave direction of third swell partition",
	"Mean wave period",
	"Mean wave period based on first moment",
	"Mean wave period based on first moment for swell",
	"Mean wave period based on first moment for wind waves",
	"Mean wave period based on second moment for swell",
	"Mean wave period based on second moment for wind waves",
	"Mean wave period of first swell partition",
	"Mean wave period of second swell partition",
	"Mean wave period of third swell partition",
	"Mean zero-crossing wave period",
	"Normalized energy flux into ocean",
	"Normalized energy flux into waves",
	"Normalized stress into ocean",
	"Ocean surface stress equivalent 10m neutral wind direction",
	"Ocean surface stress equivalent 10m neutral wind speed",
	"Peak wave period",
	"Period corresponding to maximum individual wave height",
	"Significant height of combined wind waves and swell",
	"Significant height of total swell",
	"Significant height of wind waves",
	"Significant wave height of first swell partition",
	"Significant wave height of second swell partition",
	"Significant wave height of third swell partition",
	"Wave spectral directional width",
	"Wave spectral directional width for swell",
	"Wave spectral directional width for wind waves",
	"Wave spectral kurtosis",
	"Wave spectral peakedness",
	"Wave spectral skewness",
	"Altimeter range relative correction",
	"Benjamin-feir index",
	"Boundary layer dissipation",
	"Boundary layer height",
	"Charnock",
	"Convective available potential energy",
	"Convective inhibition",
	"Duct base height",
	"Eastward gravity wave surface stress",
	"Eastward turbulent surface stress",
	"Forecast albedo",
	"Forecast surface roughness",
	"Friction velocity",
	"Gravity wave dissipation",
	"Instantaneous eastward turbulent surface stress",
	"Instantaneous moisture flux",
	"Instantaneous northward turbulent surface stress",
	"K index",
	"Mean vertical gradient of refractivity inside trapping layer",
	"Minimum vertical gradient of refractivity inside trapping layer",
	"Model bathymetry",
	"Northward gravity wave surface stress",
	"Northward turbulent surface stress",
	"Sea-ice cover",
	"Skin reservoir content",
	"Total column ozone",
	"Total column supercooled liquid water",
	"Total column water",
	"Total column water vapour",
	"Total totals index",
	"Trapping layer base height",
	"Trapping layer top height",
	"U-component stokes drift",
	"V-component stokes drift",
	"Zero degree level",
}

var pressureLevelLabels = []string{
	"Divergence",
	"Fraction of cloud cover",
	"Geopotential",
	"Ozone mass mixing ratio",
	"Potential vorticity",
	"Relative humidity",
	"Specific cloud ice water content",
	"Specific cloud liquid water content",
	"Specific humidity",
	"Specific rain water content",
	"Specific snow water content",
	"Temperature",
	"U-component of wind",
	"V-component of wind",
	"Vertical velocity",
	"Vorticity (relative)",
}

var landLabels = []string{
	"2m dewpoint temperature",
	"2m temperature",
	"Skin temperature",
	"Soil temperature level 1",
	"Soil temperature level 2",
	"Soil temperature level 3",
	"Soil temperature level 4",
	"Lake bottom temperature",
	"Lake ice depth",
	"Lake ice temperature",
	"Lake mix-layer depth",
	"Lake mix-layer temperature",
	"Lake shape factor",
	"Lake total layer temperature",
	"Snow albedo",
	"Snow cover",
	"Snow density",
	"Snow depth",
	"Snow depth water equivalent",
	"Snowfall",
	"Snowmelt",
	"Temperature of snow layer",
	"Skin reservoir content",
	"Volumetric soil water layer 1",
	"Volumetric soil water layer 2",
	"Volumetric soil water layer 3",
	"Volumetric soil water layer 4",
	"Forecast albedo",
	"Surface latent heat flux",
	"Surface net solar radiation",
	"Surface net thermal radiation",
	"Surface sensible heat flux",
	"Surface solar radiation downwards",
	"Surface thermal radiation downwards",
	"Evaporation from bare soil",
	"Evaporation from open water surfaces excluding oceans",
	"Evaporation from the top of canopy",
	"Evaporation from vegetation transpiration",
	"Potential evaporation",
	"Runoff",
	"Snow evaporation",
	"Sub-surface runoff",
	"Surface runoff",
	"Total evaporation",
	"10m u-component of wind",
	"10m v-component of wind",
	"Surface pressure",
	"Total precipitation",
	"Leaf area index, high vegetation",
	"Leaf area index, low vegetation",
}
