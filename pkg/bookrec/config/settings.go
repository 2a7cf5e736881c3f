package config

// Reconstruction settings keys and defaults. Everything has a working
// default; a config file only overrides.
const (
	// DefaultLogPath is read when no input path is given.
	DefaultLogPath = "logs/tvlsim.log"

	// DefaultWindowSize bounds the correlation search, in lines.
	DefaultWindowSize = 50

	// DefaultProgressInterval is how many lines pass between progress logs.
	DefaultProgressInterval = 10000

	// Demand classification thresholds: HIGH at or above the high
	// threshold, MEDIUM at or above the medium one, LOW below.
	DefaultDemandHigh   = 20
	DefaultDemandMedium = 10
)

// defaultFareClasses is the availability class set known a priori.
var defaultFareClasses = []string{"Y", "B", "M"}

// LogPath returns the input log path.
func (c Config) LogPath() string {
	return c.String("log_path", DefaultLogPath)
}

// WindowSize returns the correlation window size in lines.
func (c Config) WindowSize() int {
	return c.Int("window_size", DefaultWindowSize)
}

// FareClasses returns the availability class set.
func (c Config) FareClasses() []string {
	return c.StringSlice("fare_classes", defaultFareClasses)
}

// ProgressInterval returns the progress-log interval in lines.
func (c Config) ProgressInterval() int {
	return c.Int("progress_interval", DefaultProgressInterval)
}

// DemandHigh returns the booking count at which demand classifies HIGH.
func (c Config) DemandHigh() int {
	return c.Int("demand_high", DefaultDemandHigh)
}

// DemandMedium returns the booking count at which demand classifies MEDIUM.
func (c Config) DemandMedium() int {
	return c.Int("demand_medium", DefaultDemandMedium)
}

// DBPath returns the SQLite store path, empty when persistence is off.
func (c Config) DBPath() string {
	return c.String("db_path", "")
}

// RejectInFlight reports whether a nested request aborts the scan
// instead of replacing the in-flight record.
func (c Config) RejectInFlight() bool {
	return c.Bool("reject_in_flight", false)
}
