package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagSeed        = flag.Int64("seed", 0, "Terrain seed (0 keeps the configured seed)")
	flagRadius      = flag.Int("radius", -1, "Render distance in chunks")
	flagMetricsAddr = flag.String("metrics-addr", "", "Prometheus listen address, e.g. :2112")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagRadius >= 0 {
		cfg.World.RenderDistance = *flagRadius
	}
	if *flagMetricsAddr != "" {
		cfg.Metrics.ListenAddr = *flagMetricsAddr
	}
}
