package log

// Config is the configuration struct for the log package.
//
// Can be deserialized from YAML.
type Config struct {
	// Level is the log level. Defaults to info.
	Level Level `yaml:"level"`

	// JSON switches the output to the json encoder.
	JSON bool `yaml:"json"`
}

// InitFromConfig initializes the global logger using the given Config.
func InitFromConfig(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = InfoLevel
	}
	if cfg.JSON {
		InitLoggerJSON(cfg.Level)
		return
	}
	InitLogger(cfg.Level)
}
