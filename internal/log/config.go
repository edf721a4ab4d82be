package log

// Config controls the global logger behaviour.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `conf:"level" yaml:"level" json:"level"`

	// Format is one of json, console.
	Format string `conf:"format" yaml:"format" json:"format"`

	// Output is one of stdout, stderr, file.
	Output string `conf:"output" yaml:"output" json:"output"`

	// File configures the rotating log file, used when Output is file.
	File FileConfig `conf:"file" yaml:"file" json:"file"`
}

// FileConfig configures log rotation via lumberjack.
type FileConfig struct {
	Path       string `conf:"path" yaml:"path" json:"path"`
	MaxSizeMB  int    `conf:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `conf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `conf:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `conf:"compress" yaml:"compress" json:"compress"`
}

func (c Config) withDefaults() Config {
	if c.Level == "" {
		c.Level = "info"
	}

	if c.Format == "" {
		c.Format = "json"
	}

	if c.Output == "" {
		c.Output = "stdout"
	}

	if c.Output == "file" && c.File.Path == "" {
		c.File.Path = "bestkitchennet.log"
	}

	return c
}
