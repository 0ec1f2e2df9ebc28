package logger

type Config struct {
	Level      string   `yaml:"level"`
	Targets    []string `yaml:"targets"`
	Colorful   bool     `yaml:"colorful"`
	Filename   string   `yaml:"filename"`
	MaxSize    int      `yaml:"max_size_in_mb"`
	MaxBackups int      `yaml:"max_backups"`
	MaxAge     int      `yaml:"max_age_in_days"`
	Compress   bool     `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Targets:    []string{"console"},
		Colorful:   true,
		Filename:   "mediavault.log",
		MaxSize:    10,
		MaxBackups: 10,
		MaxAge:     28,
		Compress:   true,
	}
}
