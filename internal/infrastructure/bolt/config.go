package bolt

type Config struct {
	Path    string `yaml:"path"`
	Timeout int64  `yaml:"timeout_in_ms"`
	NoSync  bool   `yaml:"no_sync"`
}
