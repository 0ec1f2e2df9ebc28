package fetcher

type Config struct {
	Timeout  int64 `yaml:"timeout_in_ms"`
	Attempts uint  `yaml:"attempts"`
	MaxSize  int64 `yaml:"max_size_in_bytes"`
}
