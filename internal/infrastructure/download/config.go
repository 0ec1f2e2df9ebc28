package download

const (
	TargetNone  = "none"
	TargetLocal = "local"
	TargetMinIO = "minio"
)

type Config struct {
	Target    string `yaml:"target"`
	Directory string `yaml:"directory"`
}
