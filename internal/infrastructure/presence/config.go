package presence

type Config struct {
	// Window is how long after its last heartbeat a surface counts as busy.
	Window int64 `yaml:"window_in_ms"`
}
