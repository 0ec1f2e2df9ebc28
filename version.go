package mediavault

import "fmt"

var (
	major = 0
	minor = 3
	patch = 0
	meta  = "beta"
)

func StringVersion() string {
	v := fmt.Sprintf("%d.%d.%d", major, minor, patch)

	if meta != "" {
		v = fmt.Sprintf("%s-%s", v, meta)
	}

	return v
}
