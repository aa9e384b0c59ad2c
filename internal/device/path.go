package device

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an unusable device path.
type ConfigurationError struct {
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid device path %q: %s", e.Path, e.Reason)
}

// SplitPath breaks a device path such as /Usb0/Games/game.prg into its
// segments. The first segment names the storage device and at least one more
// must follow.
func SplitPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &ConfigurationError{Path: path, Reason: "empty"}
	}
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return nil, &ConfigurationError{Path: path, Reason: "expected /<device>/<file>"}
	}
	return parts, nil
}
