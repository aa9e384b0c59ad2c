package device

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidREUSize is returned for sizes the device does not offer.
var ErrInvalidREUSize = errors.New("invalid REU size")

var (
	reuKilobytes = []int{128, 256, 512}
	reuMegabytes = []int{1, 2, 4, 8, 16}

	reuUnits   = map[string]map[int]string{"k": {}, "m": {}}
	reuByBytes = map[int]string{}
)

func init() {
	for _, kb := range reuKilobytes {
		label := fmt.Sprintf("%d KB", kb)
		reuUnits["k"][kb] = label
		reuByBytes[kb*1024] = label
		reuByBytes[kb*1000] = label
	}
	for _, mb := range reuMegabytes {
		label := fmt.Sprintf("%d MB", mb)
		reuUnits["m"][mb] = label
		reuByBytes[mb*1024*1024] = label
		reuByBytes[mb*1000*1000] = label
		reuByBytes[mb*1024*1000] = label
	}
}

// REUDisabled reports whether size asks for the unit to be switched off.
func REUDisabled(size string) bool {
	switch strings.ToLower(strings.TrimSpace(size)) {
	case "0", "none", "off", "disabled":
		return true
	}
	return false
}

// ParseREUSize maps spellings like "512k", "512 KB", "16M" or a byte count to
// the label the settings menu shows, such as "512 KB" or "16 MB".
func ParseREUSize(size string) (string, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(size), " ", ""))
	if n, err := strconv.Atoi(s); err == nil {
		if label, ok := reuByBytes[n]; ok {
			return label, nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidREUSize, size)
	}
	s = strings.TrimSuffix(s, "b")
	if s == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidREUSize, size)
	}
	unit := s[len(s)-1:]
	table, ok := reuUnits[unit]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidREUSize, size)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidREUSize, size)
	}
	label, ok := table[n]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidREUSize, size)
	}
	return label, nil
}
