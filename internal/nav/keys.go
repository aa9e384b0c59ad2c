package nav

import "github.com/charmbracelet/x/ansi"

// Key is a key press as sent to the device.
type Key string

const (
	KeyUp            Key = ansi.CUU1
	KeyDown          Key = ansi.CUD1
	KeyDescend       Key = ansi.CUF1
	KeyAscend        Key = ansi.CUB1
	KeyConfirm       Key = "\r"
	KeySettings      Key = "\x1b[12~"
	KeyLeaveSettings Key = "\x1b "
	KeyCancel        Key = "\x1b\x1b"
)

const (
	homePresses   = 8
	resetPresses  = 40
	cancelPresses = 10
)

var keyNames = map[Key]string{
	KeyUp:            "up",
	KeyDown:          "down",
	KeyDescend:       "right",
	KeyAscend:        "left",
	KeyConfirm:       "enter",
	KeySettings:      "f2",
	KeyLeaveSettings: "esc-space",
	KeyCancel:        "esc-esc",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "raw"
}

// Confirm picks the key that activates the entry under the cursor.
type Confirm int

const (
	// ConfirmAuto uses return inside a bordered menu and descend otherwise.
	ConfirmAuto Confirm = iota
	ConfirmReturn
	ConfirmDescend
)

// ParseConfirm maps "auto", "return" and "descend" to a Confirm.
func ParseConfirm(s string) (Confirm, bool) {
	switch s {
	case "", "auto":
		return ConfirmAuto, true
	case "return", "enter":
		return ConfirmReturn, true
	case "descend", "right":
		return ConfirmDescend, true
	}
	return ConfirmAuto, false
}

func (c Confirm) key(small bool) Key {
	switch c {
	case ConfirmReturn:
		return KeyConfirm
	case ConfirmDescend:
		return KeyDescend
	}
	if small {
		return KeyConfirm
	}
	return KeyDescend
}

// ParseKey maps a key name such as "down" or "f2" to its sequence.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return "", false
}
