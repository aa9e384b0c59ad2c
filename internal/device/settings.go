package device

import (
	"github.com/atomicstack/ultimate-control/internal/logging/events"
	"github.com/atomicstack/ultimate-control/internal/nav"
)

const (
	valueEnabled  = "Enabled"
	valueDisabled = "Disabled"
)

var (
	reuEnabledPath       = []string{"C64 and cartridge settings", "RAM Expansion Unit"}
	reuSizePath          = []string{"C64 and cartridge settings", "REU Size"}
	commandInterfacePath = []string{"C64 and cartridge settings", "Command Interface"}
)

// SetREUEnabled switches the RAM expansion unit on or off.
func (s *Session) SetREUEnabled(enabled bool) error {
	return s.SetSetting(reuEnabledPath, onOff(enabled))
}

// SetREUSize selects the RAM expansion size. See ParseREUSize for accepted
// spellings.
func (s *Session) SetREUSize(size string) error {
	value, err := ParseREUSize(size)
	if err != nil {
		return err
	}
	return s.SetSetting(reuSizePath, value)
}

// ConfigureREU disables the unit for sizes like "0" or "off", and otherwise
// enables it and sets the size.
func (s *Session) ConfigureREU(size string) error {
	if REUDisabled(size) {
		return s.SetREUEnabled(false)
	}
	value, err := ParseREUSize(size)
	if err != nil {
		return err
	}
	if err := s.SetREUEnabled(true); err != nil {
		return err
	}
	return s.SetSetting(reuSizePath, value)
}

// SetCommandInterfaceEnabled switches the command interface on or off.
func (s *Session) SetCommandInterfaceEnabled(enabled bool) error {
	return s.SetSetting(commandInterfacePath, onOff(enabled))
}

// SetSetting walks path inside the settings menu and picks value.
func (s *Session) SetSetting(path []string, value string) error {
	n, err := s.Navigator()
	if err != nil {
		return err
	}
	events.Session.Setting(s.ID, path, value)
	if err := n.GoHome(); err != nil {
		return err
	}
	if err := n.EnterSettings(); err != nil {
		return err
	}
	for _, label := range append(append([]string(nil), path...), value) {
		if err := n.SelectByLabel(label, nav.ConfirmReturn); err != nil {
			return err
		}
	}
	return n.LeaveSettings()
}

func onOff(enabled bool) string {
	if enabled {
		return valueEnabled
	}
	return valueDisabled
}
