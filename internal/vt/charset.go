package vt

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DefaultCharset is the name of the character set the device console uses.
const DefaultCharset = "iso-8859-1"

var charsets = map[string]*charmap.Charmap{
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"latin9":       charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
}

// LookupCharset returns the single-byte character set for name, ignoring case.
// An empty name selects DefaultCharset.
func LookupCharset(name string) (*charmap.Charmap, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultCharset
	}
	if cm, ok := charsets[name]; ok {
		return cm, nil
	}
	return nil, fmt.Errorf("unknown charset %q (want one of %s)", name, strings.Join(CharsetNames(), ", "))
}

// CharsetNames lists the accepted charset names in order.
func CharsetNames() []string {
	names := make([]string, 0, len(charsets))
	for name := range charsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithCharset decodes bytes of the normal character set through cm. A nil cm
// keeps the default.
func WithCharset(cm *charmap.Charmap) Option {
	return func(d *Decoder) {
		if cm != nil {
			d.charset = cm
		}
	}
}
