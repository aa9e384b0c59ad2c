package vt

import "fmt"

// Kind discriminates the token variants.
type Kind int

const (
	// KindEnd means the source has no more bytes available right now.
	KindEnd Kind = iota
	// KindChar carries one printable (possibly line-drawing) character.
	KindChar
	// KindSequence carries a decoded control sequence.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindEnd:
		return "end"
	case KindChar:
		return "char"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token is the decoder's output. Exactly one of Char or Seq is meaningful,
// selected by Kind.
type Token struct {
	Kind Kind
	Char rune
	Seq  Sequence
}

// End is the end-of-stream token.
var End = Token{Kind: KindEnd}

// Char wraps a character.
func Char(r rune) Token {
	return Token{Kind: KindChar, Char: r}
}

// Seq wraps a control sequence.
func Seq(s Sequence) Token {
	return Token{Kind: KindSequence, Seq: s}
}

func (t Token) String() string {
	switch t.Kind {
	case KindChar:
		return fmt.Sprintf("%q", t.Char)
	case KindSequence:
		return t.Seq.String()
	default:
		return t.Kind.String()
	}
}
