// Package transport provides the byte links the console decoder reads from
// and the navigator writes key presses to.
package transport

// Conn is the capability the console needs from a device link. PollByte
// never blocks for long: ok is false when nothing is buffered right now.
type Conn interface {
	PollByte() (b byte, ok bool, err error)
	Write(p []byte) error
	Close() error
}
