package nav

import (
	"fmt"
	"time"
)

// TimeoutError reports a screen condition that never appeared. The session
// stays usable.
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	Polls     int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Condition)
}

// IndexError reports a menu position outside the visible entries.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("menu entry %d out of range (menu has %d entries)", e.Index, e.Len)
}
