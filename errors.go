package ringbuf

// Status codes
const (
	ErrCodeOK       = 0
	ErrCodeParams   = 1
	ErrCodeOverflow = 2
)

func NewError(text string, code int) error {
	return Error{text, code}
}

type Error struct {
	s    string
	code int
}

func (e Error) Error() string {
	return e.s
}

func (e Error) Code() int {
	return e.code
}

var (
	// ErrParams is returned for an unbound buffer, a nil data slice or a
	// slice whose length is not a multiple of the cell size
	ErrParams = NewError("ringbuf: invalid parameter or unbound buffer", ErrCodeParams)
	// ErrOverflow is returned when a single transfer is longer than the
	// total buffer capacity
	ErrOverflow = NewError("ringbuf: transfer length exceeds buffer capacity", ErrCodeOverflow)
)
