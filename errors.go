package pgchain

var (
	// ErrArgumentMismatch occurs when a template's ? slots and values differ in
	// number, or a $placeholder has no argument during interpolation.
	ErrArgumentMismatch = NewError("mismatch between ? slots and arguments")
	// ErrInvalidFragment occurs when a keyword is given something other than a
	// template string or a *Chain.
	ErrInvalidFragment = NewError("fragment must be a template string or a *Chain")
	// ErrNotUTF8 ...
	ErrNotUTF8 = NewError("invalid UTF-8")
	// ErrInvalidSliceLength ...
	ErrInvalidSliceLength = NewError("length of slice is 0. length must be >= 1")
	// ErrInvalidSliceValue ...
	ErrInvalidSliceValue = NewError("trying to interpolate invalid slice value into query")
	// ErrInvalidValue ...
	ErrInvalidValue = NewError("trying to interpolate invalid value into query")
	// ErrNotFound is returned by runners when a query returns no rows.
	ErrNotFound = NewError("not found")
	// ErrTimedout occurs when a query times out.
	ErrTimedout = NewError("query timed out")
	// ErrInvalidOperation occurs when an invalid operation occurs like cancelling
	// a query that never started.
	ErrInvalidOperation = NewError("invalid operation")
)

// Error are errors returned by pgchain.
type Error struct {
	Code    int
	Message string
}

// Error returns the enclosed error message.
func (de *Error) Error() string {
	return de.Message
}

// NewError creates a new pgchain Error.
func NewError(msg string) error {
	return &Error{Message: msg}
}
