package seams

// Kind classifies a domain error. There are exactly two kinds and both
// are terminal: the service raises on the first violated precondition
// and nothing inside the core retries or recovers.
type Kind int

const (
	// KindInput means a semantically invalid argument: bad id, bad
	// length, bad format, duplicate.
	KindInput Kind = iota
	// KindAccess means the token failed validation, or the identified
	// user lacks permission for the requested mutation.
	KindAccess
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewInputError(msg string) *Error {
	return &Error{Kind: KindInput, Message: msg}
}

func NewAccessError(msg string) *Error {
	return &Error{Kind: KindAccess, Message: msg}
}
