package asyncshared

import (
	"github.com/go-faster/errors"
)

// ErrInvalidPointer reports a dereference through a pointer proxy
// whose lock token was released or moved away. It is always caller
// misuse, never a transient condition: it is raised at the point of
// dereference and is not retried. Value() panics with this error;
// Get() returns it wrapped with the proxy type's name, so a recovered
// panic value and a returned error both satisfy
// errors.Is(err, ErrInvalidPointer).
var ErrInvalidPointer = errors.New("invalid pointer: lock token was moved or released")
