package prototype

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Registry.Create when no prototype is registered
// under the requested name.
type ErrNotFound struct {
	Name string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("prototype %q not found", e.Name)
}

// IsNotFound reports whether err is, or wraps, an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
