package content

import "github.com/rotisserie/eris"

// ErrStoreUnavailable indicates a transport or backend failure against a real
// store. The resilient repository recovers it locally; it never reaches a
// visitor-facing read path.
var ErrStoreUnavailable = eris.New("content store unavailable")

// ErrNotFound indicates the identified item is absent from the store.
var ErrNotFound = eris.New("content item not found")

// IsStoreUnavailable reports whether err wraps ErrStoreUnavailable.
func IsStoreUnavailable(err error) bool {
	return eris.Is(err, ErrStoreUnavailable)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return eris.Is(err, ErrNotFound)
}
