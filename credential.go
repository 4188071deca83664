package litquiz

import (
	"fmt"
	"strings"
)

// ValidateCredential checks the shape of a key before any network call is
// made. It only catches obvious typos; the provider decides whether the key
// is actually valid.
func ValidateCredential(credential, prefix string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return ErrMissingCredential
	}
	if prefix != "" && !strings.HasPrefix(credential, prefix) {
		return fmt.Errorf("%w (should start with %q)", ErrInvalidCredential, prefix)
	}
	return nil
}
