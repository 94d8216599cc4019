package signing

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyPropertiesMissing is matched by errors returned when the key
	// properties file does not exist at the expected location.
	ErrKeyPropertiesMissing = errors.New("key properties file is missing")
	// ErrIncompleteCredentials is returned by Validate when recognised keys are absent.
	ErrIncompleteCredentials = errors.New("signing credentials are incomplete")
)

// MissingFileError reports the expected location of an absent key properties file.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not found at %s: release signing requires %s, %s, %s and %s entries",
		DefaultPath, e.Path, KeyStoreFile, KeyStorePassword, KeyAlias, KeyPassword)
}

// Is makes errors.Is(err, ErrKeyPropertiesMissing) succeed.
func (e *MissingFileError) Is(target error) bool {
	return target == ErrKeyPropertiesMissing
}
