package signing

import (
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// Recognised key.properties entries.
const (
	KeyStoreFile     = "storeFile"
	KeyStorePassword = "storePassword"
	KeyAlias         = "keyAlias"
	KeyPassword      = "keyPassword"
)

const (
	StatusSet   = "set"
	StatusUnset = "unset"

	redacted = "******"
)

// Credentials is the material needed to sign a release artifact.
// A nil field means the key was absent from the properties file; a present
// key with an empty value is a non-nil empty string.
type Credentials struct {
	StoreFile     *string
	StorePassword *string
	KeyAlias      *string
	KeyPassword   *string
}

// FromValues picks the recognised keys out of a parsed properties map.
// Unrecognised keys are ignored.
func FromValues(values map[string]string) Credentials {
	return Credentials{
		StoreFile:     lookup(values, KeyStoreFile),
		StorePassword: lookup(values, KeyStorePassword),
		KeyAlias:      lookup(values, KeyAlias),
		KeyPassword:   lookup(values, KeyPassword),
	}
}

func lookup(values map[string]string, key string) *string {
	v, ok := values[key]
	if !ok {
		return nil
	}
	return &v
}

// Value dereferences an optional field, returning "" when unset.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}

// Status reports whether an optional field was provided, without exposing it.
func Status(field *string) string {
	if field == nil {
		return StatusUnset
	}
	return StatusSet
}

// Missing lists the recognised keys absent from the file, in declaration order.
func (c Credentials) Missing() []string {
	var missing []string
	for _, f := range c.fields() {
		if f.value == nil {
			missing = append(missing, f.key)
		}
	}
	return missing
}

// Complete reports whether all four keys were provided.
func (c Credentials) Complete() bool {
	return len(c.Missing()) == 0
}

// Validate is the strict check: one ErrIncompleteCredentials per missing key.
// Loading never calls it.
func (c Credentials) Validate() error {
	var err error
	for _, key := range c.Missing() {
		err = multierr.Append(err, fmt.Errorf("%w: %s is not set", ErrIncompleteCredentials, key))
	}
	return err
}

// ResolveStoreFile resolves the keystore path against the app module
// directory. Absolute paths are returned unchanged; "" means unset.
func (c Credentials) ResolveStoreFile(moduleDir string) string {
	if c.StoreFile == nil || *c.StoreFile == "" {
		return ""
	}
	path := *c.StoreFile
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(moduleDir, path)
}

// MarshalLogObject logs the credentials with both passwords masked.
func (c Credentials) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString(KeyStoreFile, Value(c.StoreFile))
	enc.AddString(KeyStorePassword, mask(c.StorePassword))
	enc.AddString(KeyAlias, Value(c.KeyAlias))
	enc.AddString(KeyPassword, mask(c.KeyPassword))
	return nil
}

func mask(field *string) string {
	if field == nil {
		return StatusUnset
	}
	return redacted
}

type credentialField struct {
	key   string
	value *string
}

func (c Credentials) fields() []credentialField {
	return []credentialField{
		{key: KeyStoreFile, value: c.StoreFile},
		{key: KeyStorePassword, value: c.StorePassword},
		{key: KeyAlias, value: c.KeyAlias},
		{key: KeyPassword, value: c.KeyPassword},
	}
}
