package signing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Hans-byte2/Hochzeitsapp/internal/propfile"
)

// DefaultPath is the key properties location relative to the Android project root.
const DefaultPath = "key.properties"

// Load reads signing credentials from the properties file at path.
// A missing file yields a *MissingFileError naming path; missing individual
// keys leave the corresponding fields nil.
func Load(path string) (Credentials, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, &MissingFileError{Path: path}
		}
		return Credentials{}, fmt.Errorf("stat key properties: %w", err)
	}
	if info.IsDir() {
		return Credentials{}, fmt.Errorf("key properties path %s is a directory", path)
	}

	values, err := propfile.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, &MissingFileError{Path: path}
		}
		return Credentials{}, fmt.Errorf("read key properties: %w", err)
	}

	return FromValues(values), nil
}

// LoadProject loads credentials from relPath under projectDir. An empty
// relPath means DefaultPath; an absolute relPath is used as is.
func LoadProject(projectDir, relPath string) (Credentials, error) {
	return Load(ProjectPath(projectDir, relPath))
}

// ProjectPath returns the key properties location LoadProject reads.
func ProjectPath(projectDir, relPath string) string {
	if relPath == "" {
		relPath = DefaultPath
	}
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(projectDir, relPath)
}
