package propfile

import (
	"fmt"
	"os"

	"github.com/magiconair/properties"
)

// Read loads the properties file at path into a key/value map.
// A missing file is reported with an error matching fs.ErrNotExist.
func Read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	values, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// Parse decodes properties content. Later duplicates of a key replace earlier
// ones, and comment and blank lines are skipped.
func Parse(data []byte) (map[string]string, error) {
	loader := properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}

	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	return props.Map(), nil
}
