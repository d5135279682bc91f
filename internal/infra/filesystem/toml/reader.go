package toml

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Reader handles file reading operations
type Reader struct{}

// NewReader creates a new filesystem reader
func NewReader() *Reader {
	return &Reader{}
}

// ReadTOML reads and unmarshals TOML from a file.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func (r *Reader) ReadTOML(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := toml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal TOML: %w", err)
	}

	return nil
}
