package mapfile

import (
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

// ParseFile memory-maps path and parses it.
func ParseFile(path string) (*Map, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer func() { _ = reader.Close() }()

	m, err := Parse(io.NewSectionReader(reader, 0, int64(reader.Len())))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
