package zone

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a JSON array of zones as supplied by the surrounding
// application. Geometry is validated when the zones are inserted into a Store.
func Decode(r io.Reader) ([]Zone, error) {
	var zones []Zone
	if err := json.NewDecoder(r).Decode(&zones); err != nil {
		return nil, fmt.Errorf("failed to decode zones: %w", err)
	}
	return zones, nil
}

// Encode writes zones as an indented JSON array.
func Encode(w io.Writer, zones []Zone) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(zones)
}

// LoadFile decodes zones from a JSON file.
func LoadFile(path string) ([]Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zones: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
