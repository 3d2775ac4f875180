package catalog

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridcanvas/pkg/errors"
)

// file is the on-disk catalog layout:
//
//	[[widget]]
//	id = "revenue"
//	min_width_px = 120
//	min_height_px = 100
//	preferred = { width = 250, height = 300 }
//	aspect_ratio = 0.8333
//	lock_aspect_ratio = false
//	required_entities = ["orders"]
//
//	[widget.params]
//	title = "Revenue"
type file struct {
	Widgets []Entry `toml:"widget"`
}

// LoadFile reads a TOML catalog from path.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "catalog file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read catalog %s", path)
	}
	return Parse(data)
}

// Parse decodes a TOML catalog and validates every entry.
func Parse(data []byte) (*Memory, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode catalog")
	}
	seen := make(map[string]bool, len(f.Widgets))
	for _, e := range f.Widgets {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if seen[e.ID] {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "duplicate catalog id %q", e.ID)
		}
		seen[e.ID] = true
	}
	return NewMemory(f.Widgets...), nil
}
