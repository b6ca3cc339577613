package frame

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is an immutable, ordered set of frames.
type Catalog struct {
	frames []Frame
	byID   map[string]int
}

type catalogFile struct {
	Frames []Frame `yaml:"frames"`
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(catalogYAML)
})

// Default returns the built-in catalog. It panics if the embedded document is
// invalid, which can only happen at development time.
func Default() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic(fmt.Sprintf("frame: embedded catalog: %v", err))
	}
	return c
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Frames) == 0 {
		return nil, fmt.Errorf("catalog has no frames")
	}
	c := &Catalog{byID: make(map[string]int, len(f.Frames))}
	for i, fr := range f.Frames {
		if err := validate(fr); err != nil {
			return nil, fmt.Errorf("frame %d (%s): %w", i, fr.ID, err)
		}
		if _, dup := c.byID[fr.ID]; dup {
			return nil, fmt.Errorf("frame %d: duplicate id %q", i, fr.ID)
		}
		c.byID[fr.ID] = len(c.frames)
		c.frames = append(c.frames, fr)
	}
	return c, nil
}

func validate(f Frame) error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("missing id")
	}
	switch f.Shots {
	case 1, 2, 4:
	default:
		return fmt.Errorf("shots must be 1, 2 or 4, got %d", f.Shots)
	}
	switch f.Category {
	case CategoryNormal, CategorySpecial:
	default:
		return fmt.Errorf("unknown category %q", f.Category)
	}
	switch f.Layout {
	case LayoutVertical:
	case LayoutGrid:
		if f.Shots%gridColumns != 0 {
			return fmt.Errorf("grid layout needs a multiple of %d shots", gridColumns)
		}
	default:
		return fmt.Errorf("unknown layout %q", f.Layout)
	}
	if a := f.Style.SlotAspect; len(a) != 2 || a[0] <= 0 || a[1] <= 0 {
		return fmt.Errorf("slot_aspect must be two positive numbers")
	}
	if len(f.Style.Background) == 0 || len(f.Style.Background) > 2 {
		return fmt.Errorf("background needs one or two colours")
	}
	if _, err := f.Style.BackgroundColors(); err != nil {
		return err
	}
	if f.Style.BorderColor != "" {
		if _, err := ParseHex(f.Style.BorderColor); err != nil {
			return err
		}
	}
	return nil
}

// All returns the frames in catalog order.
func (c *Catalog) All() []Frame {
	out := make([]Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

// Len returns the number of frames.
func (c *Catalog) Len() int { return len(c.frames) }

// Lookup finds a frame by id.
func (c *Catalog) Lookup(id string) (Frame, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Frame{}, false
	}
	return c.frames[i], true
}

// Suggest returns the catalog id closest to id, if any is close enough to be
// a plausible typo.
func (c *Catalog) Suggest(id string) (string, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, f := range c.frames {
		d := levenshtein.ComputeDistance(id, f.ID)
		if bestDist < 0 || d < bestDist {
			best, bestDist = f.ID, d
		}
	}
	limit := len(id) / 3
	if limit < 3 {
		limit = 3
	}
	if bestDist > limit {
		return "", false
	}
	return best, true
}
