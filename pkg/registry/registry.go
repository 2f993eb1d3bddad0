// pkg/registry/registry.go
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrNotHeld is returned when removing a hold that does not exist
var ErrNotHeld = errors.New("package is not held")

// Hold keeps a package out of bulk upgrades
type Hold struct {
	ID     string    `toml:"id" json:"id"`
	Reason string    `toml:"reason,omitempty" json:"reason,omitempty"`
	Since  time.Time `toml:"since" json:"since"`
}

type holdsFile struct {
	Holds []Hold `toml:"hold"`
}

// Registry is the set of held package ids backed by a TOML file.
// It is not safe for concurrent use.
type Registry struct {
	path  string
	holds []Hold
}

// Load reads the holds file at path. A missing file is an empty registry.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path}
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("registry: reading %s: %w", path, err)
	}

	var f holdsFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("registry: failed to parse %s: %w", path, err)
	}

	for _, h := range f.Holds {
		h.ID = strings.TrimSpace(h.ID)
		if h.ID == "" {
			continue
		}
		r.holds = append(r.holds, h)
	}
	return r, nil
}

// IsHeld reports whether id is held. winget ids are case-insensitive.
func (r *Registry) IsHeld(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Get returns the hold for id
func (r *Registry) Get(id string) (Hold, bool) {
	for _, h := range r.holds {
		if strings.EqualFold(h.ID, id) {
			return h, true
		}
	}
	return Hold{}, false
}

// Add holds id, replacing the reason of an existing hold
func (r *Registry) Add(id, reason string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("registry: package id is required")
	}

	for i, h := range r.holds {
		if strings.EqualFold(h.ID, id) {
			r.holds[i].Reason = reason
			return nil
		}
	}
	r.holds = append(r.holds, Hold{ID: id, Reason: reason, Since: time.Now().UTC().Truncate(time.Second)})
	return nil
}

// Remove releases the hold on id
func (r *Registry) Remove(id string) error {
	for i, h := range r.holds {
		if strings.EqualFold(h.ID, id) {
			r.holds = append(r.holds[:i], r.holds[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("registry: %s: %w", id, ErrNotHeld)
}

// List returns the holds sorted by id
func (r *Registry) List() []Hold {
	out := make([]Hold, len(r.holds))
	copy(out, r.holds)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].ID) < strings.ToLower(out[j].ID)
	})
	return out
}

// Save writes the registry back to its file
func (r *Registry) Save() error {
	if r.path == "" {
		return fmt.Errorf("registry: no holds file configured")
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("registry: creating directory: %w", err)
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("registry: writing %s: %w", r.path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(holdsFile{Holds: r.List()}); err != nil {
		return fmt.Errorf("registry: encoding holds: %w", err)
	}
	return nil
}
