// pkg/history/history.go
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arc-language/wupd/pkg/winget"
	"github.com/ulikunitz/xz"
)

const (
	fileSuffix = ".jsonl.xz"
	// colon-free so the names are valid on Windows; sorts chronologically
	timeLayout = "20060102T150405.000000000Z"
)

// Batch is one archived upgrade run
type Batch struct {
	Started  time.Time        `json:"started"`
	Finished time.Time        `json:"finished"`
	Outcomes []winget.Outcome `json:"-"`
}

// Store archives batches as xz-compressed JSON Lines, one file per batch.
// The first line holds the batch times, each following line one outcome.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Record archives b and returns the path written
func (s *Store) Record(b Batch) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("creating history directory: %w", err)
	}

	name := b.Started.UTC().Format(timeLayout) + fileSuffix
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("creating history file: %w", err)
	}

	if err := writeBatch(f, b); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("finalizing history file: %w", err)
	}
	return path, nil
}

func writeBatch(w io.Writer, b Batch) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}

	enc := json.NewEncoder(xw)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}
	for _, o := range b.Outcomes {
		if err := enc.Encode(o); err != nil {
			return fmt.Errorf("encoding outcome: %w", err)
		}
	}
	return xw.Close()
}

// List returns up to limit batches, newest first. limit <= 0 means all.
func (s *Store) List(limit int) ([]Batch, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), fileSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	batches := make([]Batch, 0, len(names))
	for _, name := range names {
		b, err := readBatch(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		batches = append(batches, b)
	}
	return batches, nil
}

func readBatch(path string) (Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return Batch{}, fmt.Errorf("creating xz reader: %w", err)
	}

	dec := json.NewDecoder(xr)
	var b Batch
	if err := dec.Decode(&b); err != nil {
		return Batch{}, fmt.Errorf("decoding batch: %w", err)
	}
	for {
		var o winget.Outcome
		if err := dec.Decode(&o); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Batch{}, fmt.Errorf("decoding outcome: %w", err)
		}
		b.Outcomes = append(b.Outcomes, o)
	}
	return b, nil
}
