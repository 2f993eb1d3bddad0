// wupd.go
package wupd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/arc-language/wupd/pkg/core"
	"github.com/arc-language/wupd/pkg/history"
	"github.com/arc-language/wupd/pkg/platform"
	"github.com/arc-language/wupd/pkg/registry"
	"github.com/arc-language/wupd/pkg/winget"
)

// Re-export winget types for convenience
type (
	PackageRecord = winget.PackageRecord
	Outcome       = winget.Outcome
	OutcomeKind   = winget.OutcomeKind
	Results       = winget.Results
	Package       = core.Package
)

// Re-export outcome kinds
const (
	Success         = winget.Success
	AlreadyUpToDate = winget.AlreadyUpToDate
	NeedsClose      = winget.NeedsClose
	NotFound        = winget.NotFound
	GenericFailure  = winget.GenericFailure
)

// Config holds configuration for the upgrade manager
type Config struct {
	// WingetPath is the winget executable; empty resolves it from the system
	WingetPath string

	// Source restricts winget to one source
	Source string

	IncludeUnknown   bool
	AcceptAgreements bool
	Silent           bool

	// Timeout per winget invocation
	Timeout time.Duration

	// Concurrency is the number of upgrades run at once
	Concurrency int

	// CachePath holds the process lock
	CachePath string

	// HoldsFile is the TOML holds registry
	HoldsFile string

	// HistoryDir is where batches are archived
	HistoryDir string

	// Debug enables debug logging
	Debug bool

	// Logger for custom logging
	Logger logrus.FieldLogger

	// Runner replaces process execution, mainly for tests
	Runner winget.Runner
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return FromCoreConfig(core.DefaultConfig())
}

// FromCoreConfig converts the on-disk configuration
func FromCoreConfig(c *core.Config) *Config {
	return &Config{
		WingetPath:       c.WingetPath,
		Source:           c.Source,
		IncludeUnknown:   c.IncludeUnknown,
		AcceptAgreements: c.AcceptAgreements,
		Silent:           c.Silent,
		Timeout:          c.Timeout,
		Concurrency:      c.Concurrency,
		CachePath:        c.CachePath,
		HoldsFile:        c.HoldsFile,
		HistoryDir:       c.HistoryDir,
		Debug:            c.Debug,
	}
}

// Manager lists and applies winget upgrades
type Manager struct {
	pm         *winget.PackageManager
	config     *Config
	holds      *registry.Registry
	history    *history.Store
	lock       *flock.Flock
	executable string
	logger     logrus.FieldLogger
}

var _ core.Upgrader = (*Manager)(nil)

// NewManager creates a manager, locating winget unless a Runner is supplied
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Ensure CachePath is set
	if config.CachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			config.CachePath = filepath.Join(os.TempDir(), "wupd")
		} else {
			config.CachePath = filepath.Join(home, ".cache", "wupd")
		}
	}
	if config.HistoryDir == "" {
		config.HistoryDir = filepath.Join(config.CachePath, "history")
	}

	logger := config.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	executable := config.WingetPath
	if config.Runner == nil {
		plat, err := platform.Detect(config.WingetPath)
		if err != nil {
			return nil, &Error{Op: "detect platform", Err: fmt.Errorf("%w: %v", ErrPlatformNotSupported, err)}
		}
		if !plat.Available {
			return nil, &Error{Op: "detect platform", Err: ErrBackendNotAvailable}
		}
		logger.WithField("platform", plat.String()).Debug("Detected platform")
		executable = plat.Winget
	}
	if executable == "" {
		executable = winget.DefaultExecutable
	}

	holds, err := registry.Load(config.HoldsFile)
	if err != nil {
		return nil, &Error{Op: "load holds", Err: err}
	}

	pm := winget.NewPackageManager(&winget.Config{
		Executable:       executable,
		Source:           config.Source,
		IncludeUnknown:   config.IncludeUnknown,
		AcceptAgreements: config.AcceptAgreements,
		Silent:           config.Silent,
		Timeout:          config.Timeout,
		Concurrency:      config.Concurrency,
		Runner:           config.Runner,
		Logger:           logger,
	})

	return &Manager{
		pm:         pm,
		config:     config,
		holds:      holds,
		history:    history.New(config.HistoryDir),
		lock:       flock.New(filepath.Join(config.CachePath, "wupd.lock")),
		executable: executable,
		logger:     logger,
	}, nil
}

// ListUpgrades returns upgradable packages. Held packages are left out unless
// opts.IncludeHeld is set.
func (m *Manager) ListUpgrades(ctx context.Context, opts *core.ListOptions) ([]core.Package, error) {
	if opts == nil {
		opts = &core.ListOptions{}
	}

	records, err := m.pm.List(ctx)
	if err != nil {
		return nil, &Error{Op: "list upgrades", Err: err}
	}

	pkgs := make([]core.Package, 0, len(records))
	for _, rec := range records {
		held := m.holds.IsHeld(rec.ID)
		if held && !opts.IncludeHeld {
			m.logger.WithField("id", rec.ID).Debug("Skipping held package")
			continue
		}
		pkgs = append(pkgs, core.Package{PackageRecord: rec, Held: held})
	}
	return pkgs, nil
}

// Upgrade upgrades ids as one batch under the process lock and archives the
// outcomes. Held ids are refused unless opts.Force is set.
func (m *Manager) Upgrade(ctx context.Context, ids []string, opts *core.UpgradeOptions) (winget.Results, error) {
	if opts == nil {
		opts = &core.UpgradeOptions{}
	}
	if len(ids) == 0 {
		return nil, &Error{Op: "upgrade", Err: fmt.Errorf("%w: no package ids given", ErrInvalidPackage)}
	}

	if !opts.Force {
		for _, id := range ids {
			if m.holds.IsHeld(strings.TrimSpace(id)) {
				return nil, &Error{Op: "upgrade", Package: id, Err: ErrHeld}
			}
		}
	}

	if err := os.MkdirAll(m.config.CachePath, 0755); err != nil {
		return nil, &Error{Op: "upgrade", Err: err}
	}
	locked, err := m.lock.TryLock()
	if err != nil {
		return nil, &Error{Op: "upgrade", Err: fmt.Errorf("acquiring lock: %w", err)}
	}
	if !locked {
		return nil, &Error{Op: "upgrade", Err: ErrLocked}
	}
	defer func() {
		if err := m.lock.Unlock(); err != nil {
			m.logger.WithError(err).Warn("Failed to release upgrade lock")
		}
	}()

	started := time.Now()
	results := m.pm.UpgradeAll(ctx, ids)

	path, err := m.history.Record(history.Batch{
		Started:  started,
		Finished: time.Now(),
		Outcomes: results,
	})
	if err != nil {
		// The upgrades already happened; losing the archive is not fatal
		m.logger.WithError(err).Warn("Failed to archive upgrade batch")
	} else {
		m.logger.WithField("path", path).Debug("Archived upgrade batch")
	}

	return results, nil
}

// Hold keeps id out of bulk upgrades and persists the registry
func (m *Manager) Hold(id, reason string) error {
	if err := m.holds.Add(id, reason); err != nil {
		return &Error{Op: "hold", Package: id, Err: err}
	}
	if err := m.holds.Save(); err != nil {
		return &Error{Op: "hold", Package: id, Err: err}
	}
	return nil
}

// Unhold releases the hold on id and persists the registry
func (m *Manager) Unhold(id string) error {
	if err := m.holds.Remove(id); err != nil {
		return &Error{Op: "unhold", Package: id, Err: err}
	}
	if err := m.holds.Save(); err != nil {
		return &Error{Op: "unhold", Package: id, Err: err}
	}
	return nil
}

// Holds lists held packages
func (m *Manager) Holds() []registry.Hold {
	return m.holds.List()
}

// History returns up to limit archived batches, newest first
func (m *Manager) History(limit int) ([]history.Batch, error) {
	batches, err := m.history.List(limit)
	if err != nil {
		return nil, &Error{Op: "history", Err: err}
	}
	return batches, nil
}

// Executable returns the winget executable in use
func (m *Manager) Executable() string {
	return m.executable
}

// Close releases the process lock if it is still held
func (m *Manager) Close() error {
	if m.lock.Locked() {
		return m.lock.Unlock()
	}
	return nil
}
