// pkg/core/interface.go
package core

import (
	"context"

	"github.com/arc-language/wupd/pkg/history"
	"github.com/arc-language/wupd/pkg/registry"
	"github.com/arc-language/wupd/pkg/winget"
)

// Upgrader is the package manager surface the CLI drives
type Upgrader interface {
	// ListUpgrades returns packages with an available upgrade
	ListUpgrades(ctx context.Context, opts *ListOptions) ([]Package, error)

	// Upgrade upgrades the given package ids, one outcome per distinct id
	Upgrade(ctx context.Context, ids []string, opts *UpgradeOptions) (winget.Results, error)

	// Hold keeps a package out of bulk upgrades
	Hold(id, reason string) error

	// Unhold releases a hold
	Unhold(id string) error

	// Holds lists held packages
	Holds() []registry.Hold

	// History returns archived batches, newest first
	History(limit int) ([]history.Batch, error)

	// Executable returns the winget executable in use
	Executable() string

	// Close releases resources held by the manager
	Close() error
}

// ListOptions configures listing
type ListOptions struct {
	IncludeHeld bool // Whether held packages are included (marked Held)
}

// UpgradeOptions configures an upgrade batch
type UpgradeOptions struct {
	Force bool // Upgrade held packages named explicitly
}
