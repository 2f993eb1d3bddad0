// pkg/winget/manager.go
package winget

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Config configures the winget manager
type Config struct {
	Executable       string
	Source           string
	IncludeUnknown   bool
	AcceptAgreements bool
	Silent           bool
	Timeout          time.Duration
	Concurrency      int
	Runner           Runner
	Logger           logrus.FieldLogger
}

type PackageManager struct {
	client *Client
	config *Config
	logger logrus.FieldLogger
}

func NewPackageManager(cfg *Config) *PackageManager {
	if cfg == nil {
		cfg = &Config{IncludeUnknown: true, AcceptAgreements: true, Silent: true}
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	opts := ClientOptions{
		Executable:       cfg.Executable,
		Source:           cfg.Source,
		IncludeUnknown:   cfg.IncludeUnknown,
		AcceptAgreements: cfg.AcceptAgreements,
		Silent:           cfg.Silent,
		Timeout:          cfg.Timeout,
	}

	return &PackageManager{
		client: NewClient(cfg.Runner, opts, logger),
		config: cfg,
		logger: logger,
	}
}

// List returns the packages winget reports as upgradable
func (pm *PackageManager) List(ctx context.Context) ([]PackageRecord, error) {
	pm.logger.Debug("Listing upgradable packages")
	return pm.client.ListUpgrades(ctx)
}

// Upgrade upgrades a single package
func (pm *PackageManager) Upgrade(ctx context.Context, id string) Outcome {
	id = strings.TrimSpace(id)
	if id == "" {
		return Outcome{Kind: GenericFailure, ID: id, Detail: "invalid package id"}
	}
	pm.logger.WithField("id", id).Info("Upgrading package")
	return pm.client.Upgrade(ctx, id)
}

// UpgradeAll upgrades each distinct id, at most Concurrency at a time.
// Outcomes are returned in the order the ids were first given.
func (pm *PackageManager) UpgradeAll(ctx context.Context, ids []string) Results {
	ids = dedupe(ids)
	outcomes := make([]Outcome, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pm.config.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = pm.Upgrade(ctx, id)
			return nil
		})
	}
	// Upgrade never reports through the group, every id gets an outcome
	_ = g.Wait()

	return Results(outcomes)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Results is the ordered set of outcomes of one batch
type Results []Outcome

// Summary counts outcomes per kind
func (r Results) Summary() map[OutcomeKind]int {
	counts := make(map[OutcomeKind]int)
	for _, o := range r {
		counts[o.Kind]++
	}
	return counts
}

// Failed returns the failure-like outcomes
func (r Results) Failed() Results {
	var failed Results
	for _, o := range r {
		if o.Kind.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err folds every failure into one error, or returns nil
func (r Results) Err() error {
	var result *multierror.Error
	for _, o := range r.Failed() {
		result = multierror.Append(result, fmt.Errorf("%s: %s", o.ID, o.Detail))
	}
	return result.ErrorOrNil()
}
