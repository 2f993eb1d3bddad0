// internal/cli/upgrade.go
package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arc-language/wupd/pkg/core"
)

var (
	upgradeAll         bool
	upgradeForce       bool
	upgradeDryRun      bool
	upgradeNoRefresh   bool
	upgradeConcurrency int
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [package-id...]",
	Short: "Upgrade one or more packages",
	Long: `Upgrade packages by winget id, or every upgradable package with --all.

Examples:
  wupd upgrade Google.Chrome
  wupd upgrade Mozilla.Firefox Microsoft.VisualStudioCode
  wupd upgrade --all --dry-run
  wupd upgrade --all --concurrency=2`,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().BoolVar(&upgradeAll, "all", false, "upgrade every package that is not held")
	upgradeCmd.Flags().BoolVar(&upgradeForce, "force", false, "upgrade held packages named explicitly")
	upgradeCmd.Flags().BoolVar(&upgradeDryRun, "dry-run", false, "show what would be upgraded")
	upgradeCmd.Flags().BoolVar(&upgradeNoRefresh, "no-refresh", false, "skip listing remaining upgrades afterwards")
	upgradeCmd.Flags().IntVar(&upgradeConcurrency, "concurrency", 0, "number of upgrades to run at once (default from config)")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if upgradeAll && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with package ids")
	}
	if !upgradeAll && len(args) == 0 {
		return fmt.Errorf("specify package ids or --all")
	}

	if upgradeConcurrency > 0 {
		config.Concurrency = upgradeConcurrency
	}

	up, err := newUpgrader(config)
	if err != nil {
		return fmt.Errorf("initializing manager: %w", err)
	}
	defer up.Close()

	ids := args
	if upgradeAll {
		pkgs, err := up.ListUpgrades(ctx, nil)
		if err != nil {
			return err
		}
		ids = make([]string, 0, len(pkgs))
		for _, p := range pkgs {
			ids = append(ids, p.ID)
		}
	}

	if len(ids) == 0 {
		fmt.Fprintln(out, "No upgrades available.")
		return nil
	}

	if upgradeDryRun {
		fmt.Fprintf(out, "Would upgrade %d package(s):\n", len(ids))
		for _, id := range ids {
			fmt.Fprintf(out, "  %s\n", id)
		}
		return nil
	}

	fmt.Fprintf(out, "Upgrading %d package(s) with %s...\n\n", len(ids), up.Executable())

	results, err := up.Upgrade(ctx, ids, &core.UpgradeOptions{Force: upgradeForce})
	if err != nil {
		return err
	}

	renderResults(out, results)
	renderSummary(out, results)

	if !upgradeNoRefresh {
		remaining, err := up.ListUpgrades(ctx, nil)
		if err != nil {
			log.WithError(err).Warn("Could not refresh the upgrade list")
		} else {
			fmt.Fprintf(out, "%d upgrade(s) remaining\n", len(remaining))
		}
	}

	return results.Err()
}
