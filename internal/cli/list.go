// internal/cli/list.go
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/wupd/pkg/core"
)

var (
	listJSON bool
	listHeld bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List packages with an available upgrade",
	Long:  `Run winget upgrade and show the packages it reports as upgradable.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print packages as JSON")
	listCmd.Flags().BoolVar(&listHeld, "held", false, "include held packages")
}

func runList(cmd *cobra.Command, args []string) error {
	up, err := newUpgrader(config)
	if err != nil {
		return fmt.Errorf("initializing manager: %w", err)
	}
	defer up.Close()

	pkgs, err := up.ListUpgrades(cmd.Context(), &core.ListOptions{IncludeHeld: listHeld})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pkgs)
	}

	if len(pkgs) == 0 {
		fmt.Fprintln(out, "No upgrades available.")
		return nil
	}

	renderTable(out, pkgs)
	fmt.Fprintf(out, "\n%d upgrade(s) available\n", len(pkgs))
	return nil
}
