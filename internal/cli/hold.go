// internal/cli/hold.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var holdReason string

var holdCmd = &cobra.Command{
	Use:   "hold",
	Short: "Manage packages excluded from bulk upgrades",
}

var holdAddCmd = &cobra.Command{
	Use:   "add [package-id...]",
	Short: "Hold one or more packages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHoldAdd,
}

var holdRemoveCmd = &cobra.Command{
	Use:     "remove [package-id...]",
	Aliases: []string{"rm"},
	Short:   "Release held packages",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runHoldRemove,
}

var holdListCmd = &cobra.Command{
	Use:   "list",
	Short: "List held packages",
	Args:  cobra.NoArgs,
	RunE:  runHoldList,
}

func init() {
	holdAddCmd.Flags().StringVar(&holdReason, "reason", "", "why the package is held")

	holdCmd.AddCommand(holdAddCmd)
	holdCmd.AddCommand(holdRemoveCmd)
	holdCmd.AddCommand(holdListCmd)
}

func runHoldAdd(cmd *cobra.Command, args []string) error {
	up, err := newUpgrader(config)
	if err != nil {
		return fmt.Errorf("initializing manager: %w", err)
	}
	defer up.Close()

	for _, id := range args {
		if err := up.Hold(id, holdReason); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Held %s\n", id)
	}
	return nil
}

func runHoldRemove(cmd *cobra.Command, args []string) error {
	up, err := newUpgrader(config)
	if err != nil {
		return fmt.Errorf("initializing manager: %w", err)
	}
	defer up.Close()

	for _, id := range args {
		if err := up.Unhold(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Released %s\n", id)
	}
	return nil
}

func runHoldList(cmd *cobra.Command, args []string) error {
	up, err := newUpgrader(config)
	if err != nil {
		return fmt.Errorf("initializing manager: %w", err)
	}
	defer up.Close()

	out := cmd.OutOrStdout()
	holds := up.Holds()
	if len(holds) == 0 {
		fmt.Fprintln(out, "No packages are held.")
		return nil
	}

	for _, h := range holds {
		if h.Reason != "" {
			fmt.Fprintf(out, "  %s  (%s)\n", h.ID, h.Reason)
		} else {
			fmt.Fprintf(out, "  %s\n", h.ID)
		}
	}
	return nil
}
