// internal/cli/history.go
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past upgrade batches",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of batches to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	up, err := newUpgrader(config)
	if err != nil {
		return fmt.Errorf("initializing manager: %w", err)
	}
	defer up.Close()

	batches, err := up.History(historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(batches) == 0 {
		fmt.Fprintln(out, "No upgrade history.")
		return nil
	}

	for i, b := range batches {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  %d package(s) in %s\n",
			headerStyle.Render(b.Started.Local().Format("2006-01-02 15:04")),
			len(b.Outcomes),
			b.Finished.Sub(b.Started).Round(time.Second))
		renderResults(out, b.Outcomes)
	}
	return nil
}
