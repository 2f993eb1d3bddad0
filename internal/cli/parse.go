// internal/cli/parse.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/wupd/pkg/core"
	"github.com/arc-language/wupd/pkg/winget"
)

var (
	parseJSON bool

	classifyID       string
	classifyExitCode int
	classifyStderr   string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse captured winget upgrade output",
	Long: `Parse the output of "winget upgrade" saved to a file, or read from stdin,
without running winget.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [stdout-file]",
	Short: "Classify captured output of a single package upgrade",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClassify,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print packages as JSON")

	classifyCmd.Flags().StringVar(&classifyID, "id", "", "package id the output belongs to")
	classifyCmd.Flags().IntVar(&classifyExitCode, "exit-code", 0, "exit code winget returned")
	classifyCmd.Flags().StringVar(&classifyStderr, "stderr", "", "file holding captured stderr")
	_ = classifyCmd.MarkFlagRequired("id")
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	records, err := winget.ParseUpgradeList(winget.DecodeOutput(raw))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if parseJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No upgrades found.")
		return nil
	}

	pkgs := make([]core.Package, len(records))
	for i, rec := range records {
		pkgs[i] = core.Package{PackageRecord: rec}
	}
	renderTable(out, pkgs)
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	stdout, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var stderr []byte
	if classifyStderr != "" {
		if stderr, err = os.ReadFile(classifyStderr); err != nil {
			return fmt.Errorf("reading stderr file: %w", err)
		}
	}

	outcome := winget.Classify(classifyID, winget.CommandResult{
		ExitCode: classifyExitCode,
		Stdout:   winget.DecodeOutput(stdout),
		Stderr:   winget.DecodeOutput(stderr),
	})
	renderResults(cmd.OutOrStdout(), winget.Results{outcome})
	return nil
}

// readInput reads the named file, or stdin when no file is given
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}
