// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arc-language/wupd"
	"github.com/arc-language/wupd/pkg/core"
)

const version = "0.1.0"

var (
	cfgFile    string
	wingetPath string
	source     string
	debug      bool
	config     *core.Config
)

// newUpgrader builds the manager the commands drive
var newUpgrader = func(cfg *core.Config) (core.Upgrader, error) {
	c := wupd.FromCoreConfig(cfg)
	c.Logger = log.StandardLogger()
	return wupd.NewManager(c)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wupd",
	Short: "Windows package upgrade manager",
	Long: `wupd - Windows package upgrade manager

Lists the packages winget can upgrade and applies upgrades one package at a
time, reporting a clear outcome for each.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext executes the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wupd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&wingetPath, "winget", "", "path to the winget executable")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "restrict winget to one source (winget, msstore)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(holdCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if wingetPath != "" {
		config.WingetPath = wingetPath
	}
	if source != "" {
		config.Source = source
	}
	if debug {
		config.Debug = true
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if config.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}
