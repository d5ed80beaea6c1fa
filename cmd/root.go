package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/distlab-cli/internal/config"
	"github.com/KaramelBytes/distlab-cli/internal/session"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	// Session for this process; one-shot commands and the lab share it.
	sess *session.Session
)

var rootCmd = &cobra.Command{
	Use:   "distlab",
	Short: "DistLab CLI: standardize and analyze distribution records",
	Long:  `DistLab is a CLI tool that ingests loosely structured distribution records (supplier → license → model → customer), standardizes them into a canonical schema, scores data quality, and derives analytics and chart specifications.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.distlab/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so commands still run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c
	sess = session.New(cfg)
}
