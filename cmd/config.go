package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/distlab-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DistLab configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("default_dataset: %s\n", cfg.DefaultDataset)
		fmt.Printf("language: %s\n", cfg.Language)
		fmt.Printf("theme: %s\n", cfg.Theme)
		fmt.Printf("confidence_mapped: %d\n", cfg.ConfidenceMapped)
		fmt.Printf("confidence_required: %d\n", cfg.ConfidenceRequired)
		fmt.Printf("confidence_dates: %d\n", cfg.ConfidenceDates)
		fmt.Printf("confidence_quantity: %d\n", cfg.ConfidenceQuantity)
		fmt.Printf("anomaly_window: %d\n", cfg.AnomalyWindow)
		fmt.Printf("anomaly_threshold: %.2f\n", cfg.AnomalyThreshold)
		fmt.Printf("pareto_cutoff: %.2f\n", cfg.ParetoCutoff)
		fmt.Printf("top_n: %d\n", cfg.TopN)
		fmt.Printf("highlight_color: %s\n", cfg.HighlightColor)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "default_dataset":
			cfg.DefaultDataset = val
		case "language":
			switch val {
			case "en", "zh-TW":
				cfg.Language = val
			default:
				return fmt.Errorf("invalid language: %s (use en or zh-TW)", val)
			}
		case "theme":
			cfg.Theme = val
		case "confidence_mapped", "confidence_required", "confidence_dates", "confidence_quantity":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "confidence_mapped":
				cfg.ConfidenceMapped = i
			case "confidence_required":
				cfg.ConfidenceRequired = i
			case "confidence_dates":
				cfg.ConfidenceDates = i
			case "confidence_quantity":
				cfg.ConfidenceQuantity = i
			}
		case "anomaly_window":
			i, err := strconv.Atoi(val)
			if err != nil || i < 2 {
				return fmt.Errorf("invalid anomaly_window: %v (minimum 2)", val)
			}
			cfg.AnomalyWindow = i
		case "anomaly_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for anomaly_threshold: %v", val)
			}
			cfg.AnomalyThreshold = f
		case "pareto_cutoff":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid pareto_cutoff: %v (use 0-1)", val)
			}
			cfg.ParetoCutoff = f
		case "top_n":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for top_n: %v", val)
			}
			cfg.TopN = i
		case "highlight_color":
			cfg.HighlightColor = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
