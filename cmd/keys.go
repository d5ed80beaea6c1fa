package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/distlab-cli/internal/provider"
)

var keysSet []string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show provider key status",
	Long:  `Keys reports where each LLM provider's API key comes from: the environment, this session, or nowhere. Keys are only displayed masked and are never sent anywhere; without any key the tool runs fully offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, pair := range keysSet {
			p, key, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid --set %q (want provider=key)", pair)
			}
			if provider.EnvVar(p) == "" {
				return fmt.Errorf("unknown provider %q", p)
			}
			sess.SetKey(p, key)
		}

		statuses := provider.Statuses(sess.Key)
		fmt.Println("[PROVIDERS]")
		for _, s := range statuses {
			switch s.Source {
			case "missing":
				fmt.Printf("- %s: missing (set %s)\n", s.Provider, provider.EnvVar(s.Provider))
			default:
				fmt.Printf("- %s: %s (%s)\n", s.Provider, s.Masked, s.Source)
			}
		}
		if provider.Offline(statuses) {
			fmt.Println("\nNo provider configured; running in offline mode.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().StringSliceVar(&keysSet, "set", nil, "session-scoped key provider=key (repeatable, not persisted)")
}
