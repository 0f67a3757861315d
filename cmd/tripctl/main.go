package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	rulesPath string
	rootCmd   = &cobra.Command{
		Use:   "tripctl",
		Short: "Plan Hours-of-Service compliant truck trips",
		Long: `tripctl plans trips from the command line with the same engine as the
HTTP server: route estimation, daily duty logs under the 70-hour/8-day rules,
and the stop list. Storage, routing and caches are configured from the
environment (see .env.example).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "HOS rule set file (.toml or .yaml); overrides HOS_RULES_PATH")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
