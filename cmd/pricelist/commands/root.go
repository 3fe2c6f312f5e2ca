package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "pricelist",
	Short: "Price list service: base prices, promotions and price queries",
	Long: `pricelist serves an in-memory price catalog over HTTP.

Configuration comes from the environment (optionally seeded from a .env file):
PRICE_SERVICE_NAME, ENV, ALLOWED_ORIGINS, PORT, METRICS_ENABLED, METRICS_TOKEN,
WRITE_RATE_LIMIT_PER_MIN and PRICE_DB_*.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
}
