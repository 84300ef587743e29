package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stash/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "stash",
	Short:   "Minimal content store with multipart upload and paste view",
	Long: `stash is a small content-storage server. It accepts single-file
multipart uploads, keeps them on the local filesystem under a virtual
directory namespace, serves them back by path and renders text files
as a syntax-highlighted paste page.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, repeatable (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("storage-path", "", "storage directory path (default: ./data, env: STASH_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: STASH_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
