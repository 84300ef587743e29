package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sagarc03/stash/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	endpoint    string
	token       string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "stash-cli",
	Version: version,
	Short:   "Client for the stash content server",
	Long: `stash-cli - client for a stash content server

Commands:
  - upload:    Send files to POST /upload (needs a token)
  - download:  Fetch a stored file
  - delete:    Remove stored files
  - paste:     Print or fetch the paste page of a text file
  - configure: Manage server profiles

Connection settings are resolved from the selected profile, then
STASH_ENDPOINT / STASH_TOKEN, then command line flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.stash/config.yaml, env: STASH_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: STASH_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:8083, env: STASH_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "upload token (env: STASH_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(pasteCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		_ = getFormatter().FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

// exitError is returned when per-item errors were already printed
// and only the exit code remains.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// getConfigPath returns the profile file configure reads and writes:
// --config, then STASH_CONFIG, then the default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := os.Getenv(clientcli.EnvConfig); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// resolveConfig applies the selected profile, the environment and the flags, in that order.
func resolveConfig() (*clientcli.Config, error) {
	return clientcli.Resolve(clientcli.Sources{
		ConfigPath: cfgFile,
		Profile:    profileName,
		Endpoint:   endpoint,
		Token:      token,
	}, os.Getenv)
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates a client for the open routes, which need no token.
func getClient() (*clientcli.Client, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	return clientcli.New(cfg)
}
