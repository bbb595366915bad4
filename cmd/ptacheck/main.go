// Package main implements the ptacheck CLI, a thin client for the
// verification server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	server  string
	token   string
	json    bool
	timeout string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "ptacheck",
		Short: "Check IMEI compliance through a ptacheck server",
		Long: `ptacheck talks to a running ptacheck server to verify IMEIs against the
PTA DIRBS registry and to read past verdicts.

Examples:
  ptacheck verify 355123456789019
  ptacheck verify --max-retries 1 --headless=false 355123456789019
  ptacheck history --imei 355123456789019 --limit 5
  ptacheck health --server http://ptacheck.internal:8000`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", envOr("PTACHECK_SERVER", "http://localhost:8000"), "ptacheck server URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("PTACHECK_TOKEN"), "bearer token when the server requires auth")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print raw JSON")
	root.PersistentFlags().StringVar(&opts.timeout, "timeout", "6m", "request timeout")

	root.AddCommand(newVerifyCmd(opts), newHistoryCmd(opts), newHealthCmd(opts))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
