// Command bridge issues one REST call through a bridge client and prints
// the parsed JSON response.
//
// Usage:
//
//	bridge get posts/# 1 --base-url https://jsonplaceholder.typicode.com
//	bridge post posts --param title=hello --param userId=1
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/bridge/version"
)

type globalFlags struct {
	configFile string
	envFile    string
	baseURL    string
	timeout    time.Duration
	debug      bool
	logFormat  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "bridge",
		Short: "Call a JSON REST API through a bridge client",
		Long: `bridge resolves a route template against a base URL, sends the
request through the configured transport and prints the JSON response.

Configuration is read from bridge.yml, .env files and BRIDGE_* environment
variables. Flags override all of them.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "Config file path")
	pf.StringVar(&flags.envFile, "env-file", "", ".env file path")
	pf.StringVarP(&flags.baseURL, "base-url", "b", "", "Base URL for relative routes")
	pf.DurationVar(&flags.timeout, "timeout", 0, "Request timeout")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "Log every dispatch and completion")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (console, json)")

	for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
		root.AddCommand(newCallCmd(method, flags))
	}
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), version.Get())
		},
	}
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bridge: %v\n", err)
		os.Exit(1)
	}
}
