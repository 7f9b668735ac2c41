// Command minisurvey is a simple binary for research and QA purposes
// that measures the current position without touching any database.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/version"
)

// Options contains the options you can set from the CLI.
type Options struct {
	Duration      int64
	InterfaceHint string
	IperfPath     string
	JSON          bool
	MaxAttempts   int64
	NoTCP         bool
	NoUDP         bool
	Server        string
	SudoPassword  string
	Verbose       bool
}

// main is the main function of minisurvey.
func main() {
	var globalOptions Options
	rootCmd := &cobra.Command{
		Use:     "minisurvey",
		Short:   "minisurvey is wifimapper's research client",
		Args:    cobra.NoArgs,
		Version: version.Version,
		Run: func(cmd *cobra.Command, args []string) {
			MainWithOptions(&globalOptions)
		},
	}
	rootCmd.SetVersionTemplate("{{ .Version }}\n")
	flags := rootCmd.Flags()

	flags.StringVarP(
		&globalOptions.Server,
		"server",
		"s",
		model.IperfServerDisabled,
		"address of the iperf3 server (\"localhost\" disables bandwidth testing)",
	)

	flags.Int64Var(
		&globalOptions.Duration,
		"duration",
		10,
		"duration of each bandwidth sub-test in seconds",
	)

	flags.BoolVar(
		&globalOptions.NoTCP,
		"no-tcp",
		false,
		"disable the TCP bandwidth sub-tests",
	)

	flags.BoolVar(
		&globalOptions.NoUDP,
		"no-udp",
		false,
		"disable the UDP bandwidth sub-tests",
	)

	flags.StringVar(
		&globalOptions.InterfaceHint,
		"interface",
		"",
		"name of the wireless interface to use instead of discovering one",
	)

	flags.StringVar(
		&globalOptions.IperfPath,
		"iperf-path",
		"",
		"path of the iperf3 binary to execute",
	)

	flags.Int64Var(
		&globalOptions.MaxAttempts,
		"max-attempts",
		1,
		"how many times to attempt the run when the network changes mid-run",
	)

	flags.StringVar(
		&globalOptions.SudoPassword,
		"sudo-password",
		"",
		"password for privileged wireless queries on macOS (never logged)",
	)

	flags.BoolVarP(
		&globalOptions.JSON,
		"json",
		"j",
		false,
		"emit the measurement result as JSON on the standard output",
	)

	flags.BoolVarP(
		&globalOptions.Verbose,
		"verbose",
		"v",
		false,
		"increase verbosity level",
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
