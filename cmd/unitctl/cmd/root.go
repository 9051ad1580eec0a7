// Package cmd implements the unitctl CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	userScope bool
	unitDir   string
	ctlPath   string
	timeout   string
	dryRun    bool
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("unitctl version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "unitctl",
	Short: "unitctl manages systemd service, timer and mount units",
	Long: "unitctl writes systemd unit files from validated definitions and drives\n" +
		"their lifecycle through systemctl. It manages services, timers and mounts\n" +
		"in system scope or for the calling user's session.",
	SilenceUsage: true,
	// No Run function — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&userScope, "user", false, "manage units for the calling user instead of the system")
	rootCmd.PersistentFlags().StringVar(&unitDir, "unit-dir", "", "unit file directory (overrides the scope default)")
	rootCmd.PersistentFlags().StringVar(&ctlPath, "systemctl", "", "systemctl binary path")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "", "per-command timeout, e.g. 30s")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log systemctl commands without executing them")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("unitctl version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
