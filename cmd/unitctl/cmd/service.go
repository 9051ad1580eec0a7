package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysforge/unitctl/internal/unit"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage .service units",
	Long:  "Install, enable, disable, remove and inspect systemd service units.",
}

var (
	svcDescription string
	svcExec        string
	svcType        string
	svcRunAs       string
	svcGroup       string
	svcWorkDir     string
	svcEnv         []string
	svcRestart     string
	svcRestartSec  int
	svcWantedBy    string
)

var serviceInstallCmd = &cobra.Command{
	Use:   "install <name>",
	Short: "Write a service unit file",
	Long: "Validate the service definition, write <name>.service into the unit\n" +
		"directory and reload the manager. The service is not enabled or started.",
	Args: cobra.ExactArgs(1),
	RunE: runServiceInstall,
}

var serviceEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable and start a service",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceEnable,
}

var serviceDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Stop and disable a service",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceDisable,
}

var serviceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Disable a service and delete its unit file",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceRemove,
}

var serviceStartCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start a service",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceStart,
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a service",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceStop,
}

var serviceRestartCmd = &cobra.Command{
	Use:   "restart <name>",
	Short: "Restart a service",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceRestart,
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show a service's activation state",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceStatus,
}

func init() {
	f := serviceInstallCmd.Flags()
	f.StringVar(&svcDescription, "description", "", "unit description")
	f.StringVar(&svcExec, "exec", "", "command line to execute (required)")
	f.StringVar(&svcType, "type", "", "execution type (simple, exec, forking, oneshot, dbus, notify, idle)")
	f.StringVar(&svcRunAs, "run-as", "", "run the service as this user (system scope only)")
	f.StringVar(&svcGroup, "group", "", "run the service under this group (system scope only)")
	f.StringVar(&svcWorkDir, "workdir", "", "working directory")
	f.StringArrayVar(&svcEnv, "env", nil, "environment variable in KEY=VALUE format")
	f.StringVar(&svcRestart, "restart", "", "restart policy (no, always, on-success, on-failure, on-abnormal, on-abort, on-watchdog)")
	f.IntVar(&svcRestartSec, "restart-sec", 0, "seconds between restarts")
	f.StringVar(&svcWantedBy, "wanted-by", "", "install target")
	_ = serviceInstallCmd.MarkFlagRequired("exec")

	serviceCmd.AddCommand(serviceInstallCmd, serviceEnableCmd, serviceDisableCmd,
		serviceRemoveCmd, serviceStartCmd, serviceStopCmd, serviceRestartCmd, serviceStatusCmd)
	rootCmd.AddCommand(serviceCmd)
}

// parseEnvFlags splits KEY=VALUE pairs. A pair without '=' is rejected
// here; key and value grammar is checked by the definition validator.
func parseEnvFlags(pairs []string) ([]unit.EnvVar, error) {
	out := make([]unit.EnvVar, 0, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("unitctl service: env %q is not KEY=VALUE", pair)
		}
		out = append(out, unit.EnvVar{Key: key, Value: value})
	}
	return out, nil
}

func serviceDefFromFlags() (unit.Service, error) {
	env, err := parseEnvFlags(svcEnv)
	if err != nil {
		return unit.Service{}, err
	}
	return unit.Service{
		Description:      svcDescription,
		ExecStart:        svcExec,
		Type:             svcType,
		User:             svcRunAs,
		Group:            svcGroup,
		WorkingDirectory: svcWorkDir,
		Environment:      env,
		Restart:          svcRestart,
		RestartSec:       svcRestartSec,
		WantedBy:         svcWantedBy,
	}, nil
}

func runServiceInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	def, err := serviceDefFromFlags()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.services.Install(ctx, args[0], def)
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl service install: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "installed %s.service\n", args[0])
	return nil
}

func runServiceEnable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.services.Enable(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl service enable: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "enabled %s.service\n", args[0])
	return nil
}

func runServiceDisable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.services.Disable(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl service disable: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "disabled %s.service\n", args[0])
	return nil
}

func runServiceRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.services.Remove(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl service remove: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s.service\n", args[0])
	return nil
}

func runServiceStart(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.services.Start(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl service start: %w", err)
	}
	return nil
}

func runServiceStop(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.services.Stop(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl service stop: %w", err)
	}
	return nil
}

func runServiceRestart(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.services.Restart(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl service restart: %w", err)
	}
	return nil
}

func runServiceStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	state, err := a.services.Status(ctx, args[0])
	if err != nil {
		return fmt.Errorf("unitctl service status: %w", err)
	}
	if state == "" {
		state = "unknown"
	}
	fmt.Fprintln(cmd.OutOrStdout(), state)
	return nil
}
