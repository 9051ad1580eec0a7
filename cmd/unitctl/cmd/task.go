package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysforge/unitctl/internal/unit"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage scheduled tasks",
	Long: "A task is a service unit paired with a timer that activates it.\n" +
		"Installing a task writes both units and enables the timer.",
}

var (
	taskDescription string
	taskExec        string
	taskWorkDir     string
	taskEnv         []string
	taskOnCalendar  string
	taskOnBootSec   string
	taskPersistent  bool
	taskRandomDelay string
)

var taskInstallCmd = &cobra.Command{
	Use:   "install [name]",
	Short: "Install a service and its schedule",
	Long: "Write <name>.service and <name>.timer and enable the timer. The\n" +
		"service runs on the schedule, not immediately. When the name is\n" +
		"omitted it is derived from the executed command's base name.",
	Args: cobra.MaximumNArgs(1),
	RunE: runTaskInstall,
}

var taskRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a task's timer and service",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRemove,
}

func init() {
	f := taskInstallCmd.Flags()
	f.StringVar(&taskDescription, "description", "", "unit description")
	f.StringVar(&taskExec, "exec", "", "command line to execute (required)")
	f.StringVar(&taskWorkDir, "workdir", "", "working directory")
	f.StringArrayVar(&taskEnv, "env", nil, "environment variable in KEY=VALUE format")
	f.StringVar(&taskOnCalendar, "on-calendar", "", "calendar expression, e.g. daily")
	f.StringVar(&taskOnBootSec, "on-boot-sec", "", "delay after boot, e.g. 15min")
	f.BoolVar(&taskPersistent, "persistent", false, "catch up runs missed while powered off")
	f.StringVar(&taskRandomDelay, "randomized-delay", "", "random activation spread, e.g. 5min")
	_ = taskInstallCmd.MarkFlagRequired("exec")

	taskCmd.AddCommand(taskInstallCmd, taskRemoveCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	env, err := parseEnvFlags(taskEnv)
	if err != nil {
		return err
	}
	name := unit.DeriveServiceName(taskExec)
	if len(args) == 1 {
		name = args[0]
	}
	svc := unit.Service{
		Description:      taskDescription,
		ExecStart:        taskExec,
		Type:             "oneshot",
		WorkingDirectory: taskWorkDir,
		Environment:      env,
	}
	tmr := unit.Timer{
		Description:        taskDescription,
		OnCalendar:         taskOnCalendar,
		OnBootSec:          taskOnBootSec,
		Persistent:         taskPersistent,
		RandomizedDelaySec: taskRandomDelay,
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.tasks.Install(ctx, name, svc, tmr)
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl task install: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "installed %s.service and %s.timer\n", name, name)
	return nil
}

func runTaskRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.tasks.Remove(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl task remove: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s.service and %s.timer\n", args[0], args[0])
	return nil
}
