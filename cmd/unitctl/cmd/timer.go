package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sysforge/unitctl/internal/unit"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage .timer units",
	Long:  "Install, enable, disable, remove and list systemd timer units.",
}

var (
	tmrDescription string
	tmrOnCalendar  string
	tmrOnBootSec   string
	tmrPersistent  bool
	tmrRandomDelay string
	tmrWantedBy    string
)

var timerInstallCmd = &cobra.Command{
	Use:   "install <unit>",
	Short: "Write a timer unit file for an existing service",
	Long: "Validate the timer definition and write a .timer unit named after the\n" +
		"target service. The timer is not enabled; the schedule starts on enable.",
	Args: cobra.ExactArgs(1),
	RunE: runTimerInstall,
}

var timerEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable and start a timer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerEnable,
}

var timerDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Stop and disable a timer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerDisable,
}

var timerRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Disable a timer and delete its unit file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerRemove,
}

var timerStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show a timer's activation state",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerStatus,
}

var timerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled timers",
	Args:  cobra.NoArgs,
	RunE:  runTimerList,
}

func init() {
	f := timerInstallCmd.Flags()
	f.StringVar(&tmrDescription, "description", "", "unit description")
	f.StringVar(&tmrOnCalendar, "on-calendar", "", "calendar expression, e.g. daily or '*-*-* 06:00:00'")
	f.StringVar(&tmrOnBootSec, "on-boot-sec", "", "delay after boot, e.g. 15min")
	f.BoolVar(&tmrPersistent, "persistent", false, "catch up runs missed while powered off")
	f.StringVar(&tmrRandomDelay, "randomized-delay", "", "random activation spread, e.g. 5min")
	f.StringVar(&tmrWantedBy, "wanted-by", "", "install target")

	timerCmd.AddCommand(timerInstallCmd, timerEnableCmd, timerDisableCmd,
		timerRemoveCmd, timerStatusCmd, timerListCmd)
	rootCmd.AddCommand(timerCmd)
}

func runTimerInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	def := unit.Timer{
		Description:        tmrDescription,
		Unit:               args[0],
		OnCalendar:         tmrOnCalendar,
		OnBootSec:          tmrOnBootSec,
		Persistent:         tmrPersistent,
		RandomizedDelaySec: tmrRandomDelay,
		WantedBy:           tmrWantedBy,
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.timers.Install(ctx, def)
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl timer install: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "installed %s.timer\n", def.TimerName())
	return nil
}

func runTimerEnable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.timers.Enable(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl timer enable: %w", err)
	}
	return nil
}

func runTimerDisable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.timers.Disable(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl timer disable: %w", err)
	}
	return nil
}

func runTimerRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.timers.Remove(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl timer remove: %w", err)
	}
	return nil
}

func runTimerStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	state, err := a.timers.Status(ctx, args[0])
	if err != nil {
		return fmt.Errorf("unitctl timer status: %w", err)
	}
	if state == "" {
		state = "unknown"
	}
	fmt.Fprintln(cmd.OutOrStdout(), state)
	return nil
}

func runTimerList(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	entries := a.timers.List(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no timers")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "UNIT\tACTIVATES\tNEXT")
	for _, e := range entries {
		next := e.NextRun
		if next == "" {
			next = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Unit, e.Activates, next)
	}
	return w.Flush()
}
