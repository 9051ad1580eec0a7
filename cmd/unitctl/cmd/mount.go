package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysforge/unitctl/internal/unit"
)

var mountCmd = &cobra.Command{
	Use:   "mount",
	Short: "Manage .mount units",
	Long: "Install, enable, disable, remove and inspect systemd mount units.\n" +
		"Mounts are addressed by their mount point path.",
}

var (
	mntDescription string
	mntType        string
	mntOptions     string
	mntAutomount   bool
	mntIdleSec     int
	mntWantedBy    string
)

var mountInstallCmd = &cobra.Command{
	Use:   "install <what> <where>",
	Short: "Write a mount unit file",
	Long: "Validate the mount definition, create the mount point directory and\n" +
		"write the .mount unit (plus an .automount companion with --automount).",
	Args: cobra.ExactArgs(2),
	RunE: runMountInstall,
}

var mountEnableCmd = &cobra.Command{
	Use:   "enable <where>",
	Short: "Enable and start a mount",
	Args:  cobra.ExactArgs(1),
	RunE:  runMountEnable,
}

var mountDisableCmd = &cobra.Command{
	Use:   "disable <where>",
	Short: "Unmount and disable a mount",
	Args:  cobra.ExactArgs(1),
	RunE:  runMountDisable,
}

var mountRemoveCmd = &cobra.Command{
	Use:   "remove <where>",
	Short: "Disable a mount and delete its unit files",
	Args:  cobra.ExactArgs(1),
	RunE:  runMountRemove,
}

var mountStatusCmd = &cobra.Command{
	Use:   "status <where>",
	Short: "Show a mount's activation state",
	Args:  cobra.ExactArgs(1),
	RunE:  runMountStatus,
}

func init() {
	f := mountInstallCmd.Flags()
	f.StringVar(&mntDescription, "description", "", "unit description")
	f.StringVar(&mntType, "type", "", "filesystem type, e.g. nfs or ext4 (required)")
	f.StringVar(&mntOptions, "options", "", "comma-separated mount options")
	f.BoolVar(&mntAutomount, "automount", false, "mount on demand via an automount unit")
	f.IntVar(&mntIdleSec, "idle-timeout", 0, "seconds of inactivity before an automount is unmounted")
	f.StringVar(&mntWantedBy, "wanted-by", "", "install target")
	_ = mountInstallCmd.MarkFlagRequired("type")

	mountCmd.AddCommand(mountInstallCmd, mountEnableCmd, mountDisableCmd,
		mountRemoveCmd, mountStatusCmd)
	rootCmd.AddCommand(mountCmd)
}

func runMountInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	var options []string
	if mntOptions != "" {
		options = strings.Split(mntOptions, ",")
	}
	def := unit.Mount{
		Description:             mntDescription,
		What:                    args[0],
		Where:                   args[1],
		FSType:                  mntType,
		Options:                 options,
		Automount:               mntAutomount,
		AutomountTimeoutIdleSec: mntIdleSec,
		WantedBy:                mntWantedBy,
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.mounts.Install(ctx, def)
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl mount install: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "installed %s.mount\n", unit.PathToUnitName(def.Where))
	return nil
}

func runMountEnable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.mounts.Enable(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl mount enable: %w", err)
	}
	return nil
}

func runMountDisable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.mounts.Disable(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl mount disable: %w", err)
	}
	return nil
}

func runMountRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	ok, err := a.mounts.Remove(ctx, args[0])
	if err := reportOutcome(ok, err); err != nil {
		return fmt.Errorf("unitctl mount remove: %w", err)
	}
	return nil
}

func runMountStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, stop := commandContext()
	defer stop()
	state, err := a.mounts.Status(ctx, args[0])
	if err != nil {
		return fmt.Errorf("unitctl mount status: %w", err)
	}
	if state == "" {
		state = "unknown"
	}
	fmt.Fprintln(cmd.OutOrStdout(), state)
	return nil
}
