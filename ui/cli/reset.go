// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HappyFox001/cursor-free/internal/backup"
	"github.com/HappyFox001/cursor-free/internal/i18n"
	"github.com/HappyFox001/cursor-free/internal/reset"
)

func newResetCmd() *cobra.Command {
	var launch, yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Back up Cursor's configuration and replace its machine identifiers",
		Long: `Closes every running Cursor process, copies storage.json and state.json into
the backup directory and writes three fresh identifiers into both files.
If writing fails, the files are put back from the backup just taken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd, launch, yes)
		},
	}
	cmd.Flags().BoolVar(&launch, "launch", false, "Start Cursor after a successful reset")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func runReset(cmd *cobra.Command, launch, yes bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	plat := newPlatform()

	if ok, err := plat.CheckPrivileges(); err == nil && !ok {
		fmt.Fprintln(out, warnStyle.Render(i18n.T("reset.privilege_missing", plat.PrivilegeHint())))
		return reset.ErrPermission
	}

	if !confirm(cmd, i18n.T("reset.confirm", targetProcess(appConfig, plat)), yes) {
		fmt.Fprintln(out, i18n.T("common.aborted"))
		return nil
	}

	m, store, release, err := newManager(ctx, appConfig, plat)
	if err != nil {
		return err
	}
	defer release()

	fmt.Fprintln(out, subtleStyle.Render(i18n.T("reset.working")))
	rec, err := m.Reset(ctx)
	if err != nil {
		var irr *reset.IrrecoverableError
		switch {
		case errors.As(err, &irr):
			fmt.Fprintln(out, errorStyle.Render(i18n.T("reset.irrecoverable", store.Dir)))
		case errors.Is(err, reset.ErrRolledBack):
			fmt.Fprintln(out, warnStyle.Render(i18n.T("reset.rolled_back", err)))
		}
		return err
	}

	fmt.Fprintln(out, successStyle.Render(i18n.T("reset.success", rec.Email)))
	fmt.Fprintln(out, i18n.T("reset.machine_id", rec.MachineID))
	fmt.Fprintln(out, i18n.T("reset.device_id", rec.DeviceID))
	fmt.Fprintln(out, i18n.T("reset.mac_machine_id", rec.MacMachineID))

	if launch {
		fmt.Fprintln(out, i18n.T("reset.launching"))
		if err := plat.Launch(ctx); err != nil {
			fmt.Fprintln(out, warnStyle.Render(i18n.T("reset.launch_failed", err)))
		}
	}
	return nil
}

func newRestoreCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Put the most recent backup of each configuration file back in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func runRestore(cmd *cobra.Command, yes bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	plat := newPlatform()

	if !confirm(cmd, i18n.T("restore.confirm", targetProcess(appConfig, plat)), yes) {
		fmt.Fprintln(out, i18n.T("common.aborted"))
		return nil
	}

	m, store, release, err := newManager(ctx, appConfig, plat)
	if err != nil {
		return err
	}
	defer release()

	res, err := m.Restore(ctx)
	if len(res.Restored) > 0 {
		loc, locErr := m.Paths.Resolve()
		for _, rec := range res.Restored {
			target := string(rec.Kind)
			if locErr == nil {
				target = loc.Path(rec.Kind)
			}
			fmt.Fprintln(out, successStyle.Render(i18n.T("restore.success", target, rec.Path)))
		}
	}
	if errors.Is(err, backup.ErrNotFound) {
		fmt.Fprintln(out, warnStyle.Render(i18n.T("restore.none", store.Dir)))
		return err
	}
	if err != nil {
		return err
	}
	for _, kind := range res.Missing {
		fmt.Fprintln(out, warnStyle.Render(i18n.T("restore.missing", kind)))
	}
	return nil
}
