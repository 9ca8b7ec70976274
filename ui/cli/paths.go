// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HappyFox001/cursor-free/internal/i18n"
	"github.com/HappyFox001/cursor-free/internal/paths"
)

func newPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show or edit where Cursor's configuration files are looked up",
	}

	var builtin bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the path table and the paths resolved for this system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if builtin {
				_, err := cmd.OutOrStdout().Write(paths.DefaultTable())
				return err
			}
			r, err := paths.New(appConfig.PathsFile)
			if err != nil {
				return err
			}
			if _, err := r.EnsureConfig(); err != nil {
				return err
			}
			raw, err := os.ReadFile(r.ConfigPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, subtleStyle.Render(i18n.T("paths.config_file", r.ConfigPath)))
			fmt.Fprintln(out, string(raw))

			table, err := r.Load()
			if err != nil {
				return err
			}
			section, _ := paths.SectionFor(r.GOOS)
			fmt.Fprintln(out, i18n.T("paths.sections", strings.Join(table.Sections(), ", "), section))

			loc, err := r.Resolve()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, i18n.T("paths.resolved"))
			fmt.Fprintln(out, i18n.T("paths.storage", loc.StoragePath))
			fmt.Fprintln(out, i18n.T("paths.state", loc.StatePath))
			return nil
		},
	}

	showCmd.Flags().BoolVar(&builtin, "default", false, "Print the built-in path table instead")

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the path table in an editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPaths(cmd)
		},
	}

	cmd.AddCommand(showCmd, editCmd)
	return cmd
}

func editPaths(cmd *cobra.Command) error {
	r, err := paths.New(appConfig.PathsFile)
	if err != nil {
		return err
	}
	if _, err := r.EnsureConfig(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("paths.opening", r.ConfigPath))
	return newPlatform().OpenFile(cmd.Context(), r.ConfigPath)
}
