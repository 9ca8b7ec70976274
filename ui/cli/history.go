// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HappyFox001/cursor-free/internal/history"
	"github.com/HappyFox001/cursor-free/internal/i18n"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent reset attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !appConfig.History.Enabled {
				fmt.Fprintln(out, i18n.T("history.disabled"))
				return nil
			}
			j, err := history.Open(cmd.Context(), appConfig.History.Type, appConfig.History.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			attempts, err := j.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				fmt.Fprintln(out, i18n.T("history.empty"))
				return nil
			}
			for _, a := range attempts {
				line := fmt.Sprintf("%s  %-13s %-12s %s", a.At.Local().Format(time.DateTime), a.Outcome, a.User, a.IDs.MachineID)
				if a.Error != "" {
					line += "  " + errorStyle.Render(a.Error)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries")
	return cmd
}
