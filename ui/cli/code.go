// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HappyFox001/cursor-free/internal/i18n"
	"github.com/HappyFox001/cursor-free/internal/mailbox"
)

func newCodeCmd() *cobra.Command {
	var (
		retries  int
		interval time.Duration
		copyCode bool
	)
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Wait for a verification code in the configured mailbox",
		Long: `Polls the tempmail.plus mailbox for the newest message and prints the first
six-digit verification code found in it. The message is deleted afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("retries") {
				retries = appConfig.Poll.MaxRetries
			}
			if !cmd.Flags().Changed("interval") {
				interval = appConfig.Poll.Interval
			}

			client := newMailboxClient(appConfig)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, subtleStyle.Render(i18n.T("code.waiting", client.Session.Address())))

			code, err := mailbox.NewPoller(client).Poll(cmd.Context(), retries, interval)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, successStyle.Render(i18n.T("code.found", code)))
			if copyCode {
				if err := clipboardWrite(code); err != nil {
					fmt.Fprintln(out, warnStyle.Render(i18n.T("code.copy_failed", err)))
				} else {
					fmt.Fprintln(out, i18n.T("code.copied"))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&retries, "retries", mailbox.DefaultMaxRetries, "Number of polling attempts")
	cmd.Flags().DurationVar(&interval, "interval", mailbox.DefaultInterval, "Pause between attempts")
	cmd.Flags().BoolVar(&copyCode, "copy", false, "Copy the code to the clipboard")
	return cmd
}
