// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/HappyFox001/cursor-free/internal/config"
	"github.com/HappyFox001/cursor-free/internal/logging"
)

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Dump debug information about config, env and flags",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "--- CURSOR-FREE DEBUG ---")

			if p, err := config.GetConfigPath(false); err == nil {
				fmt.Fprintf(out, "User config path: %s\n", p)
			}
			if p, err := config.GetConfigPath(true); err == nil {
				fmt.Fprintf(out, "System config path: %s\n", p)
			}

			masked := appConfig
			if masked.Mailbox.Epin != "" {
				masked.Mailbox.Epin = "****"
			}
			b, err := yaml.Marshal(&masked)
			if err != nil {
				logging.Errorf("could not marshal settings: %v", err)
			} else {
				fmt.Fprintln(out, "-- effective settings --")
				fmt.Fprint(out, string(b))
			}

			fmt.Fprintln(out, "-- flags --")
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				fmt.Fprintf(out, "%s = %s\n", f.Name, f.Value.String())
			})

			fmt.Fprintln(out, "-- environment (CURSORFREE_*, TEMP_MAIL*) --")
			for _, e := range os.Environ() {
				if strings.HasPrefix(e, "CURSORFREE_") || strings.HasPrefix(e, "TEMP_MAIL") {
					if strings.HasPrefix(e, "TEMP_MAIL_EPIN=") || strings.HasPrefix(e, "CURSORFREE_MAILBOX_EPIN=") {
						e = e[:strings.IndexByte(e, '=')+1] + "****"
					}
					fmt.Fprintln(out, e)
				}
			}
			fmt.Fprintln(out, "--- END DEBUG ---")
		},
	}
}
