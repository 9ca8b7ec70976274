// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HappyFox001/cursor-free/internal/i18n"
	"github.com/HappyFox001/cursor-free/internal/names"
)

func newAccountCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Generate a random sign-up name, email address and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if domain == "" {
				domain = appConfig.Mailbox.Extension
			}
			acct := newNameGenerator().NewAccount(domain)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("account.name", acct.FirstName+" "+acct.LastName))
			fmt.Fprintln(out, i18n.T("account.email", acct.Email))
			fmt.Fprintln(out, i18n.T("account.password", acct.Password))
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Email domain (defaults to the mailbox extension)")
	return cmd
}

// newNameGenerator is replaced in tests.
var newNameGenerator = names.New
