// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/HappyFox001/cursor-free/internal/i18n"
)

// isTerminal reports whether stdin is interactive. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptForConfirmation displays a prompt and reads a line from the command's input.
func promptForConfirmation(cmd *cobra.Command, prompt string) string {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}

// confirm asks a yes/no question. Without a terminal there is nobody to ask
// and the answer is yes.
func confirm(cmd *cobra.Command, question string, assumeYes bool) bool {
	if assumeYes || !isTerminal() {
		return true
	}
	answer := promptForConfirmation(cmd, question+i18n.T("common.confirm_suffix"))
	return answer == "y" || answer == "yes"
}
