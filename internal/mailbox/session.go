// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package mailbox

import (
	"strings"

	"github.com/HappyFox001/cursor-free/internal/logging"
	"github.com/HappyFox001/cursor-free/internal/model"
	"github.com/HappyFox001/cursor-free/internal/names"
)

// DefaultExtension is the domain part appended to the mailbox username.
const DefaultExtension = "@mailto.plus"

// NewSession normalises the mailbox settings. An empty username is replaced
// by a generated one, which only works for mailboxes without a PIN.
func NewSession(username, extension, pin string) model.MailboxSession {
	username = strings.TrimSpace(username)
	if username == "" {
		username = names.New().Username()
		logging.Infof("no mailbox configured, using %s", username+normaliseExtension(extension))
	}
	return model.MailboxSession{
		Username:  username,
		Extension: normaliseExtension(extension),
		Pin:       strings.TrimSpace(pin),
	}
}

func normaliseExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, "@") {
		ext = "@" + ext
	}
	return ext
}
