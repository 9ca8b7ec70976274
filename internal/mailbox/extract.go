// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package mailbox

import (
	"html"
	"io"
	"mime"
	"regexp"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/HappyFox001/cursor-free/internal/logging"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

var sixDigits = regexp.MustCompile(`\b\d{6}\b`)

// ExtractCode returns the first standalone six digit run in body. Digits that
// are part of an address or a dotted token such as a domain or version
// number are skipped. Raw MIME messages are decoded first.
func ExtractCode(body string) (string, bool) {
	return findCode(decodeBody(body))
}

func findCode(text string) (string, bool) {
	for _, loc := range sixDigits.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 {
			if prev := text[start-1]; isASCIILetter(prev) || prev == '@' || prev == '.' {
				continue
			}
		}
		if end < len(text) {
			next := text[end]
			if isASCIILetter(next) || next == '@' {
				continue
			}
			if next == '.' && end+1 < len(text) && isASCIIAlnum(text[end+1]) {
				continue
			}
		}
		return text[start:end], true
	}
	return "", false
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isASCIIAlnum(c byte) bool {
	return isASCIILetter(c) || c >= '0' && c <= '9'
}

// decodeBody returns the first text/plain part of a raw RFC 5322 message,
// falling back to the first text/html part with tags removed. Anything that
// is not a message is returned unchanged.
func decodeBody(body string) string {
	if !looksLikeMessage(body) {
		return body
	}
	mr, err := mail.CreateReader(strings.NewReader(body))
	if err != nil {
		logging.Debugf("body is not a parsable message: %v", err)
		return body
	}
	defer func() { _ = mr.Close() }()

	var htmlPart string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Debugf("reading message part: %v", err)
			break
		}
		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, err := h.ContentType()
		if err != nil {
			ct = "text/plain"
		}
		data, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}
		switch ct {
		case "text/plain":
			return string(data)
		case "text/html":
			if htmlPart == "" {
				htmlPart = string(data)
			}
		}
	}
	if htmlPart != "" {
		return stripTags(htmlPart)
	}
	return body
}

// looksLikeMessage reports whether s starts with a header block declaring a
// content type.
func looksLikeMessage(s string) bool {
	end := strings.Index(s, "\r\n\r\n")
	if end < 0 {
		end = strings.Index(s, "\n\n")
	}
	if end <= 0 {
		return false
	}
	for _, line := range strings.Split(s[:end], "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
				continue
			}
			return false
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Type") {
			_, _, err := mime.ParseMediaType(strings.TrimSpace(value))
			return err == nil
		}
	}
	return false
}

var (
	scriptBlock = regexp.MustCompile(`(?is)<(script|style)\b.*?</(script|style)>`)
	tag         = regexp.MustCompile(`(?s)<[^>]*>`)
	spaces      = regexp.MustCompile(`[ \t]+`)
)

func stripTags(s string) string {
	s = scriptBlock.ReplaceAllString(s, " ")
	s = tag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
