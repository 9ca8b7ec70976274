// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"slices"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestT_TranslatesAndFormats(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := T("code.found", "123456"); got != "Verification code: 123456" {
		t.Fatalf("unexpected translation %q", got)
	}
}

func TestT_MissingIDFallsBack(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("expected the id back, got %q", got)
	}
}

func TestSetLang_Chinese(t *testing.T) {
	if err := SetLang("zh"); err != nil {
		t.Fatalf("SetLang: %v", err)
	}
	t.Cleanup(func() { _ = Init("en") })
	if got := T("menu.quit"); got != "退出" {
		t.Fatalf("unexpected zh translation %q", got)
	}
	if Lang() != "zh" {
		t.Fatalf("Lang() = %q", Lang())
	}
	// Positional verbs keep argument order independent of the sentence.
	if got := T("restore.success", "a.json", "b.json"); got != "已从 b.json 恢复 a.json" {
		t.Fatalf("unexpected formatted translation %q", got)
	}
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	if err := Init("fr"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = Init("en") })
	if got := T("menu.quit"); got != "Quit" {
		t.Fatalf("expected English fallback, got %q", got)
	}
}

// TestLocalesHaveSameKeys checks every locale covers the English messages.
func TestLocalesHaveSameKeys(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	langs := Languages()
	slices.Sort(langs)
	if !slices.Equal(langs, []string{"en", "zh"}) {
		t.Fatalf("unexpected languages %v", langs)
	}
	en := readKeys(t, "locales/en.yaml")
	zh := readKeys(t, "locales/zh.yaml")
	for k := range en {
		if _, ok := zh[k]; !ok {
			t.Errorf("zh is missing %s", k)
		}
	}
}

func readKeys(t *testing.T, name string) map[string]string {
	t.Helper()
	data, err := localeFS.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	out := map[string]string{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return out
}
