// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package names generates throwaway sign-up identities from a built-in table
// of first and last names.
package names

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/HappyFox001/cursor-free/internal/model"
)

//go:embed names.txt
var rawTable string

const fallbackName = "Default"

// Tables holds the parsed name lists. They are read-only after loading.
type Tables struct {
	First []string
	Last  []string
}

// Load returns the process-wide tables, parsing them on first use.
var Load = sync.OnceValue(func() Tables { return Parse(rawTable) })

// Parse reads "first_names=<name>" and "last_names=<name>" lines. Other
// lines are ignored.
func Parse(s string) Tables {
	var t Tables
	for _, line := range strings.Split(s, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		switch strings.TrimSpace(key) {
		case "first_names":
			t.First = append(t.First, val)
		case "last_names":
			t.Last = append(t.Last, val)
		}
	}
	return t
}

// Generator draws names and passwords.
type Generator struct {
	Tables Tables
	// IntN returns a value in [0, n). rand.IntN when nil.
	IntN func(n int) int
}

// New returns a Generator over the built-in tables.
func New() *Generator {
	return &Generator{Tables: Load()}
}

func (g *Generator) intN(n int) int {
	if g.IntN != nil {
		return g.IntN(n)
	}
	return rand.Intn(n)
}

// between returns a value in [lo, hi).
func (g *Generator) between(lo, hi int) int {
	return lo + g.intN(hi-lo)
}

func (g *Generator) pick(list []string) string {
	name := fallbackName
	if len(list) > 0 {
		name = list[g.intN(len(list))]
	}
	return fmt.Sprintf("%s%d", name, g.between(100, 999))
}

// Name returns a random first and last name, each with a three digit suffix.
func (g *Generator) Name() (first, last string) {
	return g.pick(g.Tables.First), g.pick(g.Tables.Last)
}

// Password appends six random digits to first.
func (g *Generator) Password(first string) string {
	return fmt.Sprintf("%s%d", first, g.between(100000, 999999))
}

// Username returns a lowercase name usable as a mailbox local part.
func (g *Generator) Username() string {
	first, _ := g.Name()
	return strings.ToLower(first)
}

// NewAccount builds a sign-up identity "first.last@domain".
func (g *Generator) NewAccount(domain string) model.Account {
	first, last := g.Name()
	domain = strings.TrimPrefix(strings.TrimSpace(domain), "@")
	return model.Account{
		FirstName: first,
		LastName:  last,
		Email:     strings.ToLower(first + "." + last + "@" + domain),
		Password:  g.Password(first),
	}
}
