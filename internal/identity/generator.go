// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package identity produces the random identifiers written into the target
// application's configuration.
//
// The values only need to defeat a casual fingerprinting heuristic, so a
// non-cryptographic source is used.
package identity

import (
	"fmt"
	"math/rand"

	"github.com/HappyFox001/cursor-free/internal/model"
)

// IDLength is the fixed width of every generated identifier.
const IDLength = 16

// GenerateID returns a 16 hex digit, zero-padded rendering of a uniformly
// random 64-bit integer. Calls share no state.
func GenerateID() string {
	return fmt.Sprintf("%016x", rand.Uint64())
}

// Generate samples three independent identifiers.
func Generate() model.IdentitySet {
	return GenerateWith(GenerateID)
}

// GenerateWith builds an IdentitySet from gen. Tests pass a deterministic gen.
func GenerateWith(gen func() string) model.IdentitySet {
	return model.IdentitySet{
		MachineID:    gen(),
		DeviceID:     gen(),
		MacMachineID: gen(),
	}
}

// valid reports whether id is a fixed-width lowercase hex identifier.
func valid(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
