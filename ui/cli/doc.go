// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for cursor-free using
// Cobra. It loads configuration, wires the reset, backup and mailbox services
// and keeps the commands themselves thin.
package cli
