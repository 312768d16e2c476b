// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perr defines the error kinds the engine surfaces to callers.
// Each kind is a sentinel error; callers use errors.Is against the
// package-level Err* values, and sites that raise a kind wrap it so the
// message detail is preserved alongside the kind.
package perr

import (
	"errors"
	"fmt"
)

// Kind sentinels. Use errors.Is(err, perr.ErrInvalidConfig) etc. to test
// which kind an error belongs to, regardless of how much detail was added
// when it was raised.
var (
	// ErrInvalidConfig: missing required field, wrong type, unrecognized enum value.
	ErrInvalidConfig = errors.New("invalid-config")

	// ErrInvalidTopology: a feedforward Cluster whose connection graph has a
	// cycle; a gap junction between differently-shaped layers; a one-to-one
	// connection between differently sized layers.
	ErrInvalidTopology = errors.New("invalid-topology")

	// ErrInvalidDevice: requested device id out of range.
	ErrInvalidDevice = errors.New("invalid-device")

	// ErrResourceExhausted: allocation failure on host or device.
	ErrResourceExhausted = errors.New("resource-exhausted")

	// ErrIncompatibleModel: an Attributes subclass rejected a Cluster type.
	ErrIncompatibleModel = errors.New("incompatible-model")

	// ErrDelayOutOfRange: a connection's delay exceeds the 32 x history-word
	// limit and cap_delay was not set.
	ErrDelayOutOfRange = errors.New("delay-out-of-range")

	// ErrCoactiveInputConflict: two simultaneously-active input Modules
	// target the same layer.
	ErrCoactiveInputConflict = errors.New("coactive-input-conflict")

	// ErrDuplicateEngine: a second Engine was started while one was already running.
	ErrDuplicateEngine = errors.New("duplicate-engine")
)

// Wrap annotates err with kind so that errors.Is(result, kind) succeeds
// while the original message is preserved.
func Wrap(kind error, msg string) error {
	return errors.Join(kind, errors.New(msg))
}

// Wrapf is Wrap with fmt-style formatting of msg.
func Wrapf(kind error, format string, args ...any) error {
	return errors.Join(kind, fmt.Errorf(format, args...))
}

// Is reports whether err carries kind, an alias for errors.Is so callers
// need not import both packages.
func Is(err, kind error) bool { return errors.Is(err, kind) }
