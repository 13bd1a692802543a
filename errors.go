// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"github.com/pkg/errors"
)

var errMemory = errors.New("unable to free memory or resize BDD")
var errReset = errors.New("invalid node")

// Error returns the error status of the engine. We return an empty string if
// there are no errors.
func (b *Engine) Error() string {
	if b.error == nil {
		return ""
	}
	return b.error.Error()
}

// Errored returns true if there was an error during a computation.
func (b *Engine) Errored() bool {
	return b.error != nil
}

// seterror records a (recoverable) error condition in the engine. Errors are
// sticky and chain their causes, so that a node-table overflow reported in the
// middle of a long computation is still visible at the end of it.
func (b *Engine) seterror(format string, a ...interface{}) Node {
	if b.error != nil {
		b.error = errors.Wrapf(b.error, format, a...)
		return nil
	}
	b.error = errors.Errorf(format, a...)
	b.log.Debug(b.error)
	return nil
}
