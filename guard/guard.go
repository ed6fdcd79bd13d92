// Package guard provides a single-flag misuse detector for resources that
// must not be used concurrently.
//
// A Guard is not a lock: nobody ever waits. Entering a guard that is
// already in use fails fast with ErrBusy, surfacing the concurrent misuse
// at the offending call site instead of letting two users corrupt the
// resource. Wrap non-reentrant resources with it; the limiter package does
// not use it internally.
package guard

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrBusy is returned by Enter when the guarded resource is already in
// use.
var ErrBusy = errors.New("guard: resource busy")

// A Guard marks a resource as exclusively in use between Enter and the
// returned exit function.
//
// The zero-value Guard is ready to use. A Guard must not be copied after
// first use.
type Guard struct {
	inUse atomic.Bool
	// action names what users of the resource are doing, for error text.
	action string
}

// New creates a Guard whose ErrBusy errors mention the given action, e.g.
// "reading from this stream".
func New(action string) *Guard {
	return &Guard{action: action}
}

// Enter marks the resource in use and returns the exit function that
// clears the mark. If the resource is already marked, Enter returns an
// error wrapping ErrBusy and a nil exit.
//
// Typical usage:
//
//	exit, err := g.Enter()
//	if err != nil {
//		return err
//	}
//	defer exit()
func (g *Guard) Enter() (exit func(), err error) {
	if !g.inUse.CompareAndSwap(false, true) {
		if g.action != "" {
			return nil, fmt.Errorf("%w: another caller is already %s", ErrBusy, g.action)
		}
		return nil, ErrBusy
	}
	return func() {
		if !g.inUse.CompareAndSwap(true, false) {
			panic("guard: exit without matching enter")
		}
	}, nil
}

// InUse reports whether the resource is currently marked in use. The
// answer may be stale by the time the caller acts on it; use Enter for an
// authoritative claim.
func (g *Guard) InUse() bool { return g.inUse.Load() }
