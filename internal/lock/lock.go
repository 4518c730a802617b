// Package lock provides keyed serialization for find-or-create sequences.
//
// The resolver takes a lock on the identity of the lot or property it is
// about to look up, so that two concurrent resolutions of the same new address
// do not both observe "no match" and create twice. The unique indexes of the
// stores still back this up when several processes share a database without
// sharing a Locker.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock could not be taken before the
// context was done.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive locks by key. The returned unlock func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}
