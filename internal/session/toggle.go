package session

import (
	"context"
	"fmt"

	"firstlog/internal/observability"
)

// Toggle kinds. The kind keys both the interaction set and the metrics label.
const (
	toggleLike  = "like"
	toggleScrap = "scrap"
)

// toggleCommand is one optimistic mutation: flip local state now, resolve
// against the network later, and either commit or roll back. Commands for
// the same entity run through a keyed lock, so rapid repeated toggles
// coalesce into the net parity change with no duplicate requests.
type toggleCommand struct {
	c    *Coordinator
	kind string
	id   int64
	send func(context.Context, int64) error

	desired bool
}

func (cmd *toggleCommand) key() string {
	return fmt.Sprintf("%s:%d", cmd.kind, cmd.id)
}

// apply flips membership synchronously, before any network round trip.
// This is the state screens render from.
func (cmd *toggleCommand) apply() {
	cmd.c.mu.Lock()
	set := cmd.c.setFor(cmd.kind)
	if set[cmd.id] {
		delete(set, cmd.id)
	} else {
		set[cmd.id] = true
	}
	cmd.c.mu.Unlock()
	cmd.c.notify()
}

// pending reports whether the applied state still differs from the last
// server-confirmed state. A false result means an earlier command in the
// queue already reconciled this entity and no request is owed.
func (cmd *toggleCommand) pending() bool {
	cmd.c.mu.RLock()
	defer cmd.c.mu.RUnlock()
	cmd.desired = cmd.c.setFor(cmd.kind)[cmd.id]
	return cmd.desired != cmd.c.confirmedFor(cmd.kind)[cmd.id]
}

// commit records the server-acknowledged state; the optimistic flip is
// already correct so no further state change is needed.
func (cmd *toggleCommand) commit() {
	cmd.c.mu.Lock()
	confirmed := cmd.c.confirmedFor(cmd.kind)
	if cmd.desired {
		confirmed[cmd.id] = true
	} else {
		delete(confirmed, cmd.id)
	}
	cmd.c.mu.Unlock()
}

// rollback reverts membership to the last confirmed state.
func (cmd *toggleCommand) rollback() {
	cmd.c.mu.Lock()
	set := cmd.c.setFor(cmd.kind)
	if cmd.c.confirmedFor(cmd.kind)[cmd.id] {
		set[cmd.id] = true
	} else {
		delete(set, cmd.id)
	}
	cmd.c.mu.Unlock()
	observability.ToggleRollbacks.WithLabelValues(cmd.kind).Inc()
	cmd.c.notify()
}

// run executes the command: optimistic apply, per-entity serialization,
// then the network call with commit or rollback.
func (cmd *toggleCommand) run(ctx context.Context) error {
	cmd.apply()

	unlock := cmd.c.locks.lock(cmd.key())
	defer unlock()

	if !cmd.pending() {
		return nil
	}
	if err := cmd.send(ctx, cmd.id); err != nil {
		cmd.rollback()
		return err
	}
	cmd.commit()
	return nil
}
