package engine

import (
	"context"
	"errors"
)

// unit is one isolated execution unit: a goroutine hosting an engine
// instance, reachable only through its inbox and outbox. No memory is
// shared with the host beyond the channels; payload ownership transfers
// with each message.
type unit struct {
	inbox  chan Message
	outbox chan Message
	done   chan struct{}
}

// spawn starts a fresh execution unit. The caller must terminate it
// exactly once, on every exit path.
func spawn(rt Runtime) *unit {
	u := &unit{
		inbox:  make(chan Message, 1),
		outbox: make(chan Message, 1),
		done:   make(chan struct{}),
	}
	go u.run(rt)
	return u
}

// run is the unit's message loop. Instance cleanup is guaranteed by the
// deferred close, on normal termination and on any loop exit.
func (u *unit) run(rt Runtime) {
	ctx := context.Background()

	var inst Instance
	defer func() {
		if inst != nil {
			_ = inst.Close(ctx)
		}
	}()

	for {
		select {
		case <-u.done:
			return
		case msg := <-u.inbox:
			switch m := msg.(type) {
			case Load:
				i, err := rt.Instantiate(ctx, m.Module)
				if err != nil {
					u.emit(Fail{Message: err.Error()})
					continue
				}
				inst = i
				u.emit(Loaded{})
			case Convert:
				if inst == nil {
					u.emit(Fail{Message: "convert received before module load"})
					continue
				}
				res, err := inst.Convert(ctx, m)
				if err != nil {
					u.emit(failFor(err))
					continue
				}
				u.emit(res)
			case Loaded, Result, Fail:
				// Engine-to-host variants are never valid on the inbox.
				u.emit(Fail{Message: "protocol violation: engine message on host inbox"})
			}
		}
	}
}

// emit delivers an engine-to-host message unless the unit was terminated.
func (u *unit) emit(msg Message) {
	select {
	case u.outbox <- msg:
	case <-u.done:
	}
}

// send delivers a host-to-engine message.
func (u *unit) send(ctx context.Context, msg Message) error {
	select {
	case u.inbox <- msg:
		return nil
	case <-u.done:
		return ErrUnitTerminated
	case <-ctx.Done():
		return ctx.Err()
	}
}

// recv suspends until the next engine-to-host message arrives.
func (u *unit) recv(ctx context.Context) (Message, error) {
	select {
	case msg := <-u.outbox:
		return msg, nil
	case <-u.done:
		return nil, ErrUnitTerminated
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// terminate stops the unit and releases its instance. Must be called
// exactly once; the client guarantees this with a single deferred call.
func (u *unit) terminate() {
	close(u.done)
}

// failFor converts an instance error into the Fail variant, preserving the
// engine code when present.
func failFor(err error) Fail {
	var engErr *Error
	if errors.As(err, &engErr) {
		return Fail{Code: engErr.Code, Message: engErr.Message}
	}
	return Fail{Message: err.Error()}
}
