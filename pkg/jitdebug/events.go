package jitdebug

import (
	"strconv"

	"github.com/rs/zerolog"
)

// EventKind identifies which mutation an Event describes.
type EventKind uint8

const (
	EventCodeRegistered EventKind = iota
	EventCodeUnregistered
	EventContainerRegistered
	EventContainerUnregistered
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventCodeRegistered:
		return "code-registered"
	case EventCodeUnregistered:
		return "code-unregistered"
	case EventContainerRegistered:
		return "container-registered"
	case EventContainerUnregistered:
		return "container-unregistered"
	default:
		return "unknown"
	}
}

// Event describes one completed mutation of a debugger-visible list.
type Event struct {
	Kind EventKind
	// Timestamp is the list's generation counter after the mutation.
	Timestamp uint32
	// SymfileSize is set for code events.
	SymfileSize uint64
	// SymfileHash is the xxh3 of the symbol file, set for code
	// registrations. Diagnostic only; it is not stored in the records.
	SymfileHash uint64
}

// SetObserver registers fn to be invoked synchronously after every
// mutation, with the registry lock held. fn must not call back into the
// registry. A nil fn removes the observer.
func (r *Registry) SetObserver(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = fn
}

// SetLogger replaces the mutation-event logger. The default comes from
// the JITDEBUG_* environment and is disabled when unset.
func (r *Registry) SetLogger(logger zerolog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger.With().Str("component", "jitdebug").Logger()
}

// notifyLocked completes a mutation: the beacon fires first so external
// tooling observes the state change at a stable instruction address, then
// the in-process observer and the event log. Runs with the registry lock
// held so observers see mutations in order.
func (r *Registry) notifyLocked(ev Event) {
	RegisterCodeBeaconPtr()
	if r.observer != nil {
		r.observer(ev)
	}

	log := r.logger.Debug().
		Str("kind", ev.Kind.String()).
		Uint32("timestamp", ev.Timestamp)
	if ev.SymfileSize > 0 {
		log = log.Uint64("symfile_size", ev.SymfileSize)
	}
	if ev.SymfileHash != 0 {
		log = log.Str("symfile_xxh3", strconv.FormatUint(ev.SymfileHash, 16))
	}
	log.Msg("debug registry mutated")
}
