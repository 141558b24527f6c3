package jitdebug

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"

	"github.com/coral-mesh/jitdebug/internal/check"
	"github.com/coral-mesh/jitdebug/internal/logging"
)

// Registry owns all mutable bookkeeping behind the debugger-facing
// globals: the intrusive lists, the keyed indices over them, and the byte
// counter. The lists and the indices describe the same entries in two
// shapes (ordered for the reader, keyed for the runtime); keeping both
// behind one lock is what keeps them from drifting apart.
type Registry struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	observer func(Event)

	// codeByAddr attributes each live code address to its owning entry.
	codeByAddr map[uintptr]*CodeEntry
	// containers deduplicates container registrations by header pointer.
	containers map[unsafe.Pointer]*ContainerEntry
	// memUsage is the structural + payload bytes of all live code entries.
	memUsage uint64
}

var (
	global     *Registry
	globalOnce sync.Once
)

// Global returns the process-wide registry, initializing it on first use.
// There is no teardown: the registry lives as long as the process, like
// the debugger that watches it.
func Global() *Registry {
	globalOnce.Do(func() {
		global = &Registry{
			logger:     logging.FromEnv().With().Str("component", "jitdebug").Logger(),
			codeByAddr: make(map[uintptr]*CodeEntry),
			containers: make(map[unsafe.Pointer]*ContainerEntry),
		}
	})
	return global
}

// CreateEntry copies symfile into registry-owned memory, links a new entry
// at the head of the code list and announces it to the debugger. The
// caller's buffer may be transient; it is never aliased. The returned
// entry starts with no attributed code addresses.
func (r *Registry) CreateEntry(symfile []byte) *CodeEntry {
	check.Assert(len(symfile) > 0, "jitdebug: symbol file must not be empty")

	owned := make([]byte, len(symfile))
	copy(owned, symfile)
	hash := xxh3.Hash(owned)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := &CodeEntry{
		Next:        CodeRegistry.First,
		Symfile:     &owned[0],
		SymfileSize: uint64(len(owned)),
	}
	if entry.Next != nil {
		entry.Next.Prev = entry
	}
	r.memUsage += codeEntrySize + entry.SymfileSize

	CodeRegistry.First = entry
	CodeRegistry.Relevant = entry
	CodeRegistry.Action = ActionRegistered
	ts := atomic.AddUint32(&CodeRegistryTimestamp, 1)

	r.notifyLocked(Event{
		Kind:        EventCodeRegistered,
		Timestamp:   ts,
		SymfileSize: entry.SymfileSize,
		SymfileHash: hash,
	})
	return entry
}

// DeleteEntry unlinks and releases an entry that has no attributed code
// addresses. It is normally reached through DecrementRefcount; calling it
// while references are outstanding is a fatal bookkeeping error.
func (r *Registry) DeleteEntry(entry *CodeEntry) {
	check.Assert(entry != nil, "jitdebug: nil code entry")

	r.mu.Lock()
	defer r.mu.Unlock()

	check.Assertf(entry.refCount == 0,
		"jitdebug: deleting code entry with %d live references", entry.refCount)
	r.deleteEntryLocked(entry)
}

// deleteEntryLocked unlinks entry from the code list, handling the
// head-of-list and tail-of-list cases, and announces the removal. The
// descriptor keeps pointing at the removed entry as Relevant so the
// reader stopped at the beacon can still identify what went away.
func (r *Registry) deleteEntryLocked(entry *CodeEntry) {
	if entry.Prev != nil {
		entry.Prev.Next = entry.Next
	} else {
		CodeRegistry.First = entry.Next
	}
	if entry.Next != nil {
		entry.Next.Prev = entry.Prev
	}
	r.memUsage -= codeEntrySize + entry.SymfileSize

	CodeRegistry.Relevant = entry
	CodeRegistry.Action = ActionUnregistered
	ts := atomic.AddUint32(&CodeRegistryTimestamp, 1)

	r.notifyLocked(Event{
		Kind:        EventCodeUnregistered,
		Timestamp:   ts,
		SymfileSize: entry.SymfileSize,
	})
}

// IncrementRefcount attributes codeAddr to entry. Each live code address
// belongs to at most one entry; attributing an address twice is a fatal
// bookkeeping error.
func (r *Registry) IncrementRefcount(entry *CodeEntry, codeAddr uintptr) {
	check.Assert(entry != nil, "jitdebug: nil code entry")

	r.mu.Lock()
	defer r.mu.Unlock()

	_, taken := r.codeByAddr[codeAddr]
	check.Assertf(!taken, "jitdebug: code address %#x is already attributed", codeAddr)
	entry.refCount++
	r.codeByAddr[codeAddr] = entry
}

// DecrementRefcount removes the attribution of codeAddr to entry,
// deleting the entry when its last address goes away. codeAddr must
// currently be attributed to entry; a mismatch is a fatal bookkeeping
// error, not a recoverable condition.
func (r *Registry) DecrementRefcount(entry *CodeEntry, codeAddr uintptr) {
	check.Assert(entry != nil, "jitdebug: nil code entry")

	r.mu.Lock()
	defer r.mu.Unlock()

	check.Assertf(r.codeByAddr[codeAddr] == entry,
		"jitdebug: code address %#x is not attributed to this entry", codeAddr)
	entry.refCount--
	if entry.refCount == 0 {
		r.deleteEntryLocked(entry)
	}
	delete(r.codeByAddr, codeAddr)
}

// Lookup returns the entry owning codeAddr, or nil when the address is
// not attributed. The index is shared state, so even this read takes the
// registry lock.
func (r *Registry) Lookup(codeAddr uintptr) *CodeEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codeByAddr[codeAddr]
}
