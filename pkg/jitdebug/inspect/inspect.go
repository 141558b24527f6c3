// Package inspect reads the debugger-facing registry state the way an
// external debugger does: without the registry lock, trusting only the
// generation counters.
//
// A traversal reads a list's timestamp, walks the intrusive records as
// raw memory, then reads the timestamp again. Equal values mean no
// mutation raced the walk and the snapshot is coherent; unequal values
// mean the snapshot is garbage and must be discarded. Pointer reads are
// deliberately unsynchronized — this package mirrors a reader that the
// registry does not coordinate with, and it is not race-detector-clean
// when run against a concurrently mutating registry.
package inspect

import (
	"errors"
	"sync/atomic"
	"unsafe"

	"github.com/coral-mesh/jitdebug/internal/safe"
	"github.com/coral-mesh/jitdebug/pkg/jitdebug"
)

const (
	// maxEntries bounds a traversal so a torn list can never walk forever.
	maxEntries = 1 << 20

	// DefaultRetries is how often Capture re-walks a list that keeps
	// mutating under it before giving up.
	DefaultRetries = 8
)

// ErrUnstable is returned when every traversal attempt raced a mutation.
var ErrUnstable = errors.New("inspect: registry mutated during every traversal attempt")

// CodeEntryInfo is a stable copy of one compiled-code record.
type CodeEntryInfo struct {
	// Entry is the live record, usable as an identity with the registry's
	// Lookup results. Its fields must not be trusted after the snapshot.
	Entry *jitdebug.CodeEntry
	// Symfile is a copy of the entry's symbol file payload.
	Symfile []byte
}

// Snapshot is a generation-consistent copy of the compiled-code list.
type Snapshot struct {
	// Timestamp is the generation the snapshot was taken at.
	Timestamp uint32
	Version   uint32
	Action    jitdebug.Action
	// Code holds the entries in list order, most recently registered
	// first.
	Code []CodeEntryInfo
}

// ContainerSnapshot is a generation-consistent copy of the container list.
type ContainerSnapshot struct {
	Timestamp uint32
	// Containers holds the unowned header pointers in list order, most
	// recently registered first.
	Containers []unsafe.Pointer
}

// Capture walks the compiled-code list, retrying until a traversal begins
// and ends on the same timestamp. retries < 0 selects DefaultRetries.
func Capture(retries int) (*Snapshot, error) {
	if retries < 0 {
		retries = DefaultRetries
	}
	for attempt := 0; attempt <= retries; attempt++ {
		before := atomic.LoadUint32(&jitdebug.CodeRegistryTimestamp)
		snap, ok := walkCode()
		after := atomic.LoadUint32(&jitdebug.CodeRegistryTimestamp)
		if ok && before == after {
			snap.Timestamp = after
			return snap, nil
		}
	}
	return nil, ErrUnstable
}

// CaptureContainers is Capture for the container list.
func CaptureContainers(retries int) (*ContainerSnapshot, error) {
	if retries < 0 {
		retries = DefaultRetries
	}
	for attempt := 0; attempt <= retries; attempt++ {
		before := atomic.LoadUint32(&jitdebug.ContainersTimestamp)
		snap, ok := walkContainers()
		after := atomic.LoadUint32(&jitdebug.ContainersTimestamp)
		if ok && before == after {
			snap.Timestamp = after
			return snap, nil
		}
	}
	return nil, ErrUnstable
}

// walkCode copies the code list. It reports failure instead of a
// snapshot whenever the records look torn: mismatched back links, an
// implausible payload size, or a list longer than any sane registry.
func walkCode() (*Snapshot, bool) {
	snap := &Snapshot{
		Version: jitdebug.CodeRegistry.Version,
		Action:  jitdebug.CodeRegistry.Action,
	}
	if snap.Version != jitdebug.DescriptorVersion {
		return nil, false
	}

	var prev *jitdebug.CodeEntry
	for e := jitdebug.CodeRegistry.First; e != nil; e = e.Next {
		if e.Prev != prev || len(snap.Code) >= maxEntries {
			return nil, false
		}
		payload, ok := copySymfile(e)
		if !ok {
			return nil, false
		}
		snap.Code = append(snap.Code, CodeEntryInfo{Entry: e, Symfile: payload})
		prev = e
	}
	return snap, true
}

func walkContainers() (*ContainerSnapshot, bool) {
	snap := &ContainerSnapshot{}
	var prev *jitdebug.ContainerEntry
	for e := jitdebug.Containers; e != nil; e = e.Next {
		if e.Prev != prev || len(snap.Containers) >= maxEntries {
			return nil, false
		}
		snap.Containers = append(snap.Containers, e.Container)
		prev = e
	}
	return snap, true
}

func copySymfile(e *jitdebug.CodeEntry) ([]byte, bool) {
	if e.Symfile == nil || e.SymfileSize == 0 {
		return nil, false
	}
	n, clamped := safe.Uint64ToInt(e.SymfileSize)
	if clamped {
		return nil, false
	}
	payload := make([]byte, n)
	copy(payload, unsafe.Slice(e.Symfile, n))
	return payload, true
}
