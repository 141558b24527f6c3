package jitdebug

import "unsafe"

// DescriptorVersion identifies the record layout. A reader that finds a
// different version must not walk the lists.
const DescriptorVersion uint32 = 1

// Action tells the reader what the most recent mutation of the code list was.
type Action uint32

const (
	ActionNone Action = iota
	ActionRegistered
	ActionUnregistered
)

// CodeEntry is one node of the compiled-code list. Field order and widths
// are the binary contract: the external reader dereferences these records
// directly, which is why the list is a manual intrusive doubly linked list
// built from raw pointers.
type CodeEntry struct {
	Next        *CodeEntry
	Prev        *CodeEntry
	Symfile     *byte // first byte of the registry-owned symbol file copy
	SymfileSize uint64

	// refCount is registry bookkeeping: the number of live code addresses
	// attributed to this entry. Physically part of the record, but outside
	// the documented reader contract.
	refCount uint32
}

// CodeDescriptor is the root record for the compiled-code list.
type CodeDescriptor struct {
	Version  uint32
	Action   Action
	Relevant *CodeEntry // entry touched by the most recent mutation
	First    *CodeEntry // list head, most recently registered first
}

// ContainerEntry is one node of the loaded-bytecode-container list. The
// registry never owns the pointed-to container.
type ContainerEntry struct {
	Next      *ContainerEntry
	Prev      *ContainerEntry
	Container unsafe.Pointer
}

// Debugger-facing globals. A reader locates them through the symbol table
// and walks the lists without taking any lock; the timestamp counters are
// the only consistency contract it gets. A traversal that starts and ends
// on different timestamps must be discarded.
var (
	// CodeRegistry is statically initialized so a reader can never observe
	// an unversioned descriptor.
	CodeRegistry = CodeDescriptor{Version: DescriptorVersion}

	// CodeRegistryTimestamp advances by exactly one for every mutation of
	// the code list.
	CodeRegistryTimestamp uint32

	// Containers is the head of the loaded-container list.
	Containers *ContainerEntry

	// ContainersTimestamp advances by exactly one for every mutation of
	// the container list.
	ContainersTimestamp uint32
)

// codeEntrySize is the structural cost of one CodeEntry, charged to the
// byte counter alongside its symbol file payload.
const codeEntrySize = uint64(unsafe.Sizeof(CodeEntry{}))

// RegisterCodeBeacon is the breakpoint anchor for external tooling. It is
// intentionally empty and never inlined: its only purpose is to be an
// interceptable instruction address that is reached synchronously after
// every mutation.
//
//go:noinline
func RegisterCodeBeacon() {}

// RegisterCodeBeaconPtr is the indirection through which the beacon is
// invoked. Tooling that wants more than a breakpoint can swap in its own
// function.
var RegisterCodeBeaconPtr func() = RegisterCodeBeacon
