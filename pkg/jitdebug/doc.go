// Package jitdebug implements the in-process side of the binary JIT
// debugging protocol: a registry that announces dynamically generated
// machine code and loaded bytecode containers to an out-of-process
// debugger.
//
// The debugger's half of the contract is a handful of well-known globals
// it locates through the symbol table:
//
//   - CodeRegistry and CodeRegistryTimestamp for compiled-code entries
//   - Containers and ContainersTimestamp for bytecode containers
//   - RegisterCodeBeacon, a breakpointable no-op reached through
//     RegisterCodeBeaconPtr after every mutation
//
// The reader never takes a lock. It walks the intrusive lists as raw
// memory and uses the timestamps as generation counters: a traversal that
// starts and ends on different values must be discarded and retried. The
// inspect subpackage implements that discipline for in-process use.
//
// The host runtime's half is the Registry singleton:
//
//	reg := jitdebug.Global()
//	entry := reg.CreateEntry(symfile)
//	reg.IncrementRefcount(entry, codeAddr)
//	...
//	reg.DecrementRefcount(entry, codeAddr) // entry freed on last address
//
// One symbol file may describe several compiled routines; the entry stays
// alive until the last attributed code address is released. Container
// registration is idempotent and deregistration of an unknown header is a
// no-op, because the host runtime's load and unload paths are not
// guaranteed to pair for every object.
//
// Misuse that would desynchronize the debugger-visible state (attributing
// an address twice, releasing an address against the wrong entry) panics:
// it means the caller's bookkeeping is already corrupt.
package jitdebug
