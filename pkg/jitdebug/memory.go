package jitdebug

import (
	"os"
	"unsafe"

	"github.com/shirou/gopsutil/v4/process"
)

// indexSlotCost approximates the per-address bookkeeping cost of the
// address index: two pointer widths per slot. A rough diagnostic, not a
// measurement of the map's real footprint.
const indexSlotCost = 2 * uint64(unsafe.Sizeof(uintptr(0)))

// MemoryUsage returns the bytes attributable to live code entries
// (structure plus owned symbol file) plus the approximate address-index
// overhead. The entry portion is exact; the index portion only grows and
// shrinks with the number of attributed addresses.
func (r *Registry) MemoryUsage() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memUsage + uint64(len(r.codeByAddr))*indexSlotCost
}

// UsageReport places the registry's footprint in context of the whole
// process.
type UsageReport struct {
	// RegistryBytes is the exact structural + payload cost of live
	// code entries.
	RegistryBytes uint64
	// IndexBytes is the approximate address-index overhead.
	IndexBytes uint64
	// ProcessRSS is the resident set size of the host process, zero when
	// it cannot be determined.
	ProcessRSS uint64
}

// UsageReport returns the current footprint. The RSS probe runs outside
// the registry lock; it can block on the OS and has no business inside a
// critical section.
func (r *Registry) UsageReport() UsageReport {
	r.mu.Lock()
	rep := UsageReport{
		RegistryBytes: r.memUsage,
		IndexBytes:    uint64(len(r.codeByAddr)) * indexSlotCost,
	}
	r.mu.Unlock()

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			rep.ProcessRSS = mem.RSS
		}
	}
	return rep
}
