package jitdebug

import (
	"sync/atomic"
	"unsafe"

	"github.com/coral-mesh/jitdebug/internal/check"
)

// RegisterContainer announces a loaded bytecode container to the
// debugger. Registration is idempotent: a header that is already listed
// is left alone and the timestamp does not move. The registry never takes
// ownership of the container memory.
func (r *Registry) RegisterContainer(header unsafe.Pointer) {
	check.Assert(header != nil, "jitdebug: nil container header")

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.containers[header]; ok {
		return
	}

	entry := &ContainerEntry{
		Next:      Containers,
		Container: header,
	}
	if entry.Next != nil {
		entry.Next.Prev = entry
	}
	Containers = entry
	r.containers[header] = entry
	ts := atomic.AddUint32(&ContainersTimestamp, 1)

	r.notifyLocked(Event{Kind: EventContainerRegistered, Timestamp: ts})
}

// DeregisterContainer removes a container from the debugger-visible list.
// A header that was never registered is a silent no-op: the host runtime
// does not pair every unload with a prior registration.
func (r *Registry) DeregisterContainer(header unsafe.Pointer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.containers[header]
	if !ok {
		return
	}

	if entry.Prev != nil {
		entry.Prev.Next = entry.Next
	} else {
		Containers = entry.Next
	}
	if entry.Next != nil {
		entry.Next.Prev = entry.Prev
	}
	delete(r.containers, header)
	ts := atomic.AddUint32(&ContainersTimestamp, 1)

	r.notifyLocked(Event{Kind: EventContainerUnregistered, Timestamp: ts})
}

// ContainerCount reports how many containers are currently registered.
func (r *Registry) ContainerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.containers)
}
