package core

// memHeader is the header every GC-managed allocation carries: a link
// to the next block on the runtime's allocation list and the mark bit
// for the current collection phase. The original runtime folds the
// mark bit into the low bit of the next pointer; Go gives us no safe
// way to steal a pointer bit, so the two are kept as separate fields
// (documented deviation, see DESIGN.md).
type memHeader struct {
	next heapEntity
	mark bool
	size uint32
}

// heapEntity is implemented by every concrete GC-managed type
// (*StringPrim, *Env, *Object). It plays the role the original's
// Memory vtable (mark/finalizer) plays, realized as Go interface
// dispatch instead of C++ virtual dispatch.
type heapEntity interface {
	gcHeader() *memHeader
	gcMark(mk *marker)
	gcFinalize(rt *Runtime)
}

// headSentinel anchors the allocation list; it is never itself
// collected and contributes nothing to the mark phase.
type headSentinel struct {
	memHeader
}

func (h *headSentinel) gcHeader() *memHeader     { return &h.memHeader }
func (h *headSentinel) gcMark(mk *marker)        {}
func (h *headSentinel) gcFinalize(rt *Runtime)   {}

// marker carries the current collection's target mark-bit value and
// an explicit work queue, matching the original's Marker/IMark split
// between "mark one block" and "drain the queue".
type marker struct {
	rt       *Runtime
	markBit  bool
	queue    []heapEntity
	maxQueue int
}

func (mk *marker) mark(e heapEntity) {
	switch v := e.(type) {
	case nil:
		return
	case *Object:
		if v == nil {
			return
		}
	case *Env:
		if v == nil {
			return
		}
	case *StringPrim:
		if v == nil {
			return
		}
	}
	h := e.gcHeader()
	if h.mark == mk.markBit {
		return
	}
	h.mark = mk.markBit
	mk.queue = append(mk.queue, e)
	if len(mk.queue) > mk.maxQueue {
		mk.maxQueue = len(mk.queue)
	}
}

func (mk *marker) markValue(v TaggedValue) {
	switch v.Tag {
	case TagString:
		mk.mark(v.Str)
	case TagObject, TagFunction, TagMemory:
		mk.mark(v.Obj)
	}
}

// Allocate is the allocator's single operation, contract per spec
// section 4.1: run a full collection first if the new block would
// exceed the threshold, then allocate unconditionally. act supplies
// the live root set for the collection; it may be nil only while
// bootstrapping the runtime's own intrinsics, before any activation
// exists.
func (rt *Runtime) allocate(act *Activation, e heapEntity, size uint32) {
	if rt.allocated+uint64(size) > rt.gcThreshold {
		rt.collect(act)
	}
	h := e.gcHeader()
	h.mark = rt.markBit
	h.size = size
	rt.tail.gcHeader().next = e
	rt.tail = e
	rt.allocated += uint64(size)
	rt.diagAlloc(act, e, size)
}

// ForceGC runs a collection unconditionally, using act as the root.
// Exposed for the FORCE_GC diagnostic flag and for tests that assert
// on post-collection heap size (spec scenario S5).
func (rt *Runtime) ForceGC(act *Activation) {
	rt.diagForceGC()
	rt.collect(act)
}

func (rt *Runtime) collect(act *Activation) {
	startAllocated := rt.allocated
	rt.diagGCStart()

	rt.markBit = !rt.markBit
	mk := &marker{rt: rt, markBit: rt.markBit}

	rt.markRoots(mk)
	if act != nil {
		act.mark(mk)
	}
	for len(mk.queue) > 0 {
		e := mk.queue[0]
		mk.queue = mk.queue[1:]
		e.gcMark(mk)
	}

	// Sweep: unlink and finalize every block whose mark bit doesn't
	// match this collection's phase, relinking the list around the
	// gaps exactly as the original's collect() does.
	var lastMarked heapEntity = &rt.head
	freedSinceLastMarked := false
	cur := rt.head.gcHeader().next
	for cur != nil {
		h := cur.gcHeader()
		if h.mark != mk.markBit {
			toFree := cur
			cur = h.next
			toFree.gcFinalize(rt)
			rt.allocated -= uint64(h.size)
			freedSinceLastMarked = true
			continue
		}
		if freedSinceLastMarked {
			lastMarked.gcHeader().next = cur
			freedSinceLastMarked = false
		}
		lastMarked = cur
		cur = h.next
	}
	if freedSinceLastMarked {
		lastMarked.gcHeader().next = nil
		rt.tail = lastMarked
	}

	rt.gcThreshold = maxU64(rt.gcThreshold, rt.allocated*2)
	rt.diagGCEnd(startAllocated, mk.maxQueue)
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
