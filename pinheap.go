package compose

// PinHandle identifies a single pin held against the snapshot pinning heap.
// The zero value is never returned by TrackPinning and is safe to use as a
// sentinel for "no pin held".
type PinHandle struct {
	index int
}

// IsValid reports whether h refers to a live pin. The zero PinHandle is
// always invalid.
func (h PinHandle) IsValid() bool {
	return h.index != 0
}

// pinningHeap is a binary min-heap over pinned SnapshotIds supporting O(log N)
// add/remove and O(1) access to the lowest pinned id. It is addressed by
// stable handles rather than heap positions: each entry remembers its own
// position, and positions are swapped (not values) during sift operations so
// a handle issued at insertion time stays valid across later heap churn.
//
// Modeled on the snapshot pinning table's double-index heap: one index maps
// handle -> heap slot, the other (implicit, via entry.handle) maps heap slot
// -> handle, so both directions of the swap stay O(1).
type pinningHeap struct {
	entries []pinHeapEntry
	// slot[h.index-1] is the current position of handle h within entries,
	// or -1 if that handle has been removed.
	slot []int
	free []int // recycled handle indices (index-1 form), for reuse
}

type pinHeapEntry struct {
	id     SnapshotId
	handle int // 1-based handle index; slot[handle-1] == this entry's position
}

func newPinningHeap() *pinningHeap {
	return &pinningHeap{}
}

func (h *pinningHeap) len() int {
	return len(h.entries)
}

// add inserts id and returns a handle for later removal.
func (h *pinningHeap) add(id SnapshotId) PinHandle {
	var handleIdx int
	if n := len(h.free); n > 0 {
		handleIdx = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		h.slot = append(h.slot, -1)
		handleIdx = len(h.slot) - 1
	}
	handle := handleIdx + 1

	pos := len(h.entries)
	h.entries = append(h.entries, pinHeapEntry{id: id, handle: handle})
	h.slot[handleIdx] = pos
	h.siftUp(pos)
	return PinHandle{index: handle}
}

// remove releases the pin identified by handle. Removing an already-removed
// or zero-value handle is a no-op.
func (h *pinningHeap) remove(handle PinHandle) {
	if !handle.IsValid() || handle.index-1 >= len(h.slot) {
		return
	}
	handleIdx := handle.index - 1
	pos := h.slot[handleIdx]
	if pos < 0 {
		return
	}
	last := len(h.entries) - 1
	h.swap(pos, last)
	h.entries = h.entries[:last]
	h.slot[handleIdx] = -1
	h.free = append(h.free, handleIdx)

	if pos < len(h.entries) {
		h.siftDown(pos)
		h.siftUp(pos)
	}
}

// lowest returns the smallest pinned id, or false if nothing is pinned.
func (h *pinningHeap) lowest() (SnapshotId, bool) {
	if len(h.entries) == 0 {
		return 0, false
	}
	return h.entries[0].id, true
}

func (h *pinningHeap) swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.slot[h.entries[i].handle-1] = i
	h.slot[h.entries[j].handle-1] = j
}

func (h *pinningHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.entries[parent].id <= h.entries[i].id {
			break
		}
		h.swap(parent, i)
		i = parent
	}
}

func (h *pinningHeap) siftDown(i int) {
	n := len(h.entries)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && h.entries[left].id < h.entries[smallest].id {
			smallest = left
		}
		if right < n && h.entries[right].id < h.entries[smallest].id {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
