package compose

import (
	"fmt"
	"sync"
)

// Kind distinguishes the four snapshot variants the runtime can hand out.
type snapshotKind uint8

const (
	snapshotGlobal snapshotKind = iota
	snapshotReadonly
	snapshotMutable
	snapshotNested
)

// WriteObserver is notified synchronously whenever a write occurs through a
// snapshot that installed it. The state object passed is the one written.
type WriteObserver func(obj *StateObject)

// ReadObserver is notified synchronously whenever a read occurs through a
// snapshot that installed it.
type ReadObserver func(obj *StateObject)

// Snapshot is an MVCC view over every StateObject in the process. Reads
// through a Snapshot resolve to the record visible as of the snapshot's id
// and invalid set; writes through a Mutable snapshot create or update a
// record tagged with the snapshot's id.
//
// Snapshot values are not safe for concurrent use from multiple goroutines;
// composition is cooperative single-threaded. The runtime they are
// allocated from is process-wide and safe to call from multiple threads,
// each holding its own snapshot.
type Snapshot struct {
	kind     snapshotKind
	id       SnapshotId
	invalid  SnapshotIdSet
	parent   *Snapshot
	disposed bool

	readObserver  ReadObserver
	writeObserver WriteObserver

	// writtenObjects records every StateObject written through this
	// snapshot, keyed by ObjectId, so Apply can enumerate touched state
	// without scanning every object in the process.
	writtenObjects map[ObjectId]*StateObject

	pin PinHandle

	// pendingChildren tracks nested snapshots that have not yet applied or
	// disposed, so a parent can refuse to apply while children are open.
	pendingChildren int
}

// ObjectId uniquely identifies a StateObject for the lifetime of the process.
type ObjectId uint64

// ID returns the snapshot's identifier.
func (s *Snapshot) ID() SnapshotId { return s.id }

// IsReadonly reports whether writes through this snapshot are rejected.
func (s *Snapshot) IsReadonly() bool {
	return s.kind == snapshotReadonly
}

// SnapshotApplyResult is the outcome of Snapshot.Apply.
type SnapshotApplyResult uint8

const (
	// ApplySuccess indicates every write in the snapshot was merged into
	// its parent without conflict.
	ApplySuccess SnapshotApplyResult = iota
	// ApplyFailure indicates a conflicting concurrent write could not be
	// merged; no state was mutated.
	ApplyFailure
)

func (r SnapshotApplyResult) String() string {
	if r == ApplySuccess {
		return "Success"
	}
	return "Failure"
}

// Runtime is the process-wide snapshot allocator and bookkeeper. All
// mutation is serialized through a single reentrant-by-construction mutex: a
// Runtime method never calls back into another Runtime method while already
// holding the lock, so the mutex itself needs no recursion support.
type Runtime struct {
	mu sync.Mutex

	nextSnapshotID   SnapshotId
	openSnapshots    SnapshotIdSet
	globalSnapshotID SnapshotId

	pins *pinningHeap

	global *Snapshot

	current *Snapshot // the snapshot most recently entered through Enter, if any; shared by every goroutine

	frameClock *FrameClock
}

// NewRuntime creates a Runtime with its global snapshot already open, exactly
// as the process-wide snapshot system starts with id 1 pre-existing and id 2
// assigned to the initial global snapshot.
func NewRuntime() *Runtime {
	r := &Runtime{
		nextSnapshotID:   InitialGlobalSnapshotId + 1,
		openSnapshots:    NewSnapshotIdSet().Set(InitialGlobalSnapshotId),
		globalSnapshotID: InitialGlobalSnapshotId,
		pins:             newPinningHeap(),
		frameClock:       newFrameClock(),
	}
	r.global = &Snapshot{kind: snapshotGlobal, id: InitialGlobalSnapshotId}
	return r
}

// FrameClock returns the runtime's frame clock.
func (r *Runtime) FrameClock() *FrameClock { return r.frameClock }

// allocateSnapshot returns a fresh id and the open set to seed as invalid.
func (r *Runtime) allocateSnapshot() (SnapshotId, SnapshotIdSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invalid := r.openSnapshots
	id := r.nextSnapshotID
	r.nextSnapshotID++
	r.openSnapshots = r.openSnapshots.Set(id)
	return id, invalid
}

func (r *Runtime) closeSnapshot(id SnapshotId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openSnapshots = r.openSnapshots.Clear(id)
}

// AllocateRecordID bumps the id counter without opening a snapshot. Used to
// tag a promoted record distinctly from any still-open snapshot id.
func (r *Runtime) AllocateRecordID() SnapshotId {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSnapshotID
	r.nextSnapshotID++
	return id
}

// PeekNextSnapshotID returns the id that will be handed out next, without
// incrementing the counter.
func (r *Runtime) PeekNextSnapshotID() SnapshotId {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextSnapshotID
}

// AdvanceGlobalSnapshot transitions the global snapshot id. If newID is not
// strictly greater than the current global id, the open set is reset to
// contain only newID.
func (r *Runtime) AdvanceGlobalSnapshot(newID SnapshotId) SnapshotIdSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.globalSnapshotID
	if newID <= old {
		r.openSnapshots = NewSnapshotIdSet().Set(newID)
		r.globalSnapshotID = newID
		r.global.id = newID
		return r.openSnapshots
	}
	r.openSnapshots = r.openSnapshots.Clear(old).Set(newID)
	r.globalSnapshotID = newID
	r.global.id = newID
	return r.openSnapshots
}

// TrackPinning pins the lowest id in invalid relative to snapshotID (or
// snapshotID itself if invalid has no members below it), returning a handle
// to release later.
func (r *Runtime) TrackPinning(snapshotID SnapshotId, invalid SnapshotIdSet) PinHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	pinned := invalid.Lowest(snapshotID)
	return r.pins.add(pinned)
}

// ReleasePinning releases a pin previously obtained from TrackPinning.
func (r *Runtime) ReleasePinning(h PinHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pins.remove(h)
}

// LowestPinnedSnapshot returns the smallest snapshot id currently pinned, if
// any. Records tagged with an older id are safe to reclaim.
func (r *Runtime) LowestPinnedSnapshot() (SnapshotId, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pins.lowest()
}

// Global returns the ambient global snapshot. Reads outside any explicit
// snapshot resolve against this one.
func (r *Runtime) Global() *Snapshot {
	return r.global
}

// ErrReadOnlyWrite is returned when a write is attempted through a readonly
// snapshot.
var ErrReadOnlyWrite = fmt.Errorf("compose: write attempted on a readonly snapshot")

// ErrDisposedSnapshot is returned when a disposed snapshot is used.
var ErrDisposedSnapshot = fmt.Errorf("compose: snapshot is disposed")

// ErrApplyConflict is the error value for a concurrent write that could not
// be merged. Apply reports such a conflict by returning ApplyFailure; nothing
// in this package returns ErrApplyConflict.
var ErrApplyConflict = fmt.Errorf("compose: snapshot apply conflict")

// TakeMutableSnapshot opens a new mutable snapshot. readObserver and
// writeObserver may be nil.
func (r *Runtime) TakeMutableSnapshot(readObserver ReadObserver, writeObserver WriteObserver) *Snapshot {
	id, invalid := r.allocateSnapshot()
	snap := &Snapshot{
		kind:          snapshotMutable,
		id:            id,
		invalid:       invalid,
		readObserver:  readObserver,
		writeObserver: writeObserver,
	}
	snap.pin = r.TrackPinning(id, invalid)
	return snap
}

// TakeReadonlySnapshot opens a new readonly snapshot: reads resolve as of
// the moment it was taken, and any write through it fails.
func (r *Runtime) TakeReadonlySnapshot(readObserver ReadObserver) *Snapshot {
	id, invalid := r.allocateSnapshot()
	snap := &Snapshot{
		kind:         snapshotReadonly,
		id:           id,
		invalid:      invalid,
		readObserver: readObserver,
	}
	snap.pin = r.TrackPinning(id, invalid)
	return snap
}

// TakeNestedSnapshot opens a snapshot nested under parent. Nested snapshots
// apply into their parent rather than the global snapshot.
func (r *Runtime) TakeNestedSnapshot(parent *Snapshot, writeObserver WriteObserver) *Snapshot {
	id, invalid := r.allocateSnapshot()
	parent.pendingChildren++
	snap := &Snapshot{
		kind:          snapshotNested,
		id:            id,
		invalid:       invalid,
		parent:        parent,
		writeObserver: writeObserver,
	}
	snap.pin = r.TrackPinning(id, invalid)
	return snap
}

// Dispose closes a snapshot without applying its writes. Safe to call on an
// already-disposed snapshot.
func (r *Runtime) Dispose(s *Snapshot) {
	if s.disposed || s.kind == snapshotGlobal {
		return
	}
	s.disposed = true
	// Unlink records still tagged with s's id: writes that were never
	// promoted must not become readable once the global id passes s's.
	for _, obj := range s.writtenObjects {
		var prev *StateRecord
		for rec := obj.head; rec != nil; rec = rec.next {
			if rec.snapshotId != s.id {
				prev = rec
				continue
			}
			if prev == nil {
				obj.head = rec.next
			} else {
				prev.next = rec.next
			}
		}
	}
	r.closeSnapshot(s.id)
	r.ReleasePinning(s.pin)
	if s.parent != nil {
		s.parent.pendingChildren--
	}
}

// Apply promotes every write made through s into its parent (or the global
// snapshot, for a top-level mutable snapshot), firing write observers on
// success. It always closes s, whether or not the merge succeeds.
func (r *Runtime) Apply(s *Snapshot) SnapshotApplyResult {
	if s.disposed {
		return ApplyFailure
	}
	if s.kind == snapshotReadonly || s.kind == snapshotGlobal {
		r.Dispose(s)
		return ApplyFailure
	}

	target := r.global
	if s.parent != nil {
		target = s.parent
	}

	result := ApplySuccess
	for _, obj := range s.writtenObjects {
		if !obj.promoteRecord(s.id, target.id) {
			result = ApplyFailure
			break
		}
	}

	if result == ApplySuccess {
		if target == r.global {
			r.AdvanceGlobalSnapshot(r.PeekNextSnapshotID())
		}
		for _, obj := range s.writtenObjects {
			if s.writeObserver != nil {
				s.writeObserver(obj)
			}
			if target.writeObserver != nil {
				target.writeObserver(obj)
			}
		}
	}

	r.Dispose(s)
	return result
}

// Current returns the snapshot the runtime considers "current" for reads and
// writes issued without an explicit snapshot argument (used by MutableState).
// Returns the global snapshot if no explicit snapshot has been entered.
func (r *Runtime) Current() *Snapshot {
	if r.current != nil {
		return r.current
	}
	return r.global
}

// Enter makes s the current snapshot for the duration of body.
func (r *Runtime) Enter(s *Snapshot, body func()) {
	prev := r.current
	r.current = s
	defer func() { r.current = prev }()
	body()
}
