package compose

import "reflect"

// StateRecord is one version of a StateObject's value, tagged with the
// snapshot id that wrote it. Records form a singly linked, newest-
// first chain rooted at StateObject.head.
type StateRecord struct {
	snapshotId SnapshotId
	// baseSnapshotId is the id of the record this one was copied from when
	// it was created via writableRecord. Used by promoteRecord to detect
	// whether another write landed on top of the same base in the meantime.
	baseSnapshotId SnapshotId
	value          any
	next           *StateRecord
}

// MergePolicy resolves a write conflict during Apply. Given the value at the
// common base, the value already applied by another snapshot, and the value
// this snapshot wants to apply, it returns a merged value and true, or false
// if the conflict cannot be resolved.
type MergePolicy func(base, applied, current any) (merged any, ok bool)

var nextObjectId ObjectId

func allocObjectId() ObjectId {
	nextObjectId++
	return nextObjectId
}

// StateObject is the runtime representation backing a MutableState[T]. It owns the record chain and resolves reads/writes against whatever
// snapshot is current.
type StateObject struct {
	id    ObjectId
	head  *StateRecord
	merge MergePolicy

	// onRead/onWrite fire for every read/write of this object
	// regardless of which snapshot is current; SnapshotStateObserver uses
	// this to bridge into composition scope invalidation.
	onRead  []ReadObserver
	onWrite []WriteObserver
}

func newStateObject(initial any, merge MergePolicy) *StateObject {
	obj := &StateObject{id: allocObjectId(), merge: merge}
	obj.head = &StateRecord{snapshotId: PreexistingSnapshotId, value: initial}
	return obj
}

// readableRecord returns the newest record visible to a reader at snapshotId
// with the given invalid set: the record with the largest snapshotId that is
// <= snapshotId and not a member of invalid.
func (o *StateObject) readableRecord(snapshotId SnapshotId, invalid SnapshotIdSet) *StateRecord {
	var best *StateRecord
	for r := o.head; r != nil; r = r.next {
		if r.snapshotId <= snapshotId && !invalid.Get(r.snapshotId) {
			if best == nil || r.snapshotId > best.snapshotId {
				best = r
			}
		}
	}
	return best
}

// writableRecord ensures a record tagged with snap's id exists, creating one
// by copying the currently-readable value if necessary, and returns it.
func (o *StateObject) writableRecord(snap *Snapshot) *StateRecord {
	base := o.readableRecord(snap.id, snap.invalid)
	if base != nil && base.snapshotId == snap.id {
		return base
	}
	var baseId SnapshotId
	var value any
	if base != nil {
		baseId = base.snapshotId
		value = base.value
	}
	rec := &StateRecord{snapshotId: snap.id, baseSnapshotId: baseId, value: value, next: o.head}
	o.head = rec
	return rec
}

// promoteRecord retags the record written under `from` to `to`, resolving a
// conflict against anything already promoted on top of the same base.
// Returns false (leaving state untouched) if the conflict cannot be merged.
func (o *StateObject) promoteRecord(from, to SnapshotId) bool {
	var curr *StateRecord
	for r := o.head; r != nil; r = r.next {
		if r.snapshotId == from {
			curr = r
			break
		}
	}
	if curr == nil {
		return true
	}

	var newestApplied *StateRecord
	for r := o.head; r != nil; r = r.next {
		if r == curr {
			continue
		}
		if r.snapshotId <= to && (newestApplied == nil || r.snapshotId > newestApplied.snapshotId) {
			newestApplied = r
		}
	}

	if newestApplied != nil && newestApplied.snapshotId != curr.baseSnapshotId {
		if reflect.DeepEqual(newestApplied.value, curr.value) {
			// Both sides landed on the same value; nothing to merge.
		} else if o.merge != nil {
			var baseValue any
			if base := o.recordTagged(curr.baseSnapshotId); base != nil {
				baseValue = base.value
			}
			merged, ok := o.merge(baseValue, newestApplied.value, curr.value)
			if !ok {
				return false
			}
			curr.value = merged
		} else {
			return false
		}
	}

	curr.snapshotId = to
	curr.baseSnapshotId = to
	// Older records stay in the chain; promotion reclaims nothing.
	return true
}

func (o *StateObject) recordTagged(id SnapshotId) *StateRecord {
	for r := o.head; r != nil; r = r.next {
		if r.snapshotId == id {
			return r
		}
	}
	return nil
}

// MutableState is a snapshot-aware reactive cell. Reads through Get
// register the object with the current read observer (the composer during
// composition); writes through Set/Update register with the snapshot's write
// observer, which SnapshotStateObserver translates into scope invalidation.
type MutableState[T any] struct {
	obj *StateObject
	rt  *Runtime
}

// NewMutableState creates reactive state seeded with initial, readable and
// writable through rt's current snapshot.
func NewMutableState[T any](rt *Runtime, initial T) *MutableState[T] {
	return &MutableState[T]{obj: newStateObject(initial, nil), rt: rt}
}

// NewMutableStateWithMerge is like NewMutableState but installs a merge
// policy used to reconcile conflicting concurrent writes during Apply.
func NewMutableStateWithMerge[T any](rt *Runtime, initial T, merge func(base, applied, current T) (T, bool)) *MutableState[T] {
	obj := newStateObject(initial, func(base, applied, current any) (any, bool) {
		b, _ := base.(T)
		a, _ := applied.(T)
		c, _ := current.(T)
		merged, ok := merge(b, a, c)
		return merged, ok
	})
	return &MutableState[T]{obj: obj, rt: rt}
}

// Get reads the value visible to the current snapshot and registers a
// dependency with the active read observer, if any.
func (m *MutableState[T]) Get() T {
	snap := m.rt.Current()
	rec := m.obj.readableRecord(snap.id, snap.invalid)
	for _, obs := range m.obj.onRead {
		obs(m.obj)
	}
	if snap.readObserver != nil {
		snap.readObserver(m.obj)
	}
	if rec == nil {
		var zero T
		return zero
	}
	v, _ := rec.value.(T)
	return v
}

// Set writes v through the current snapshot, unconditionally. Writes through
// a readonly or disposed snapshot are rejected; use TrySet to observe the
// rejection.
func (m *MutableState[T]) Set(v T) {
	_ = m.write(v)
}

// TrySet is Set surfacing the rejection: ErrReadOnlyWrite when the current
// snapshot is readonly, ErrDisposedSnapshot when it has been disposed.
func (m *MutableState[T]) TrySet(v T) error {
	return m.write(v)
}

// SetEqual writes v through the current snapshot unless v already equals the
// currently readable value, in which case it is a no-op — used to avoid
// scheduling recomposition for an identity write.
func (m *MutableState[T]) SetEqual(v T) {
	if reflect.DeepEqual(m.Get(), v) {
		return
	}
	m.write(v)
}

// Update applies fn to the current value and writes the result.
func (m *MutableState[T]) Update(fn func(T) T) {
	m.write(fn(m.Get()))
}

func (m *MutableState[T]) write(v T) error {
	snap := m.rt.Current()
	if snap.IsReadonly() {
		return ErrReadOnlyWrite
	}
	if snap.disposed {
		return ErrDisposedSnapshot
	}
	rec := m.obj.writableRecord(snap)
	rec.value = v
	if snap.writtenObjects == nil {
		snap.writtenObjects = make(map[ObjectId]*StateObject)
	}
	snap.writtenObjects[m.obj.id] = m.obj
	for _, obs := range m.obj.onWrite {
		obs(m.obj)
	}
	if snap.writeObserver != nil {
		snap.writeObserver(m.obj)
	}
	return nil
}

// ObjectID exposes the backing StateObject's identity, primarily so a
// SnapshotStateObserver can key its scope-dependency map by it.
func (m *MutableState[T]) ObjectID() ObjectId {
	return m.obj.id
}
