package compose

import "reflect"

// RecomposeScope is the unit of invalidation: one per group that reads
// state. Reads performed while the scope is active register its dependency
// on the touched StateObject; a later write to any of those objects marks
// the scope dirty so ProcessInvalidScopes reruns it.
type RecomposeScope struct {
	tag    int
	dirty  bool
	deps   map[ObjectId]bool
	inputs []any
	run    func()
}

func newRecomposeScope(tag int, run func()) *RecomposeScope {
	return &RecomposeScope{tag: tag, dirty: true, deps: make(map[ObjectId]bool), run: run}
}

// skippable reports whether inputs are unchanged from the scope's last
// recorded inputs, in which case the body need not rerun.
func (s *RecomposeScope) skippable(inputs []any) bool {
	if s.inputs == nil || len(s.inputs) != len(inputs) {
		return false
	}
	for i := range inputs {
		if !reflect.DeepEqual(s.inputs[i], inputs[i]) {
			return false
		}
	}
	return true
}

// SnapshotStateObserver bridges StateObject reads and writes performed
// through a Runtime's ambient snapshot to composition scope invalidation
//. A Composer installs one observer instance on the runtime's global
// snapshot for its entire lifetime; reads during a scope's execution
// populate that scope's dependency set, and any write to a watched object
// schedules every dependent scope as dirty.
type SnapshotStateObserver struct {
	rt *Runtime

	active []*RecomposeScope // stack of scopes currently executing, top is innermost

	byObject map[ObjectId]map[int]*RecomposeScope // object -> scope tag -> scope
	dirty    map[int]*RecomposeScope
}

func newSnapshotStateObserver(rt *Runtime) *SnapshotStateObserver {
	o := &SnapshotStateObserver{
		rt:       rt,
		byObject: make(map[ObjectId]map[int]*RecomposeScope),
		dirty:    make(map[int]*RecomposeScope),
	}
	rt.Global().readObserver = o.onRead
	rt.Global().writeObserver = o.onWrite
	return o
}

func (o *SnapshotStateObserver) onRead(obj *StateObject) {
	if len(o.active) == 0 {
		return
	}
	scope := o.active[len(o.active)-1]
	scope.deps[obj.id] = true
	scopes, ok := o.byObject[obj.id]
	if !ok {
		scopes = make(map[int]*RecomposeScope)
		o.byObject[obj.id] = scopes
	}
	scopes[scope.tag] = scope
}

func (o *SnapshotStateObserver) onWrite(obj *StateObject) {
	for tag, scope := range o.byObject[obj.id] {
		scope.dirty = true
		o.dirty[tag] = scope
	}
}

// enter pushes scope as the active dependency collector and clears its
// previously recorded dependencies, since they are about to be recomputed.
func (o *SnapshotStateObserver) enter(scope *RecomposeScope) {
	for obj := range scope.deps {
		delete(scope.deps, obj)
		if scopes := o.byObject[obj]; scopes != nil {
			delete(scopes, scope.tag)
		}
	}
	o.active = append(o.active, scope)
}

func (o *SnapshotStateObserver) leave() {
	o.active = o.active[:len(o.active)-1]
}

func (o *SnapshotStateObserver) takeDirty() []*RecomposeScope {
	if len(o.dirty) == 0 {
		return nil
	}
	out := make([]*RecomposeScope, 0, len(o.dirty))
	for _, s := range o.dirty {
		out = append(out, s)
	}
	o.dirty = make(map[int]*RecomposeScope)
	return out
}

func (o *SnapshotStateObserver) hasDirty() bool {
	return len(o.dirty) > 0
}
