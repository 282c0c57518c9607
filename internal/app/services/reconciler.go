package services

import (
	"github.com/chmouel/lazystage/internal/models"
)

// ActionKind identifies a reconciliation action.
type ActionKind int

// Reconciliation actions emitted by a pass.
const (
	// ActionInsert adds a path that was not displayed before.
	ActionInsert ActionKind = iota
	// ActionMove relocates a retained path to a different bucket.
	ActionMove
	// ActionUpdate changes conflict/color annotations without moving buckets.
	ActionUpdate
	// ActionRemove drops a path that is gone from the new snapshot.
	ActionRemove
)

// Action is one step a presentation layer applies to its lists. Insert and
// Move follow the snapshot's order; Remove actions come after all of them.
type Action struct {
	Kind       ActionKind
	Path       string
	Bucket     models.Bucket // destination bucket (insert/move/update)
	FromBucket models.Bucket // origin bucket (move only)
	IsConflict bool
	Color      models.ColorClass
}

// FileRecord is the retained display state for one path. Handle is an opaque
// caller-owned value (a list row, an in-progress edit, ...) that survives
// refreshes as long as the path stays in the snapshot; the reconciler never
// inspects it.
type FileRecord struct {
	Path       string
	Bucket     models.Bucket
	IsConflict bool
	Color      models.ColorClass
	Handle     any

	seen bool
}

// StatusReconciler diffs freshly loaded status snapshots against the display
// state it retains between passes. Instead of clearing and rebuilding the
// presented lists on every refresh, a pass emits the minimal insert/move/
// update/remove sequence, so caller state attached to unchanged paths is kept.
//
// A pass mutates the retained mapping and must run to completion before the
// next one starts; the reconciler itself is not safe for concurrent use.
type StatusReconciler struct {
	records map[string]*FileRecord
}

// NewStatusReconciler returns a reconciler with an empty retained mapping.
func NewStatusReconciler() *StatusReconciler {
	return &StatusReconciler{records: make(map[string]*FileRecord)}
}

// Reconcile computes the actions that bring the displayed state in line with
// set, updating the retained mapping for the next pass. Bucket, conflict and
// color are always recomputed from the entry's current flags: the same path
// can change classification between passes (a resolved conflict moves from
// unstaged to staged without losing its record identity).
func (r *StatusReconciler) Reconcile(set *models.FileStatusSet) []Action {
	for _, rec := range r.records {
		rec.seen = false
	}

	var actions []Action
	count := 0
	if set != nil {
		count = set.Count()
	}
	for i := 0; i < count; i++ {
		path := set.GetFile(i)
		st := set.Status(i)
		bucket := st.Bucket()
		isConflict := st&models.StatusConflict != 0
		color := st.ColorClass()

		rec, ok := r.records[path]
		if !ok {
			rec = &FileRecord{
				Path:       path,
				Bucket:     bucket,
				IsConflict: isConflict,
				Color:      color,
				seen:       true,
			}
			r.records[path] = rec
			actions = append(actions, Action{
				Kind:       ActionInsert,
				Path:       path,
				Bucket:     bucket,
				IsConflict: isConflict,
				Color:      color,
			})
			continue
		}

		rec.seen = true
		switch {
		case rec.Bucket != bucket:
			actions = append(actions, Action{
				Kind:       ActionMove,
				Path:       path,
				Bucket:     bucket,
				FromBucket: rec.Bucket,
				IsConflict: isConflict,
				Color:      color,
			})
		case rec.IsConflict != isConflict || rec.Color != color:
			actions = append(actions, Action{
				Kind:       ActionUpdate,
				Path:       path,
				Bucket:     bucket,
				IsConflict: isConflict,
				Color:      color,
			})
		}
		rec.Bucket = bucket
		rec.IsConflict = isConflict
		rec.Color = color
	}

	// Sweep: anything not seen in this pass left the working tree.
	for path, rec := range r.records {
		if rec.seen {
			continue
		}
		actions = append(actions, Action{
			Kind:   ActionRemove,
			Path:   path,
			Bucket: rec.Bucket,
		})
		delete(r.records, path)
	}

	return actions
}

// Record returns the retained record for path, or nil when not displayed.
func (r *StatusReconciler) Record(path string) *FileRecord {
	return r.records[path]
}

// Attach stores a caller-owned handle on the record for path. Reports false
// when the path is not currently retained.
func (r *StatusReconciler) Attach(path string, handle any) bool {
	rec, ok := r.records[path]
	if !ok {
		return false
	}
	rec.Handle = handle
	return true
}

// Len returns the number of retained records.
func (r *StatusReconciler) Len() int {
	return len(r.records)
}

// HasConflicts reports whether any retained record is marked conflicted.
func (r *StatusReconciler) HasConflicts() bool {
	for _, rec := range r.records {
		if rec.IsConflict {
			return true
		}
	}
	return false
}

// Reset drops all retained state, e.g. when switching repositories.
func (r *StatusReconciler) Reset() {
	r.records = make(map[string]*FileRecord)
}
