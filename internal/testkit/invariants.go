package testkit

import (
	"fmt"

	"shapediff/internal/diff"
	"shapediff/internal/shape"
)

// CheckDiffInvariants verifies d against a brute-force recomputation over both models:
// 1) added = ids(new) \ ids(old) and removed = ids(old) \ ids(new)
// 2) added ∩ removed = ∅
// 3) changed holds exactly the shared IDs whose shapes are not structurally equal
// 4) added ∪ removed ∪ changed ∪ unchanged = ids(old) ∪ ids(new)
func CheckDiffInvariants(oldModel, newModel *shape.Model, d *diff.Differences) error {
	if d == nil {
		return fmt.Errorf("nil differences")
	}
	inOld := idSet(oldModel)
	inNew := idSet(newModel)

	added := d.AddedIDs()
	removed := d.RemovedIDs()
	changed := d.ChangedIDs()

	// 1)
	for _, id := range added {
		if inOld[id] || !inNew[id] {
			return fmt.Errorf("added id %s is not new-only", id)
		}
	}
	for _, id := range removed {
		if !inOld[id] || inNew[id] {
			return fmt.Errorf("removed id %s is not old-only", id)
		}
	}

	// 2) + 4)
	seen := make(map[shape.ShapeID]string, len(inOld)+len(inNew))
	for _, group := range []struct {
		name string
		ids  []shape.ShapeID
	}{{"added", added}, {"removed", removed}, {"changed", changed}} {
		for _, id := range group.ids {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("id %s is both %s and %s", id, prev, group.name)
			}
			seen[id] = group.name
		}
	}

	// 3)
	wantChanged := 0
	for id := range inOld {
		if !inNew[id] {
			continue
		}
		o, _ := oldModel.Shape(id)
		n, _ := newModel.Shape(id)
		equal := o.Equal(n)
		if !equal {
			wantChanged++
		}
		if _, isChanged := d.Changed(id); isChanged == equal {
			return fmt.Errorf("id %s: changed=%v but structurally equal=%v", id, isChanged, equal)
		}
	}
	if wantChanged != len(changed) {
		return fmt.Errorf("changed count %d, want %d", len(changed), wantChanged)
	}

	for id := range inOld {
		if _, ok := seen[id]; !ok && !inNew[id] {
			return fmt.Errorf("old-only id %s missing from removed", id)
		}
	}
	for id := range inNew {
		if _, ok := seen[id]; !ok && !inOld[id] {
			return fmt.Errorf("new-only id %s missing from added", id)
		}
	}
	return nil
}

func idSet(m *shape.Model) map[shape.ShapeID]bool {
	out := make(map[shape.ShapeID]bool, m.Len())
	for _, id := range m.IDs() {
		out[id] = true
	}
	return out
}
