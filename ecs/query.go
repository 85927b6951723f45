package ecs

// Query returns live entities that carry every listed kind. It iterates the
// smallest store and returns a fresh slice.
func (w *World) Query(kinds ...KindID) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil || s.Len() == 0 {
			return nil
		}
		stores = append(stores, s)
	}
	smallest := stores[0]
	for _, s := range stores[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}

	out := make([]Entity, 0, smallest.Len())
outer:
	for _, e := range smallest.Entities() {
		if !w.IsAlive(e) {
			continue
		}
		for _, s := range stores {
			if s != smallest && !s.Has(e) {
				continue outer
			}
		}
		out = append(out, e)
	}
	return out
}

// First returns the first live entity carrying kind.
func (w *World) First(kind KindID) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return 0, false
	}
	for _, e := range s.Entities() {
		if w.IsAlive(e) {
			return e, true
		}
	}
	return 0, false
}
