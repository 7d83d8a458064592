package presenter

import "github.com/reeltv/reeltv/internal/media"

// WorkList is an ordered list of works without duplicate ids.
type WorkList struct {
	items []media.Work
	index map[int]int
}

// Len returns the number of works.
func (l *WorkList) Len() int {
	return len(l.items)
}

// Items returns a copy of the works in order.
func (l *WorkList) Items() []media.Work {
	out := make([]media.Work, len(l.items))
	copy(out, l.items)
	return out
}

// Contains reports whether a work with id is present.
func (l *WorkList) Contains(id int) bool {
	_, ok := l.index[id]
	return ok
}

// Append adds the works whose ids are not present yet and returns them.
func (l *WorkList) Append(works []media.Work) []media.Work {
	if l.index == nil {
		l.index = make(map[int]int)
	}
	var added []media.Work
	for _, w := range works {
		if _, ok := l.index[w.ID]; ok {
			continue
		}
		l.index[w.ID] = len(l.items)
		l.items = append(l.items, w)
		added = append(added, w)
	}
	return added
}

// Replace swaps the whole list for works and returns what changed by id.
func (l *WorkList) Replace(works []media.Work) (added, removed []media.Work) {
	next := WorkList{}
	next.Append(works)

	for _, w := range l.items {
		if !next.Contains(w.ID) {
			removed = append(removed, w)
		}
	}
	for _, w := range next.items {
		if !l.Contains(w.ID) {
			added = append(added, w)
		}
	}

	*l = next
	return added, removed
}

// SetFavorite updates the favorite flag of the work with id.
func (l *WorkList) SetFavorite(id int, favorite bool) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.items[i].Favorite = favorite
	return true
}

// Clear empties the list.
func (l *WorkList) Clear() {
	*l = WorkList{}
}
