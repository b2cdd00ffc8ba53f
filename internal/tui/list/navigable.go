// Package list implements the three layered navigation primitives the TUI
// builds its mailbox tree and message list on: a cursor-tracking list, a
// tree-sibling variant of it, and a multiselect variant with range-paint
// semantics.
package list

// Keyed is the constraint every item in a NavigableList must satisfy: a
// stable identity used to preserve the cursor and selection across
// replace-items calls, even though the underlying slice is rebuilt.
type Keyed[K comparable] interface {
	Key() K
}

// NavigableList is an ordered slice of Keyed items with an optional cursor
// index. The zero value is an empty list with no cursor.
type NavigableList[K comparable, T Keyed[K]] struct {
	items  []T
	cursor *int
}

// NewNavigableList builds a NavigableList over items with no cursor set.
func NewNavigableList[K comparable, T Keyed[K]](items []T) *NavigableList[K, T] {
	return &NavigableList[K, T]{items: items}
}

// Items returns the underlying items in order.
func (l *NavigableList[K, T]) Items() []T {
	return l.items
}

// Len returns the number of items.
func (l *NavigableList[K, T]) Len() int {
	return len(l.items)
}

// Cursor returns the current cursor index and whether one is set.
func (l *NavigableList[K, T]) Cursor() (int, bool) {
	if l.cursor == nil {
		return 0, false
	}
	return *l.cursor, true
}

// CursorItem returns the item at the cursor, if any.
func (l *NavigableList[K, T]) CursorItem() (T, bool) {
	var zero T
	idx, ok := l.Cursor()
	if !ok || idx < 0 || idx >= len(l.items) {
		return zero, false
	}
	return l.items[idx], true
}

// SetCursor sets the cursor to idx, clamped to [0, len-1]. Setting a
// cursor on an empty list is a no-op (cursor remains absent).
func (l *NavigableList[K, T]) SetCursor(idx int) {
	if len(l.items) == 0 {
		l.cursor = nil
		return
	}
	idx = clamp(idx, 0, len(l.items)-1)
	l.cursor = &idx
}

// RemoveCursor clears the cursor.
func (l *NavigableList[K, T]) RemoveCursor() {
	l.cursor = nil
}

// First moves the cursor to index 0 (if the list is non-empty).
func (l *NavigableList[K, T]) First() {
	if len(l.items) == 0 {
		l.cursor = nil
		return
	}
	l.SetCursor(0)
}

// Last moves the cursor to the final index.
func (l *NavigableList[K, T]) Last() {
	if len(l.items) == 0 {
		l.cursor = nil
		return
	}
	l.SetCursor(len(l.items) - 1)
}

// Next moves the cursor one position forward, clamped at the end.
func (l *NavigableList[K, T]) Next() {
	l.MoveCursorRelative(1)
}

// Previous moves the cursor one position backward, clamped at the start.
func (l *NavigableList[K, T]) Previous() {
	l.MoveCursorRelative(-1)
}

// MoveCursorRelative shifts the cursor by n (positive forward, negative
// backward), clamped to [0, len-1]. With no cursor set, a positive n
// lands on index n-1; a negative n lands on index 0 (when the list is
// non-empty).
func (l *NavigableList[K, T]) MoveCursorRelative(n int) {
	if len(l.items) == 0 {
		l.cursor = nil
		return
	}
	cur, ok := l.Cursor()
	if !ok {
		if n > 0 {
			l.SetCursor(n - 1)
		} else {
			l.SetCursor(0)
		}
		return
	}
	l.SetCursor(cur + n)
}

// ReplaceItems rebuilds the list from items, preserving the cursor by key:
// scanning from the old cursor position forward through the old items,
// the cursor lands on the first one whose key also appears in the new
// items. If none match, the cursor becomes absent.
func (l *NavigableList[K, T]) ReplaceItems(items []T) {
	newIndex := make(map[K]int, len(items))
	for i, it := range items {
		newIndex[it.Key()] = i
	}

	var nextCursor *int
	if cur, ok := l.Cursor(); ok {
		for i := cur; i < len(l.items); i++ {
			if idx, found := newIndex[l.items[i].Key()]; found {
				v := idx
				nextCursor = &v
				break
			}
		}
	}

	l.items = items
	l.cursor = nextCursor
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
