package list

// SelectionMode controls what setting the cursor does to items the cursor
// passes over.
type SelectionMode int

const (
	// SelectionNone: cursor movement does not change selection.
	SelectionNone SelectionMode = iota
	// SelectionSelect: cursor movement paints every item in the traversed
	// range as selected.
	SelectionSelect
	// SelectionDeselect: cursor movement paints every item in the
	// traversed range as deselected.
	SelectionDeselect
)

// MultiselectList is a NavigableList with a selection mode and a set of
// selected keys. Moving the cursor while in Select or Deselect mode paints
// every item in the inclusive range between the old and new cursor
// position.
type MultiselectList[K comparable, T Keyed[K]] struct {
	*NavigableList[K, T]
	mode     SelectionMode
	selected map[K]struct{}
}

// NewMultiselectList builds a MultiselectList over items with no cursor,
// SelectionNone, and nothing selected.
func NewMultiselectList[K comparable, T Keyed[K]](items []T) *MultiselectList[K, T] {
	return &MultiselectList[K, T]{
		NavigableList: NewNavigableList[K, T](items),
		selected:      make(map[K]struct{}),
	}
}

// Mode returns the current selection mode.
func (l *MultiselectList[K, T]) Mode() SelectionMode {
	return l.mode
}

// SetMode changes the selection mode. Switching mode does not itself
// change any selection; only subsequent cursor movement does.
func (l *MultiselectList[K, T]) SetMode(mode SelectionMode) {
	l.mode = mode
}

// IsSelected reports whether the item with key k is selected.
func (l *MultiselectList[K, T]) IsSelected(k K) bool {
	_, ok := l.selected[k]
	return ok
}

// SelectedKeys returns every currently selected key, in no particular
// order.
func (l *MultiselectList[K, T]) SelectedKeys() []K {
	out := make([]K, 0, len(l.selected))
	for k := range l.selected {
		out = append(out, k)
	}
	return out
}

// SelectedCount returns the number of selected items.
func (l *MultiselectList[K, T]) SelectedCount() int {
	return len(l.selected)
}

// paint sets every item in items[lo:hi+1] (inclusive) to selected=sel.
func (l *MultiselectList[K, T]) paint(lo, hi int, sel bool) {
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		k := l.Items()[i].Key()
		if sel {
			l.selected[k] = struct{}{}
		} else {
			delete(l.selected, k)
		}
	}
}

// moveAndPaint is the shared implementation behind every cursor-moving
// method: it records the pre-move cursor, performs move(), then paints the
// traversed range according to the active selection mode.
func (l *MultiselectList[K, T]) moveAndPaint(move func()) {
	oldCursor, hadCursor := l.Cursor()
	move()
	newCursor, hasCursor := l.Cursor()
	if !hasCursor || l.mode == SelectionNone {
		return
	}
	lo := 0
	if hadCursor {
		lo = oldCursor
	}
	l.paint(lo, newCursor, l.mode == SelectionSelect)
}

// SetCursor moves the cursor to idx and paints per the active mode.
func (l *MultiselectList[K, T]) SetCursor(idx int) {
	l.moveAndPaint(func() { l.NavigableList.SetCursor(idx) })
}

// MoveCursorRelative shifts the cursor by n and paints per the active
// mode.
func (l *MultiselectList[K, T]) MoveCursorRelative(n int) {
	l.moveAndPaint(func() { l.NavigableList.MoveCursorRelative(n) })
}

// First moves the cursor to the start and paints per the active mode.
func (l *MultiselectList[K, T]) First() {
	l.moveAndPaint(func() { l.NavigableList.First() })
}

// Last moves the cursor to the end and paints per the active mode.
func (l *MultiselectList[K, T]) Last() {
	l.moveAndPaint(func() { l.NavigableList.Last() })
}

// Next moves the cursor forward one and paints per the active mode.
func (l *MultiselectList[K, T]) Next() {
	l.moveAndPaint(func() { l.NavigableList.Next() })
}

// Previous moves the cursor back one and paints per the active mode.
func (l *MultiselectList[K, T]) Previous() {
	l.moveAndPaint(func() { l.NavigableList.Previous() })
}

// ToggleCursorSelected flips the selection of the item at the cursor.
func (l *MultiselectList[K, T]) ToggleCursorSelected() {
	item, ok := l.CursorItem()
	if !ok {
		return
	}
	k := item.Key()
	if l.IsSelected(k) {
		delete(l.selected, k)
	} else {
		l.selected[k] = struct{}{}
	}
}

// SetAllSelected sets every item's selection to sel.
func (l *MultiselectList[K, T]) SetAllSelected(sel bool) {
	if !sel {
		l.selected = make(map[K]struct{})
		return
	}
	for _, it := range l.Items() {
		l.selected[it.Key()] = struct{}{}
	}
}

// ReplaceItems rebuilds the list (preserving the cursor by key, as
// NavigableList does) and filters the selected set down to keys present in
// the new items. Paint mode is disabled for the duration of the rebuild so
// the cursor-preservation logic never mutates selection.
func (l *MultiselectList[K, T]) ReplaceItems(items []T) {
	savedMode := l.mode
	l.mode = SelectionNone

	l.NavigableList.ReplaceItems(items)

	present := make(map[K]struct{}, len(items))
	for _, it := range items {
		present[it.Key()] = struct{}{}
	}
	for k := range l.selected {
		if _, ok := present[k]; !ok {
			delete(l.selected, k)
		}
	}

	l.mode = savedMode
}
