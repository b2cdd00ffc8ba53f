package list

// Depthed is the extra constraint TreeList items need: a depth in the
// synthesized tree, used to find tree-siblings.
type Depthed interface {
	Depth() int
}

// TreeItem combines Keyed and Depthed; MailboxRow in internal/tui/app
// satisfies this.
type TreeItem[K comparable] interface {
	Keyed[K]
	Depthed
}

// TreeList is a NavigableList whose items carry a tree depth, adding
// sibling navigation on top of the plain cursor movement.
type TreeList[K comparable, T TreeItem[K]] struct {
	*NavigableList[K, T]
}

// NewTreeList builds a TreeList over items with no cursor set.
func NewTreeList[K comparable, T TreeItem[K]](items []T) *TreeList[K, T] {
	return &TreeList[K, T]{NavigableList: NewNavigableList[K, T](items)}
}

// NextSibling moves from the cursor item at depth d to the next item with
// depth <= d (an ancestor counts as a sibling-at-a-lower-depth for this
// purpose). With no cursor, it falls through to Next.
func (l *TreeList[K, T]) NextSibling() {
	idx, ok := l.Cursor()
	if !ok {
		l.Next()
		return
	}
	depth := l.Items()[idx].Depth()
	for i := idx + 1; i < l.Len(); i++ {
		if l.Items()[i].Depth() <= depth {
			l.SetCursor(i)
			return
		}
	}
	l.SetCursor(l.Len() - 1)
}

// PreviousSibling moves from the cursor item at depth d to the previous
// item with depth <= d. With no cursor, it falls through to Previous.
func (l *TreeList[K, T]) PreviousSibling() {
	idx, ok := l.Cursor()
	if !ok {
		l.Previous()
		return
	}
	depth := l.Items()[idx].Depth()
	for i := idx - 1; i >= 0; i-- {
		if l.Items()[i].Depth() <= depth {
			l.SetCursor(i)
			return
		}
	}
	l.SetCursor(0)
}
