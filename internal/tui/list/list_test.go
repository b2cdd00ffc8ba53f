package list_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canac/mailbox/internal/tui/list"
)

type item struct {
	id    int
	depth int
}

func (i item) Key() int   { return i.id }
func (i item) Depth() int { return i.depth }

func items(ids ...int) []item {
	out := make([]item, len(ids))
	for i, id := range ids {
		out[i] = item{id: id}
	}
	return out
}

func TestNavigableList_moveCursorRelative_fromNoCursor(t *testing.T) {
	l := list.NewNavigableList[int](items(1, 2, 3, 4, 5))

	l.MoveCursorRelative(3)
	idx, ok := l.Cursor()
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestNavigableList_moveCursorRelative_negativeFromNoCursor(t *testing.T) {
	l := list.NewNavigableList[int](items(1, 2, 3))
	l.MoveCursorRelative(-2)
	idx, ok := l.Cursor()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestNavigableList_moveCursorRelative_clamped(t *testing.T) {
	l := list.NewNavigableList[int](items(1, 2, 3))
	l.SetCursor(1)
	l.MoveCursorRelative(10)
	idx, _ := l.Cursor()
	assert.Equal(t, 2, idx)

	l.MoveCursorRelative(-10)
	idx, _ = l.Cursor()
	assert.Equal(t, 0, idx)
}

func TestNavigableList_replaceItems_preservesCursorByKey(t *testing.T) {
	l := list.NewNavigableList[int](items(1, 2, 3, 4))
	l.SetCursor(1) // key 2

	l.ReplaceItems(items(3, 4, 5))
	idx, ok := l.Cursor()
	require.True(t, ok)
	assert.Equal(t, 0, idx) // key 3 is the first old-item-from-cursor-forward present in new items
}

func TestNavigableList_replaceItems_cursorAbsentWhenKeyGone(t *testing.T) {
	l := list.NewNavigableList[int](items(1, 2, 3))
	l.SetCursor(2) // key 3

	l.ReplaceItems(items(1, 2))
	_, ok := l.Cursor()
	assert.False(t, ok)
}

func TestTreeList_siblingNavigation(t *testing.T) {
	rows := []item{
		{id: 1, depth: 0}, // a
		{id: 2, depth: 1}, // a/b
		{id: 3, depth: 0}, // c
		{id: 4, depth: 0}, // d
	}
	l := list.NewTreeList[int](rows)
	l.SetCursor(0) // a

	l.NextSibling() // should skip a/b, land on c
	idx, _ := l.Cursor()
	assert.Equal(t, 2, idx)

	l.PreviousSibling() // back to a
	idx, _ = l.Cursor()
	assert.Equal(t, 0, idx)
}

func TestTreeList_siblingNavigation_noCursorFallsThrough(t *testing.T) {
	l := list.NewTreeList[int]([]item{{id: 1}, {id: 2}})
	l.NextSibling()
	idx, ok := l.Cursor()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestMultiselectList_paintRange(t *testing.T) {
	l := list.NewMultiselectList[int](items(10, 20, 30, 40, 50))
	l.SetCursor(1)
	l.SetMode(list.SelectionSelect)
	l.SetCursor(3)

	for _, id := range []int{20, 30, 40} {
		assert.Truef(t, l.IsSelected(id), "expected %d selected", id)
	}
	assert.False(t, l.IsSelected(10))
	assert.False(t, l.IsSelected(50))
}

func TestMultiselectList_paintFromNoCursorStartsAtZero(t *testing.T) {
	l := list.NewMultiselectList[int](items(10, 20, 30))
	l.SetMode(list.SelectionSelect)
	l.SetCursor(1)

	assert.True(t, l.IsSelected(10))
	assert.True(t, l.IsSelected(20))
	assert.False(t, l.IsSelected(30))
}

func TestMultiselectList_deselectMode(t *testing.T) {
	l := list.NewMultiselectList[int](items(10, 20, 30))
	l.SetAllSelected(true)
	l.SetCursor(0)
	l.SetMode(list.SelectionDeselect)
	l.SetCursor(1)

	assert.False(t, l.IsSelected(10))
	assert.False(t, l.IsSelected(20))
	assert.True(t, l.IsSelected(30))
}

func TestMultiselectList_toggleCursorSelected(t *testing.T) {
	l := list.NewMultiselectList[int](items(10, 20))
	l.SetCursor(0)
	l.ToggleCursorSelected()
	assert.True(t, l.IsSelected(10))
	l.ToggleCursorSelected()
	assert.False(t, l.IsSelected(10))
}

func TestMultiselectList_replaceItems_filtersSelection(t *testing.T) {
	l := list.NewMultiselectList[int](items(1, 2, 3))
	l.SetAllSelected(true)

	l.ReplaceItems(items(2, 3, 4))
	assert.False(t, l.IsSelected(1))
	assert.True(t, l.IsSelected(2))
	assert.True(t, l.IsSelected(3))
	assert.False(t, l.IsSelected(4))
}
