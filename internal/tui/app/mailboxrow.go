package app

import (
	"sort"
	"strings"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/store"
)

// MailboxRow is one row of the synthesized mailbox tree: a mailbox, its
// depth in that tree, and how many messages (matching the last query) live
// at or under it.
type MailboxRow struct {
	Mailbox      mailbox.Mailbox
	TreeDepth    int
	MessageCount int
}

// Key identifies a row by its mailbox path, satisfying list.Keyed.
func (r MailboxRow) Key() string {
	return r.Mailbox.String()
}

// Depth satisfies list.Depthed, used for sibling navigation in a TreeList.
func (r MailboxRow) Depth() int {
	return r.TreeDepth
}

// SynthesizeMailboxTree builds the ancestor-inclusive, depth-annotated tree
// the mailbox pane renders from the backend's flat leaf counts: every
// ancestor of a leaf mailbox gets its own row, with a count that is the sum
// of every descendant leaf's count. Rows are sorted by mailbox path
// ascending so siblings group under their parent.
func SynthesizeMailboxTree(infos []store.MailboxInfo) []MailboxRow {
	counts := make(map[string]int)
	for _, info := range infos {
		mb := info.Mailbox
		for _, ancestor := range mb.Ancestors() {
			counts[ancestor.String()] += info.MessageCount
		}
	}

	paths := make([]string, 0, len(counts))
	for p := range counts {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	rows := make([]MailboxRow, 0, len(paths))
	for _, p := range paths {
		mb := mailbox.MustParse(p)
		rows = append(rows, MailboxRow{
			Mailbox:      mb,
			TreeDepth:    strings.Count(p, "/"),
			MessageCount: counts[p],
		})
	}
	return rows
}
