package accounts

import (
	"fmt"
	"sort"
	"strings"
)

// Tree is an immutable snapshot of the chart of accounts indexed by id.
// Children are derived from the parent links, accounts never hold live
// back-pointers.
type Tree struct {
	byID     map[int64]Account
	children map[int64][]int64
	roots    []int64
}

// NewTree indexes the given accounts. Child lists and roots are ordered by
// sibling sequence, ties broken by id.
func NewTree(all []Account) *Tree {
	t := &Tree{
		byID:     make(map[int64]Account, len(all)),
		children: make(map[int64][]int64),
	}
	for _, a := range all {
		t.byID[a.ID] = a
	}
	for _, a := range all {
		if a.ParentID == nil {
			t.roots = append(t.roots, a.ID)
			continue
		}
		if _, ok := t.byID[*a.ParentID]; !ok {
			// Orphaned parent link; treat as root so the account stays reachable.
			t.roots = append(t.roots, a.ID)
			continue
		}
		t.children[*a.ParentID] = append(t.children[*a.ParentID], a.ID)
	}
	bySequence := func(ids []int64) {
		sort.Slice(ids, func(i, j int) bool {
			a, b := t.byID[ids[i]], t.byID[ids[j]]
			if a.Sequence != b.Sequence {
				return a.Sequence < b.Sequence
			}
			return a.ID < b.ID
		})
	}
	bySequence(t.roots)
	for _, ids := range t.children {
		bySequence(ids)
	}
	return t
}

// Account returns the account with the given id.
func (t *Tree) Account(id int64) (Account, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// Parent returns the parent account, if any.
func (t *Tree) Parent(id int64) (Account, bool) {
	a, ok := t.byID[id]
	if !ok || a.ParentID == nil {
		return Account{}, false
	}
	return t.Account(*a.ParentID)
}

// Children returns the direct children ordered by sequence.
func (t *Tree) Children(id int64) []Account {
	ids := t.children[id]
	out := make([]Account, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.byID[cid])
	}
	return out
}

// Path returns the sequence values from the root down to the account.
func (t *Tree) Path(id int64) []int {
	var path []int
	seen := make(map[int64]bool)
	for cur, ok := t.byID[id]; ok; cur, ok = t.parentOf(cur) {
		if seen[cur.ID] {
			break
		}
		seen[cur.ID] = true
		path = append([]int{cur.Sequence}, path...)
	}
	return path
}

// Code renders the path as dot-joined decimal sequences, e.g. "1.2.3".
func (t *Tree) Code(id int64) string {
	path := t.Path(id)
	parts := make([]string, len(path))
	for i, seq := range path {
		parts[i] = fmt.Sprintf("%d", seq)
	}
	return strings.Join(parts, ".")
}

// Root walks the parent chain until no parent remains.
func (t *Tree) Root(id int64) (Account, bool) {
	cur, ok := t.byID[id]
	if !ok {
		return Account{}, false
	}
	seen := make(map[int64]bool)
	for {
		if seen[cur.ID] {
			return cur, true
		}
		seen[cur.ID] = true
		parent, ok := t.parentOf(cur)
		if !ok {
			return cur, true
		}
		cur = parent
	}
}

// Descendants returns every account reachable below id, each exactly once.
// The structure is acyclic by construction, the visited set keeps the walk
// bounded even on corrupt data.
func (t *Tree) Descendants(id int64) []Account {
	var out []Account
	visited := map[int64]bool{id: true}
	stack := append([]int64(nil), t.children[id]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, t.byID[cur])
		stack = append(stack, t.children[cur]...)
	}
	return out
}

// AnalyticDescendants filters Descendants down to postable leaves.
func (t *Tree) AnalyticDescendants(id int64) []Account {
	var out []Account
	for _, a := range t.Descendants(id) {
		if a.Type == TypeAnalytic {
			out = append(out, a)
		}
	}
	return out
}

// IsContra reports whether the account's nature is the opposite of its tree
// root's nature ("redutora"). False when either nature is unset.
func (t *Tree) IsContra(id int64) bool {
	a, ok := t.byID[id]
	if !ok || a.Nature == "" {
		return false
	}
	root, ok := t.Root(id)
	if !ok || root.Nature == "" || root.ID == a.ID {
		return false
	}
	return root.Nature != a.Nature
}

// DisplayLabel renders "<code>. [(-) ]<description>[ (<root description>)]".
// The "(-)" marker flags contra-accounts, the suffix names the root for every
// non-root account.
func (t *Tree) DisplayLabel(id int64) string {
	a, ok := t.byID[id]
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Code(id))
	b.WriteString(". ")
	if t.IsContra(id) {
		b.WriteString("(-) ")
	}
	b.WriteString(a.Description)
	if root, ok := t.Root(id); ok && root.ID != a.ID {
		b.WriteString(" (")
		b.WriteString(root.Description)
		b.WriteString(")")
	}
	return b.String()
}

// SortedByPath returns every account ordered by integer-tuple path
// comparison, so "2" sorts before "10".
func (t *Tree) SortedByPath() []Account {
	out := make([]Account, 0, len(t.byID))
	paths := make(map[int64][]int, len(t.byID))
	for id, a := range t.byID {
		out = append(out, a)
		paths[id] = t.Path(id)
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := ComparePaths(paths[out[i].ID], paths[out[j].ID]); cmp != 0 {
			return cmp < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Roots returns the root accounts ordered by sequence.
func (t *Tree) Roots() []Account {
	out := make([]Account, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.byID[id])
	}
	return out
}

// Len returns the number of accounts in the snapshot.
func (t *Tree) Len() int { return len(t.byID) }

func (t *Tree) parentOf(a Account) (Account, bool) {
	if a.ParentID == nil {
		return Account{}, false
	}
	p, ok := t.byID[*a.ParentID]
	return p, ok
}

// ComparePaths compares two paths element-wise as integers, shorter prefixes
// ordering first.
func ComparePaths(a, b []int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
