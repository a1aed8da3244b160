package triage

import "slices"

// Item is a unit of work in a queue. The queue only relies on a stable id;
// everything else is passed through to the executor untouched.
type Item interface {
	ItemID() string
}

// Queue is an ordered collection of items with a current-item pointer and a
// visibility filter. The current id, when set, always refers to an item in
// the backing collection.
//
// Queue is not safe for concurrent use; the Controller serializes access.
type Queue[T Item] struct {
	items   []T
	current string
	filter  func(T) bool
}

// NewQueue returns a queue over items with the first item selected.
func NewQueue[T Item](items []T) *Queue[T] {
	q := &Queue[T]{items: slices.Clone(items)}
	if len(q.items) > 0 {
		q.current = q.items[0].ItemID()
	}
	return q
}

// Len returns the size of the backing collection.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Items returns a copy of the backing collection.
func (q *Queue[T]) Items() []T {
	return slices.Clone(q.items)
}

// Visible returns the items that pass the current filter, in order.
func (q *Queue[T]) Visible() []T {
	if q.filter == nil {
		return slices.Clone(q.items)
	}

	out := make([]T, 0, len(q.items))
	for _, it := range q.items {
		if q.filter(it) {
			out = append(out, it)
		}
	}
	return out
}

// Contains reports whether an item with id is in the backing collection.
func (q *Queue[T]) Contains(id string) bool {
	return q.indexOf(id) >= 0
}

// CurrentID returns the id of the current item, or "" if none.
func (q *Queue[T]) CurrentID() string {
	return q.current
}

// Current returns the current item.
func (q *Queue[T]) Current() (T, bool) {
	idx := q.indexOf(q.current)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return q.items[idx], true
}

// VisibleIndex returns the position of id in the visible ordering, or -1.
func (q *Queue[T]) VisibleIndex(id string) int {
	if id == "" {
		return -1
	}
	n := 0
	for _, it := range q.items {
		if !q.visible(it) {
			continue
		}
		if it.ItemID() == id {
			return n
		}
		n++
	}
	return -1
}

// SetCurrent moves the pointer to id. It returns false and leaves the
// pointer untouched if id is not in the backing collection.
func (q *Queue[T]) SetCurrent(id string) bool {
	if !q.Contains(id) {
		return false
	}
	q.current = id
	return true
}

// Next moves the pointer to the next visible item, if any.
func (q *Queue[T]) Next() bool {
	return q.step(1)
}

// Prev moves the pointer to the previous visible item, if any.
func (q *Queue[T]) Prev() bool {
	return q.step(-1)
}

func (q *Queue[T]) step(delta int) bool {
	vis := q.Visible()
	if len(vis) == 0 {
		return false
	}

	idx := q.VisibleIndex(q.current)
	if idx < 0 {
		q.current = vis[0].ItemID()
		return true
	}

	next := idx + delta
	if next < 0 || next >= len(vis) {
		return false
	}
	q.current = vis[next].ItemID()
	return true
}

// SetFilter replaces the visibility predicate; nil shows everything. If the
// current item becomes hidden, the pointer moves to the first visible item
// (or is cleared when nothing is visible).
func (q *Queue[T]) SetFilter(fn func(T) bool) {
	q.filter = fn
	q.ensureCurrentVisible()
}

// Replace swaps the backing collection, keeping the current pointer when the
// item is still present.
func (q *Queue[T]) Replace(items []T) {
	q.items = slices.Clone(items)
	if !q.Contains(q.current) {
		q.current = ""
	}
	q.ensureCurrentVisible()
}

// Remove deletes id from the backing collection. It returns the removed
// item, its position in the visible ordering (-1 if it was filtered out) and
// its position in the backing collection. When the removed item was current,
// the pointer advances to the item now occupying its visible slot, or to the
// new last visible item, or is cleared if nothing is visible.
func (q *Queue[T]) Remove(id string) (item T, visibleIdx, backingIdx int, ok bool) {
	backingIdx = q.indexOf(id)
	if backingIdx < 0 {
		return item, -1, -1, false
	}

	visibleIdx = q.VisibleIndex(id)
	item = q.items[backingIdx]
	q.items = slices.Delete(q.items, backingIdx, backingIdx+1)

	if q.current == id {
		q.current = ""
		vis := q.Visible()
		switch {
		case len(vis) == 0:
		case visibleIdx >= 0 && visibleIdx < len(vis):
			q.current = vis[visibleIdx].ItemID()
		case visibleIdx >= len(vis):
			q.current = vis[len(vis)-1].ItemID()
		default:
			q.current = vis[0].ItemID()
		}
	}

	return item, visibleIdx, backingIdx, true
}

// Reinsert puts item back so that it occupies visibleIdx in the visible
// ordering. backingIdx is the item's previous position in the backing
// collection and is preferred when it still yields the same visible slot,
// so an immediate reinsert restores the backing order exactly. Indexes are
// clamped; after concurrent mutations placement is best effort.
func (q *Queue[T]) Reinsert(visibleIdx, backingIdx int, item T) {
	if q.Contains(item.ItemID()) {
		return
	}

	pos := q.insertPosition(visibleIdx, backingIdx, item)
	q.items = slices.Insert(q.items, pos, item)
	if q.current == "" {
		q.current = item.ItemID()
	}
}

func (q *Queue[T]) insertPosition(visibleIdx, backingIdx int, item T) int {
	hint := min(max(backingIdx, 0), len(q.items))
	if visibleIdx < 0 || !q.visible(item) {
		return hint
	}

	if q.visibleBefore(hint) == visibleIdx {
		return hint
	}

	vis := q.Visible()
	switch {
	case len(vis) == 0:
		return hint
	case visibleIdx < len(vis):
		return q.indexOf(vis[visibleIdx].ItemID())
	default:
		return q.indexOf(vis[len(vis)-1].ItemID()) + 1
	}
}

// visibleBefore counts visible items in items[:pos].
func (q *Queue[T]) visibleBefore(pos int) int {
	n := 0
	for _, it := range q.items[:pos] {
		if q.visible(it) {
			n++
		}
	}
	return n
}

func (q *Queue[T]) ensureCurrentVisible() {
	if q.current != "" && q.VisibleIndex(q.current) >= 0 {
		return
	}
	vis := q.Visible()
	if len(vis) == 0 {
		q.current = ""
		return
	}
	q.current = vis[0].ItemID()
}

func (q *Queue[T]) visible(it T) bool {
	return q.filter == nil || q.filter(it)
}

func (q *Queue[T]) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(q.items, func(it T) bool { return it.ItemID() == id })
}
