package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	id       string
	category string
}

func (i testItem) ItemID() string { return i.id }

func items(ids ...string) []testItem {
	out := make([]testItem, len(ids))
	for i, id := range ids {
		cat := "a"
		if strings.HasPrefix(id, "h") {
			cat = "hidden"
		}
		out[i] = testItem{id: id, category: cat}
	}
	return out
}

func ids(list []testItem) []string {
	out := make([]string, len(list))
	for i, it := range list {
		out[i] = it.id
	}
	return out
}

func hideH(it testItem) bool { return it.category != "hidden" }

func TestNewQueue_selects_first(t *testing.T) {
	q := NewQueue(items("A", "B"))
	assert.Equal(t, "A", q.CurrentID())

	empty := NewQueue[testItem](nil)
	assert.Equal(t, "", empty.CurrentID())
	_, ok := empty.Current()
	assert.False(t, ok)
}

func TestQueue_Next_Prev(t *testing.T) {
	q := NewQueue(items("A", "h1", "B", "C"))
	q.SetFilter(hideH)

	assert.True(t, q.Next())
	assert.Equal(t, "B", q.CurrentID(), "hidden items are skipped")
	assert.True(t, q.Next())
	assert.False(t, q.Next(), "stops at the end")
	assert.Equal(t, "C", q.CurrentID())

	assert.True(t, q.Prev())
	assert.True(t, q.Prev())
	assert.False(t, q.Prev())
	assert.Equal(t, "A", q.CurrentID())
}

func TestQueue_SetFilter_moves_hidden_current(t *testing.T) {
	q := NewQueue(items("h1", "A"))
	assert.Equal(t, "h1", q.CurrentID())

	q.SetFilter(hideH)
	assert.Equal(t, "A", q.CurrentID())

	q.SetFilter(func(testItem) bool { return false })
	assert.Equal(t, "", q.CurrentID())
}

func TestQueue_Remove_advances_pointer(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		current  string
		remove   string
		wantVis  int
		wantCurr string
	}{
		{name: "first", ids: []string{"A", "B", "C"}, current: "A", remove: "A", wantVis: 0, wantCurr: "B"},
		{name: "middle", ids: []string{"A", "B", "C"}, current: "B", remove: "B", wantVis: 1, wantCurr: "C"},
		{name: "last", ids: []string{"A", "B", "C"}, current: "C", remove: "C", wantVis: 2, wantCurr: "B"},
		{name: "only", ids: []string{"A"}, current: "A", remove: "A", wantVis: 0, wantCurr: ""},
		{name: "not current", ids: []string{"A", "B", "C"}, current: "A", remove: "C", wantVis: 2, wantCurr: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(items(tt.ids...))
			require.True(t, q.SetCurrent(tt.current))

			it, vis, _, ok := q.Remove(tt.remove)

			require.True(t, ok)
			assert.Equal(t, tt.remove, it.id)
			assert.Equal(t, tt.wantVis, vis)
			assert.Equal(t, tt.wantCurr, q.CurrentID())
			assert.False(t, q.Contains(tt.remove))
		})
	}
}

func TestQueue_Remove_unknown(t *testing.T) {
	q := NewQueue(items("A"))
	_, _, _, ok := q.Remove("Z")
	assert.False(t, ok)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Reinsert_restores_backing_order(t *testing.T) {
	q := NewQueue(items("A", "h1", "B", "C"))
	q.SetFilter(hideH)

	it, vis, back, ok := q.Remove("B")
	require.True(t, ok)
	q.Reinsert(vis, back, it)

	assert.Equal(t, []string{"A", "h1", "B", "C"}, ids(q.Items()))
	assert.Equal(t, []string{"A", "B", "C"}, ids(q.Visible()))
}

func TestQueue_Reinsert_after_mutation_uses_visible_slot(t *testing.T) {
	q := NewQueue(items("A", "B", "C", "D"))

	c, vis, back, _ := q.Remove("C")
	q.Remove("A")
	q.Remove("B")
	q.Reinsert(vis, back, c)

	assert.Equal(t, []string{"D", "C"}, ids(q.Visible()), "index clamped to visible length")
}

func TestQueue_Reinsert_into_empty_sets_current(t *testing.T) {
	q := NewQueue(items("A"))
	a, vis, back, _ := q.Remove("A")
	assert.Equal(t, "", q.CurrentID())

	q.Reinsert(vis, back, a)

	assert.Equal(t, "A", q.CurrentID())
}

func TestQueue_Reinsert_ignores_duplicates(t *testing.T) {
	q := NewQueue(items("A", "B"))
	q.Reinsert(0, 0, testItem{id: "B"})
	assert.Equal(t, []string{"A", "B"}, ids(q.Items()))
}

func TestQueue_Replace_keeps_current_when_present(t *testing.T) {
	q := NewQueue(items("A", "B"))
	q.SetCurrent("B")

	q.Replace(items("C", "B"))
	assert.Equal(t, "B", q.CurrentID())

	q.Replace(items("D"))
	assert.Equal(t, "D", q.CurrentID())
}
