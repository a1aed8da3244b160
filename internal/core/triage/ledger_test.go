package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_stack_discipline(t *testing.T) {
	var l Ledger[testItem]
	l.Push(&PendingAction[testItem]{ID: "1", Item: testItem{id: "A"}})
	l.Push(&PendingAction[testItem]{ID: "2", Item: testItem{id: "B"}})

	top, ok := l.Peek()
	require.True(t, ok)
	assert.Equal(t, "2", top.ID)

	pa, ok := l.Pop()
	require.True(t, ok)
	assert.Equal(t, "2", pa.ID)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_Take(t *testing.T) {
	var l Ledger[testItem]
	l.Push(&PendingAction[testItem]{ID: "1", Item: testItem{id: "A"}})
	l.Push(&PendingAction[testItem]{ID: "2", Item: testItem{id: "B"}})

	pa, ok := l.Take("1")
	require.True(t, ok)
	assert.Equal(t, "A", pa.Item.id)

	_, ok = l.Take("1")
	assert.False(t, ok, "take is one-shot")
	assert.True(t, l.HasItem("B"))
	assert.False(t, l.HasItem("A"))
}

func TestLedger_Drain_oldest_first(t *testing.T) {
	var l Ledger[testItem]
	l.Push(&PendingAction[testItem]{ID: "1"})
	l.Push(&PendingAction[testItem]{ID: "2"})

	out := l.Drain()

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, 0, l.Len())
	_, ok := l.Pop()
	assert.False(t, ok)
}
