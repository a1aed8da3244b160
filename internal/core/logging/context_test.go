package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := WithActionID(WithQueue(context.Background(), "review"), "act-456")

	assert.Equal(t, "review", GetQueue(ctx))
	assert.Equal(t, "act-456", GetActionID(ctx))
}

func TestContextValues_missing(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetQueue(ctx))
	assert.Empty(t, GetActionID(ctx))
}

func TestContextValues_innermost_wins(t *testing.T) {
	ctx := WithQueue(WithQueue(context.Background(), "review"), "emails")

	assert.Equal(t, "emails", GetQueue(ctx))
}
