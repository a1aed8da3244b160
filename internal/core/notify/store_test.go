package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" Warning ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, l)

	_, err = ParseLevel("fatal")
	assert.ErrorContains(t, err, "unknown level")
}

func TestLevel_AtLeast(t *testing.T) {
	assert.True(t, LevelError.AtLeast(LevelWarning))
	assert.True(t, LevelWarning.AtLeast(LevelWarning))
	assert.False(t, LevelInfo.AtLeast(LevelSuccess))
	assert.True(t, LevelInfo.AtLeast(LevelInfo))
}

func TestNotification_Text(t *testing.T) {
	assert.Equal(t, "Saved", Notification{Title: "Saved"}.Text())
	assert.Equal(t, "Failed: boom", Notification{Title: "Failed", Message: "boom"}.Text())
}
