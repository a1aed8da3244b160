package validate

import (
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "rec8XbQ2mZp1LkT4a", false},
		{"short but prefixed", "rec1", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"prefix only", "rec", true},
		{"wrong prefix", "app8XbQ2mZp1LkT4a", true},
		{"with hyphen", "rec-123", true},
		{"with space", "rec 123", true},
		{"unicode", "rec日本", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RecordID(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "RecordID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestBaseID(t *testing.T) {
	assert.NoError(t, BaseID("appTEST123"))
	assert.Error(t, BaseID("recTEST123"))
	assert.Error(t, BaseID(""))
}

func TestRecordIDField(t *testing.T) {
	require.NoError(t, RecordIDField("id", "recABC"))

	err := RecordIDField("decisions[0].id", "nope")
	var fe criterio.FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Len(t, fe, 1)
	assert.Equal(t, "decisions[0].id", fe[0].Field)
}
