package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, map[string]int{"a": 1}))
	require.NoError(t, WriteLine(&buf, map[string]int{"b": 2}))

	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", buf.String())
}

func TestWriteWith_reports_marshal_failure(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)}))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "not found", map[string]any{"id": "rec1"}))
	assert.JSONEq(t, `{"message":"not found","data":{"id":"rec1"}}`, buf.String())
}

type doc struct {
	Name string `json:"name"`
}

func TestFileReader(t *testing.T) {
	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"kent"}`), 0o644))

		fr := &FileReader[doc]{path: path}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, "kent", got.Name)
	})

	t.Run("from stdin", func(t *testing.T) {
		fr := &FileReader[doc]{stdin: strings.NewReader(`{"name":"essex"}`)}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, "essex", got.Name)
	})

	t.Run("bad json", func(t *testing.T) {
		fr := &FileReader[doc]{stdin: strings.NewReader(`{`)}
		_, err := fr.Read()
		assert.ErrorContains(t, err, "decode JSON")
	})
}
