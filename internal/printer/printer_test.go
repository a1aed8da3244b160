package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/bluelight/pkg/tuitest"
)

func TestPrinter_routes_streams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut)

	p.Successf("saved %d", 2)
	p.Infof("note")
	p.Warnf("careful")
	p.Errorf("broken")

	assert.Equal(t, "✓ saved 2\n• note", tuitest.StripANSI(out.String()))
	assert.Equal(t, "! careful\n✗ broken", tuitest.StripANSI(errOut.String()))
}

func TestCtx_falls_back_to_stdout(t *testing.T) {
	assert.NotNil(t, Ctx(context.Background()))

	p := New(&bytes.Buffer{}, &bytes.Buffer{})
	assert.Same(t, p, Ctx(WithPrinter(context.Background(), p)))
}

func TestPrinter_check_items(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &bytes.Buffer{})

	p.CheckItem("Config file", "/tmp/config.yaml")
	p.WarnItem("Webhooks", "")
	p.FailItem("airtable.base_id", "is required")

	assert.Equal(t,
		"  ✔ Config file /tmp/config.yaml\n  ● Webhooks\n  ✘ airtable.base_id is required",
		tuitest.StripANSI(out.String()))
}
