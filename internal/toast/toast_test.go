package toast

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowReplacesDelimiter(t *testing.T) {
	rec := &Recorder{}
	New(rec, nil).Show("use `x` here", Info)

	msgs := rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "use 'x' here", msgs[0].Text)
	assert.Equal(t, Info, msgs[0].Type)
}

func TestCanonicalNotices(t *testing.T) {
	rec := &Recorder{}
	tst := New(rec, nil)

	tst.DownsampleWarning("x", 1001, 1000)
	tst.NoDownsampleInfo("x")
	tst.InvalidColour("blurple")
	tst.InvalidMaxLength(-3)
	tst.UnrecognisedVariable("y")
	tst.Unsupported("dtale", "changing colours")

	assert.Equal(t, []string{
		"Time series 'x' has 1001 data points, thus has been downsampled to 1000 points.",
		"Time series 'x' is now being displayed in full.",
		"'blurple' is not a valid colour.",
		"Maximum series length before downsampling must be >= 0, not '-3'. Set to 0 for no downsampling.",
		"Cannot find variable 'y'. Make sure you are using its actual name, not its legend label.",
		"dtale does not implement changing colours",
	}, rec.Texts(""))
	assert.Len(t, rec.Texts(Error), 3)
	assert.Len(t, rec.Texts(Warning), 2)
}

func TestEventWriterEmitsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	New(NewEventWriter(&buf), nil).Show("hello", Success)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "autoplot-toast", got["event"])
	detail, ok := got["detail"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", detail["message"])
	assert.Equal(t, "success", detail["type"])
}

func TestMultiAndDrain(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	New(Multi(a, nil, b), nil).Show("hi", Warning)

	assert.Len(t, a.Drain(), 1)
	assert.Empty(t, a.Messages())
	assert.Len(t, b.Messages(), 1)
}
