package colour

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAcceptsPlotColours(t *testing.T) {
	for _, c := range []string{
		"C0", "C9", "C12",
		"r", "k", "w",
		"tab:orange", "tab:grey",
		"red", "Purple", "darkslategray",
		"#abc", "#00FF00", "#11223344",
		"0", "0.5", "1",
	} {
		assert.True(t, Valid(c), "expected %q to be valid", c)
	}
}

func TestValidRejectsGarbage(t *testing.T) {
	for _, c := range []string{
		"", "C", "R", "nan", "Cx", "c0x", "tab:nope", "notacolour", "#12", "#12345", "#ggg", "1.5", "-0.1", "rr",
	} {
		assert.False(t, Valid(c), "expected %q to be invalid", c)
	}
}

func TestDefaultCycles(t *testing.T) {
	assert.Equal(t, "C0", Default(0))
	assert.Equal(t, "C3", Default(3))
	assert.Equal(t, "C1", Default(11))
}

func TestHexResolvesCycleAndNames(t *testing.T) {
	assert.Equal(t, "#1f77b4", Hex("C0"))
	assert.Equal(t, "#1f77b4", Hex("C10"))
	assert.Equal(t, "#ff0000", Hex("red"))
	assert.Equal(t, "#ff0000", Hex("r"))
	assert.Equal(t, "#aabbcc", Hex("#ABC"))
	assert.Equal(t, "#112233", Hex("#11223344"))
	assert.Equal(t, "#000000", Hex("0"))
	assert.Equal(t, "", Hex("nope"))
}
