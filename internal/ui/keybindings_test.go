package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}))
	assert.False(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
}

func TestIsEnter(t *testing.T) {
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.False(t, isEnter(tea.KeyMsg{Type: tea.KeySpace}))
}

func TestIsSpace(t *testing.T) {
	assert.True(t, isSpace(tea.KeyMsg{Type: tea.KeySpace}))
	assert.False(t, isSpace(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsBack(t *testing.T) {
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, isBack(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsNextView(t *testing.T) {
	assert.True(t, isNextView(tea.KeyMsg{Type: tea.KeyTab}))
	assert.True(t, isNextView(tea.KeyMsg{Type: tea.KeyRight}))
	assert.False(t, isNextView(tea.KeyMsg{Type: tea.KeyShiftTab}))
}

func TestIsPrevView(t *testing.T) {
	assert.True(t, isPrevView(tea.KeyMsg{Type: tea.KeyShiftTab}))
	assert.True(t, isPrevView(tea.KeyMsg{Type: tea.KeyLeft}))
	assert.False(t, isPrevView(tea.KeyMsg{Type: tea.KeyTab}))
}

func TestIsKey(t *testing.T) {
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}}, ":", "m"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}, ":", "m"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, ":", "m"))
}
