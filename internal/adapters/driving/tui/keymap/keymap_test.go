package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Submit.Keys(), "enter")
	assert.Contains(t, km.Quit.Keys(), "ctrl+c")
	assert.Contains(t, km.Quit.Keys(), "esc")
	assert.Contains(t, km.Clear.Keys(), "ctrl+l")
	assert.Len(t, km.ShortHelp(), 4)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("pgup", km.ScrollUp))
	assert.True(t, Matches("ctrl+d", km.ScrollDown))
	assert.False(t, Matches("q", km.Quit))
	assert.False(t, Matches("", km.Submit))
}
