package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanClipboardText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"empty", "", ""},
		{"surrounding whitespace", "  padded  \n", "padded"},
		{"crlf normalized", "line one\r\nline two\rline three", "line one\nline two\nline three"},
		{"control chars dropped", "a\x00b\x07c", "abc"},
		{"tabs kept", "a\tb", "a\tb"},
		{
			"html stripped",
			"<html><body><div>first</div> second &amp; third</body></html>",
			"first second & third",
		},
		{
			"rtf stripped",
			"{\\rtf1\\ansi\\deff0 hello\\par world}",
			"hello\nworld",
		},
		{
			"rtf escapes",
			"{\\rtf1 a\\\\b \\{literal\\}}",
			"a\\b {literal}",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, cleanClipboardText(tt.input))
		})
	}
}

func TestShortID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "12345678", shortID("1234567890abcdef"))
	require.Equal(t, "tiny", shortID("tiny"))
}

func TestModelBufferHelpers(t *testing.T) {
	t.Parallel()

	m := model{}
	require.Nil(t, m.getCurrentBuffer())
	require.Nil(t, m.getSession())
	require.Empty(t, m.getGraph().Nodes)

	m.addNewBuffer(NewSession(0), "first.flow")
	m.addNewBufferWithPan(NewSession(0), "second.flow", 5, -3)

	require.Equal(t, 1, m.currentBufferIndex, "a new buffer becomes current")
	require.Equal(t, "second.flow", m.getCurrentBuffer().filename)

	panX, panY := m.getPanOffset()
	require.Equal(t, 5, panX)
	require.Equal(t, -3, panY)

	m.cursorX, m.cursorY = 10, 10
	wx, wy := m.worldCoords()
	require.Equal(t, 15, wx)
	require.Equal(t, 7, wy)
}
