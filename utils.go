package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return &m.buffers[m.currentBufferIndex]
}

func (m *model) getSession() *Session {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.session
	}
	return nil
}

func (m *model) getGraph() Graph {
	if s := m.getSession(); s != nil {
		return s.Graph()
	}
	return Graph{}
}

func (m *model) getPanOffset() (int, int) {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.panX, buf.panY
	}
	return 0, 0
}

func (m *model) worldCoords() (int, int) {
	panX, panY := m.getPanOffset()
	return m.cursorX + panX, m.cursorY + panY
}

func (m *model) addNewBuffer(session *Session, filename string) {
	m.addNewBufferWithPan(session, filename, 0, 0)
}

func (m *model) addNewBufferWithPan(session *Session, filename string, panX, panY int) {
	buffer := Buffer{
		session:  session,
		filename: filename,
		panX:     panX,
		panY:     panY,
	}
	m.buffers = append(m.buffers, buffer)
	m.currentBufferIndex = len(m.buffers) - 1
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText normalizes pasted text to something a label can hold:
// markup stripped, control characters dropped, newlines normalized.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	if strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1") {
		text = stripRTF(text)
	} else if looksLikeHTML(text) {
		text = stripHTMLTags(text)
	}

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.TrimSpace(normalized)
}

func looksLikeHTML(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div"))
}

func stripHTMLTags(html string) string {
	var result strings.Builder
	result.Grow(len(html))
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}
	text := result.String()
	for entity, plain := range map[string]string{
		"&lt;": "<", "&gt;": ">", "&amp;": "&",
		"&quot;": "\"", "&#39;": "'", "&nbsp;": " ",
	} {
		text = strings.ReplaceAll(text, entity, plain)
	}
	return text
}

// stripRTF drops RTF control words and braces, keeping printable text and
// translating \par and \line to newlines.
func stripRTF(text string) string {
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '{' || r == '}' {
			continue
		}
		if r != '\\' {
			result.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			continue
		}
		next := runes[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			result.WriteRune(next)
			i++
		case next >= 'a' && next <= 'z' || next >= 'A' && next <= 'Z':
			start := i + 1
			i++
			for i+1 < len(runes) {
				c := runes[i+1]
				if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' {
					i++
					continue
				}
				break
			}
			word := strings.TrimRight(string(runes[start:i+1]), "-0123456789")
			if word == "par" || word == "line" {
				result.WriteRune('\n')
			} else if word == "tab" {
				result.WriteRune('\t')
			}
			if i+1 < len(runes) && runes[i+1] == ' ' {
				i++
			}
		}
	}
	return result.String()
}

// shortID trims a uuid for the status line.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
