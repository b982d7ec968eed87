package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func typeText(e *lineEditor, text string) {
	for _, r := range text {
		if r == ' ' {
			e.handleKey(keys.Key{Code: keys.Space, Runes: []rune{' '}})
			continue
		}
		e.handleKey(keys.Key{Code: keys.RuneKey, Runes: []rune{r}})
	}
}

func TestLineEditor(t *testing.T) {
	e := &lineEditor{}
	typeText(e, "x = 5;")
	line, action := e.handleKey(keys.Key{Code: keys.Enter})
	require.Equal(t, actionSubmit, action)
	require.Equal(t, "x = 5;", line)
	require.Empty(t, e.buf)

	typeText(e, "prnt")
	e.handleKey(keys.Key{Code: keys.Left})
	e.handleKey(keys.Key{Code: keys.Left})
	typeText(e, "i")
	require.Equal(t, "print", string(e.buf))
	e.handleKey(keys.Key{Code: keys.Backspace})
	require.Equal(t, "prnt", string(e.buf))
	e.handleKey(keys.Key{Code: keys.Right})
	e.handleKey(keys.Key{Code: keys.Right})
	e.handleKey(keys.Key{Code: keys.Right})
	require.Equal(t, 4, e.cursor)
}

func TestLineEditorHistory(t *testing.T) {
	e := &lineEditor{}
	typeText(e, "a;")
	e.handleKey(keys.Key{Code: keys.Enter})
	typeText(e, "b;")
	e.handleKey(keys.Key{Code: keys.Enter})
	e.handleKey(keys.Key{Code: keys.Enter})
	require.Equal(t, []string{"a;", "b;"}, e.history)

	e.handleKey(keys.Key{Code: keys.Up})
	require.Equal(t, "b;", string(e.buf))
	e.handleKey(keys.Key{Code: keys.Up})
	require.Equal(t, "a;", string(e.buf))
	e.handleKey(keys.Key{Code: keys.Up})
	require.Equal(t, "a;", string(e.buf))
	e.handleKey(keys.Key{Code: keys.Down})
	require.Equal(t, "b;", string(e.buf))
	e.handleKey(keys.Key{Code: keys.Down})
	require.Equal(t, "", string(e.buf))
}

func TestLineEditorQuit(t *testing.T) {
	e := &lineEditor{}
	_, action := e.handleKey(keys.Key{Code: keys.CtrlC})
	require.Equal(t, actionQuit, action)

	typeText(e, "x")
	_, action = e.handleKey(keys.Key{Code: keys.CtrlD})
	require.Equal(t, actionNone, action)
	e.handleKey(keys.Key{Code: keys.Backspace})
	_, action = e.handleKey(keys.Key{Code: keys.CtrlD})
	require.Equal(t, actionQuit, action)
}

func TestLineEditorRender(t *testing.T) {
	e := &lineEditor{}
	typeText(e, "abc")
	e.handleKey(keys.Key{Code: keys.Left})
	var buf bytes.Buffer
	e.render(&buf, prompt)
	require.Equal(t, "\r\033[K>>> abc\033[1D", buf.String())
}

func newTestSession() (*replSession, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return newReplSession(&buf, zerolog.Nop()), &buf
}

func lines(buf *bytes.Buffer) []string {
	out := strings.TrimSuffix(buf.String(), "\r\n")
	buf.Reset()
	return strings.Split(out, "\r\n")
}

func TestReplSession(t *testing.T) {
	s, buf := newTestSession()
	ctx := context.Background()

	require.False(t, s.eval(ctx, "x = 5;"))
	require.Equal(t, []string{"   0  PUSH 5", "   1  STORE x"}, lines(buf))

	require.False(t, s.eval(ctx, "while x {"))
	require.Equal(t, continuationPrompt, s.prompt())
	require.Empty(t, buf.String())

	require.False(t, s.eval(ctx, "  x = x - 1; }"))
	require.Equal(t, prompt, s.prompt())
	require.Equal(t, []string{
		"   2  LOAD x",
		"   3  JUMP_IF_FALSE 9",
		"   4  LOAD x",
		"   5  PUSH 1",
		"   6  SUBTRACT",
		"   7  STORE x",
		"   8  JUMP 2",
	}, lines(buf))

	require.False(t, s.eval(ctx, ":code"))
	require.Len(t, lines(buf), 9)
}

func TestReplSessionErrorKeepsCode(t *testing.T) {
	s, buf := newTestSession()
	ctx := context.Background()

	s.eval(ctx, "print 1;")
	buf.Reset()
	s.eval(ctx, "if (x")
	require.Contains(t, buf.String(), "syntax error[E2001]")
	buf.Reset()

	s.eval(ctx, "print 2;")
	require.Equal(t, []string{"   2  PUSH 2", "   3  PRINT"}, lines(buf))
}

func TestReplCommands(t *testing.T) {
	s, buf := newTestSession()
	ctx := context.Background()

	s.eval(ctx, "print 1;")
	buf.Reset()

	require.False(t, s.eval(ctx, ":dis"))
	require.Contains(t, buf.String(), "| OFFSET |")
	buf.Reset()

	require.False(t, s.eval(ctx, ":reset"))
	require.Equal(t, []string{"cleared"}, lines(buf))
	s.eval(ctx, ":code")
	require.Empty(t, buf.String())

	require.False(t, s.eval(ctx, ":nope"))
	require.Equal(t, []string{"unknown command :nope"}, lines(buf))

	require.False(t, s.eval(ctx, ":help"))
	require.Len(t, lines(buf), 4)

	require.False(t, s.eval(ctx, "   "))
	require.True(t, s.eval(ctx, ":quit"))
}

func TestBraceDepth(t *testing.T) {
	require.Equal(t, 0, braceDepth("x = 1;"))
	require.Equal(t, 1, braceDepth("if x {"))
	require.Equal(t, 2, braceDepth("while a { if b {"))
	require.Equal(t, 0, braceDepth(`print "{"; if x { }`))
	require.Equal(t, -1, braceDepth("}"))
}
