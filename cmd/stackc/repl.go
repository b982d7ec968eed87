package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/deepnoodle-ai/stackc/compiler"
	"github.com/deepnoodle-ai/stackc/dis"
	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/deepnoodle-ai/stackc/parser"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	prompt             = ">>> "
	continuationPrompt = "... "
)

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Compile statements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminalIO() {
				return fmt.Errorf("repl requires a terminal")
			}
			return runRepl(cmd.Context(), cmd.OutOrStdout(), a.logger)
		},
	}
}

func runRepl(ctx context.Context, out io.Writer, logger zerolog.Logger) error {
	session := newReplSession(out, logger)
	editor := &lineEditor{}
	fmt.Fprintf(out, "stackc %s. Type :help for commands.\n", version)
	editor.render(out, session.prompt())

	return keyboard.Listen(func(key keys.Key) (bool, error) {
		if ctx.Err() != nil {
			return true, nil
		}
		line, action := editor.handleKey(key)
		switch action {
		case actionQuit:
			fmt.Fprint(out, "\r\n")
			return true, nil
		case actionSubmit:
			fmt.Fprint(out, "\r\n")
			if session.eval(ctx, line) {
				return true, nil
			}
		}
		editor.render(out, session.prompt())
		return false, nil
	})
}

type editAction int

const (
	actionNone editAction = iota
	actionSubmit
	actionQuit
)

// lineEditor keeps the line being typed and the history of submitted lines.
type lineEditor struct {
	buf        []rune
	cursor     int
	history    []string
	historyIdx int
}

// handleKey applies one key press. On submit it returns the entered line.
func (e *lineEditor) handleKey(key keys.Key) (string, editAction) {
	switch key.Code {
	case keys.CtrlC, keys.CtrlD:
		if key.Code == keys.CtrlD && len(e.buf) > 0 {
			return "", actionNone
		}
		return "", actionQuit
	case keys.Enter:
		line := string(e.buf)
		if strings.TrimSpace(line) != "" {
			e.history = append(e.history, line)
		}
		e.buf = e.buf[:0]
		e.cursor = 0
		e.historyIdx = len(e.history)
		return line, actionSubmit
	case keys.Backspace:
		if e.cursor > 0 {
			e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
			e.cursor--
		}
	case keys.Left:
		if e.cursor > 0 {
			e.cursor--
		}
	case keys.Right:
		if e.cursor < len(e.buf) {
			e.cursor++
		}
	case keys.Up:
		if e.historyIdx > 0 {
			e.historyIdx--
			e.setLine(e.history[e.historyIdx])
		}
	case keys.Down:
		if e.historyIdx < len(e.history)-1 {
			e.historyIdx++
			e.setLine(e.history[e.historyIdx])
		} else {
			e.historyIdx = len(e.history)
			e.setLine("")
		}
	case keys.Space:
		e.insert(' ')
	case keys.Tab:
		e.insert(' ', ' ')
	case keys.RuneKey:
		e.insert(key.Runes...)
	}
	return "", actionNone
}

func (e *lineEditor) insert(runes ...rune) {
	tail := append([]rune{}, e.buf[e.cursor:]...)
	e.buf = append(append(e.buf[:e.cursor], runes...), tail...)
	e.cursor += len(runes)
}

func (e *lineEditor) setLine(s string) {
	e.buf = []rune(s)
	e.cursor = len(e.buf)
}

func (e *lineEditor) render(w io.Writer, prompt string) {
	fmt.Fprintf(w, "\r\033[K%s%s", prompt, string(e.buf))
	if back := len(e.buf) - e.cursor; back > 0 {
		fmt.Fprintf(w, "\033[%dD", back)
	}
}

// replSession compiles submitted statements into one growing instruction
// sequence. Input with unclosed braces is buffered until it is balanced.
type replSession struct {
	out      io.Writer
	logger   zerolog.Logger
	compiler *compiler.Compiler
	pending  []string
}

func newReplSession(out io.Writer, logger zerolog.Logger) *replSession {
	return &replSession{
		out:      out,
		logger:   logger,
		compiler: compiler.New(compiler.WithLogger(logger)),
	}
}

func (s *replSession) prompt() string {
	if len(s.pending) > 0 {
		return continuationPrompt
	}
	return prompt
}

// eval handles one line of input and reports whether the session should end.
func (s *replSession) eval(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(s.pending) == 0 && strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}
	if trimmed == "" && len(s.pending) == 0 {
		return false
	}
	s.pending = append(s.pending, line)
	source := strings.Join(s.pending, "\n")
	if braceDepth(source) > 0 {
		return false
	}
	s.pending = nil

	program, err := parser.Parse(ctx, source, parser.WithLogger(s.logger))
	if err != nil {
		s.printError(err)
		return false
	}
	start := s.compiler.InstructionCount()
	code, err := s.compiler.CompileAST(program)
	if err != nil {
		s.printError(err)
		return false
	}
	for i := start; i < code.InstructionCount(); i++ {
		s.printf("%4d  %s\n", i, code.InstructionAt(i))
	}
	return false
}

func (s *replSession) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":code":
		code := s.compiler.Code()
		for i := 0; i < code.InstructionCount(); i++ {
			s.printf("%4d  %s\n", i, code.InstructionAt(i))
		}
	case ":dis":
		var b strings.Builder
		dis.Print(dis.Disassemble(s.compiler.Code()), &b)
		s.printf("%s", b.String())
	case ":reset":
		s.compiler = compiler.New(compiler.WithLogger(s.logger))
		s.printf("cleared\n")
	case ":help":
		s.printf(":code   show all instructions\n:dis    disassemble all instructions\n:reset  start over\n:quit   exit\n")
	default:
		s.printf("unknown command %s\n", cmd)
	}
	return false
}

// printf writes output with CRLF line endings, since the terminal is in raw
// mode while the keyboard is being read.
func (s *replSession) printf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	fmt.Fprint(s.out, strings.ReplaceAll(text, "\n", "\r\n"))
}

func (s *replSession) printError(err error) {
	s.printf("%s\n", errors.FriendlyErrorMessage(err, !color.NoColor))
}

// braceDepth counts unclosed "{" outside string literals.
func braceDepth(source string) int {
	depth := 0
	inString := false
	for _, ch := range source {
		switch {
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		}
	}
	return depth
}
