package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/deepnoodle-ai/stackc/internal/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrorExample shows source that triggers an error and how to fix it.
type ErrorExample struct {
	BadCode     string
	Fix         string
	Explanation string
}

// errorExamples contains an explanation for each error code. Codes that
// cannot be produced from source text have no BadCode.
var errorExamples = map[errors.ErrorCode]ErrorExample{
	errors.E1001: {
		BadCode:     `x = 5 # 2;`,
		Fix:         `x = 5 % 2;`,
		Explanation: "Only operators, delimiters, names, numbers and strings may appear in source code",
	},
	errors.E1002: {
		BadCode:     `print "hello;`,
		Fix:         `print "hello";`,
		Explanation: "A string literal runs until the next double quote, which must be on the same input",
	},
	errors.E1003: {
		BadCode:     `x = 99999999999999999999;`,
		Fix:         `x = 9999999999999999999.0;`,
		Explanation: "Integer literals must fit in a signed 64-bit integer",
	},
	errors.E2001: {
		BadCode:     `print x`,
		Fix:         `print x;`,
		Explanation: "Every simple statement ends with a semicolon",
	},
	errors.E2002: {
		BadCode:     "while x {\n  x = x - 1;",
		Fix:         "while x {\n  x = x - 1;\n}",
		Explanation: "Each '{' needs a matching '}'",
	},
	errors.E2003: {
		BadCode:     `x = ;`,
		Fix:         `x = 1;`,
		Explanation: "An assignment needs a value on the right-hand side",
	},
	errors.E2004: {
		Explanation: "Blocks and expressions are nested deeper than the parser allows; split the code into smaller statements",
	},
	errors.E2005: {
		Explanation: "The caller cancelled the context before parsing finished",
	},
	errors.E3001: {
		Explanation: "The syntax tree contains an operator with no matching instruction",
	},
	errors.E3002: {
		Explanation: "The syntax tree contains a node the code generator does not know",
	},
}

func (a *app) explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe error codes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				printCodes(out)
				return nil
			}
			code := errors.ErrorCode(strings.ToUpper(args[0]))
			example, ok := errorExamples[code]
			if !ok {
				return fmt.Errorf("unknown error code %s", args[0])
			}
			printExample(out, code, example)
			return nil
		},
	}
}

func printCodes(w io.Writer) {
	var rows [][]string
	for _, code := range errors.Codes() {
		rows = append(rows, []string{code.String(), code.Category(), code.Description()})
	}
	table.NewTable(w).
		WithHeader([]string{"CODE", "CATEGORY", "DESCRIPTION"}).
		WithRows(rows).
		Render()
}

func printExample(w io.Writer, code errors.ErrorCode, example ErrorExample) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s error: %s\n\n", bold(code), code.Category(), code.Description())
	fmt.Fprintf(w, "%s\n", example.Explanation)
	if example.BadCode == "" {
		return
	}
	fmt.Fprintf(w, "\n%s\n%s\n", color.RedString("Bad:"), indent(example.BadCode))
	fmt.Fprintf(w, "\n%s\n%s\n", color.GreenString("Fix:"), indent(example.Fix))
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}
