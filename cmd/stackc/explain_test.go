package main

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/stackc"
	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorExamples(t *testing.T) {
	for _, code := range errors.Codes() {
		example, ok := errorExamples[code]
		require.True(t, ok, "no example for %s", code)
		require.NotEmpty(t, example.Explanation)
		if example.BadCode == "" {
			continue
		}
		_, err := stackc.Compile(context.Background(), example.BadCode)
		require.Error(t, err, "bad code for %s", code)
		require.Equal(t, code, errors.First(err).Code, "bad code for %s", code)

		_, err = stackc.Compile(context.Background(), example.Fix)
		require.NoError(t, err, "fix for %s", code)
	}
}

func TestExplainCommand(t *testing.T) {
	out, err := execute(t, "", "explain")
	require.NoError(t, err)
	require.Contains(t, out, "| CODE  | CATEGORY | DESCRIPTION")
	require.Contains(t, out, "| E2002 | syntax   | unclosed block")

	out, err = execute(t, "", "explain", "e2003")
	require.NoError(t, err)
	require.Contains(t, out, "E2003 syntax error: missing expression")
	require.Contains(t, out, "    x = ;")

	_, err = execute(t, "", "explain", "E9999")
	require.EqualError(t, err, "unknown error code E9999")
}
