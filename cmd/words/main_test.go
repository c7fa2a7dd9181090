package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWords(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, path, &out)
	return out.String(), err
}

func TestRun_AddDisableList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.db")

	out, err := runWords(t, path, "add", "Rocket", "kite")
	require.NoError(t, err)
	assert.Equal(t, "added Rocket\nadded kite\n", out)

	out, err = runWords(t, path, "disable", "apple")
	require.NoError(t, err)
	assert.Equal(t, "disabled apple\n", out)

	out, err = runWords(t, path, "list")
	require.NoError(t, err)
	words := strings.Fields(out)
	assert.Contains(t, words, "rocket")
	assert.Contains(t, words, "kite")
	assert.NotContains(t, words, "apple")
	assert.Contains(t, words, "pizza")
}

func TestRun_DBFlagOverridesEnvironment(t *testing.T) {
	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag.db")

	_, err := runWords(t, filepath.Join(dir, "env.db"), "-db", flagPath, "add", "rocket")
	require.NoError(t, err)

	out, err := runWords(t, "", "-db", flagPath, "list")
	require.NoError(t, err)
	assert.Contains(t, strings.Fields(out), "rocket")
}

func TestRun_UsageErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.db")

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"shuffle"}},
		{name: "add without words", args: []string{"add"}},
		{name: "disable without words", args: []string{"disable"}},
		{name: "bad flag", args: []string{"-nope", "list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runWords(t, path, tt.args...)
			assert.ErrorIs(t, err, errUsage)
		})
	}
}

func TestRun_RequiresDatabase(t *testing.T) {
	_, err := runWords(t, "", "list")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}
