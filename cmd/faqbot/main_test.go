package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCorpusCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("travel policy"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("leave policy"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.png"), []byte{0x89}, 0o644))

	out, err := execute(t, "corpus", "--corpus", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "mode: multi")
	assert.Contains(t, out, "documents: 2")
	assert.Less(t, bytes.Index([]byte(out), []byte("a.txt")), bytes.Index([]byte(out), []byte("b.txt")))
	assert.Contains(t, out, "skipped: 1")
}

func TestAskCommand_RequiresKey(t *testing.T) {
	t.Setenv("KEY_FILE", filepath.Join(t.TempDir(), "missing.txt"))
	t.Setenv("ORACLE_API_KEY", "")

	_, err := execute(t, "ask", "What is the leave policy?")
	assert.ErrorContains(t, err, "oracle API key")
}

func TestServeCommand_RequiresToken(t *testing.T) {
	t.Setenv("KEY_FILE", filepath.Join(t.TempDir(), "missing.txt"))
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := execute(t, "serve")
	assert.ErrorContains(t, err, "telegram token")
}

func TestInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faqbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus_mode: sideways\n"), 0o644))

	_, err := execute(t, "corpus", "--config", path)
	assert.ErrorContains(t, err, "unknown corpus mode")
}
