package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	s := Defaults()
	require.NoError(t, s.Validate())
	assert.Equal(t, OracleProviderOpenRouter, s.OracleProvider)
	assert.Equal(t, DefaultChunkWords, s.ChunkWords)
	assert.Equal(t, ServerListenAddr, s.StatusAddr)
}

func TestMergeFile_OverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faqbot.yaml")
	body := "oracle_model: some/model\nclassifier_timeout: 5s\ncorpus_mode: multi\nchunk_words: 120\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	s := Defaults()
	require.NoError(t, s.mergeFile(path))

	assert.Equal(t, "some/model", s.OracleModel)
	assert.Equal(t, 5*time.Second, s.ClassifierTimeout)
	assert.Equal(t, CorpusModeMulti, s.CorpusMode)
	assert.Equal(t, 120, s.ChunkWords)
	assert.Equal(t, DefaultOracleBaseURL, s.OracleBaseURL)
}

func TestMergeFile_Missing(t *testing.T) {
	s := Defaults()
	assert.Error(t, s.mergeFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestMergeEnv(t *testing.T) {
	env := map[string]string{
		"ORACLE_API_KEY":     "k",
		"TELEGRAM_TOKEN":     "t",
		"ORACLE_TIMEOUT":     "3s",
		"CHUNK_WORDS":        "not-a-number",
		"PORT":               "8080",
		"LEDGER_BACKEND":     "redis",
		"CLASSIFIER_TIMEOUT": "-1s",
	}
	s := Defaults()
	s.mergeEnv(func(k string) string { return env[k] })

	assert.Equal(t, "k", s.OracleAPIKey)
	assert.Equal(t, "t", s.TelegramToken)
	assert.Equal(t, 3*time.Second, s.OracleTimeout)
	assert.Equal(t, DefaultChunkWords, s.ChunkWords, "invalid ints are ignored")
	assert.Equal(t, ClassifierTimeout, s.ClassifierTimeout, "non-positive durations are ignored")
	assert.Equal(t, ":8080", s.StatusAddr)
	assert.Equal(t, LedgerBackendRedis, s.LedgerBackend)
}

func TestMergeKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(path, []byte("oracle-key\ntelegram-token\n"), 0o600))

	s := Defaults()
	s.KeyFile = path
	require.NoError(t, s.mergeKeyFile())
	assert.Equal(t, "oracle-key", s.OracleAPIKey)
	assert.Equal(t, "telegram-token", s.TelegramToken)

	s = Defaults()
	s.KeyFile = path
	s.OracleAPIKey = "from-env"
	require.NoError(t, s.mergeKeyFile())
	assert.Equal(t, "from-env", s.OracleAPIKey)
	assert.Equal(t, "telegram-token", s.TelegramToken)
}

func TestMergeKeyFile_MissingIsFine(t *testing.T) {
	s := Defaults()
	s.KeyFile = filepath.Join(t.TempDir(), "absent.txt")
	assert.NoError(t, s.mergeKeyFile())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"provider", func(s *Settings) { s.OracleProvider = "bard" }},
		{"mode", func(s *Settings) { s.CorpusMode = "ranked" }},
		{"ledger", func(s *Settings) { s.LedgerBackend = "postgres" }},
		{"timeout", func(s *Settings) { s.ClassifierTimeout = 0 }},
		{"chunk", func(s *Settings) { s.ChunkWords = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
