package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is the runtime configuration. Values are resolved in order:
// defaults, YAML file, environment (.env included), legacy key file.
type Settings struct {
	TelegramToken string `yaml:"telegram_token"`

	OracleProvider    string        `yaml:"oracle_provider"`
	OracleAPIKey      string        `yaml:"oracle_api_key"`
	OracleBaseURL     string        `yaml:"oracle_base_url"`
	OracleModel       string        `yaml:"oracle_model"`
	OracleTimeout     time.Duration `yaml:"oracle_timeout"`
	ClassifierTimeout time.Duration `yaml:"classifier_timeout"`

	CorpusPath            string `yaml:"corpus_path"`
	CorpusMode            string `yaml:"corpus_mode"`
	ChunkWords            int    `yaml:"chunk_words"`
	MaxDocumentChars      int    `yaml:"max_document_chars"`
	ClassifierPrefixChars int    `yaml:"classifier_prefix_chars"`

	SupportContact string `yaml:"support_contact"`

	LedgerBackend string `yaml:"ledger_backend"`
	DataDir       string `yaml:"data_dir"`
	RedisAddr     string `yaml:"redis_addr"`

	StatusAddr string `yaml:"status_addr"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	KeyFile string `yaml:"key_file"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		OracleProvider:        DefaultOracleProvider,
		OracleBaseURL:         DefaultOracleBaseURL,
		OracleModel:           DefaultOracleModel,
		OracleTimeout:         OracleTimeout,
		ClassifierTimeout:     ClassifierTimeout,
		CorpusPath:            DefaultCorpusPath,
		CorpusMode:            CorpusModeAuto,
		ChunkWords:            DefaultChunkWords,
		MaxDocumentChars:      MaxDocumentChars,
		ClassifierPrefixChars: ClassifierPrefixChars,
		SupportContact:        DefaultSupportContact,
		LedgerBackend:         LedgerBackendFile,
		DataDir:               DefaultDataDir,
		RedisAddr:             RedisAddr,
		StatusAddr:            ServerListenAddr,
		LogLevel:              "debug",
		LogFormat:             "text",
		KeyFile:               DefaultKeyFile,
	}
}

// Load resolves the settings. An empty path skips the YAML layer; a missing
// .env file is not an error.
func Load(path string) (Settings, error) {
	_ = godotenv.Load()

	s := Defaults()
	if path != "" {
		if err := s.mergeFile(path); err != nil {
			return s, err
		}
	}
	s.mergeEnv(os.Getenv)
	if err := s.mergeKeyFile(); err != nil {
		return s, err
	}
	return s, s.Validate()
}

func (s *Settings) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (s *Settings) mergeEnv(getenv func(string) string) {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, err := strconv.Atoi(strings.TrimSpace(getenv(key))); err == nil && v > 0 {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, err := time.ParseDuration(strings.TrimSpace(getenv(key))); err == nil && v > 0 {
			*dst = v
		}
	}

	setString("TELEGRAM_TOKEN", &s.TelegramToken)
	setString("ORACLE_PROVIDER", &s.OracleProvider)
	setString("ORACLE_API_KEY", &s.OracleAPIKey)
	setString("ORACLE_BASE_URL", &s.OracleBaseURL)
	setString("ORACLE_MODEL", &s.OracleModel)
	setDuration("ORACLE_TIMEOUT", &s.OracleTimeout)
	setDuration("CLASSIFIER_TIMEOUT", &s.ClassifierTimeout)
	setString("CORPUS_PATH", &s.CorpusPath)
	setString("CORPUS_MODE", &s.CorpusMode)
	setInt("CHUNK_WORDS", &s.ChunkWords)
	setString("SUPPORT_CONTACT", &s.SupportContact)
	setString("LEDGER_BACKEND", &s.LedgerBackend)
	setString("DATA_DIR", &s.DataDir)
	setString("REDIS_URL", &s.RedisAddr)
	setString("REDIS_ADDR", &s.RedisAddr)
	setString("STATUS_ADDR", &s.StatusAddr)
	setString("LOG_LEVEL", &s.LogLevel)
	setString("LOG_FORMAT", &s.LogFormat)
	setString("KEY_FILE", &s.KeyFile)

	if port := strings.TrimSpace(getenv("PORT")); port != "" && getenv("STATUS_ADDR") == "" {
		s.StatusAddr = ":" + port
	}
}

// mergeKeyFile fills missing secrets from the legacy two-line key file:
// line 1 is the oracle key, line 2 the Telegram token.
func (s *Settings) mergeKeyFile() error {
	if s.KeyFile == "" || (s.OracleAPIKey != "" && s.TelegramToken != "") {
		return nil
	}
	f, err := os.Open(s.KeyFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open key file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read key file: %w", err)
	}
	if s.OracleAPIKey == "" && len(lines) > 0 {
		s.OracleAPIKey = lines[0]
	}
	if s.TelegramToken == "" && len(lines) > 1 {
		s.TelegramToken = lines[1]
	}
	return nil
}

// Validate checks the enumerations and bounds. Secrets are checked by the
// commands that need them.
func (s Settings) Validate() error {
	switch s.OracleProvider {
	case OracleProviderOpenRouter, OracleProviderGemini:
	default:
		return fmt.Errorf("unknown oracle provider %q", s.OracleProvider)
	}
	switch s.CorpusMode {
	case CorpusModeAuto, CorpusModeChunked, CorpusModeMulti:
	default:
		return fmt.Errorf("unknown corpus mode %q", s.CorpusMode)
	}
	switch s.LedgerBackend {
	case LedgerBackendFile, LedgerBackendRedis:
	default:
		return fmt.Errorf("unknown ledger backend %q", s.LedgerBackend)
	}
	if s.OracleTimeout <= 0 || s.ClassifierTimeout <= 0 {
		return errors.New("oracle and classifier timeouts must be positive")
	}
	if s.ChunkWords <= 0 {
		return errors.New("chunk_words must be positive")
	}
	return nil
}
