package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"
	USER_ID_KEY    = "userId"

	//status page limiter
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	LimiterPruneInterval        = 5 * time.Minute
	LimiterVisitorIdle          = 10 * time.Minute

	MaxWorkerCount    int64 = 10
	MinWorkerCount    int64 = 1
	IdleWorkerTimeout       = 1 * time.Minute

	//replies and button updates get their own deadline, detached from the event
	ReplyTimeout = 15 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//status page listening port, the original deployment used $PORT or 5000
	ServerListenAddr = ":5000"

	//inbound event buffer limit
	BufferLimit = 100

	//supervisor
	RestartDelay = 5 * time.Second

	//oracle
	OracleProviderOpenRouter = "openrouter"
	OracleProviderGemini     = "gemini"
	DefaultOracleProvider    = OracleProviderOpenRouter
	DefaultOracleBaseURL     = "https://openrouter.ai/api/v1"
	DefaultOracleModel       = "mistralai/mixtral-8x7b-instruct"
	GeminiModelName          = "gemini-2.5-flash-lite-preview-09-2025"
	OracleTimeout            = 60 * time.Second
	ClassifierTimeout        = 20 * time.Second
	ModelTemperature float64 = 0.2

	//corpus
	CorpusModeAuto        = "auto"
	CorpusModeChunked     = "chunked"
	CorpusModeMulti       = "multi"
	DefaultCorpusPath     = "data.pdf"
	DefaultChunkWords     = 500
	MaxDocumentChars      = 12000
	ClassifierPrefixChars = 3000
	ChunkSeparator        = "\n---\n"
	PageExtractTimeout    = 10 * time.Second
	MaxParallelExtraction = 4

	//prompts
	AssistantName         = "TCS onboarding assistant"
	DefaultSupportContact = "xplore.support@tcs.com"
	GenericFailureMessage = "⚠️ Sorry, something went wrong while answering. Please try again in a moment."
	WelcomeMessage        = "Welcome to the TCS FAQ Bot!"
	SatisfiedReply        = "✅ Thanks!"
	ReportReply           = "🚩 Report noted."
	SatisfiedButtonText   = "✅ Satisfied"
	ReportButtonText      = "🚩 Report"

	//chat log kept for the status page
	ChatLogCapacity   = 100
	BotRunningMessage = "🤖 Bot is running!"

	//ledger
	LedgerBackendFile  = "file"
	LedgerBackendRedis = "redis"
	DefaultDataDir     = "data"
	DefaultKeyFile     = "key.txt"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisLedgerDB = 0

	RedisKeyPrefix = "faqbot"

	//telegram long polling
	TelegramPollTimeoutSeconds = 30
)
