package main

import (
	"context"
	"errors"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/customHttpClient"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/rag"
	"github.com/akolanti/FAQBot/internal/rag/classifier"
	"github.com/akolanti/FAQBot/internal/rag/composer"
	"github.com/akolanti/FAQBot/internal/rag/ingest"
	"github.com/akolanti/FAQBot/internal/rag/llm"
	"github.com/akolanti/FAQBot/internal/rag/llm/gemini"
	"github.com/akolanti/FAQBot/internal/rag/llm/openrouter"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

func newProvider(ctx context.Context, s config.Settings) (llm.Provider, error) {
	if s.OracleAPIKey == "" {
		return nil, errors.New("oracle API key is not configured (ORACLE_API_KEY or key file line 1)")
	}
	switch s.OracleProvider {
	case config.OracleProviderGemini:
		model := s.OracleModel
		if model == config.DefaultOracleModel {
			model = config.GeminiModelName
		}
		p := gemini.GetGeminiClient(ctx, s.OracleAPIKey, model)
		if p == nil {
			return nil, errors.New("gemini client could not be created")
		}
		return p, nil
	default:
		return openrouter.NewClient(openrouter.Config{
			APIKey:      s.OracleAPIKey,
			BaseURL:     s.OracleBaseURL,
			Model:       s.OracleModel,
			Timeout:     s.OracleTimeout,
			Temperature: config.ModelTemperature,
			HTTPClient:  customHttpClient.GetPooledClient(s.OracleTimeout),
		})
	}
}

func newRouter(provider llm.Provider, s config.Settings) rag.Service {
	c := classifier.New(provider,
		classifier.WithTimeout(s.ClassifierTimeout),
		classifier.WithPrefixLimit(s.ClassifierPrefixChars),
	)
	a := composer.New(provider,
		composer.WithTimeout(s.OracleTimeout),
		composer.WithSupportContact(s.SupportContact),
	)
	return rag.NewService(c, a)
}

// loadCorpus logs every ingestion error. An empty corpus is valid: every
// question is then answered without a document.
func loadCorpus(ctx context.Context, s config.Settings) (commonModels.Corpus, []error) {
	logger := logger_i.NewLogger("main")
	corpus, errs := ingest.Load(ctx, s.CorpusPath, ingest.LoadOptions{
		Mode:             s.CorpusMode,
		ChunkWords:       s.ChunkWords,
		MaxDocumentChars: s.MaxDocumentChars,
	})
	for _, err := range errs {
		logger.Warn("Document skipped", "error", err)
	}
	if len(corpus.Documents) == 0 {
		logger.Warn("No documents loaded, answers will not be grounded", "path", s.CorpusPath)
		return corpus, errs
	}
	logger.Info("Corpus loaded", "mode", corpus.Mode, "documents", len(corpus.Documents), "chunks", corpus.ChunkCount())
	return corpus, errs
}
