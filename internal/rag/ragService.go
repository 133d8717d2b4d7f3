package rag

import (
	"context"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/rag/classifier"
	"github.com/akolanti/FAQBot/internal/rag/composer"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

/*
OPAQUE INTERFACE PATTERN

  - Service is the public contract the bot and the CLI call.
  - service holds the classifier and composer; it stays private so callers
    cannot reach the oracle directly.
  - NewService links the two and lets tests swap in mocks.
*/

// Answer is the routed reply. Source is nil for open answers.
type Answer struct {
	Text     string
	Grounded bool
	Source   *commonModels.Document
}

// Service routes one question over a corpus. It only talks to the oracle: no
// session or ledger state is touched here.
type Service interface {
	Route(ctx context.Context, query string, corpus commonModels.Corpus) (Answer, error)
}

type service struct {
	classifier classifier.RelatednessClassifier
	composer   composer.AnswerComposer
	logger     *logger_i.Logger
}

// NewService constructor
func NewService(c classifier.RelatednessClassifier, a composer.AnswerComposer) Service {
	return &service{
		classifier: c,
		composer:   a,
		logger:     logger_i.NewLogger("query_router"),
	}
}

func (s *service) Route(ctx context.Context, query string, corpus commonModels.Corpus) (Answer, error) {
	log := s.logger.FromContext(ctx)

	if len(corpus.Documents) == 0 {
		log.Debug("Empty corpus, answering without a document")
		return s.executeOpenStep(ctx, log, query)
	}

	if corpus.Mode == commonModels.ChunkedMode {
		doc := corpus.Documents[0]
		return s.executeGroundedStep(ctx, log, query, corpus.ChunkedContext(config.ChunkSeparator), &doc)
	}

	// first related document in load order wins
	for i := range corpus.Documents {
		doc := corpus.Documents[i]
		if s.executeClassifyStep(ctx, log, query, doc) {
			return s.executeGroundedStep(ctx, log, query, doc.Text, &doc)
		}
	}

	log.Debug("No related document", "candidates", len(corpus.Documents))
	return s.executeOpenStep(ctx, log, query)
}

func (s *service) executeClassifyStep(ctx context.Context, log *logger_i.Logger, query string, doc commonModels.Document) bool {
	start := time.Now()
	related := s.classifier.IsRelated(ctx, query, doc.Text)
	log.Debug("Route", "document", doc.Name, "related", related, "took", time.Since(start))
	return related
}
