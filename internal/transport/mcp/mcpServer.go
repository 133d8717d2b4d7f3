package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/akolanti/FAQBot/internal/adapter/utils"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/internal/rag"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "faqbot"

var ErrEmptyQuestion = errors.New("question is empty")

// AskInput is the argument schema of the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded documents"`
}

// AskOutput is the structured result of the ask tool.
type AskOutput struct {
	Answer   string `json:"answer"`
	Grounded bool   `json:"grounded"`
	Source   string `json:"source,omitempty"`
}

// Server exposes the query router as MCP tools. It never touches the ledger
// or the session store.
type Server struct {
	router rag.Service
	corpus commonModels.Corpus
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(router rag.Service, corpus commonModels.Corpus, version string) *Server {
	s := &Server{
		router: router,
		corpus: corpus,
		server: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil),
		logger: logger_i.NewLogger("mcp"),
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the loaded FAQ documents",
	}, s.handleAsk)
	return s
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio", "documents", len(s.corpus.Documents))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves on an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, ErrEmptyQuestion
	}
	ctx = context.WithValue(ctx, config.TRACE_ID_KEY, utils.GetNewUUID())

	answer, err := s.router.Route(ctx, question, s.corpus)
	if err != nil {
		s.logger.FromContext(ctx).Warn("ask failed", "error", err)
		return nil, AskOutput{}, err
	}

	out := AskOutput{Answer: answer.Text, Grounded: answer.Grounded}
	if answer.Source != nil {
		out.Source = answer.Source.Name
	}
	return nil, out, nil
}
