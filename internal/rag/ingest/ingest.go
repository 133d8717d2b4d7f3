package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/akolanti/FAQBot/internal/adapter/utils"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
	"github.com/akolanti/FAQBot/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

type LoadOptions struct {
	// Mode is one of auto, chunked or multi. Empty means auto.
	Mode             string
	ChunkWords       int
	MaxDocumentChars int
}

// IngestionError marks one file that could not be loaded. The rest of the
// corpus is unaffected.
type IngestionError struct {
	Path string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

var ErrUnsupportedType = errors.New("unsupported file type")
var ErrNoText = errors.New("no extractable text")

type loader struct {
	logger *logger_i.Logger
	opts   LoadOptions
}

// Load reads a single file or every file of a directory into a Corpus.
// Directory entries are loaded in lexical name order and that order is kept
// in the result regardless of which extraction finishes first.
func Load(ctx context.Context, corpusPath string, opts LoadOptions) (commonModels.Corpus, []error) {
	l := &loader{logger: logger_i.NewLogger("document_store").FromContext(ctx), opts: withDefaults(opts)}

	info, err := os.Stat(corpusPath)
	if err != nil {
		l.logger.Error("Corpus path not readable", "path", corpusPath, "error", err)
		return commonModels.Corpus{Mode: resolveMode(l.opts.Mode, false)}, []error{&IngestionError{Path: corpusPath, Err: err}}
	}

	paths := []string{corpusPath}
	if info.IsDir() {
		paths, err = listFiles(corpusPath)
		if err != nil {
			return commonModels.Corpus{Mode: resolveMode(l.opts.Mode, true)}, []error{&IngestionError{Path: corpusPath, Err: err}}
		}
	}
	mode := resolveMode(l.opts.Mode, info.IsDir())
	l.logger.Debug("Loading corpus", "path", corpusPath, "files", len(paths), "mode", mode)

	docs := make([]*commonModels.Document, len(paths))
	loadErrs := make([]error, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(config.MaxParallelExtraction)
	for i, p := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				loadErrs[i] = &IngestionError{Path: p, Err: ctx.Err()}
				return nil
			}
			doc, err := l.loadDocument(ctx, p)
			if err != nil {
				loadErrs[i] = err
				return nil
			}
			docs[i] = &doc
			return nil
		})
	}
	_ = g.Wait()

	corpus := commonModels.Corpus{Mode: mode}
	var errs []error
	for i := range paths {
		if loadErrs[i] != nil {
			l.logger.Warn("Skipping document", "error", loadErrs[i])
			errs = append(errs, loadErrs[i])
			continue
		}
		corpus.Documents = append(corpus.Documents, *docs[i])
	}

	if mode == commonModels.ChunkedMode && len(corpus.Documents) > 1 {
		corpus.Documents = corpus.Documents[:1]
	}
	l.logger.Info("Corpus loaded", "documents", len(corpus.Documents), "chunks", corpus.ChunkCount(), "errors", len(errs))
	return corpus, errs
}

func (l *loader) loadDocument(ctx context.Context, path string) (doc commonModels.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Extraction panicked", "path", path, "panic", r)
			err = &IngestionError{Path: path, Err: fmt.Errorf("extraction panic: %v", r)}
		}
	}()

	docType := getDocType(path)
	if docType == commonModels.ERR {
		return doc, &IngestionError{Path: path, Err: ErrUnsupportedType}
	}

	rawPages, err := l.extractText(ctx, path, docType)
	if err != nil {
		return doc, &IngestionError{Path: path, Err: err}
	}
	pages := normalizePages(rawPages)
	if len(pages) == 0 {
		return doc, &IngestionError{Path: path, Err: ErrNoText}
	}

	text, truncated := truncateRunes(joinPages(pages), l.opts.MaxDocumentChars)
	doc = commonModels.Document{
		Id:                  utils.GetNewUUID(),
		Name:                filepath.Base(path),
		Path:                path,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
		Text:                text,
		Truncated:           truncated,
		Chunks:              PrepareChunks(pages, l.opts.ChunkWords),
	}
	l.logger.Debug("Document loaded", "name", doc.Name, "pages", len(pages), "chunks", len(doc.Chunks), "truncated", truncated)
	return doc, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func resolveMode(mode string, isDir bool) commonModels.CorpusMode {
	switch mode {
	case config.CorpusModeChunked:
		return commonModels.ChunkedMode
	case config.CorpusModeMulti:
		return commonModels.MultiMode
	}
	if isDir {
		return commonModels.MultiMode
	}
	return commonModels.ChunkedMode
}

func withDefaults(opts LoadOptions) LoadOptions {
	if opts.Mode == "" {
		opts.Mode = config.CorpusModeAuto
	}
	if opts.ChunkWords <= 0 {
		opts.ChunkWords = config.DefaultChunkWords
	}
	if opts.MaxDocumentChars <= 0 {
		opts.MaxDocumentChars = config.MaxDocumentChars
	}
	return opts
}
