package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/FAQBot/internal/adapter/utils"
	"github.com/akolanti/FAQBot/internal/config"
	"github.com/akolanti/FAQBot/internal/domain/commonModels"
)

// ChunkWords splits text into chunks of at most chunkSize words. Words are
// never split and no chunk is empty.
func ChunkWords(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkWords
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+chunkSize-1)/chunkSize)
	for start := 0; start < len(words); start += chunkSize {
		end := min(start+chunkSize, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".odt", ".rtf":
		return commonModels.DOCX
	case ".txt":
		return commonModels.TXT
	default:
		return commonModels.ERR
	}
}

func (l *loader) extractText(ctx context.Context, path string, contentType commonModels.DocType) ([]rawPage, error) {
	switch contentType {
	case commonModels.PDF:
		return l.extractPDF(ctx, path)
	case commonModels.DOCX, commonModels.TXT:
		return l.extractdocxTxtRtf(path)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// normalizePages trims every line, collapses runs of blank lines and drops
// pages left with no text.
func normalizePages(pages []rawPage) []rawPage {
	out := make([]rawPage, 0, len(pages))
	for _, page := range pages {
		content := normalizeText(page.Content)
		if content == "" {
			continue
		}
		out = append(out, rawPage{Number: page.Number, Content: content})
	}
	return out
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			if blank {
				b.WriteString("\n\n")
			} else {
				b.WriteString("\n")
			}
		}
		blank = false
		b.WriteString(line)
	}
	return b.String()
}

func joinPages(pages []rawPage) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Content)
	}
	return strings.Join(parts, "\n\n")
}

// truncateRunes cuts text to at most limit runes.
func truncateRunes(text string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i], true
		}
		count++
	}
	return text, false
}

// PrepareChunks chunks each page on its own so chunks keep their page number
// and order within the page.
func PrepareChunks(pages []rawPage, chunkWords int) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk
	for _, page := range pages {
		for i, text := range ChunkWords(page.Content, chunkWords) {
			allChunks = append(allChunks, commonModels.DocChunk{
				ChunkId:        utils.GetNewUUID(),
				Chunk:          text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
			})
		}
	}
	return allChunks
}
