package commonModels

import (
	"strings"
	"time"
)

type Document struct {
	Id                  string     `json:"source_doc_id"`
	Name                string     `json:"doc_name"`
	Path                string     `json:"path"`
	LastIngestTimestamp time.Time  `json:"ingested_at"`
	ContentType         DocType    `json:"contentType"`
	Text                string     `json:"text"`
	Truncated           bool       `json:"truncated"`
	Chunks              []DocChunk `json:"chunks,omitempty"`
}

type DocChunk struct {
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	PageNum        int    `json:"page_num"`
	ChunkPageOrder int    `json:"chunk_order"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

type CorpusMode string

const (
	// ChunkedMode treats a single document as always in scope.
	ChunkedMode CorpusMode = "chunked"
	// MultiMode keeps one candidate per document and classifies each per query.
	MultiMode CorpusMode = "multi"
)

// Corpus is the ordered set of documents available to the router. Order is
// load order and is the only tie-break between related documents.
type Corpus struct {
	Mode      CorpusMode `json:"mode"`
	Documents []Document `json:"documents"`
}

// ChunkedContext joins every chunk of the corpus's first document.
func (c Corpus) ChunkedContext(separator string) string {
	if len(c.Documents) == 0 {
		return ""
	}
	doc := c.Documents[0]
	if len(doc.Chunks) == 0 {
		return doc.Text
	}
	parts := make([]string, 0, len(doc.Chunks))
	for _, ch := range doc.Chunks {
		parts = append(parts, ch.Chunk)
	}
	return strings.Join(parts, separator)
}

func (c Corpus) ChunkCount() int {
	total := 0
	for _, d := range c.Documents {
		total += len(d.Chunks)
	}
	return total
}
