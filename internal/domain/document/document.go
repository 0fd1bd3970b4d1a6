package document

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/kailas-cloud/fieldeval/internal/domain"
)

// Document is one extracted (or reference) record: an id plus a nested
// object of fields. Immutable once built.
type Document struct {
	id     string
	fields map[string]any
}

// New validates and creates a Document.
// ID must be non-empty; fields must be a JSON object (map[string]any).
func New(id string, fields any) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("%w: document_id must be a non-empty string", domain.ErrInvalidJSON)
	}
	obj, ok := fields.(map[string]any)
	if !ok {
		return Document{}, domain.NewInvalidFields(id)
	}
	return Document{id: id, fields: obj}, nil
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Fields returns the nested field tree. Callers must not mutate it.
func (d Document) Fields() map[string]any { return d.fields }

// Corpus is a set of documents keyed by id, iterated in sorted id order.
type Corpus struct {
	docs       map[string]Document
	ids        []string
	duplicates []string
}

// NewCorpus builds a corpus. When an id repeats, the last document wins and
// the id is recorded in Duplicates.
func NewCorpus(docs ...Document) Corpus {
	c := Corpus{docs: make(map[string]Document, len(docs))}
	for _, d := range docs {
		if _, seen := c.docs[d.id]; seen {
			c.duplicates = append(c.duplicates, d.id)
		} else {
			c.ids = append(c.ids, d.id)
		}
		c.docs[d.id] = d
	}
	sort.Strings(c.ids)
	return c
}

// Len returns the number of distinct documents.
func (c Corpus) Len() int { return len(c.ids) }

// IDs returns the document ids in sorted order.
func (c Corpus) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Get looks a document up by id.
func (c Corpus) Get(id string) (Document, bool) {
	d, ok := c.docs[id]
	return d, ok
}

// Contains reports whether a document with id exists.
func (c Corpus) Contains(id string) bool {
	_, ok := c.docs[id]
	return ok
}

// Duplicates returns ids that appeared more than once, in input order.
func (c Corpus) Duplicates() []string { return c.duplicates }

// rawDocument is the wire shape of one payload entry.
type rawDocument struct {
	DocumentID *string `json:"document_id"`
	Fields     any     `json:"fields"`
}

// ParseCorpus decodes a JSON array of {"document_id", "fields"} records.
func ParseCorpus(payload []byte) (Corpus, error) {
	if trimmed := bytes.TrimSpace(payload); len(trimmed) == 0 || trimmed[0] != '[' {
		return Corpus{}, fmt.Errorf("%w: payload must be a JSON array of documents", domain.ErrInvalidJSON)
	}

	if !utf8.Valid(payload) {
		return Corpus{}, fmt.Errorf("%w: payload is not valid UTF-8", domain.ErrInvalidJSON)
	}

	var records []rawDocument
	if err := sonic.Unmarshal(payload, &records); err != nil {
		return Corpus{}, fmt.Errorf("%w: %w", domain.ErrInvalidJSON, err)
	}
	if len(records) == 0 {
		return Corpus{}, domain.ErrEmptyInput
	}

	docs := make([]Document, 0, len(records))
	for i, rec := range records {
		if rec.DocumentID == nil {
			return Corpus{}, fmt.Errorf("%w: document at index %d has no document_id", domain.ErrInvalidJSON, i)
		}
		doc, err := New(*rec.DocumentID, rec.Fields)
		if err != nil {
			return Corpus{}, fmt.Errorf("document at index %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return NewCorpus(docs...), nil
}
