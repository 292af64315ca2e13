// Package loader reads graph documents from disk and sanitizes them for the
// graph adapter.
package loader

import (
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"

	"github.com/yrangana/sigview/pkg/model"
)

// LoadDocumentFromFile reads, parses, and sanitizes a graph document.
func LoadDocumentFromFile(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument decodes a payload (either wire form) and sanitizes it.
// Malformed edges are dropped individually with a warning; a payload that
// does not decode at all is an error and the caller falls back to an empty
// renderable state.
func ParseDocument(data []byte) (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	Sanitize(&doc)
	return &doc, nil
}

// Sanitize drops edges whose source or target does not resolve to a node in
// the document. Each drop is logged; the load continues for the remainder.
func Sanitize(doc *model.Document) {
	ids := make(map[string]bool, len(doc.Nodes))
	for i := range doc.Nodes {
		ids[doc.Nodes[i].ID] = true
	}

	kept := doc.Edges[:0]
	for _, e := range doc.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			log.Printf("loader: dropping edge %s -> %s: unresolved endpoint", e.Source, e.Target)
			continue
		}
		kept = append(kept, e)
	}
	doc.Edges = kept
}
