package lsp

import (
	"slices"
	"sync"
)

// Document represents an open text document in the editor.
type Document struct {
	URI        string // Document URI (file:///path/to/main.tf)
	LanguageID string // Language identifier sent by the client
	Content    string // Full document content
	Version    int    // Version number, incremented on each change
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(item TextDocumentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[item.URI] = &Document{
		URI:        item.URI,
		LanguageID: item.LanguageID,
		Content:    item.Text,
		Version:    item.Version,
	}
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get returns a snapshot of the document, or nil when it is not open.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]
	if !ok {
		return nil
	}
	snapshot := *doc
	return &snapshot
}

// Update replaces an open document's content. It reports false when the
// document is not open.
func (s *DocumentStore) Update(uri, content string, version int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[uri]
	if !ok {
		return false
	}
	doc.Content = content
	doc.Version = version
	return true
}

// List returns all open document URIs, sorted.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	slices.Sort(uris)
	return uris
}
