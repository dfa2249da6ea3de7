package ledger

import (
	"context"
	"sync"
)

// Resolver maps GEDCOM references to page ids already written to one database.
// It is loaded once per run so building payloads never touches the database.
type Resolver struct {
	databaseID string
	mu         sync.RWMutex
	pages      map[string]string
}

// Resolver snapshots the recorded pages of databaseID.
func (s *Store) Resolver(ctx context.Context, databaseID string) (*Resolver, error) {
	pages, err := s.Pages(ctx, databaseID)
	if err != nil {
		return nil, err
	}
	return &Resolver{databaseID: databaseID, pages: pages}, nil
}

// NewResolver builds a resolver over a fixed mapping.
func NewResolver(databaseID string, pages map[string]string) *Resolver {
	copied := make(map[string]string, len(pages))
	for ref, id := range pages {
		copied[ref] = id
	}
	return &Resolver{databaseID: databaseID, pages: copied}
}

// DatabaseID returns the database the snapshot belongs to.
func (r *Resolver) DatabaseID() string { return r.databaseID }

// PageID implements person.Resolver.
func (r *Resolver) PageID(xref string) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pages[xref]
	return id, ok
}

// Remember adds a page written during the current run.
func (r *Resolver) Remember(xref, pageID string) {
	r.mu.Lock()
	r.pages[xref] = pageID
	r.mu.Unlock()
}

// Len reports how many references are known.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}
