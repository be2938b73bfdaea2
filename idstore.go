package orama

// ═══════════════════════════════════════════════════════════════════════════════
// INTERNAL DOCUMENT IDS
// ═══════════════════════════════════════════════════════════════════════════════
// External callers identify documents with opaque string ids. Internally,
// every sub-index stores compact uint32 ids so posting lists stay small and
// bitmap operations stay fast.
//
// The directory never allocates ids itself: it holds a non-owning reference
// to an InternalIDStore and only reads from it. The store must outlive the
// directory.
// ═══════════════════════════════════════════════════════════════════════════════

// DocumentID is the opaque external identifier of a document.
type DocumentID = string

// InternalID is the compact identifier every sub-index stores.
type InternalID = uint32

// InternalIDStore maps external document ids to internal ones.
type InternalIDStore interface {
	// Intern returns the internal id for docID, allocating one on first use.
	Intern(docID DocumentID) InternalID

	// GetInternalDocumentID returns the internal id previously allocated for
	// docID, or false when the document was never interned.
	GetInternalDocumentID(docID DocumentID) (InternalID, bool)
}

// MemoryIDStore is the default in-process id store: sequential allocation
// starting at 1, so 0 never names a real document.
type MemoryIDStore struct {
	ids  map[DocumentID]InternalID
	next InternalID
}

// NewMemoryIDStore creates an empty id store.
func NewMemoryIDStore() *MemoryIDStore {
	return &MemoryIDStore{
		ids:  make(map[DocumentID]InternalID),
		next: 1,
	}
}

// Intern returns the internal id for docID, allocating one on first use.
func (s *MemoryIDStore) Intern(docID DocumentID) InternalID {
	if id, ok := s.ids[docID]; ok {
		return id
	}
	id := s.next
	s.next++
	s.ids[docID] = id
	return id
}

// GetInternalDocumentID looks up docID without allocating.
func (s *MemoryIDStore) GetInternalDocumentID(docID DocumentID) (InternalID, bool) {
	id, ok := s.ids[docID]
	return id, ok
}
