package ingestion_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/internal/identities"
	"github.com/JaimeStill/tally/internal/ingestion"
	"github.com/JaimeStill/tally/internal/records"
	"github.com/JaimeStill/tally/internal/sourcefiles"
	"github.com/JaimeStill/tally/pkg/pagination"
)

// memStore is an in-memory ingestion.Store. Transactions are serialized and
// stage their writes until commit; placeholders are unique per external id.
type memStore struct {
	tx sync.Mutex
	mu sync.Mutex

	files        map[uuid.UUID]*sourcefiles.SourceFile
	payloads     map[uuid.UUID][]byte
	accounts     map[string]identities.Account
	placeholders map[string]identities.Placeholder
	records      []records.Record
}

func newMemStore() *memStore {
	return &memStore{
		files:        make(map[uuid.UUID]*sourcefiles.SourceFile),
		payloads:     make(map[uuid.UUID][]byte),
		accounts:     make(map[string]identities.Account),
		placeholders: make(map[string]identities.Placeholder),
	}
}

func (m *memStore) addFile(filename string, data []byte) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.files[id] = &sourcefiles.SourceFile{
		ID:         id,
		Filename:   filename,
		SizeBytes:  int64(len(data)),
		StorageKey: "files/" + id.String() + "/" + filename,
		UploadedAt: time.Now(),
	}
	m.payloads[id] = data
	return id
}

func (m *memStore) addAccount(externalID string) identities.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := identities.Account{ID: uuid.New(), ExternalID: &externalID, FirstName: "Registered"}
	m.accounts[externalID] = a
	return a
}

func (m *memStore) file(id uuid.UUID) sourcefiles.SourceFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.files[id]
}

func (m *memStore) recordsFor(id uuid.UUID) []records.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []records.Record
	for _, r := range m.records {
		if r.SourceFileID == id {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) placeholderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.placeholders)
}

func (m *memStore) InTx(ctx context.Context, fn func(ingestion.Session) error) error {
	m.tx.Lock()
	defer m.tx.Unlock()

	sess := &memSession{
		store:        m,
		placeholders: make(map[string]identities.Placeholder),
	}
	if err := fn(sess); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, p := range sess.placeholders {
		m.placeholders[k] = p
	}
	m.records = append(m.records, sess.records...)
	if sess.processed != nil {
		f := m.files[*sess.processed]
		f.Processed = true
		f.RecordsCreated = sess.count
		now := time.Now()
		f.ProcessedAt = &now
	}
	return nil
}

type memSession struct {
	store        *memStore
	placeholders map[string]identities.Placeholder
	records      []records.Record
	processed    *uuid.UUID
	count        int
}

func (s *memSession) Claim(_ context.Context, id uuid.UUID) (*sourcefiles.SourceFile, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	f, ok := s.store.files[id]
	if !ok {
		return nil, sourcefiles.ErrNotFound
	}
	if f.Processed {
		return nil, sourcefiles.ErrAlreadyProcessed
	}
	cp := *f
	return &cp, nil
}

func (s *memSession) Identities() identities.Lookup { return s }

func (s *memSession) FindAccount(_ context.Context, externalID string) (*identities.Account, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a, ok := s.store.accounts[externalID]
	if !ok {
		return nil, identities.ErrNotFound
	}
	return &a, nil
}

func (s *memSession) GetOrCreatePlaceholder(_ context.Context, externalID, name string) (*identities.Placeholder, bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if p, ok := s.store.placeholders[externalID]; ok {
		return &p, false, nil
	}
	if p, ok := s.placeholders[externalID]; ok {
		return &p, false, nil
	}

	p := identities.Placeholder{ID: uuid.New(), Name: name, ExternalID: externalID, CreatedAt: time.Now()}
	s.placeholders[externalID] = p
	return &p, true, nil
}

func (s *memSession) InsertRecord(_ context.Context, rec records.Record) (records.Record, error) {
	if rec.AccountID != nil && rec.PlaceholderID != nil {
		return records.Record{}, records.ErrLinkConflict
	}
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *memSession) MarkProcessed(_ context.Context, id uuid.UUID, count int) error {
	if s.processed != nil {
		return sourcefiles.ErrAlreadyProcessed
	}
	s.processed = &id
	s.count = count
	return nil
}

// memFiles serves source file metadata and payloads from a memStore.
type memFiles struct {
	store *memStore
}

func (f *memFiles) Handler() *sourcefiles.Handler { return nil }

func (f *memFiles) List(context.Context, pagination.PageRequest, sourcefiles.Filters) (*pagination.PageResult[sourcefiles.SourceFile], error) {
	return nil, nil
}

func (f *memFiles) Find(_ context.Context, id uuid.UUID) (*sourcefiles.SourceFile, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	sf, ok := f.store.files[id]
	if !ok {
		return nil, sourcefiles.ErrNotFound
	}
	cp := *sf
	return &cp, nil
}

func (f *memFiles) Create(_ context.Context, cmd sourcefiles.CreateCommand) (*sourcefiles.SourceFile, error) {
	id := f.store.addFile(cmd.Filename, cmd.Data)
	sf := f.store.file(id)
	return &sf, nil
}

func (f *memFiles) Payload(_ context.Context, sf *sourcefiles.SourceFile) ([]byte, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.payloads[sf.ID], nil
}

func (f *memFiles) Delete(context.Context, uuid.UUID) error { return nil }
