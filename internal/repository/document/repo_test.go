package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lendkit-cloud/creditdesk/internal/db"
	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
)

type fakeStore struct {
	hashes  map[string]map[string]string
	indexes map[string]*db.IndexDefinition
	hsetErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hashes:  make(map[string]map[string]string),
		indexes: make(map[string]*db.IndexDefinition),
	}
}

func (f *fakeStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if f.hsetErr != nil {
		return f.hsetErr
	}
	f.hashes[key] = fields
	return nil
}

func (f *fakeStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	return f.hashes[key], nil
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	delete(f.hashes, key)
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.hashes[key]
	return ok, nil
}

func (f *fakeStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	f.indexes[def.Name] = def
	return nil
}

func (f *fakeStore) DropIndex(_ context.Context, name string) error {
	delete(f.indexes, name)
	return nil
}

func (f *fakeStore) IndexExists(_ context.Context, name string) (bool, error) {
	_, ok := f.indexes[name]
	return ok, nil
}

func testDoc(t *testing.T, dim int) document.Document {
	t.Helper()
	scope, err := document.NewScope("org-1", "underwriting", "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := document.New("doc-1", scope, "statement.txt", "txt", "monthly statement", time.Now().UnixMilli())
	if err != nil {
		t.Fatal(err)
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.5
	}
	doc.SetVector(vec)
	return doc
}

func TestEnsureIndex(t *testing.T) {
	store := newFakeStore()
	repo := New(store, 8)

	if err := repo.EnsureIndex(context.Background(), HNSWConfig{M: 32, EFConstruct: 400}); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}

	def, ok := store.indexes[IndexName]
	if !ok {
		t.Fatal("index not created")
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != KeyPrefixDoc {
		t.Errorf("prefixes = %v", def.Prefixes)
	}

	var vectorField *db.IndexField
	tags := make(map[string]bool)
	for i := range def.Fields {
		f := &def.Fields[i]
		switch f.Type {
		case db.IndexFieldVector:
			vectorField = f
		case db.IndexFieldTag:
			tags[f.Name] = true
		}
	}
	if vectorField == nil {
		t.Fatal("no vector field in schema")
	}
	if vectorField.VectorDim != 8 || vectorField.VectorDistance != db.DistanceCosine {
		t.Errorf("vector field = %+v", vectorField)
	}
	for _, name := range []string{"org_id", "pipeline", "session_id"} {
		if !tags[name] {
			t.Errorf("missing tag field %s", name)
		}
	}

	// Second call is a no-op.
	if err := repo.EnsureIndex(context.Background(), HNSWConfig{}); err != nil {
		t.Fatalf("EnsureIndex (existing): %v", err)
	}
}

func TestInsertAndGet(t *testing.T) {
	store := newFakeStore()
	repo := New(store, 8)
	doc := testDoc(t, 8)

	if err := repo.Insert(context.Background(), &doc); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, ok := store.hashes[KeyPrefixDoc+"doc-1"]; !ok {
		t.Fatal("hash key not written")
	}

	got, err := repo.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FileName() != "statement.txt" || got.Text() != "monthly statement" {
		t.Errorf("round-trip mismatch: %q %q", got.FileName(), got.Text())
	}
	if got.Scope().OrgID() != "org-1" || got.Scope().SessionID() != "sess-1" {
		t.Errorf("scope mismatch: %+v", got.Scope())
	}
	if len(got.Vector()) != 8 || got.Vector()[2] != 1.0 {
		t.Errorf("vector mismatch: %v", got.Vector())
	}
}

func TestInsert_DimMismatch(t *testing.T) {
	repo := New(newFakeStore(), 16)
	doc := testDoc(t, 8)

	err := repo.Insert(context.Background(), &doc)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("err = %v, want ErrVectorDimMismatch", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(newFakeStore(), 8)
	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	repo := New(store, 8)
	doc := testDoc(t, 8)

	if err := repo.Insert(context.Background(), &doc); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), "doc-1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("second delete err = %v, want ErrDocumentNotFound", err)
	}
}
