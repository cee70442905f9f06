package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

type testStore struct {
	mu       sync.RWMutex
	datasets map[string]entity.Dataset
	evicted  time.Time
}

func newTestStore() *testStore {
	return &testStore{datasets: make(map[string]entity.Dataset)}
}

func (s *testStore) Create(ctx context.Context, ds entity.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[ds.Meta.ID] = ds
	return nil
}

func (s *testStore) Get(ctx context.Context, id string) (entity.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return entity.Dataset{}, pkgerror.ErrNotFound
	}
	return ds, nil
}

func (s *testStore) Update(ctx context.Context, id string, fn func(ds *entity.Dataset) error) (entity.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.datasets[id]
	if !ok {
		return entity.Dataset{}, pkgerror.ErrNotFound
	}
	if err := fn(&ds); err != nil {
		return entity.Dataset{}, err
	}
	s.datasets[id] = ds
	return ds, nil
}

func (s *testStore) List(ctx context.Context) ([]entity.DatasetMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.DatasetMeta, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds.Meta)
	}
	return out, nil
}

func (s *testStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return pkgerror.ErrNotFound
	}
	delete(s.datasets, id)
	return nil
}

func (s *testStore) EvictIdle(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evicted = before
	return 0, nil
}

type testID struct {
	mu sync.Mutex
	n  int
}

func (t *testID) Generate() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n++
	return fmt.Sprintf("id-%d", t.n)
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

func newTestUsecase(store *testStore) *Usecase {
	return New(Dependency{
		Store:      store,
		Clock:      fixedClock{now: time.Unix(1700000000, 0)},
		ID:         &testID{},
		SessionTTL: time.Hour,
	})
}

func uploadOne(t *testing.T, uc *Usecase, name, content string) entity.DatasetMeta {
	t.Helper()

	res, err := uc.Upload(context.Background(), []UploadFile{{Name: name, Size: int64(len(content)), Data: []byte(content)}})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(res.Datasets) != 1 {
		t.Fatalf("expected 1 dataset, got %d (skipped %+v)", len(res.Datasets), res.Skipped)
	}
	return res.Datasets[0]
}

func assertCode(t *testing.T, err error, code pkgerror.Code) {
	t.Helper()

	perr, ok := pkgerror.As(err)
	if !ok {
		t.Fatalf("expected pkgerror.Error, got %T (%v)", err, err)
	}
	if perr.Code() != code {
		t.Fatalf("error code = %v, want %v (%v)", perr.Code(), code, err)
	}
}

func TestUploadSkipsUnsupportedFiles(t *testing.T) {
	store := newTestStore()
	uc := newTestUsecase(store)

	res, err := uc.Upload(context.Background(), []UploadFile{
		{Name: "sales.csv", Size: 12, Data: []byte("a,b\n1,2\n3,4\n")},
		{Name: "notes.txt", Size: 5, Data: []byte("hello")},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if len(res.Datasets) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(res.Datasets))
	}
	meta := res.Datasets[0]
	if meta.ID != "id-1" || meta.FileName != "sales.csv" || meta.Ext != ".csv" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.Rows != 2 || len(meta.Columns) != 2 {
		t.Fatalf("unexpected shape: rows=%d cols=%d", meta.Rows, len(meta.Columns))
	}
	if !meta.UploadedAt.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("unexpected upload time: %v", meta.UploadedAt)
	}

	if len(res.Skipped) != 1 {
		t.Fatalf("expected 1 skipped file, got %d", len(res.Skipped))
	}
	if res.Skipped[0].FileName != "notes.txt" || res.Skipped[0].Message != "File type not supported: .txt" {
		t.Fatalf("unexpected skip notice: %+v", res.Skipped[0])
	}
	if len(store.datasets) != 1 {
		t.Fatalf("expected 1 stored dataset, got %d", len(store.datasets))
	}
}

func TestUploadOnlyUnsupported(t *testing.T) {
	store := newTestStore()
	uc := newTestUsecase(store)

	_, err := uc.Upload(context.Background(), []UploadFile{
		{Name: "a.pdf", Data: []byte("x")},
		{Name: "b.docx", Data: []byte("y")},
	})
	assertCode(t, err, pkgerror.CodeUnsupportedMedia)

	perr, _ := pkgerror.As(err)
	if perr.Msg() != "File type not supported: .pdf; File type not supported: .docx" {
		t.Fatalf("unexpected message: %q", perr.Msg())
	}
	if len(store.datasets) != 0 {
		t.Fatalf("expected no stored dataset, got %d", len(store.datasets))
	}
}

func TestUploadAllBrokenKeepsNotices(t *testing.T) {
	uc := newTestUsecase(newTestStore())

	res, err := uc.Upload(context.Background(), []UploadFile{
		{Name: "empty.csv", Data: nil},
		{Name: "a.pdf", Data: []byte("x")},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(res.Datasets) != 0 || len(res.Skipped) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Skipped[0].Message != "empty file" {
		t.Fatalf("unexpected notice: %+v", res.Skipped[0])
	}
}

func TestUploadRequiresFiles(t *testing.T) {
	uc := newTestUsecase(newTestStore())

	_, err := uc.Upload(context.Background(), nil)
	assertCode(t, err, pkgerror.CodeInvalidInput)
}

func TestPreviewProjectsColumns(t *testing.T) {
	uc := newTestUsecase(newTestStore())
	meta := uploadOne(t, uc, "people.csv", "name,age,score\nann,30,1.5\nben,,2\ncat,25,\n")

	res, err := uc.Preview(context.Background(), meta.ID, PreviewInput{Rows: 2, Columns: []string{"score", "name"}})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if len(res.Columns) != 2 || res.Columns[0].Name != "score" || res.Columns[1].Name != "name" {
		t.Fatalf("unexpected columns: %+v", res.Columns)
	}
	if len(res.NumericColumns) != 1 || res.NumericColumns[0] != "score" {
		t.Fatalf("unexpected numeric columns: %v", res.NumericColumns)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0][0] != 1.5 || res.Rows[0][1] != "ann" {
		t.Fatalf("unexpected first row: %v", res.Rows[0])
	}
	if res.Meta.Rows != 3 || len(res.Meta.Columns) != 3 {
		t.Fatalf("projection must not change the dataset: %+v", res.Meta)
	}

	all, err := uc.Preview(context.Background(), meta.ID, PreviewInput{Rows: 10})
	if err != nil {
		t.Fatalf("preview all: %v", err)
	}
	if len(all.Rows) != 3 || len(all.Columns) != 3 {
		t.Fatalf("unexpected preview: rows=%d cols=%d", len(all.Rows), len(all.Columns))
	}
	if all.Rows[1][1] != nil {
		t.Fatalf("missing value should be nil, got %v", all.Rows[1][1])
	}
}

func TestPreviewErrors(t *testing.T) {
	uc := newTestUsecase(newTestStore())
	meta := uploadOne(t, uc, "a.csv", "a\n1\n")

	_, err := uc.Preview(context.Background(), "nope", PreviewInput{Rows: 5})
	assertCode(t, err, pkgerror.CodeNotFound)

	_, err = uc.Preview(context.Background(), meta.ID, PreviewInput{Rows: 5, Columns: []string{"zzz"}})
	assertCode(t, err, pkgerror.CodeInvalidInput)
}

func TestCleaningFlow(t *testing.T) {
	store := newTestStore()
	uc := newTestUsecase(store)
	meta := uploadOne(t, uc, "sales.csv", "item,qty\na,1\na,1\nb,\nc,5\n")

	dedup, err := uc.RemoveDuplicates(context.Background(), meta.ID)
	if err != nil {
		t.Fatalf("remove duplicates: %v", err)
	}
	if dedup.Removed != 1 || dedup.Meta.Rows != 3 {
		t.Fatalf("unexpected dedup result: %+v", dedup)
	}

	again, err := uc.RemoveDuplicates(context.Background(), meta.ID)
	if err != nil {
		t.Fatalf("remove duplicates again: %v", err)
	}
	if again.Removed != 0 || again.Meta.Rows != 3 {
		t.Fatalf("dedup should be idempotent: %+v", again)
	}

	fill, err := uc.FillMissing(context.Background(), meta.ID)
	if err != nil {
		t.Fatalf("fill missing: %v", err)
	}
	if len(fill.Filled) != 1 || fill.Filled[0] != "qty" {
		t.Fatalf("unexpected filled columns: %v", fill.Filled)
	}
	if fill.Meta.Columns[1].Kind != entity.ColumnKindFloat {
		t.Fatalf("qty should become float, got %s", fill.Meta.Columns[1].Kind)
	}

	stored := store.datasets[meta.ID]
	if got := stored.Frame.Col("qty").Elem(1).Float(); got != 3 {
		t.Fatalf("filled value = %v, want 3", got)
	}

	none, err := uc.FillMissing(context.Background(), meta.ID)
	if err != nil {
		t.Fatalf("fill missing again: %v", err)
	}
	if none.Filled == nil || len(none.Filled) != 0 {
		t.Fatalf("expected empty filled list, got %#v", none.Filled)
	}
}

func TestCleaningUnknownDataset(t *testing.T) {
	uc := newTestUsecase(newTestStore())

	_, err := uc.RemoveDuplicates(context.Background(), "missing")
	assertCode(t, err, pkgerror.CodeNotFound)

	_, err = uc.FillMissing(context.Background(), "missing")
	assertCode(t, err, pkgerror.CodeNotFound)

	err = uc.Delete(context.Background(), "missing")
	assertCode(t, err, pkgerror.CodeNotFound)
}

func TestChart(t *testing.T) {
	uc := newTestUsecase(newTestStore())
	meta := uploadOne(t, uc, "chart.csv", "name,value,other\na,1,2\nb,3,4\n")

	res, err := uc.Chart(context.Background(), meta.ID, ChartInput{})
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if res.Column != "value" || !bytes.HasPrefix(res.PNG, pngSignature) {
		t.Fatalf("unexpected chart result: column=%s", res.Column)
	}

	res, err = uc.Chart(context.Background(), meta.ID, ChartInput{Columns: []string{"name", "other"}})
	if err != nil {
		t.Fatalf("chart projected: %v", err)
	}
	if res.Column != "other" {
		t.Fatalf("chart column = %s, want other", res.Column)
	}

	_, err = uc.Chart(context.Background(), meta.ID, ChartInput{Column: "name"})
	assertCode(t, err, pkgerror.CodeInvalidInput)

	_, err = uc.Chart(context.Background(), meta.ID, ChartInput{Columns: []string{"name"}})
	assertCode(t, err, pkgerror.CodeInvalidInput)
}

func TestExport(t *testing.T) {
	uc := newTestUsecase(newTestStore())
	meta := uploadOne(t, uc, "Sales.CSV", "a,b,c\n1,x,2.5\n")

	res, err := uc.Export(context.Background(), meta.ID, ExportInput{Format: entity.FormatCSV, Columns: []string{"c", "a"}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.FileName != "Sales.csv" || res.MediaType != "text/csv" {
		t.Fatalf("unexpected export: %s %s", res.FileName, res.MediaType)
	}
	if string(res.Content) != "c,a\n2.5,1\n" {
		t.Fatalf("unexpected content: %q", res.Content)
	}

	xlsx, err := uc.Export(context.Background(), meta.ID, ExportInput{Format: "xlsx"})
	if err != nil {
		t.Fatalf("export excel: %v", err)
	}
	if xlsx.FileName != "Sales.xlsx" || xlsx.MediaType != entity.FormatExcel.MediaType() {
		t.Fatalf("unexpected excel export: %s %s", xlsx.FileName, xlsx.MediaType)
	}

	_, err = uc.Export(context.Background(), meta.ID, ExportInput{Format: "pdf"})
	assertCode(t, err, pkgerror.CodeInvalidInput)
}

func TestDeleteAndList(t *testing.T) {
	uc := newTestUsecase(newTestStore())
	meta := uploadOne(t, uc, "a.csv", "a\n1\n")

	list, err := uc.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}

	if err := uc.Delete(context.Background(), meta.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, err = uc.List(context.Background())
	if err != nil || len(list) != 0 {
		t.Fatalf("list after delete = %v, %v", list, err)
	}
}

func TestEvictIdleUsesTTL(t *testing.T) {
	store := newTestStore()
	uc := newTestUsecase(store)

	if err := uc.EvictIdle(context.Background()); err != nil {
		t.Fatalf("evict: %v", err)
	}
	want := time.Unix(1700000000, 0).Add(-time.Hour)
	if !store.evicted.Equal(want) {
		t.Fatalf("evict cutoff = %v, want %v", store.evicted, want)
	}

	store.evicted = time.Time{}
	uc.sessionTTL = 0
	if err := uc.EvictIdle(context.Background()); err != nil {
		t.Fatalf("evict: %v", err)
	}
	if !store.evicted.IsZero() {
		t.Fatal("eviction should be disabled without a TTL")
	}
}

func TestUploadMissingDependency(t *testing.T) {
	uc := New(Dependency{})

	_, err := uc.Upload(context.Background(), []UploadFile{{Name: "a.csv"}})
	assertCode(t, err, pkgerror.CodeInternal)
}
