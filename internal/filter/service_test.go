package filter

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/hyperjump/resumatch/internal/extract"
	"github.com/hyperjump/resumatch/internal/match"
	"github.com/hyperjump/resumatch/internal/models"
	"go.uber.org/zap"
)

// fakeStore is an in-memory store.Store recording which operations ran.
type fakeStore struct {
	files     map[string][]byte
	listErr   error
	readDelay time.Duration
	listed    bool
	reads     []string
}

func (f *fakeStore) List(ctx context.Context) ([]string, error) {
	f.listed = true
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeStore) Read(ctx context.Context, name string) ([]byte, error) {
	f.reads = append(f.reads, name)
	if f.readDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.readDelay):
		}
	}
	content, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("resume not found: %s", name)
	}
	return content, nil
}

func (f *fakeStore) Save(ctx context.Context, name string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.files[name] = content
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, name string) error {
	delete(f.files, name)
	return nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.files), nil
}

// minimalDocx returns .docx zip bytes with one paragraph per given text.
func minimalDocx(paragraphs ...string) []byte {
	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func newTestService(st *fakeStore, timeout time.Duration) *Service {
	return NewService(st, extract.NewExtractor(), match.NewScorer(), timeout, zap.NewNop())
}

func TestFilter(t *testing.T) {
	st := &fakeStore{files: map[string][]byte{
		"a.docx": minimalDocx("Python, Django, REST API"),
		"b.docx": minimalDocx("Java, Spring"),
	}}
	svc := newTestService(st, 0)

	resp, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"python", "rest api"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if resp.TotalResumes != 2 {
		t.Errorf("TotalResumes = %d, want 2", resp.TotalResumes)
	}
	if len(resp.MatchedResumes) != 1 {
		t.Fatalf("MatchedResumes = %+v, want exactly one", resp.MatchedResumes)
	}
	got := resp.MatchedResumes[0]
	if got.Filename != "a.docx" || got.Score != 2 {
		t.Errorf("match = %+v, want a.docx with score 2", got)
	}
	if !reflect.DeepEqual(got.MatchedKeywords, []string{"python", "rest api"}) {
		t.Errorf("MatchedKeywords = %v", got.MatchedKeywords)
	}
	if resp.Message != "Found 1 matching resumes" {
		t.Errorf("Message = %q", resp.Message)
	}
}

func TestFilter_zeroMatchesExcluded(t *testing.T) {
	st := &fakeStore{files: map[string][]byte{
		"a.docx": minimalDocx("Java, Spring"),
	}}
	svc := newTestService(st, 0)

	resp, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"python"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(resp.MatchedResumes) != 0 {
		t.Errorf("MatchedResumes = %+v, want empty", resp.MatchedResumes)
	}
	if resp.TotalResumes != 1 {
		t.Errorf("TotalResumes = %d, want 1", resp.TotalResumes)
	}
	if resp.Message != "No matching resumes found" {
		t.Errorf("Message = %q", resp.Message)
	}
}

func TestFilter_sortedByScoreThenFilename(t *testing.T) {
	st := &fakeStore{files: map[string][]byte{
		"zebra.docx": minimalDocx("go"),
		"alpha.docx": minimalDocx("go"),
		"mid.docx":   minimalDocx("go docker kubernetes"),
	}}
	svc := newTestService(st, 0)

	resp, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"go", "docker", "kubernetes"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	var order []string
	for _, m := range resp.MatchedResumes {
		order = append(order, m.Filename)
	}
	want := []string{"mid.docx", "alpha.docx", "zebra.docx"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestFilter_emptyKeywordSetRejectedBeforeExtraction(t *testing.T) {
	st := &fakeStore{files: map[string][]byte{
		"a.docx": minimalDocx("anything"),
	}}
	svc := newTestService(st, 0)

	_, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"", "  ", ""}})
	if !errors.Is(err, models.ErrEmptyKeywordSet) {
		t.Fatalf("Filter = %v, want ErrEmptyKeywordSet", err)
	}
	if st.listed || len(st.reads) != 0 {
		t.Error("store should not be touched for an invalid request")
	}
}

func TestFilter_corruptDocumentSkipped(t *testing.T) {
	st := &fakeStore{files: map[string][]byte{
		"bad.docx":  []byte("not a zip at all"),
		"good.docx": minimalDocx("Python Developer"),
	}}
	svc := newTestService(st, 0)

	resp, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"python"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(resp.MatchedResumes) != 1 || resp.MatchedResumes[0].Filename != "good.docx" {
		t.Errorf("MatchedResumes = %+v, want only good.docx", resp.MatchedResumes)
	}
	if resp.TotalResumes != 2 {
		t.Errorf("TotalResumes = %d, want 2", resp.TotalResumes)
	}
}

func TestFilter_unsupportedFilePresentDoesNotAbort(t *testing.T) {
	st := &fakeStore{files: map[string][]byte{
		"notes.txt": []byte("python everywhere"),
		"a.docx":    minimalDocx("python"),
	}}
	svc := newTestService(st, 0)

	resp, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"python"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(resp.MatchedResumes) != 1 || resp.MatchedResumes[0].Filename != "a.docx" {
		t.Errorf("MatchedResumes = %+v, want only a.docx", resp.MatchedResumes)
	}
}

func TestFilter_duplicateKeywordsDoNotInflateScore(t *testing.T) {
	st := &fakeStore{files: map[string][]byte{
		"a.docx": minimalDocx("Python Developer"),
	}}
	svc := newTestService(st, 0)

	resp, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"Python", "python", "PYTHON"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(resp.MatchedResumes) != 1 {
		t.Fatalf("MatchedResumes = %+v", resp.MatchedResumes)
	}
	got := resp.MatchedResumes[0]
	if got.Score != 1 || !reflect.DeepEqual(got.MatchedKeywords, []string{"Python"}) {
		t.Errorf("match = %+v, want score 1 with [Python]", got)
	}
	if !reflect.DeepEqual(resp.KeywordsSearched, []string{"Python"}) {
		t.Errorf("KeywordsSearched = %v", resp.KeywordsSearched)
	}
}

func TestFilter_listFailureIsFatal(t *testing.T) {
	st := &fakeStore{listErr: errors.New("disk gone")}
	svc := newTestService(st, 0)

	if _, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"go"}}); err == nil {
		t.Error("expected error when store listing fails")
	}
}

func TestFilter_slowDocumentTimesOutWithoutFailingBatch(t *testing.T) {
	st := &fakeStore{
		files: map[string][]byte{
			"a.docx": minimalDocx("python"),
		},
		readDelay: 200 * time.Millisecond,
	}
	svc := newTestService(st, 10*time.Millisecond)

	resp, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"python"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(resp.MatchedResumes) != 0 {
		t.Errorf("MatchedResumes = %+v, want empty (document timed out)", resp.MatchedResumes)
	}
	if resp.TotalResumes != 1 {
		t.Errorf("TotalResumes = %d, want 1", resp.TotalResumes)
	}
}

func TestFilter_emptyStore(t *testing.T) {
	st := &fakeStore{files: map[string][]byte{}}
	svc := newTestService(st, 0)

	resp, err := svc.Filter(context.Background(), &models.FilterRequest{Keywords: []string{"go"}})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if resp.TotalResumes != 0 || len(resp.MatchedResumes) != 0 {
		t.Errorf("resp = %+v, want empty", resp)
	}
}
