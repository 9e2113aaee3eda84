package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/pagereorder/internal/reorder"
	"github.com/local/pagereorder/internal/storage"
)

const pdfHeader = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n"

type fakeDoc struct {
	texts  []string
	closed bool
}

func (d *fakeDoc) NumPage() int { return len(d.texts) }

func (d *fakeDoc) Text(index int) (string, error) { return d.texts[index], nil }

func (d *fakeDoc) FooterImage(index int, _ float64) ([]byte, error) {
	return []byte(fmt.Sprint(index)), nil
}

func (d *fakeDoc) Close() error { d.closed = true; return nil }

type footerRecognizer map[string]string

func (footerRecognizer) Available() bool { return true }

func (r footerRecognizer) Recognize(_ context.Context, img []byte) (string, error) {
	return r[string(img)], nil
}

type fakeAssembler struct {
	pages int
	order reorder.Order
	in    string
}

func (a *fakeAssembler) PageCount(string) (int, error) { return a.pages, nil }

func (a *fakeAssembler) Collect(in, out string, order reorder.Order) error {
	if len(order) == 0 {
		return ErrEmptyOrder
	}
	a.in, a.order = in, order
	return os.WriteFile(out, []byte(pdfHeader), 0o644)
}

// localStorage resolves plain paths and records uploads to s3:// refs.
type localStorage struct {
	stored map[string]string
}

func (s *localStorage) Fetch(_ context.Context, ref string) (string, func(), error) {
	p := storage.LocalPath(ref)
	if _, err := os.Stat(p); err != nil {
		return "", func() {}, err
	}
	return p, func() {}, nil
}

func (s *localStorage) Store(_ context.Context, localPath, ref string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	if s.stored == nil {
		s.stored = map[string]string{}
	}
	s.stored[ref] = string(data)
	return nil
}

type fixture struct {
	dir   string
	input string
	doc   *fakeDoc
	asm   *fakeAssembler
	store *localStorage
	orch  *Orchestrator
}

func newFixture(t *testing.T, texts []string, rec reorder.Recognizer) *fixture {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(input, []byte(pdfHeader), 0o644))
	f := &fixture{
		dir:   dir,
		input: input,
		doc:   &fakeDoc{texts: texts},
		asm:   &fakeAssembler{pages: len(texts)},
		store: &localStorage{},
	}
	f.orch = New(Dependencies{
		Opener:     OpenerFunc(func(string) (Document, error) { return f.doc, nil }),
		Recognizer: rec,
		Assembler:  f.asm,
		Storage:    f.store,
	})
	return f
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestSortEndToEnd(t *testing.T) {
	texts := []string{"intro 2-1", "", "body 1-3", "S-1", "1 - 1"}
	f := newFixture(t, texts, footerRecognizer{"1": "Chapter 2-2"})
	out := filepath.Join(f.dir, "out", "sorted.pdf")
	report := filepath.Join(f.dir, "report.txt")
	ocrLog := filepath.Join(f.dir, "ocr_log.txt")

	res, err := f.orch.Sort(context.Background(), SortRequest{
		ClassifyRequest: ClassifyRequest{
			Input: f.input,
			OCR:   OCRSettings{Enabled: true, Workers: 2, LogPath: ocrLog},
		},
		Output: out,
		Report: report,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, reorder.Order{5, 3, 1, 2, 4}, res.Order)
	assert.Equal(t, res.Order, f.asm.order)
	assert.Equal(t, f.input, f.asm.in)
	assert.True(t, f.doc.closed)
	assert.FileExists(t, out)
	assert.Equal(t, reorder.ProvenanceOCR, res.Pages[1].Provenance())

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, "1: 2-1 (text)\n2: 2-2 (ocr)\n3: 1-3 (text)\n4: S-1 (text)\n5: 1-1 (text)\n", string(data))

	logData, err := os.ReadFile(ocrLog)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(logData), "Page Index: 1\n"))
	require.Len(t, res.Attempts, 1)

	leftovers, _ := filepath.Glob(filepath.Join(f.dir, "out", ".pagereorder-*"))
	assert.Empty(t, leftovers)
}

func TestSortWithOverrides(t *testing.T) {
	f := newFixture(t, []string{"1-2", "", "1-1"}, nil)
	overrides := f.write(t, "overrides.json", `{"2": ["S", 1]}`)

	res, err := f.orch.Sort(context.Background(), SortRequest{
		ClassifyRequest: ClassifyRequest{Input: f.input, Overrides: overrides},
		Output:          filepath.Join(f.dir, "sorted.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, reorder.Order{3, 1, 2}, res.Order)
	assert.Equal(t, reorder.ProvenanceManual, res.Pages[1].Provenance())
	assert.NoFileExists(t, filepath.Join(f.dir, "ocr_log.txt"))
}

func TestSortRejectsBadOverride(t *testing.T) {
	f := newFixture(t, []string{"1-1", "1-2"}, nil)
	overrides := f.write(t, "overrides.json", `{"9": [1, 1]}`)

	_, err := f.orch.Sort(context.Background(), SortRequest{
		ClassifyRequest: ClassifyRequest{Input: f.input, Overrides: overrides},
		Output:          filepath.Join(f.dir, "sorted.pdf"),
	})
	require.Error(t, err)
	assert.True(t, reorder.IsInputError(err))
	assert.Nil(t, f.asm.order, "nothing is written on input errors")
}

func TestSortOCRUnavailableLeavesPagesUnclassified(t *testing.T) {
	f := newFixture(t, []string{"", "1-1"}, nil)
	ocrLog := filepath.Join(f.dir, "ocr_log.txt")

	res, err := f.orch.Sort(context.Background(), SortRequest{
		ClassifyRequest: ClassifyRequest{Input: f.input, OCR: OCRSettings{Enabled: true, LogPath: ocrLog}},
		Output:          filepath.Join(f.dir, "sorted.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, reorder.Order{2, 1}, res.Order)
	assert.Empty(t, res.Attempts)
	assert.NoFileExists(t, ocrLog)
}

func TestSortEmptyDocument(t *testing.T) {
	f := newFixture(t, nil, nil)
	_, err := f.orch.Sort(context.Background(), SortRequest{
		ClassifyRequest: ClassifyRequest{Input: f.input},
		Output:          filepath.Join(f.dir, "sorted.pdf"),
	})
	assert.True(t, errors.Is(err, ErrEmptyOrder))
}

func TestSortUploadsRemoteOutput(t *testing.T) {
	f := newFixture(t, []string{"1-2", "1-1"}, nil)
	_, err := f.orch.Sort(context.Background(), SortRequest{
		ClassifyRequest: ClassifyRequest{Input: f.input},
		Output:          "s3://books/sorted.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, pdfHeader, f.store.stored["s3://books/sorted.pdf"])
}

func TestSortRejectsNonPDF(t *testing.T) {
	f := newFixture(t, []string{"1-1"}, nil)
	notPDF := f.write(t, "notes.pdf", "plain text\n")
	_, err := f.orch.Sort(context.Background(), SortRequest{
		ClassifyRequest: ClassifyRequest{Input: notPDF},
		Output:          filepath.Join(f.dir, "sorted.pdf"),
	})
	require.Error(t, err)
	assert.Nil(t, f.asm.order)
}

func TestClassifyDoesNotWrite(t *testing.T) {
	f := newFixture(t, []string{"no label", "3-1"}, nil)
	res, err := f.orch.Classify(context.Background(), ClassifyRequest{Input: f.input})
	require.NoError(t, err)
	require.Len(t, res.Pages, 2)
	assert.False(t, res.Pages[0].IsClassified())
	assert.Equal(t, "2: 3-1", res.Pages[1].String())
	assert.Nil(t, res.Order)
	assert.Nil(t, f.asm.order)
}

func TestMove(t *testing.T) {
	f := newFixture(t, make([]string, 6), nil)
	moves := f.write(t, "moves.json", `{"6": 2, "2": 5}`)
	out := filepath.Join(f.dir, "moved.pdf")

	res, err := f.orch.Move(context.Background(), MoveRequest{Input: f.input, Output: out, Moves: moves})
	require.NoError(t, err)
	assert.Equal(t, reorder.Order{1, 6, 3, 4, 5, 2}, res.Order)
	assert.Equal(t, res.Order, f.asm.order)
	assert.FileExists(t, out)
	assert.Nil(t, res.Pages)
}

func TestMoveRejectsOutOfRange(t *testing.T) {
	f := newFixture(t, make([]string, 3), nil)
	moves := f.write(t, "moves.json", `{"4": 1}`)

	_, err := f.orch.Move(context.Background(), MoveRequest{Input: f.input, Output: filepath.Join(f.dir, "m.pdf"), Moves: moves})
	require.Error(t, err)
	assert.True(t, reorder.IsInputError(err))
	assert.Nil(t, f.asm.order)
}

func TestMoveMissingMovesFile(t *testing.T) {
	f := newFixture(t, make([]string, 3), nil)
	_, err := f.orch.Move(context.Background(), MoveRequest{Input: f.input, Output: filepath.Join(f.dir, "m.pdf"), Moves: filepath.Join(f.dir, "nope.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch moves")
}
