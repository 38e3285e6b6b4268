package scan

import (
	"compress/gzip"
	"context"
	"io"
	"math"
	"os"
	"reflect"
	"testing"

	"github.com/gpoulter/mscanner/internal/docindex"
	"github.com/gpoulter/mscanner/internal/sysconf"
)

// gzipFile compresses src into a new file at dst, standard library gzip
// being perfectly readable by pgzip's decompressor on the other end.
func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		return err
	}
	return zw.Close()
}

func writeFixtureFI(t *testing.T, docs []*docindex.Document) string {
	t.Helper()
	path := t.TempDir() + "/fi.bin"
	w, err := docindex.CreateWriter(path)
	if err != nil {
		t.Fatalf("CreateWriter error: %v", err)
	}
	for _, d := range docs {
		if err := w.WriteDocument(d); err != nil {
			t.Fatalf("WriteDocument error: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	return path
}

func TestScanTopKAndThreshold(t *testing.T) {
	docs := []*docindex.Document{
		{DocId: 1, Date: 20200101, Features: []docindex.FeatureId{0}},
		{DocId: 2, Date: 20200101, Features: []docindex.FeatureId{1}},
		{DocId: 3, Date: 20200101, Features: []docindex.FeatureId{2}},
	}
	path := writeFixtureFI(t, docs)

	scoreVec := []float32{1, 5, 3}
	results, err := Scan(context.Background(), path, Params{
		ScoreVec:  scoreVec,
		Offset:    0,
		Threshold: float32(math.Inf(-1)),
		Limit:     2,
		MinDate:   0,
		MaxDate:   99999999,
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].DocId != 2 || results[1].DocId != 3 {
		t.Errorf("got %+v, want docid 2 then 3 by descending score", results)
	}
}

func TestScanTieBreakDeterminism(t *testing.T) {
	// Two documents with identical scores; limit 1 must keep the
	// smaller DocId regardless of scan order.
	docsAscending := []*docindex.Document{
		{DocId: 10, Date: 20200101, Features: nil},
		{DocId: 20, Date: 20200101, Features: nil},
	}
	docsDescending := []*docindex.Document{
		{DocId: 20, Date: 20200101, Features: nil},
		{DocId: 10, Date: 20200101, Features: nil},
	}

	for _, docs := range [][]*docindex.Document{docsAscending, docsDescending} {
		path := writeFixtureFI(t, docs)
		results, err := Scan(context.Background(), path, Params{
			Offset:    5,
			Threshold: float32(math.Inf(-1)),
			Limit:     1,
			MinDate:   0,
			MaxDate:   99999999,
		})
		if err != nil {
			t.Fatalf("Scan error: %v", err)
		}
		if len(results) != 1 || results[0].DocId != 10 {
			t.Errorf("got %+v, want single result with DocId 10", results)
		}
	}
}

func TestScanParallelAgreesWithScan(t *testing.T) {
	var docs []*docindex.Document
	for i := 0; i < 50; i++ {
		docs = append(docs, &docindex.Document{
			DocId:    docindex.DocId(i),
			Date:     20200101,
			Features: []docindex.FeatureId{docindex.FeatureId(i % 10)},
		})
	}
	path := writeFixtureFI(t, docs)

	scoreVec := make([]float32, 10)
	for i := range scoreVec {
		scoreVec[i] = float32(i) * 1.5
	}

	params := Params{
		ScoreVec:  scoreVec,
		Threshold: float32(math.Inf(-1)),
		Limit:     5,
		MinDate:   0,
		MaxDate:   99999999,
	}

	sequential, err := Scan(context.Background(), path, params)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	sc := sysconf.Params{NumProcs: 4}
	parallel, err := ScanParallel(context.Background(), path, params, sc)
	if err != nil {
		t.Fatalf("ScanParallel error: %v", err)
	}

	if !reflect.DeepEqual(sequential, parallel) {
		t.Errorf("ScanParallel disagrees with Scan:\nsequential=%+v\nparallel=%+v", sequential, parallel)
	}
}

func TestScanRejectsBadArgs(t *testing.T) {
	path := writeFixtureFI(t, nil)
	if _, err := Scan(context.Background(), path, Params{Limit: 0}); err == nil {
		t.Error("expected error for non-positive limit")
	}
	if _, err := Scan(context.Background(), path, Params{Limit: 1, MinDate: 2, MaxDate: 1}); err == nil {
		t.Error("expected error for mindate after maxdate")
	}
}

func TestScanParallelEmptyIndex(t *testing.T) {
	path := writeFixtureFI(t, nil)

	results, err := ScanParallel(context.Background(), path, Params{
		Threshold: float32(math.Inf(-1)),
		Limit:     5,
		MinDate:   0,
		MaxDate:   99999999,
	}, sysconf.Params{NumProcs: 4})
	if err != nil {
		t.Fatalf("ScanParallel error on an empty index: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results scanning an empty index, want 0", len(results))
	}
}

func TestScanParallelFallsBackOnGzipPath(t *testing.T) {
	docs := []*docindex.Document{
		{DocId: 1, Date: 20200101, Features: []docindex.FeatureId{0}},
		{DocId: 2, Date: 20200101, Features: []docindex.FeatureId{1}},
	}
	plainPath := writeFixtureFI(t, docs)
	gzPath := plainPath + ".gz"
	if err := gzipFile(plainPath, gzPath); err != nil {
		t.Fatalf("gzipFile error: %v", err)
	}

	scoreVec := []float32{1, 5}
	params := Params{
		ScoreVec:  scoreVec,
		Threshold: float32(math.Inf(-1)),
		Limit:     2,
		MinDate:   0,
		MaxDate:   99999999,
	}

	// NumProcs > 1 would otherwise chunk the raw (compressed) bytes;
	// ScanParallel must detect the ".gz" suffix and fall back to Scan.
	results, err := ScanParallel(context.Background(), gzPath, params, sysconf.Params{NumProcs: 4})
	if err != nil {
		t.Fatalf("ScanParallel error on a gzip-suffixed path: %v", err)
	}
	want, err := Scan(context.Background(), plainPath, params)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("ScanParallel(gz) = %+v, want %+v", results, want)
	}
}

func TestScoreDocumentOutsideWindow(t *testing.T) {
	doc := &docindex.Document{DocId: 1, Date: 20190101, Features: nil}
	s := scoreDocument(doc, &Params{MinDate: 20200101, MaxDate: 20201231})
	if !math.IsInf(float64(s), -1) {
		t.Errorf("expected -Inf for out-of-window document, got %v", s)
	}
}
