package xval

import (
	"context"
	"reflect"
	"testing"

	"github.com/gpoulter/mscanner/internal/docindex"
	"github.com/gpoulter/mscanner/internal/feature"
)

func writeFixtureFI(t *testing.T, n int) string {
	t.Helper()
	path := t.TempDir() + "/fi.bin"
	w, err := docindex.CreateWriter(path)
	if err != nil {
		t.Fatalf("CreateWriter error: %v", err)
	}
	for i := 0; i < n; i++ {
		err := w.WriteDocument(&docindex.Document{
			DocId:    docindex.DocId(i),
			Date:     20200101,
			Features: []docindex.FeatureId{docindex.FeatureId(i % 5)},
		})
		if err != nil {
			t.Fatalf("WriteDocument error: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	return path
}

func TestSampleNegativesDeterministicForSameSeed(t *testing.T) {
	path := writeFixtureFI(t, 200)
	excl, _ := feature.NewExclusion(nil)

	a, err := SampleNegatives(context.Background(), path, excl, 20, 42)
	if err != nil {
		t.Fatalf("SampleNegatives error: %v", err)
	}
	b, err := SampleNegatives(context.Background(), path, excl, 20, 42)
	if err != nil {
		t.Fatalf("SampleNegatives error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("SampleNegatives not deterministic for identical seed: %v vs %v", a, b)
	}

	c, err := SampleNegatives(context.Background(), path, excl, 20, 43)
	if err != nil {
		t.Fatalf("SampleNegatives error: %v", err)
	}
	if reflect.DeepEqual(a, c) {
		t.Error("expected different seeds to (almost certainly) produce different samples")
	}
}

func TestSampleNegativesExcludesSet(t *testing.T) {
	path := writeFixtureFI(t, 50)
	excl, err := feature.NewExclusion([]docindex.DocId{0, 1, 2, 3, 4})
	if err != nil {
		t.Fatalf("NewExclusion error: %v", err)
	}

	ids, err := SampleNegatives(context.Background(), path, excl, 10, 1)
	if err != nil {
		t.Fatalf("SampleNegatives error: %v", err)
	}
	for _, id := range ids {
		if excl.Contains(id) {
			t.Errorf("sampled excluded id %d", id)
		}
	}
}

func TestSampleNegativesRejectsInsufficientCorpus(t *testing.T) {
	path := writeFixtureFI(t, 5)
	excl, _ := feature.NewExclusion(nil)
	if _, err := SampleNegatives(context.Background(), path, excl, 100, 1); err == nil {
		t.Fatal("expected error when corpus has fewer eligible documents than requested")
	}
}

func TestStratifiedFoldsBalance(t *testing.T) {
	ids := make([]docindex.DocId, 23)
	for i := range ids {
		ids[i] = docindex.DocId(i)
	}
	folds := stratifiedFolds(ids, 5)
	total := 0
	for _, f := range folds {
		total += len(f)
		if len(f) < 4 || len(f) > 5 {
			t.Errorf("fold size %d out of expected [4,5] range", len(f))
		}
	}
	if total != len(ids) {
		t.Errorf("folds cover %d ids, want %d", total, len(ids))
	}
}
