package docindex

import (
	"bytes"
	"io"
	"os"
	"testing"
)

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	docs := []*Document{
		{DocId: 1, Date: 20200101, Features: []FeatureId{1, 2, 3}},
		{DocId: 2, Date: 20200102, Features: nil},
		{DocId: 3, Date: 20200103, Features: []FeatureId{0, 500, 999}},
	}

	for _, d := range docs {
		if err := w.WriteDocument(d); err != nil {
			t.Fatalf("WriteDocument error: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if w.RecordsWritten() != uint64(len(docs)) {
		t.Fatalf("RecordsWritten() = %d, want %d", w.RecordsWritten(), len(docs))
	}

	r := NewReader(nopCloser{&buf})
	defer r.Close()

	for _, want := range docs {
		got, err := r.ReadNext()
		if err != nil {
			t.Fatalf("ReadNext error: %v", err)
		}
		if got.DocId != want.DocId || got.Date != want.Date {
			t.Errorf("got %+v, want %+v", got, want)
		}
		if len(got.Features) != len(want.Features) {
			t.Errorf("feature count mismatch: got %v, want %v", got.Features, want.Features)
		}
	}

	if _, err := r.ReadNext(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestInWindow(t *testing.T) {
	d := Document{Date: 20200615}
	if !d.InWindow(20200101, 20201231) {
		t.Error("expected date inside window to match")
	}
	if d.InWindow(20200701, 20201231) {
		t.Error("expected date before window to not match")
	}
	if d.InWindow(20200101, 20200101) {
		t.Error("expected date after window to not match")
	}
}

func TestChunkOffsetsCoverWholeFile(t *testing.T) {
	path := t.TempDir() + "/fi.bin"
	w, err := CreateWriter(path)
	if err != nil {
		t.Fatalf("CreateWriter error: %v", err)
	}
	for i := 0; i < 100; i++ {
		err := w.WriteDocument(&Document{DocId: DocId(i), Date: Date(20200000 + i), Features: []FeatureId{FeatureId(i), FeatureId(i + 1)}})
		if err != nil {
			t.Fatalf("WriteDocument error: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}

	offsets, err := ChunkOffsets(path, 4)
	if err != nil {
		t.Fatalf("ChunkOffsets error: %v", err)
	}
	if offsets[0] != 0 {
		t.Errorf("first offset = %d, want 0", offsets[0])
	}
	if offsets[len(offsets)-1] != info.Size() {
		t.Errorf("last offset = %d, want file size %d", offsets[len(offsets)-1], info.Size())
	}

	var total int
	for i := 0; i < len(offsets)-1; i++ {
		r, err := OpenReaderRange(path, offsets[i], offsets[i+1])
		if err != nil {
			t.Fatalf("OpenReaderRange error: %v", err)
		}
		for {
			_, err := r.ReadNext()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("ReadNext error: %v", err)
			}
			total++
		}
		r.Close()
	}
	if total != 100 {
		t.Errorf("chunked read produced %d records, want 100", total)
	}
}

func TestChunkOffsetsEmptyIndex(t *testing.T) {
	path := t.TempDir() + "/empty.bin"
	w, err := CreateWriter(path)
	if err != nil {
		t.Fatalf("CreateWriter error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	offsets, err := ChunkOffsets(path, 4)
	if err != nil {
		t.Fatalf("ChunkOffsets error: %v", err)
	}
	if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != 0 {
		t.Errorf("ChunkOffsets on an empty index = %v, want [0 0]", offsets)
	}
}
