package docindex

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]FeatureId{
		nil,
		{0},
		{5},
		{0, 1, 2, 3},
		{1, 200, 201, 5000, 100000},
		{0, 127, 128, 16383, 16384, 2097151, 2097152},
	}
	for _, features := range cases {
		buf, err := EncodeGaps(features)
		if err != nil {
			t.Fatalf("EncodeGaps(%v) error: %v", features, err)
		}
		decoded, err := DecodeGaps(buf)
		if err != nil {
			t.Fatalf("DecodeGaps(%v) error: %v", buf, err)
		}
		if len(features) == 0 && len(decoded) == 0 {
			continue
		}
		if !reflect.DeepEqual(decoded, features) {
			t.Errorf("round trip mismatch: got %v, want %v", decoded, features)
		}
	}
}

func TestEncodeRejectsNonIncreasing(t *testing.T) {
	_, err := EncodeGaps([]FeatureId{5, 5})
	if err == nil {
		t.Fatal("expected error for duplicate feature id")
	}
	_, err = EncodeGaps([]FeatureId{5, 3})
	if err == nil {
		t.Fatal("expected error for decreasing feature id")
	}
}

func TestEncodeRejectsOverCap(t *testing.T) {
	features := make([]FeatureId, MaxFeatures+1)
	for i := range features {
		features[i] = FeatureId(i)
	}
	_, err := EncodeGaps(features)
	if err == nil {
		t.Fatal("expected error for feature vector exceeding cap")
	}
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	buf, err := EncodeGaps([]FeatureId{1, 200})
	if err != nil {
		t.Fatalf("EncodeGaps error: %v", err)
	}
	_, err = DecodeGaps(buf[:len(buf)-1])
	if err == nil {
		t.Fatal("expected error decoding a truncated stream")
	}
}

func TestDecodeRejectsOverCap(t *testing.T) {
	var buf []byte
	var last FeatureId
	for i := 0; i < MaxFeatures+5; i++ {
		buf = appendVarGap(buf, 1)
		last++
	}
	_ = last
	_, err := DecodeGaps(buf)
	if err == nil {
		t.Fatal("expected error decoding more than MaxFeatures features")
	}
}

func TestEmptyFeatureVector(t *testing.T) {
	buf, err := EncodeGaps(nil)
	if err != nil {
		t.Fatalf("EncodeGaps(nil) error: %v", err)
	}
	if len(buf) != 0 {
		t.Fatalf("expected empty payload for empty feature vector, got %d bytes", len(buf))
	}
	decoded, err := DecodeGaps(buf)
	if err != nil {
		t.Fatalf("DecodeGaps error: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected no features decoded, got %v", decoded)
	}
}
