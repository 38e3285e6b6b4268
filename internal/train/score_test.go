package train

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Abs(a))
}

func TestTrainScoreIdentity(t *testing.T) {
	p := Params{
		PosCounts: []uint32{40, 5},
		NegCounts: []uint32{10, 50},
		PosDocs:   100,
		NegDocs:   100,
		Method:    MethodBgFreq,
	}
	scores, err := Train(p)
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}

	posDocs, negDocs := float64(p.PosDocs), float64(p.NegDocs)
	totDocs := posDocs + negDocs

	for i := range p.PosCounts {
		pc := float64(p.PosCounts[i])
		nc := float64(p.NegCounts[i])
		alpha := (pc + nc) / totDocs
		pPos := (pc + alpha) / (posDocs + 1)
		pNeg := (nc + alpha) / (negDocs + 1)
		present := math.Log(pPos / pNeg)
		absent := math.Log((1 - pPos) / (1 - pNeg))
		want := present - absent

		if !almostEqual(float64(scores.Score[i]), want, 1e-4) {
			t.Errorf("Score[%d] = %v, want %v", i, scores.Score[i], want)
		}
	}
}

func TestTrainRejectsMismatchedLengths(t *testing.T) {
	_, err := Train(Params{
		PosCounts: []uint32{1, 2},
		NegCounts: []uint32{1},
		PosDocs:   10,
		NegDocs:   10,
	})
	if err == nil {
		t.Fatal("expected error for mismatched count vector lengths")
	}
}

func TestTrainRejectsEmptyClass(t *testing.T) {
	_, err := Train(Params{
		PosCounts: []uint32{1},
		NegCounts: []uint32{1},
		PosDocs:   0,
		NegDocs:   10,
	})
	if err == nil {
		t.Fatal("expected error for zero positive documents")
	}
}

func TestTrainMinCountFilter(t *testing.T) {
	p := Params{
		PosCounts: []uint32{1, 40},
		NegCounts: []uint32{0, 10},
		PosDocs:   100,
		NegDocs:   100,
		MinCount:  5,
	}
	scores, err := Train(p)
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	if scores.Selected[0] {
		t.Error("feature 0 should be filtered out by MinCount")
	}
	if scores.Score[0] != 0 {
		t.Errorf("filtered feature score = %v, want 0", scores.Score[0])
	}
	if !scores.Selected[1] {
		t.Error("feature 1 should survive MinCount")
	}
}

func TestTrainFixedPseudocount(t *testing.T) {
	p := Params{
		PosCounts:   []uint32{10},
		NegCounts:   []uint32{10},
		PosDocs:     50,
		NegDocs:     50,
		Method:      MethodFixedPseudocount,
		Pseudocount: 0.5,
	}
	scores, err := Train(p)
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	// symmetric counts and priors should yield an (approximately) zero
	// score and prior
	if !almostEqual(float64(scores.Score[0]), 0, 1e-3) {
		t.Errorf("symmetric feature score = %v, want ~0", scores.Score[0])
	}
	if !almostEqual(float64(scores.Prior), 0, 1e-9) {
		t.Errorf("prior = %v, want 0 for equal class sizes", scores.Prior)
	}
}
