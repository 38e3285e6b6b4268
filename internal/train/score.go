// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  score.go
//
// ==========================================================================

// Package train implements the Feature Score Trainer (FST): given
// positive and negative feature counts, produce the feature-score vector,
// base score, and prior that the Score Calculator accumulates against
// (spec §4.3).
package train

import (
	"math"

	"github.com/gpoulter/mscanner/internal/mserr"
)

// Method selects the smoothing strategy. This replaces the string-typed
// method-name dispatch spec §9 calls out ("the source selects among
// feature-scoring methods by method name string") with a tagged variant.
type Method int

const (
	// MethodBgFreq uses per-feature background-frequency smoothing:
	// alpha_i = (pos_counts[i]+neg_counts[i]) / (pos_docs+neg_docs).
	MethodBgFreq Method = iota
	// MethodFixedPseudocount uses a single fixed pseudocount for every
	// feature (spec §4.3 "pseudocount: Some(alpha)").
	MethodFixedPseudocount
)

// Params bundles the FST inputs of spec §4.3.
type Params struct {
	PosCounts []uint32
	NegCounts []uint32
	PosDocs   uint32
	NegDocs   uint32

	MinCount    uint32
	MinInfoGain float32 // 0 disables the information-gain filter

	Method      Method
	Pseudocount float32 // only consulted when Method == MethodFixedPseudocount

	PriorOverride *float32
}

// Scores is the FST output: a dense score vector, the precomputed base
// score, the class prior, and the selection mask recording which
// features survived min_count/min_infogain filtering.
type Scores struct {
	Score    []float32
	Base     float32
	Prior    float32
	Selected []bool
}

// Train computes the Naive Bayes feature-score vector, base score, and
// prior from labelled positive/negative feature counts (spec §4.3). The
// score identity this must preserve for every feature i is:
//
//	score[i] = ln(p_pos[i]/p_neg[i]) - ln((1-p_pos[i])/(1-p_neg[i]))
//
// so that a document's log-likelihood-ratio is exactly
// base + sum(score[f] for f in present features), with base carrying the
// ln((1-p_pos)/(1-p_neg)) term for every selected feature, present or
// absent, and score[f] carrying only the switch (presence) term. This is
// the "correctness-critical identity" of spec §4.3.
func Train(p Params) (*Scores, error) {

	n := len(p.PosCounts)
	if n != len(p.NegCounts) {
		return nil, mserr.NewArgumentError("pos/neg count vectors differ in length: %d vs %d", n, len(p.NegCounts))
	}
	if p.PosDocs == 0 || p.NegDocs == 0 {
		return nil, mserr.NewEmptyLabelled("pos_docs=%d neg_docs=%d: both classes must be non-empty", p.PosDocs, p.NegDocs)
	}

	score := make([]float32, n)
	selected := make([]bool, n)

	var base float64

	posDocs := float64(p.PosDocs)
	negDocs := float64(p.NegDocs)
	totDocs := posDocs + negDocs

	pClassPos := posDocs / totDocs
	pClassNeg := negDocs / totDocs
	hClass := binaryEntropy(pClassPos)

	for i := 0; i < n; i++ {

		pc := float64(p.PosCounts[i])
		nc := float64(p.NegCounts[i])

		if pc+nc < float64(p.MinCount) {
			// dropped feature: score 0, excluded from base.
			continue
		}

		var alpha float64
		if p.Method == MethodFixedPseudocount {
			alpha = float64(p.Pseudocount)
		} else {
			alpha = (pc + nc) / totDocs
		}

		pPos := (pc + alpha) / (posDocs + 1)
		pNeg := (nc + alpha) / (negDocs + 1)

		if p.MinInfoGain > 0 {
			ig := relativeInfoGain(pClassPos, pClassNeg, pPos, pNeg, hClass)
			if ig < float64(p.MinInfoGain) {
				continue
			}
		}

		presentTerm := math.Log(pPos / pNeg)
		absentTerm := math.Log((1 - pPos) / (1 - pNeg))

		score[i] = float32(presentTerm - absentTerm)
		base += absentTerm
		selected[i] = true
	}

	prior := math.Log(posDocs / negDocs)
	if p.PriorOverride != nil {
		prior = float64(*p.PriorOverride)
	}

	return &Scores{
		Score:    score,
		Base:     float32(base),
		Prior:    float32(prior),
		Selected: selected,
	}, nil
}

// binaryEntropy is H(p) in bits, with the 0*log2(0) = 0 convention.
func binaryEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}

// relativeInfoGain computes the information gain of the class given a
// single feature's presence/absence, divided by the entropy of the class
// (spec §4.3 feature selection), using the 2x2 contingency built from the
// smoothed per-class feature probabilities.
func relativeInfoGain(pClassPos, pClassNeg, pPos, pNeg, hClass float64) float64 {

	if hClass == 0 {
		return math.Inf(1) // only one class present, so no class uncertainty to explain; never filtered
	}

	pPresent := pClassPos*pPos + pClassNeg*pNeg
	pAbsent := 1 - pPresent

	var hGivenPresent, hGivenAbsent float64

	if pPresent > 0 {
		pPosGivenPresent := (pClassPos * pPos) / pPresent
		hGivenPresent = binaryEntropy(pPosGivenPresent)
	}
	if pAbsent > 0 {
		pPosGivenAbsent := (pClassPos * (1 - pPos)) / pAbsent
		hGivenAbsent = binaryEntropy(pPosGivenAbsent)
	}

	hGivenFeature := pPresent*hGivenPresent + pAbsent*hGivenAbsent

	ig := hClass - hGivenFeature

	return ig / hClass
}
