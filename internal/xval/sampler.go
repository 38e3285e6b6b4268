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
// File Name:  sampler.go
//
// ==========================================================================

// Package xval implements the stratified k-fold Cross-Validator (CV):
// per-fold training/prediction over a labelled positive set and a
// sampled or supplied negative set, with ROC/PR/F-measure curve
// derivation (spec §4.5).
package xval

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/gpoulter/mscanner/internal/docindex"
	"github.com/gpoulter/mscanner/internal/feature"
	"github.com/gpoulter/mscanner/internal/mserr"
)

// newSeededRand builds a deterministic rand.Rand from a single int64 seed,
// the way callers pass the CV seed through a PCG source rather than the
// legacy global generator.
func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// SampleNegatives draws count distinct DocIds from fiPath, excluding any
// id in exclude, using reservoir sampling (Algorithm R) seeded by seed.
// Sampling is without replacement and, because the Feature Index is read
// in a fixed file order, yields an identical set for an identical seed
// (spec §4.5 "the algorithm must yield identical sets for identical
// seeds").
func SampleNegatives(ctx context.Context, fiPath string, exclude feature.Exclusion, count int, seed int64) ([]docindex.DocId, error) {

	if count <= 0 {
		return nil, mserr.NewArgumentError("sample count must be positive, got %d", count)
	}

	r, err := docindex.OpenReader(fiPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rng := newSeededRand(seed)
	reservoir := make([]docindex.DocId, 0, count)

	var i int
	checkEvery := 4096
	seen := 0

	for {
		seen++
		if seen%checkEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, mserr.ErrCancelled
			default:
			}
		}

		doc, err := r.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if exclude.Contains(doc.DocId) {
			continue
		}

		if len(reservoir) < count {
			reservoir = append(reservoir, doc.DocId)
		} else {
			j := rng.IntN(i + 1)
			if j < count {
				reservoir[j] = doc.DocId
			}
		}
		i++
	}

	if len(reservoir) < count {
		return nil, mserr.NewArgumentError("corpus has only %d eligible documents, requested %d negatives", len(reservoir), count)
	}

	return reservoir, nil
}

// shuffle performs a seeded Fisher-Yates shuffle in place.
func shuffle(ids []docindex.DocId, rng *rand.Rand) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// stratifiedFolds partitions a shuffled slice into nfolds contiguous
// slices as close to equal size as possible (spec §4.5 "Fold
// construction").
func stratifiedFolds(ids []docindex.DocId, nfolds int) [][]docindex.DocId {

	folds := make([][]docindex.DocId, nfolds)
	n := len(ids)

	start := 0
	for i := 0; i < nfolds; i++ {
		// distribute the remainder one-per-fold over the first folds
		size := n / nfolds
		if i < n%nfolds {
			size++
		}
		folds[i] = ids[start : start+size]
		start += size
	}

	return folds
}
