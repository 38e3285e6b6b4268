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
// File Name:  crossval.go
//
// ==========================================================================

package xval

import (
	"context"
	"io"
	"sort"

	"github.com/gpoulter/mscanner/internal/docindex"
	"github.com/gpoulter/mscanner/internal/feature"
	"github.com/gpoulter/mscanner/internal/mserr"
	"github.com/gpoulter/mscanner/internal/scan"
	"github.com/gpoulter/mscanner/internal/sysconf"
	"github.com/gpoulter/mscanner/internal/train"
)

// Params bundles the CV inputs of spec §4.5.
type Params struct {
	FiPath      string
	NumFeatures int

	Positives []docindex.DocId
	// Negatives, if empty, is sampled from the corpus excluding
	// Positives, drawing NumNegatives identifiers.
	Negatives   []docindex.DocId
	NumNegatives int

	NFolds int // default 10 if 0
	Seed   int64

	MinDate, MaxDate docindex.Date

	MinCount    uint32
	MinInfoGain float32
	Method      train.Method
	Pseudocount float32

	Alpha     float32        // Fα precision weight
	UtilityR  *float32       // defaults to N/P if nil
	Sysconf   sysconf.Params
}

// scoredLabel is one aggregated (score, label) pair, label true for a
// positive document (spec §4.5 "Accumulate (score,label) pairs into a
// global list").
type scoredLabel struct {
	score    float32
	positive bool
	docID    docindex.DocId
}

// CrossValidate runs stratified k-fold cross-validation (spec §4.5) and
// returns the derived Report.
func CrossValidate(ctx context.Context, p Params) (*Report, error) {

	nfolds := p.NFolds
	if nfolds == 0 {
		nfolds = 10
	}
	if nfolds < 2 {
		return nil, mserr.NewArgumentError("nfolds must be at least 2, got %d", nfolds)
	}
	if len(p.Positives) < nfolds {
		return nil, mserr.NewEmptyLabelled("only %d positives supplied, need at least nfolds=%d for stratification", len(p.Positives), nfolds)
	}

	positives := sortedCopy(p.Positives)
	posExclusion, err := feature.NewExclusion(positives)
	if err != nil {
		return nil, err
	}

	negatives := p.Negatives
	if len(negatives) == 0 {
		if p.NumNegatives <= 0 {
			return nil, mserr.NewArgumentError("NumNegatives must be positive when Negatives is not supplied")
		}
		negatives, err = SampleNegatives(ctx, p.FiPath, posExclusion, p.NumNegatives, p.Seed)
		if err != nil {
			return nil, err
		}
	}
	if len(negatives) < nfolds {
		return nil, mserr.NewEmptyLabelled("only %d negatives available, need at least nfolds=%d for stratification", len(negatives), nfolds)
	}

	// Shuffle independent copies with the same seeded RNG stream, in a
	// fixed order (positives then negatives), so identical seeds give
	// bit-identical fold assignments (spec §8 "CV sanity").
	posShuffled := append([]docindex.DocId(nil), positives...)
	negShuffled := sortedCopy(negatives)

	rng := newSeededRand(p.Seed)
	shuffle(posShuffled, rng)
	shuffle(negShuffled, rng)

	posFolds := stratifiedFolds(posShuffled, nfolds)
	negFolds := stratifiedFolds(negShuffled, nfolds)

	var all []scoredLabel

	for i := 0; i < nfolds; i++ {

		select {
		case <-ctx.Done():
			return nil, mserr.ErrCancelled
		default:
		}

		testPos := posFolds[i]
		testNeg := negFolds[i]

		trainPos := concatExcept(posFolds, i)
		trainNeg := concatExcept(negFolds, i)

		trainPosSet, err := feature.NewExclusion(sortedCopy(trainPos))
		if err != nil {
			return nil, err
		}
		trainNegSet, err := feature.NewExclusion(sortedCopy(trainNeg))
		if err != nil {
			return nil, err
		}

		posCounts, err := feature.CountIncluded(ctx, p.FiPath, trainPosSet, p.MinDate, p.MaxDate, p.NumFeatures, p.Sysconf)
		if err != nil {
			return nil, err
		}
		negCounts, err := feature.CountIncluded(ctx, p.FiPath, trainNegSet, p.MinDate, p.MaxDate, p.NumFeatures, p.Sysconf)
		if err != nil {
			return nil, err
		}

		scores, err := train.Train(train.Params{
			PosCounts:     posCounts.Counts,
			NegCounts:     negCounts.Counts,
			PosDocs:       posCounts.NDocs,
			NegDocs:       negCounts.NDocs,
			MinCount:      p.MinCount,
			MinInfoGain:   p.MinInfoGain,
			Method:        p.Method,
			Pseudocount:   p.Pseudocount,
		})
		if err != nil {
			return nil, err
		}

		offset := scores.Base + scores.Prior

		testSet, err := feature.NewExclusion(sortedCopy(append(append([]docindex.DocId(nil), testPos...), testNeg...)))
		if err != nil {
			return nil, err
		}
		testPosSet, err := feature.NewExclusion(sortedCopy(testPos))
		if err != nil {
			return nil, err
		}

		labels, err := scoreTestSet(ctx, p.FiPath, testSet, testPosSet, scores.Score, offset, p.MinDate, p.MaxDate)
		if err != nil {
			return nil, err
		}

		all = append(all, labels...)
	}

	return deriveReport(all, p.Alpha, p.UtilityR)
}

// scoreTestSet streams fiPath once, scoring and labelling every document
// whose DocId is in testSet (spec §4.5 step 2: "Score each test positive
// and test negative using the trained score vector").
func scoreTestSet(ctx context.Context, fiPath string, testSet, testPosSet feature.Exclusion, scoreVec []float32, offset float32, mindate, maxdate docindex.Date) ([]scoredLabel, error) {

	r, err := docindex.OpenReader(fiPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []scoredLabel
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

		if !testSet.Contains(doc.DocId) {
			continue
		}
		if !doc.InWindow(mindate, maxdate) {
			continue
		}

		s := scan.ScoreFeatures(doc.Features, scoreVec, offset)
		out = append(out, scoredLabel{
			score:    s,
			positive: testPosSet.Contains(doc.DocId),
			docID:    doc.DocId,
		})
	}

	return out, nil
}

func sortedCopy(ids []docindex.DocId) []docindex.DocId {
	out := append([]docindex.DocId(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// concatExcept concatenates every fold slice except index skip.
func concatExcept(folds [][]docindex.DocId, skip int) []docindex.DocId {
	var out []docindex.DocId
	for i, f := range folds {
		if i == skip {
			continue
		}
		out = append(out, f...)
	}
	return out
}
