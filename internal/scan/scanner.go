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
// File Name:  scanner.go
//
// ==========================================================================

// Package scan implements the Score Calculator (SC): stream a Feature
// Index once, score every document against a trained feature-score
// vector, and return the top-K results by score (spec §4.4).
package scan

import (
	"context"
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/gpoulter/mscanner/internal/docindex"
	"github.com/gpoulter/mscanner/internal/mserr"
	"github.com/gpoulter/mscanner/internal/sysconf"
)

// Params bundles the SC inputs of spec §4.4. Offset is base+prior from
// the FST output (spec §4.3); ScoreVec is promoted to float32 internally
// regardless of the wire format it was read from (spec §9 open question
// 2: the accumulator stays f32 to hold the §4.4 performance target).
type Params struct {
	ScoreVec  []float32
	Offset    float32
	Threshold float32
	Limit     int
	MinDate   docindex.Date
	MaxDate   docindex.Date
}

// sortResultsDesc sorts by descending score, ties broken by ascending
// DocId, the determinism spec §4.4/§8 requires independent of thread
// count.
func sortResultsDesc(r []Result) {
	sort.Slice(r, func(i, j int) bool {
		if r[i].Score != r[j].Score {
			return r[i].Score > r[j].Score
		}
		return r[i].DocId < r[j].DocId
	})
}

// scoreDocument computes offset + sum(scoreVec[f] for f in present
// features), or -Inf if the document falls outside [mindate,maxdate]
// (spec §9 open question 3: an infinite sentinel, not a finite magic
// number, composes correctly with any threshold).
func scoreDocument(doc *docindex.Document, p *Params) float32 {

	if !doc.InWindow(p.MinDate, p.MaxDate) {
		return float32(math.Inf(-1))
	}

	return ScoreFeatures(doc.Features, p.ScoreVec, p.Offset)
}

// ScoreFeatures computes offset + sum(scoreVec[f] for f in features),
// the accumulation spec §4.4 pins to f32 arithmetic with strict '>'
// ordering semantics. Exported so the cross-validator can score its
// (typically small) per-fold test sets without going through a full
// Scan's top-K machinery.
func ScoreFeatures(features []docindex.FeatureId, scoreVec []float32, offset float32) float32 {
	s := offset
	for _, f := range features {
		if int(f) < len(scoreVec) {
			s += scoreVec[f]
		}
	}
	return s
}

// Scan streams fiPath once in file order (the single-threaded reference
// path of spec §5) and returns the top Limit results by score, omitting
// anything below Threshold and any document outside [MinDate, MaxDate].
func Scan(ctx context.Context, fiPath string, p Params) ([]Result, error) {

	if p.Limit <= 0 {
		return nil, mserr.NewArgumentError("limit must be positive, got %d", p.Limit)
	}
	if p.MinDate > p.MaxDate {
		return nil, mserr.NewArgumentError("mindate %d is after maxdate %d", p.MinDate, p.MaxDate)
	}

	r, err := docindex.OpenReader(fiPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return scanReader(ctx, r, &p)
}

func scanReader(ctx context.Context, r *docindex.Reader, p *Params) ([]Result, error) {

	h := newTopKHeap(p.Limit)

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

		s := scoreDocument(doc, p)
		if math.IsInf(float64(s), -1) || s < p.Threshold {
			continue
		}

		h.offer(Result{Score: s, DocId: doc.DocId})
	}

	return h.drain(), nil
}

// ScanParallel chunks fiPath into sysconf.Params.NumProcs record-boundary
// byte ranges (spec §5), scans each chunk concurrently with its own
// top-K heap, and reduces the per-chunk heaps into the final top-K. The
// reduction is a plain merge-and-retrim: correctness does not depend on
// any ordering between chunks, only on the final sort (spec §4.4/§8
// determinism). A gzip-compressed fiPath cannot be seeked into for
// chunking, so ScanParallel falls back to the single-pass Scan for a
// ".gz"-suffixed path (the same one OpenReader decompresses transparently).
func ScanParallel(ctx context.Context, fiPath string, p Params, sc sysconf.Params) ([]Result, error) {

	if p.Limit <= 0 {
		return nil, mserr.NewArgumentError("limit must be positive, got %d", p.Limit)
	}
	if p.MinDate > p.MaxDate {
		return nil, mserr.NewArgumentError("mindate %d is after maxdate %d", p.MinDate, p.MaxDate)
	}

	if strings.HasSuffix(fiPath, ".gz") {
		return Scan(ctx, fiPath, p)
	}

	numChunks := sc.NumProcs
	if numChunks < 1 {
		numChunks = 1
	}
	if numChunks == 1 {
		return Scan(ctx, fiPath, p)
	}

	offsets, err := docindex.ChunkOffsets(fiPath, numChunks)
	if err != nil {
		return nil, err
	}

	type chunkResult struct {
		results []Result
		err     error
	}

	results := make([]chunkResult, len(offsets)-1)
	var wg sync.WaitGroup

	for i := 0; i < len(offsets)-1; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			r, err := docindex.OpenReaderRange(fiPath, offsets[i], offsets[i+1])
			if err != nil {
				results[i] = chunkResult{err: err}
				return
			}
			defer r.Close()

			rs, err := scanReader(ctx, r, &p)
			results[i] = chunkResult{results: rs, err: err}
		}(i)
	}

	wg.Wait()

	merged := newTopKHeap(p.Limit)
	for _, cr := range results {
		if cr.err != nil {
			return nil, cr.err
		}
		for _, r := range cr.results {
			merged.offer(r)
		}
	}

	return merged.drain(), nil
}
