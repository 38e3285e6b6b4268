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
// File Name:  counter.go
//
// ==========================================================================

// Package feature implements the Feature Counter (FC): given a Feature
// Index and an exclusion set, produce per-feature occurrence counts and a
// document count over a date window (spec §4.2). It also implements the
// inclusion-set counterpart FC itself does not cover: counting only a
// specific (usually small) labelled set of documents, which §4.3 needs for
// "positive counts (from the labelled set)" and which the cross-validator
// needs for both classes within a fold (spec §4.5: "Train features using
// FC counts over training positives/negatives only").
package feature

import (
	"context"
	"io"
	"sort"

	"github.com/gpoulter/mscanner/internal/docindex"
	"github.com/gpoulter/mscanner/internal/mserr"
	"github.com/gpoulter/mscanner/internal/sysconf"
)

// Counts is the output of Count/CountIncluded: the number of contributing
// documents and per-feature occurrence totals over the dense [0,F)
// feature universe.
type Counts struct {
	NDocs  uint32
	Counts []uint32
}

// Exclusion is a sorted, deduplicated set of DocIds, the binary-search
// precondition spec §4.2 requires ("O(log|P|) per record because |P| can
// reach 10^4 and corpus is 16M"). The same sorted-set representation also
// backs CountIncluded's inclusion set.
type Exclusion []docindex.DocId

// NewExclusion validates that ids is sorted ascending and duplicate-free,
// returning InvalidExclusion otherwise (spec §7: "detected up-front before
// opening FI").
func NewExclusion(ids []docindex.DocId) (Exclusion, error) {
	for i := 1; i < len(ids); i++ {
		if ids[i] < ids[i-1] {
			return nil, mserr.NewInvalidExclusion("list not sorted ascending at index %d (%d < %d)", i, ids[i], ids[i-1])
		}
		if ids[i] == ids[i-1] {
			return nil, mserr.NewInvalidExclusion("duplicate identifier %d at index %d", ids[i], i)
		}
	}
	return Exclusion(ids), nil
}

// Contains reports whether id is in the set, in O(log n) via binary
// search.
func (e Exclusion) Contains(id docindex.DocId) bool {
	i := sort.Search(len(e), func(i int) bool { return e[i] >= id })
	return i < len(e) && e[i] == id
}

// Count streams fiPath once, accumulating per-feature occurrence counts
// and a document count over records whose Date falls in
// [mindate, maxdate] and whose DocId is not in excluded (spec §4.2
// algorithm). numFeatures is the feature universe size F.
func Count(ctx context.Context, fiPath string, excluded Exclusion, mindate, maxdate docindex.Date, numFeatures int, sc sysconf.Params) (*Counts, error) {
	return scanCount(ctx, fiPath, excluded, mindate, maxdate, numFeatures, sc, false)
}

// CountIncluded streams fiPath once like Count, but restricted to
// documents whose DocId *is* in included, rather than documents not in
// excluded. This is the inclusion-set counterpart spec §4.3 implies but
// does not name: positive counts are drawn from the (small) labelled set
// itself, not from "everything except it".
func CountIncluded(ctx context.Context, fiPath string, included Exclusion, mindate, maxdate docindex.Date, numFeatures int, sc sysconf.Params) (*Counts, error) {
	return scanCount(ctx, fiPath, included, mindate, maxdate, numFeatures, sc, true)
}

func scanCount(ctx context.Context, fiPath string, set Exclusion, mindate, maxdate docindex.Date, numFeatures int, _ sysconf.Params, inclusive bool) (*Counts, error) {

	if numFeatures <= 0 {
		return nil, mserr.NewArgumentError("numFeatures must be positive, got %d", numFeatures)
	}
	if mindate > maxdate {
		return nil, mserr.NewArgumentError("mindate %d is after maxdate %d", mindate, maxdate)
	}

	r, err := docindex.OpenReader(fiPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := &Counts{Counts: make([]uint32, numFeatures)}

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

		if !doc.InWindow(mindate, maxdate) {
			continue
		}

		member := set.Contains(doc.DocId)
		if member != inclusive {
			continue
		}

		out.NDocs++
		for _, f := range doc.Features {
			if int(f) >= numFeatures {
				return nil, mserr.NewMalformedRecord("feature id %d out of universe bound %d for doc %d", f, numFeatures, doc.DocId)
			}
			out.Counts[f]++
		}
	}

	return out, nil
}
