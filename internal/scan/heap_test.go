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
// File Name:  heap_test.go
//
// ==========================================================================

package scan

import "testing"

func TestTopKHeapKeepsHighestScores(t *testing.T) {
	h := newTopKHeap(3)
	for _, r := range []Result{
		{Score: 1, DocId: 1},
		{Score: 5, DocId: 2},
		{Score: 3, DocId: 3},
		{Score: 9, DocId: 4},
		{Score: 2, DocId: 5},
	} {
		h.offer(r)
	}
	got := h.drain()
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	ids := []int{int(got[0].DocId), int(got[1].DocId), int(got[2].DocId)}
	wantIds := []int{4, 2, 3}
	for i := range wantIds {
		if ids[i] != wantIds[i] {
			t.Errorf("drain()[%d].DocId = %d, want %d (got order %v)", i, ids[i], wantIds[i], ids)
		}
	}
}

func TestTopKHeapTieBreakOnDocId(t *testing.T) {
	h := newTopKHeap(1)
	h.offer(Result{Score: 5, DocId: 20})
	h.offer(Result{Score: 5, DocId: 10})
	got := h.drain()
	if len(got) != 1 || got[0].DocId != 10 {
		t.Errorf("got %+v, want single entry with DocId 10 (smaller id wins equal-score tie)", got)
	}
}

func TestTopKHeapZeroLimitKeepsNothing(t *testing.T) {
	h := newTopKHeap(0)
	h.offer(Result{Score: 1, DocId: 1})
	if got := h.drain(); len(got) != 0 {
		t.Errorf("got %+v, want no results for a zero-limit heap", got)
	}
}

func TestOutranks(t *testing.T) {
	root := Result{Score: 5, DocId: 10}
	if !outranks(Result{Score: 6, DocId: 99}, root) {
		t.Error("a strictly higher score should outrank the root")
	}
	if !outranks(Result{Score: 5, DocId: 5}, root) {
		t.Error("an equal score with a smaller DocId should outrank the root")
	}
	if outranks(Result{Score: 5, DocId: 15}, root) {
		t.Error("an equal score with a larger DocId should not outrank the root")
	}
	if outranks(Result{Score: 4, DocId: 1}, root) {
		t.Error("a strictly lower score should never outrank the root")
	}
}
