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
// File Name:  heap.go
//
// ==========================================================================

package scan

import (
	"container/heap"

	"github.com/gpoulter/mscanner/internal/docindex"
)

// Result is one (score, identifier) pair; Score is the accumulated
// document score at spec §4.4, DocId the corresponding document.
type Result struct {
	Score float32
	DocId docindex.DocId
}

// topKHeap is a min-heap on Score, holding at most Limit entries, the
// selection structure spec §4.4 describes: "push each (s, DocId) if heap
// has fewer than limit entries or s > heap.peek".
type topKHeap struct {
	items []Result
	limit int
}

func newTopKHeap(limit int) *topKHeap {
	h := &topKHeap{limit: limit}
	heap.Init(h)
	return h
}

func (h *topKHeap) Len() int { return len(h.items) }

// Less orders the heap so its root is always the single weakest retained
// entry: lowest score first, and among equal scores the entry with the
// largest DocId (the one the final ascending-DocId tie-break would rank
// last). Keying eviction on DocId as well as Score, rather than on
// arrival order, is what makes the top-K set itself -- not just the final
// sort -- independent of scan/chunk order (spec §8 "Top-K determinism").
func (h *topKHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.DocId > b.DocId
}
func (h *topKHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *topKHeap) Push(x any) { h.items = append(h.items, x.(Result)) }

func (h *topKHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// outranks reports whether candidate should displace root: a strictly
// higher score, or an equal score with a smaller DocId.
func outranks(candidate, root Result) bool {
	if candidate.Score != root.Score {
		return candidate.Score > root.Score
	}
	return candidate.DocId < root.DocId
}

// offer applies the push-if-room-or-better rule of spec §4.4, using the
// combined (Score, DocId) order so the retained set is a pure function of
// the full input, never of arrival order.
func (h *topKHeap) offer(r Result) {
	if h.limit <= 0 {
		return
	}
	if h.Len() < h.limit {
		heap.Push(h, r)
		return
	}
	if outranks(r, h.items[0]) {
		heap.Pop(h)
		heap.Push(h, r)
	}
}

// drain returns a copy of the retained entries in descending-by-score
// order, tie-broken by ascending DocId (spec §4.4 "Top-K selection"); the
// heap itself is left unchanged.
func (h *topKHeap) drain() []Result {
	out := make([]Result, len(h.items))
	copy(out, h.items)
	sortResultsDesc(out)
	return out
}
