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
// File Name:  sysconf.go
//
// ==========================================================================

// Package sysconf derives the performance-tuning parameters that the core
// scanning and counting components need: channel buffer depth, worker
// goroutine count, and decode buffer sizing. The teacher kept these as
// package-level globals set once by an init function; here they are an
// explicit, immutable struct threaded through every entry point so the
// core stays reentrant.
package sysconf

import (
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// Params holds the tuning values derived once per process and passed
// explicitly to FC, SC, and CV entry points.
type Params struct {
	// NumProcs bounds the number of scan goroutines ScanParallel launches.
	NumProcs int
	// ChanDepth is a buffer depth for fan-out channels; no component in
	// this module currently reads it.
	ChanDepth int
	// DecodeBufSize is the feature-decode scratch buffer size in bytes
	// (4000: 1000 features at 4 bytes per gap). docindex.Reader sizes its
	// own scratch buffer, growing it for larger payloads, and does not
	// read this field.
	DecodeBufSize int
	// TotalMemoryMiB is informational, surfaced by mlog status reporting.
	TotalMemoryMiB uint64
}

// Default derives Params from CPU topology and installed memory, the same
// reality-check heuristics the teacher's eutils/utils.go applies when sizing
// numProcs: prefer a thread count aligned to physical cores when
// hyperthreading is present, capped by runtime.NumCPU().
func Default() Params {

	nCPU := runtime.NumCPU()
	if nCPU < 1 {
		nCPU = 1
	}

	numProcs := nCPU
	if cpuid.CPU.ThreadsPerCore > 1 {
		cores := nCPU / cpuid.CPU.ThreadsPerCore
		if cores > 0 {
			numProcs = cores
		}
	}
	if numProcs > nCPU {
		numProcs = nCPU
	}
	if numProcs < 1 {
		numProcs = 1
	}

	return Params{
		NumProcs:       numProcs,
		ChanDepth:      numProcs * 4,
		DecodeBufSize:  4000,
		TotalMemoryMiB: memory.TotalMemory() / (1024 * 1024),
	}
}

// Single returns Params tuned for the strictly sequential reference path
// (§5 "the single-threaded path is the reference").
func Single() Params {
	p := Default()
	p.NumProcs = 1
	p.ChanDepth = 1
	return p
}
