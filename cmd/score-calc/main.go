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
// File Name:  main.go
//
// ==========================================================================

// score-calc streams a Feature Index once and writes the top-K scoring
// documents, the Score Calculator CLI of spec §6:
//
//	score-calc <fi> <numdocs> <numfeats> <offset> <limit> <threshold> <mindate> <maxdate> < feat_scores > results
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gpoulter/mscanner/internal/cliutil"
	"github.com/gpoulter/mscanner/internal/docindex"
	"github.com/gpoulter/mscanner/internal/mlog"
	"github.com/gpoulter/mscanner/internal/mserr"
	"github.com/gpoulter/mscanner/internal/scan"
	"github.com/gpoulter/mscanner/internal/sysconf"
)

func main() {

	args := os.Args[1:]
	if len(args) < 8 {
		fmt.Fprintf(os.Stderr, "\nERROR: No command-line arguments supplied to score-calc\n")
		os.Exit(1)
	}

	var fi string
	var numdocs, numfeats, limit int
	var offset, threshold float32
	var mindate, maxdate docindex.Date

	fi, args = cliutil.RequireArg(args, "Feature index path")
	numdocs, args = cliutil.RequireInt(args, "Number of documents")
	numfeats, args = cliutil.RequireInt(args, "Number of features")
	offset, args = cliutil.RequireFloat(args, "Offset")
	limit, args = cliutil.RequireInt(args, "Limit")
	threshold, args = cliutil.RequireFloat(args, "Threshold")
	mindate, args = cliutil.RequireDate(args, "Minimum date")
	maxdate, _ = cliutil.RequireDate(args, "Maximum date")

	scoreVec, err := cliutil.ReadScoreVector(os.Stdin, numfeats)
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc := sysconf.Default()
	mlog.Progress("scanning %s (%s, %s available)", fi, mlog.Count(numdocs, "document"), mlog.Grouped(int(sc.TotalMemoryMiB)))

	results, err := scan.ScanParallel(ctx, fi, scan.Params{
		ScoreVec:  scoreVec,
		Offset:    offset,
		Threshold: threshold,
		Limit:     limit,
		MinDate:   mindate,
		MaxDate:   maxdate,
	}, sc)
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(mserr.ExitCode(err))
	}

	if err := cliutil.WriteResults(os.Stdout, results); err != nil {
		mlog.Errorf("writing results: %v", err)
		os.Exit(2)
	}

	mlog.Progress("wrote %s", mlog.Count(len(results), "result"))
}
