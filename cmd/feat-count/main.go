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

// feat-count streams a Feature Index once and writes per-feature
// occurrence counts, the Feature Counter CLI of spec §6:
//
//	feat-count <fi> <numdocs> <numfeats> <mindate> <maxdate> <numexcluded> < excluded > counts
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gpoulter/mscanner/internal/cliutil"
	"github.com/gpoulter/mscanner/internal/feature"
	"github.com/gpoulter/mscanner/internal/mlog"
	"github.com/gpoulter/mscanner/internal/mserr"
	"github.com/gpoulter/mscanner/internal/sysconf"
)

func main() {

	args := os.Args[1:]
	if len(args) < 6 {
		fmt.Fprintf(os.Stderr, "\nERROR: No command-line arguments supplied to feat-count\n")
		os.Exit(1)
	}

	var fi string
	var numfeats, numexcluded int

	fi, args = cliutil.RequireArg(args, "Feature index path")
	_, args = cliutil.RequireInt(args, "Number of documents")
	numfeats, args = cliutil.RequireInt(args, "Number of features")
	mindate, args := cliutil.RequireDate(args, "Minimum date")
	maxdate, args := cliutil.RequireDate(args, "Maximum date")
	numexcluded, _ = cliutil.RequireInt(args, "Number of excluded identifiers")

	excludedIDs, err := cliutil.ReadExclusionList(os.Stdin, numexcluded)
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(2)
	}

	excluded, err := feature.NewExclusion(excludedIDs)
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(mserr.ExitCode(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mlog.Progress("counting %s over %s, excluding %s", mlog.Count(numfeats, "feature"), fi, mlog.Count(len(excludedIDs), "identifier"))

	counts, err := feature.Count(ctx, fi, excluded, mindate, maxdate, numfeats, sysconf.Default())
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(mserr.ExitCode(err))
	}

	if err := cliutil.WriteCounts(os.Stdout, counts.NDocs, counts.Counts); err != nil {
		mlog.Errorf("writing counts: %v", err)
		os.Exit(2)
	}

	mlog.Progress("counted %s", mlog.Count(int(counts.NDocs), "document"))
}
