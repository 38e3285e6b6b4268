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

// mscanner-train counts features over a labelled positive set and the
// rest of the corpus, trains a feature-score vector, and writes it in
// the format score-calc consumes (spec §6 supplement):
//
//	mscanner-train <fi> <numfeats> <mindate> <maxdate> <min-count> <min-infogain> [-pseudocount a] [-prior p] < positives > feat_scores
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/gpoulter/mscanner/internal/cliutil"
	"github.com/gpoulter/mscanner/internal/feature"
	"github.com/gpoulter/mscanner/internal/mlog"
	"github.com/gpoulter/mscanner/internal/mserr"
	"github.com/gpoulter/mscanner/internal/sysconf"
	"github.com/gpoulter/mscanner/internal/train"
)

func main() {

	args := os.Args[1:]
	if len(args) < 6 {
		fmt.Fprintf(os.Stderr, "\nERROR: No command-line arguments supplied to mscanner-train\n")
		os.Exit(1)
	}

	var fi string
	var numfeats int

	fi, args = cliutil.RequireArg(args, "Feature index path")
	numfeats, args = cliutil.RequireInt(args, "Number of features")
	mindate, args := cliutil.RequireDate(args, "Minimum date")
	maxdate, args := cliutil.RequireDate(args, "Maximum date")
	minCount, args := cliutil.RequireInt(args, "Minimum count")
	minInfoGain, args := cliutil.RequireFloat(args, "Minimum information gain")

	method := train.MethodBgFreq
	var pseudocount float32
	var priorOverride *float32

	for len(args) > 0 {
		switch args[0] {
		case "-pseudocount":
			pseudocount, args = cliutil.RequireFloat(args[1:], "Pseudocount")
			method = train.MethodFixedPseudocount
		case "-prior":
			var p float32
			p, args = cliutil.RequireFloat(args[1:], "Prior override")
			priorOverride = &p
		default:
			fmt.Fprintf(os.Stderr, "\nERROR: Unrecognized argument %q\n", args[0])
			os.Exit(1)
		}
	}

	positives, err := cliutil.ReadDocIDLines(os.Stdin)
	if err != nil {
		mlog.Errorf("reading positives: %v", err)
		os.Exit(2)
	}

	posSet, err := feature.NewExclusion(positives)
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(mserr.ExitCode(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc := sysconf.Default()
	mlog.Progress("training on %s over %s", mlog.Count(len(positives), "positive"), fi)

	posCounts, err := feature.CountIncluded(ctx, fi, posSet, mindate, maxdate, numfeats, sc)
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(mserr.ExitCode(err))
	}
	negCounts, err := feature.Count(ctx, fi, posSet, mindate, maxdate, numfeats, sc)
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(mserr.ExitCode(err))
	}

	scores, err := train.Train(train.Params{
		PosCounts:     posCounts.Counts,
		NegCounts:     negCounts.Counts,
		PosDocs:       posCounts.NDocs,
		NegDocs:       negCounts.NDocs,
		MinCount:      uint32(minCount),
		MinInfoGain:   minInfoGain,
		Method:        method,
		Pseudocount:   pseudocount,
		PriorOverride: priorOverride,
	})
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(mserr.ExitCode(err))
	}

	if err := cliutil.WriteScoreVector(os.Stdout, scores.Score); err != nil {
		mlog.Errorf("writing score vector: %v", err)
		os.Exit(2)
	}

	offset := scores.Base + scores.Prior
	fmt.Fprintf(os.Stderr, "offset = %s\n", strconv.FormatFloat(float64(offset), 'g', -1, 32))
}
