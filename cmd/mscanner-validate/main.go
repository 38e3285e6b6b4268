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

// mscanner-validate runs stratified k-fold cross-validation over a
// labelled positive set (sampling negatives unless given explicitly) and
// writes the derived report (spec §6 supplement):
//
//	mscanner-validate <fi> <numfeats> <nfolds> <alpha> <mindate> <maxdate> [-utility-r r] [-seed n] [-negatives file] < positives > report.tsv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gpoulter/mscanner/internal/cliutil"
	"github.com/gpoulter/mscanner/internal/mlog"
	"github.com/gpoulter/mscanner/internal/mserr"
	"github.com/gpoulter/mscanner/internal/sysconf"
	"github.com/gpoulter/mscanner/internal/xval"
)

func main() {

	args := os.Args[1:]
	if len(args) < 6 {
		fmt.Fprintf(os.Stderr, "\nERROR: No command-line arguments supplied to mscanner-validate\n")
		os.Exit(1)
	}

	var fi string
	var numfeats, nfolds int
	var alpha float32

	fi, args = cliutil.RequireArg(args, "Feature index path")
	numfeats, args = cliutil.RequireInt(args, "Number of features")
	nfolds, args = cliutil.RequireInt(args, "Number of folds")
	alpha, args = cliutil.RequireFloat(args, "Alpha")
	mindate, args := cliutil.RequireDate(args, "Minimum date")
	maxdate, args := cliutil.RequireDate(args, "Maximum date")

	var utilityR *float32
	var seed int64 = 1
	negativesPath := ""

	for len(args) > 0 {
		switch args[0] {
		case "-utility-r":
			var r float32
			r, args = cliutil.RequireFloat(args[1:], "Utility ratio")
			utilityR = &r
		case "-seed":
			var s int
			s, args = cliutil.RequireInt(args[1:], "Seed")
			seed = int64(s)
		case "-negatives":
			negativesPath, args = cliutil.RequireArg(args[1:], "Negatives file path")
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

	p := xval.Params{
		FiPath:      fi,
		NumFeatures: numfeats,
		Positives:   positives,
		NFolds:      nfolds,
		Seed:        seed,
		MinDate:     mindate,
		MaxDate:     maxdate,
		Alpha:       alpha,
		UtilityR:    utilityR,
		Sysconf:     sysconf.Default(),
	}

	if negativesPath != "" {
		f, err := os.Open(negativesPath)
		if err != nil {
			mlog.Errorf("opening negatives file: %v", err)
			os.Exit(2)
		}
		defer f.Close()
		negs, err := cliutil.ReadDocIDLines(f)
		if err != nil {
			mlog.Errorf("reading negatives: %v", err)
			os.Exit(2)
		}
		p.Negatives = negs
	} else {
		p.NumNegatives = len(positives)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mlog.Progress("validating %s over %d folds", mlog.Count(len(positives), "positive"), nfolds)

	report, err := xval.CrossValidate(ctx, p)
	if err != nil {
		mlog.Errorf("%v", err)
		os.Exit(mserr.ExitCode(err))
	}

	if err := report.WriteTSV(os.Stdout); err != nil {
		mlog.Errorf("writing report: %v", err)
		os.Exit(2)
	}

	mlog.Progress("roc_auc=%.4f pr_auc=%.4f", report.ROCAUC, report.PRAUC)
}
