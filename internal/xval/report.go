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
// File Name:  report.go
//
// ==========================================================================

package xval

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTSV renders the report as tab-separated sections: a scalar summary
// block, the ROC/PR/Fα curve, and the two score histograms. One writer
// call covers everything a downstream spreadsheet or plotting script
// needs (spec §4.5 "Reported outputs").
func (r *Report) WriteTSV(w io.Writer) error {

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# summary\n")
	fmt.Fprintf(bw, "positives\t%d\n", r.NumPositive)
	fmt.Fprintf(bw, "negatives\t%d\n", r.NumNegative)
	fmt.Fprintf(bw, "roc_auc\t%.6f\n", r.ROCAUC)
	fmt.Fprintf(bw, "roc_auc_stderr\t%.6f\n", r.ROCAUCStdErr)
	fmt.Fprintf(bw, "pr_auc\t%.6f\n", r.PRAUC)
	fmt.Fprintf(bw, "average_precision\t%.6f\n", r.AveragePrecision)
	fmt.Fprintf(bw, "break_even\t%.6f\n", r.BreakEven)
	fmt.Fprintf(bw, "alpha\t%.4f\n", r.Alpha)
	fmt.Fprintf(bw, "tau\t%.6f\n", r.Tau)
	fmt.Fprintf(bw, "tau_fvalue\t%.6f\n", r.TauFValue)
	fmt.Fprintf(bw, "utility_r\t%.6f\n", r.UtilityR)
	fmt.Fprintf(bw, "utility_at_tau\t%.6f\n", r.UtilityAtTau)
	fmt.Fprintf(bw, "confusion_tp\t%d\n", r.Confusion.TP)
	fmt.Fprintf(bw, "confusion_fp\t%d\n", r.Confusion.FP)
	fmt.Fprintf(bw, "confusion_fn\t%d\n", r.Confusion.FN)
	fmt.Fprintf(bw, "confusion_tn\t%d\n", r.Confusion.TN)

	fmt.Fprintf(bw, "\n# curve\n")
	fmt.Fprintf(bw, "threshold\ttp\tfp\tprecision\trecall\tfpr\n")
	for _, c := range r.Curve {
		fmt.Fprintf(bw, "%g\t%d\t%d\t%.6f\t%.6f\t%.6f\n", c.Threshold, c.TP, c.FP, c.Precision, c.Recall, c.FPR)
	}

	fmt.Fprintf(bw, "\n# fcurve\n")
	fmt.Fprintf(bw, "threshold\tfvalue\n")
	for _, f := range r.FCurve {
		fmt.Fprintf(bw, "%g\t%.6f\n", f.Threshold, f.FValue)
	}

	fmt.Fprintf(bw, "\n# histogram\n")
	fmt.Fprintf(bw, "bucket\tlow\thigh\tpositive\tnegative\n")
	width := (r.HistMax - r.HistMin) / float32(histBuckets)
	for i := 0; i < histBuckets; i++ {
		low := r.HistMin + float32(i)*width
		high := low + width
		fmt.Fprintf(bw, "%d\t%g\t%g\t%d\t%d\n", i, low, high, r.PosHistogram[i], r.NegHistogram[i])
	}

	return bw.Flush()
}
