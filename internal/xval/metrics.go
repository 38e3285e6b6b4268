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
// File Name:  metrics.go
//
// ==========================================================================

package xval

import (
	"math"
	"sort"

	"github.com/gpoulter/mscanner/internal/mserr"
)

// CurvePoint is one (threshold, TP, FP, precision, recall, FPR) sample
// along the combined ROC/PR curve.
type CurvePoint struct {
	Threshold float32
	TP, FP    int
	Precision float64
	Recall    float64
	FPR       float64
}

// FPoint is one (threshold, Fα) sample.
type FPoint struct {
	Threshold float32
	FValue    float64
}

// ConfusionMatrix is the 2x2 confusion matrix evaluated at a chosen
// threshold.
type ConfusionMatrix struct {
	TP, FP, FN, TN int
}

// Report is the CV output of spec §4.5 "Reported outputs": the ROC/PR/Fα
// curves, derived scalar metrics, the tuned threshold and its confusion
// matrix/utility, and per-class score histograms.
type Report struct {
	NumPositive int
	NumNegative int

	Curve  []CurvePoint
	FCurve []FPoint

	ROCAUC       float64
	ROCAUCStdErr float64 // Hanley-McNeil standard error

	PRAUC            float64
	AveragePrecision float64
	BreakEven        float64

	Alpha    float32
	Tau      float32 // tuned threshold maximizing Fα
	TauFValue float64
	Confusion ConfusionMatrix

	UtilityR     float64
	UtilityAtTau float64

	// PosHistogram/NegHistogram are fixed-width histograms of the
	// fold-aggregated scores for each class (spec §4.5 "histogram
	// samples suffice"). HistMin/HistMax bound the shared bucket range.
	PosHistogram [histBuckets]int
	NegHistogram [histBuckets]int
	HistMin      float32
	HistMax      float32
}

const histBuckets = 32

// deriveReport implements spec §4.5 "Metric derivation": sort the
// combined (score,label) list descending, compute cumulative TP/FP,
// derive precision/recall/FPR, ROC AUC (trapezoid) with Hanley-McNeil
// standard error, PR area (trapezoid), average precision, break-even,
// the Fα-maximizing threshold (ties toward the larger threshold),
// utility, and the confusion matrix at that threshold.
func deriveReport(all []scoredLabel, alpha float32, utilityR *float32) (*Report, error) {

	if len(all) == 0 {
		return nil, mserr.NewEmptyLabelled("no scored documents accumulated across folds")
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		// stable, deterministic secondary order
		return all[i].docID < all[j].docID
	})

	var numPos, numNeg int
	for _, s := range all {
		if s.positive {
			numPos++
		} else {
			numNeg++
		}
	}
	if numPos == 0 || numNeg == 0 {
		return nil, mserr.NewEmptyLabelled("both classes must be represented: %d positive, %d negative", numPos, numNeg)
	}

	report := &Report{NumPositive: numPos, NumNegative: numNeg, Alpha: alpha}

	curve := make([]CurvePoint, 0, len(all)+1)
	// anchor at threshold = +inf: nothing predicted positive
	curve = append(curve, CurvePoint{Threshold: float32(math.Inf(1)), TP: 0, FP: 0, Precision: 1, Recall: 0, FPR: 0})

	var tp, fp int
	for _, s := range all {
		if s.positive {
			tp++
		} else {
			fp++
		}

		precision := float64(tp) / float64(tp+fp)
		recall := float64(tp) / float64(numPos)
		fprVal := float64(fp) / float64(numNeg)

		curve = append(curve, CurvePoint{
			Threshold: s.score,
			TP:        tp,
			FP:        fp,
			Precision: precision,
			Recall:    recall,
			FPR:       fprVal,
		})
	}
	report.Curve = curve

	report.ROCAUC = trapezoidROC(curve)
	report.ROCAUCStdErr = hanleyMcNeilStdErr(report.ROCAUC, numPos, numNeg)
	report.PRAUC = trapezoidPR(curve)
	report.AveragePrecision = averagePrecision(curve)
	report.BreakEven = breakEven(curve)

	fcurve := make([]FPoint, len(curve))
	for i, c := range curve {
		fcurve[i] = FPoint{Threshold: c.Threshold, FValue: fMeasure(c.Precision, c.Recall, float64(alpha))}
	}
	report.FCurve = fcurve

	tauIdx := bestFIndex(fcurve)
	report.Tau = fcurve[tauIdx].Threshold
	report.TauFValue = fcurve[tauIdx].FValue
	report.Confusion = ConfusionMatrix{
		TP: curve[tauIdx].TP,
		FP: curve[tauIdx].FP,
		FN: numPos - curve[tauIdx].TP,
		TN: numNeg - curve[tauIdx].FP,
	}

	uR := float64(numNeg) / float64(numPos)
	if utilityR != nil {
		uR = float64(*utilityR)
	}
	report.UtilityR = uR
	report.UtilityAtTau = (uR*float64(report.Confusion.TP) - float64(report.Confusion.FP)) / (uR * float64(numPos))

	fillHistograms(report, all)

	return report, nil
}

// trapezoidROC integrates TPR over FPR using the trapezoid rule across
// curve points ordered by descending threshold (ascending FPR).
func trapezoidROC(curve []CurvePoint) float64 {
	var area float64
	for i := 1; i < len(curve); i++ {
		x0, x1 := curve[i-1].FPR, curve[i].FPR
		y0, y1 := curve[i-1].Recall, curve[i].Recall
		area += (x1 - x0) * (y0 + y1) / 2
	}
	return area
}

// trapezoidPR integrates precision over recall using the trapezoid rule.
func trapezoidPR(curve []CurvePoint) float64 {
	var area float64
	for i := 1; i < len(curve); i++ {
		x0, x1 := curve[i-1].Recall, curve[i].Recall
		y0, y1 := curve[i-1].Precision, curve[i].Precision
		area += (x1 - x0) * (y0 + y1) / 2
	}
	return area
}

// hanleyMcNeilStdErr is the standard error of an AUC estimate under the
// Hanley-McNeil approximation (spec §4.5).
func hanleyMcNeilStdErr(auc float64, n1, n2 int) float64 {
	if n1 == 0 || n2 == 0 {
		return 0
	}
	a := auc
	q1 := a / (2 - a)
	q2 := 2 * a * a / (1 + a)
	num := a*(1-a) + float64(n1-1)*(q1-a*a) + float64(n2-1)*(q2-a*a)
	den := float64(n1) * float64(n2)
	if num < 0 {
		num = 0
	}
	return math.Sqrt(num / den)
}

// averagePrecision is the mean precision at each rank where a positive
// is retrieved (spec §4.5).
func averagePrecision(curve []CurvePoint) float64 {
	var sum float64
	var n int
	var prevTP int
	for _, c := range curve[1:] {
		if c.TP > prevTP {
			sum += c.Precision
			n++
		}
		prevTP = c.TP
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// breakEven finds the interpolated point where recall == precision
// (spec §4.5). If the curves never cross, the closest sampled point is
// returned.
func breakEven(curve []CurvePoint) float64 {

	best := curve[0]
	bestGap := math.Abs(best.Recall - best.Precision)

	for i := 1; i < len(curve); i++ {
		prev := curve[i-1]
		cur := curve[i]

		prevDiff := prev.Recall - prev.Precision
		curDiff := cur.Recall - cur.Precision

		if prevDiff == 0 {
			return prev.Recall
		}

		if (prevDiff < 0) != (curDiff < 0) {
			// linear interpolation of the crossing point between the
			// two bracketing samples
			t := prevDiff / (prevDiff - curDiff)
			recall := prev.Recall + t*(cur.Recall-prev.Recall)
			precision := prev.Precision + t*(cur.Precision-prev.Precision)
			return (recall + precision) / 2
		}

		gap := math.Abs(cur.Recall - cur.Precision)
		if gap < bestGap {
			bestGap = gap
			best = cur
		}
	}

	return (best.Recall + best.Precision) / 2
}

// fMeasure is the weighted harmonic mean of precision and recall (spec
// §4.5 "Fα = 1/(α/precision + (1-α)/recall)").
func fMeasure(precision, recall, alpha float64) float64 {
	if precision == 0 || recall == 0 {
		return 0
	}
	denom := alpha/precision + (1-alpha)/recall
	if denom == 0 {
		return 0
	}
	return 1 / denom
}

// bestFIndex returns the index of the maximal Fα value, ties broken
// toward the larger threshold (spec §4.5). Curve/FCurve are both ordered
// by non-increasing threshold already (one point per document, so tied
// scores repeat a threshold), so the first maximal index encountered in
// that order is one with the largest threshold.
func bestFIndex(fcurve []FPoint) int {
	best := 0
	for i := 1; i < len(fcurve); i++ {
		if fcurve[i].FValue > fcurve[best].FValue {
			best = i
		}
	}
	return best
}

// fillHistograms buckets each class's scores into histBuckets
// fixed-width bins spanning the observed score range.
func fillHistograms(r *Report, all []scoredLabel) {

	min := float32(math.Inf(1))
	max := float32(math.Inf(-1))
	for _, s := range all {
		if s.score < min {
			min = s.score
		}
		if s.score > max {
			max = s.score
		}
	}
	if min > max {
		min, max = 0, 0
	}
	r.HistMin, r.HistMax = min, max

	width := max - min
	for _, s := range all {
		var idx int
		if width > 0 {
			idx = int(float64(s.score-min) / float64(width) * float64(histBuckets))
			if idx >= histBuckets {
				idx = histBuckets - 1
			}
			if idx < 0 {
				idx = 0
			}
		}
		if s.positive {
			r.PosHistogram[idx]++
		} else {
			r.NegHistogram[idx]++
		}
	}
}
