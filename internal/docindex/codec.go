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
// File Name:  codec.go
//
// ==========================================================================

package docindex

import "github.com/gpoulter/mscanner/internal/mserr"

// EncodeGaps variable-byte gap-encodes a sorted, strictly-increasing,
// duplicate-free feature vector (spec §4.1). Gaps g_i = f_i - f_{i-1}
// (f_0 = 0) are each split into 7-bit groups, most-significant group
// first; every byte's high bit is 0 except the final byte of the number,
// whose high bit is set as an end-of-number marker.
func EncodeGaps(features []FeatureId) ([]byte, error) {

	if len(features) > MaxFeatures {
		return nil, mserr.NewMalformedRecord("feature vector length %d exceeds cap %d", len(features), MaxFeatures)
	}

	out := make([]byte, 0, len(features)*2)

	var last FeatureId
	for i, f := range features {
		if i > 0 && f <= last {
			return nil, mserr.NewMalformedRecord("feature vector not strictly increasing at index %d (%d <= %d)", i, f, last)
		}
		gap := uint32(f - last)
		out = appendVarGap(out, gap)
		last = f
	}

	return out, nil
}

// appendVarGap appends the MSB-first, terminator-high-bit encoding of gap
// to out and returns the extended slice.
func appendVarGap(out []byte, gap uint32) []byte {

	// Collect 7-bit groups least-significant-first, at least one group
	// even for gap == 0.
	var groups [5]byte
	n := 0
	v := gap
	groups[n] = byte(v & 0x7f)
	n++
	v >>= 7
	for v > 0 {
		groups[n] = byte(v & 0x7f)
		n++
		v >>= 7
	}

	// Emit most-significant group first; the final (least-significant)
	// byte carries the terminator bit.
	for i := n - 1; i >= 0; i-- {
		b := groups[i]
		if i == 0 {
			b |= 0x80
		}
		out = append(out, b)
	}

	return out
}

// DecodeGaps reconstructs the strictly increasing feature vector encoded
// by EncodeGaps. It fails with MalformedRecord if the byte stream ends
// without a terminator byte, if more than MaxFeatures features would be
// produced, or if a decoded gap would not strictly increase the sequence
// (spec §4.1 decode contract, §8 monotonicity).
func DecodeGaps(buf []byte) ([]FeatureId, error) {

	if len(buf) == 0 {
		return nil, nil
	}

	var out []FeatureId
	var last FeatureId
	first := true

	var gap uint32
	haveGroup := false

	for _, b := range buf {

		haveGroup = true
		gap = (gap << 7) | uint32(b&0x7f)

		if b&0x80 != 0 {

			next := last + FeatureId(gap)
			if !first && next <= last {
				return nil, mserr.NewMalformedRecord("decoded non-increasing feature sequence")
			}

			last = next
			out = append(out, last)
			first = false

			if len(out) > MaxFeatures {
				return nil, mserr.NewMalformedRecord("decoded feature count exceeds cap %d", MaxFeatures)
			}

			gap = 0
			haveGroup = false
		}
	}

	if haveGroup {
		return nil, mserr.TruncatedIndex()
	}

	return out, nil
}
