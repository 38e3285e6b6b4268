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
// File Name:  cliutil.go
//
// ==========================================================================

// Package cliutil holds the argument-parsing and binary-I/O helpers
// shared by the cmd/ programs, the way the teacher's eutils/utils.go
// backs every cmd/ program with GetNumericArg/GetStringArg rather than
// each one re-parsing os.Args from scratch.
package cliutil

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/gpoulter/mscanner/internal/docindex"
	"github.com/gpoulter/mscanner/internal/scan"
)

// gzipMagic is the two leading bytes of a gzip member, RFC 1952 §2.3.1.
var gzipMagic = [2]byte{0x1f, 0x8b}

// maybeGunzip peeks at the first two bytes of r and, if they carry the
// gzip magic, transparently wraps the stream with pgzip's reader (the
// same parallel-gzip decoder OpenReader uses for a ".gz"-suffixed Feature
// Index), so an exclusion list or feature-score vector piped in on stdin
// may optionally be gzip-compressed exactly like the Feature Index file.
func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil {
		if err == io.EOF {
			return br, nil
		}
		return nil, err
	}
	if head[0] != gzipMagic[0] || head[1] != gzipMagic[1] {
		return br, nil
	}
	return pgzip.NewReader(br)
}

// RequireArg returns args[0] or exits with an "ERROR: ... is missing"
// message and status 1, the teacher's GetStringArg contract.
func RequireArg(args []string, name string) (string, []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "\nERROR: %s is missing\n", name)
		os.Exit(1)
	}
	return args[0], args[1:]
}

// RequireInt parses args[0] as an integer or exits with status 1.
func RequireInt(args []string, name string) (int, []string) {
	raw, rest := RequireArg(args, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s (%s) is not an integer\n", name, raw)
		os.Exit(1)
	}
	return v, rest
}

// RequireFloat parses args[0] as a float32 or exits with status 1.
func RequireFloat(args []string, name string) (float32, []string) {
	raw, rest := RequireArg(args, name)
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s (%s) is not a number\n", name, raw)
		os.Exit(1)
	}
	return float32(v), rest
}

// RequireDate parses args[0] as a YYYYMMDD docindex.Date.
func RequireDate(args []string, name string) (docindex.Date, []string) {
	v, rest := RequireInt(args, name)
	return docindex.Date(v), rest
}

// ReadScoreVector reads numFeats little-endian f64 values from r and
// returns them promoted to float32 (spec §6 "Feature-score vector...
// internally promoted to f32 for the scan"). r may optionally be
// gzip-compressed, detected from its leading magic bytes.
func ReadScoreVector(r io.Reader, numFeats int) ([]float32, error) {
	gr, err := maybeGunzip(r)
	if err != nil {
		return nil, fmt.Errorf("reading feature-score vector: %w", err)
	}
	raw := make([]byte, numFeats*8)
	if _, err := io.ReadFull(gr, raw); err != nil {
		return nil, fmt.Errorf("reading feature-score vector: %w", err)
	}
	out := make([]float32, numFeats)
	for i := 0; i < numFeats; i++ {
		bits := binary.LittleEndian.Uint64(raw[i*8 : i*8+8])
		out[i] = float32(math.Float64frombits(bits))
	}
	return out, nil
}

// WriteScoreVector writes scores as numFeats little-endian f64 values
// (the format mscanner-train emits for score-calc to consume).
func WriteScoreVector(w io.Writer, scores []float32) error {
	raw := make([]byte, len(scores)*8)
	for i, s := range scores {
		bits := math.Float64bits(float64(s))
		binary.LittleEndian.PutUint64(raw[i*8:i*8+8], bits)
	}
	_, err := w.Write(raw)
	return err
}

// ReadExclusionList reads numExcluded little-endian u32 DocIds from r
// (spec §6 "Exclusion list... must be sorted ascending"). r may
// optionally be gzip-compressed, detected from its leading magic bytes.
func ReadExclusionList(r io.Reader, numExcluded int) ([]docindex.DocId, error) {
	gr, err := maybeGunzip(r)
	if err != nil {
		return nil, fmt.Errorf("reading exclusion list: %w", err)
	}
	raw := make([]byte, numExcluded*4)
	if _, err := io.ReadFull(gr, raw); err != nil {
		return nil, fmt.Errorf("reading exclusion list: %w", err)
	}
	out := make([]docindex.DocId, numExcluded)
	for i := 0; i < numExcluded; i++ {
		out[i] = docindex.DocId(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
	}
	return out, nil
}

// WriteCounts writes the FC output format: (ndocs:u32) || (counts:F×u32),
// little-endian (spec §6 "Count vector (output of FC)").
func WriteCounts(w io.Writer, ndocs uint32, counts []uint32) error {
	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, ndocs)
	if _, err := w.Write(header); err != nil {
		return err
	}
	raw := make([]byte, len(counts)*4)
	for i, c := range counts {
		binary.LittleEndian.PutUint32(raw[i*4:i*4+4], c)
	}
	_, err := w.Write(raw)
	return err
}

// WriteResults writes the SC output format: numresults×8 bytes (score
// f32, pmid u32), little-endian, in the order given (spec §6 "descending
// by score").
func WriteResults(w io.Writer, results []scan.Result) error {
	raw := make([]byte, len(results)*8)
	for i, r := range results {
		off := i * 8
		binary.LittleEndian.PutUint32(raw[off:off+4], math.Float32bits(r.Score))
		binary.LittleEndian.PutUint32(raw[off+4:off+8], uint32(r.DocId))
	}
	_, err := w.Write(raw)
	return err
}

// ReadDocIDLines reads one DocId per line from r (decimal, blank lines
// skipped), the text format mscanner-train/mscanner-validate accept for
// the positive (and optional negative) labelled sets.
func ReadDocIDLines(r io.Reader) ([]docindex.DocId, error) {
	var out []docindex.DocId
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing docid line %q: %w", line, err)
		}
		out = append(out, docindex.DocId(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
