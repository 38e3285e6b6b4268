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
// File Name:  mlog.go
//
// ==========================================================================

// Package mlog renders status and error messages to stderr in the
// teacher's style: a highlighted "ERROR:"/"WARN:" prefix (the way
// eutils/xplore.go highlights matched terms with fatih/color), counted
// nouns pluralized the way eutils/json.go pluralizes/singularizes tag
// names with gedex/inflector, and large counts grouped with thousands
// separators the way eutils/align.go formats numeric columns via
// golang.org/x/text.
package mlog

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gedex/inflector"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	errColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	printer   = message.NewPrinter(language.English)
)

// Errorf prints a highlighted error line to stderr. It does not exit; the
// caller decides the exit code via mserr.ExitCode.
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, errColor.Sprint("ERROR: ")+msg)
}

// Warnf prints a highlighted warning line to stderr.
func Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, warnColor.Sprint("WARN: ")+msg)
}

// Count renders "n noun" with the noun pluralized when n != 1, e.g.
// Count(1, "document") -> "1 document", Count(3, "document") -> "3 documents".
func Count(n int, noun string) string {
	word := noun
	if n != 1 {
		word = inflector.Pluralize(noun)
	}
	return printer.Sprintf("%d %s", n, word)
}

// Grouped renders n with thousands separators, e.g. 16000000 -> "16,000,000".
func Grouped(n int) string {
	return printer.Sprintf("%d", n)
}

// Progress prints a one-line progress status to stderr, counting documents
// the way the teacher's combineIndexFiles prints a dot every N records,
// except rendered as a single periodic line rather than a dot stream (the
// core here is a library, not a long-running indexer, so it reports once
// per call site rather than owning a rolling dot counter).
func Progress(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
