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
// File Name:  writer.go
//
// ==========================================================================

package docindex

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/gpoulter/mscanner/internal/mserr"
)

// Writer appends Document records to a Feature Index. The external XML
// indexer is the production caller of this type (spec §1 "out of scope");
// within this module it also backs test-fixture construction for FC, SC,
// and CV.
type Writer struct {
	dst io.Writer
	buf *bufio.Writer
	n   uint64
}

// CreateWriter truncates (or creates) path and returns a Writer over it.
func CreateWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, mserr.NewIoError(path, err)
	}
	return NewWriter(f), nil
}

// NewWriter wraps an already-open stream as a Writer.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst, buf: bufio.NewWriterSize(dst, 1<<16)}
}

// WriteDocument encodes and appends one record. Features must already be
// sorted strictly ascending (spec §3 invariant); EncodeGaps rejects
// anything else.
func (w *Writer) WriteDocument(d *Document) error {

	payload, err := EncodeGaps(d.Features)
	if err != nil {
		return err
	}
	if len(payload) > 1<<16-1 {
		return mserr.NewMalformedRecord("encoded payload %d bytes exceeds u16 nbytes field", len(payload))
	}

	var header [10]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(d.DocId))
	binary.LittleEndian.PutUint32(header[4:8], uint32(d.Date))
	binary.LittleEndian.PutUint16(header[8:10], uint16(len(payload)))

	if _, err := w.buf.Write(header[:]); err != nil {
		return mserr.NewIoError("", err)
	}
	if len(payload) > 0 {
		if _, err := w.buf.Write(payload); err != nil {
			return mserr.NewIoError("", err)
		}
	}

	w.n++
	return nil
}

// Flush flushes buffered output. Close (if dst is an *os.File wrapped by
// the caller) must still be called separately; Writer does not own dst's
// lifecycle when constructed via NewWriter.
func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return mserr.NewIoError("", err)
	}
	return nil
}

// RecordsWritten returns the number of records appended so far.
func (w *Writer) RecordsWritten() uint64 { return w.n }
