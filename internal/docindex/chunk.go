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
// File Name:  chunk.go
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

// ChunkOffsets returns up to numChunks+1 byte offsets into the
// (uncompressed) Feature Index at path: offsets[0]==0, the last offset is
// the file size, and every offset in between falls exactly on a record
// boundary. The chunk count is reduced to the record count when the index
// has fewer records than numChunks, and an empty index yields [0, 0]. This is the
// "record-offset index" spec §5 lets a caller precompute, built here with
// a single lightweight pre-pass that reads only record headers (via
// bufio.Reader.Discard on the payload, never decoding features).
func ChunkOffsets(path string, numChunks int) ([]int64, error) {

	if numChunks < 1 {
		return nil, mserr.NewArgumentError("numChunks must be positive, got %d", numChunks)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, mserr.NewIoError(path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 1<<20)

	var recordStarts []int64
	var pos int64
	var header [10]byte

	for {
		recPos := pos
		n, err := io.ReadFull(br, header[:])
		if err == io.EOF && n == 0 {
			break
		}
		if err != nil {
			return nil, mserr.TruncatedIndex()
		}

		recordStarts = append(recordStarts, recPos)

		nbytes := int(binary.LittleEndian.Uint16(header[8:10]))
		pos = recPos + 10 + int64(nbytes)

		if nbytes > 0 {
			discarded, derr := br.Discard(nbytes)
			if derr != nil || discarded != nbytes {
				return nil, mserr.TruncatedIndex()
			}
		}
	}

	total := len(recordStarts)
	if total == 0 {
		return []int64{0, 0}, nil
	}
	if numChunks > total {
		numChunks = total
	}
	if numChunks < 1 {
		numChunks = 1
	}

	offsets := make([]int64, 0, numChunks+1)
	for c := 0; c < numChunks; c++ {
		idx := c * total / numChunks
		offsets = append(offsets, recordStarts[idx])
	}
	offsets = append(offsets, pos)

	return offsets, nil
}
