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
// File Name:  count.go
//
// ==========================================================================

package docindex

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/gpoulter/mscanner/internal/mserr"
)

// sidecarSuffix names the optional record-count sidecar file next to a
// Feature Index, following the teacher's convention of cached derived
// files living alongside the primary archive (eutils/index.go's
// ".e2x.gz"/".inv.gz" siblings of the raw XML archive).
const sidecarSuffix = ".count"

// WriteCountSidecar writes the little-endian u64 record count sidecar for
// fiPath.
func WriteCountSidecar(fiPath string, count uint64) error {
	f, err := os.Create(fiPath + sidecarSuffix)
	if err != nil {
		return mserr.NewIoError(fiPath+sidecarSuffix, err)
	}
	defer f.Close()

	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], count)
	if _, err := f.Write(b[:]); err != nil {
		return mserr.NewIoError(fiPath+sidecarSuffix, err)
	}
	return nil
}

// CountRecords returns the total record count for fiPath: the sidecar
// value if present and readable, otherwise a single sequential scan that
// counts records (spec §3: "Record count is supplied externally").
func CountRecords(fiPath string) (uint64, error) {

	if f, err := os.Open(fiPath + sidecarSuffix); err == nil {
		defer f.Close()
		var b [8]byte
		if _, err := io.ReadFull(f, b[:]); err == nil {
			return binary.LittleEndian.Uint64(b[:]), nil
		}
	}

	r, err := OpenReader(fiPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var n uint64
	for {
		_, err := r.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}

	return n, nil
}
