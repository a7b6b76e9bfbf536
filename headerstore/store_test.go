// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerstore

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func record(fill byte) []byte {
	b := make([]byte, HeaderLen)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestOpen_CreatesEmptyFileAndParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blockchain_headers")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, int32(0), s.Size())
	require.Equal(t, path, s.Path())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Zero(t, fi.Size())
}

func TestOpen_RejectsSizeNotMultipleOfHeaderLen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockchain_headers")
	require.NoError(t, os.WriteFile(path, make([]byte, HeaderLen+1), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestWriteAndReadAt_AppendOnlyGrowth(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "blockchain_headers"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(record(0x01), 0, true))
	require.Equal(t, int32(1), s.Size())
	require.NoError(t, s.Write(record(0x02), HeaderLen, true))
	require.Equal(t, int32(2), s.Size())

	got, err := s.ReadAt(0)
	require.NoError(t, err)
	require.Equal(t, record(0x01), got)

	got, err = s.ReadAt(1)
	require.NoError(t, err)
	require.Equal(t, record(0x02), got)

	_, err = s.ReadAt(2)
	require.ErrorIs(t, err, io.EOF)

	_, err = s.ReadAt(-1)
	require.ErrorIs(t, err, io.EOF)
}

func TestWrite_TruncatesWhenOffsetBeforeEOF(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "blockchain_headers"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(record(0x01), 0, true))
	require.NoError(t, s.Write(record(0x02), HeaderLen, true))
	require.NoError(t, s.Write(record(0x03), HeaderLen*2, true))
	require.Equal(t, int32(3), s.Size())

	// Writing at the second record's offset with truncate=true discards
	// everything from there on, matching a chunk write superseding
	// whatever used to follow it.
	require.NoError(t, s.Write(record(0xff), HeaderLen, true))
	require.Equal(t, int32(2), s.Size())

	got, err := s.ReadAt(1)
	require.NoError(t, err)
	require.Equal(t, record(0xff), got)
}

func TestReadAll_ReturnsEveryRecordConcatenated(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "blockchain_headers"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(record(0x01), 0, true))
	require.NoError(t, s.Write(record(0x02), HeaderLen, true))

	all, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 2*HeaderLen)
	require.Equal(t, record(0x01), all[:HeaderLen])
	require.Equal(t, record(0x02), all[HeaderLen:])
}

func TestReadRange_ArbitraryByteOffsets(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "blockchain_headers"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(record(0x01), 0, true))
	require.NoError(t, s.Write(record(0x02), HeaderLen, true))
	require.NoError(t, s.Write(record(0x03), HeaderLen*2, true))

	got, err := s.ReadRange(HeaderLen/2, HeaderLen)
	require.NoError(t, err)
	require.Len(t, got, HeaderLen)
	// The range straddles records 0 and 1, half of each.
	require.Equal(t, record(0x01)[HeaderLen/2:], got[:HeaderLen/2])
	require.Equal(t, record(0x02)[:HeaderLen/2], got[HeaderLen/2:])
}

func TestRename_MovesFileAndKeepsSize(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "blockchain_headers")
	s, err := Open(oldPath)
	require.NoError(t, err)
	require.NoError(t, s.Write(record(0x01), 0, true))

	newPath := filepath.Join(dir, "forks", "fork2_5_aa_bb")
	require.NoError(t, s.Rename(newPath))
	require.Equal(t, newPath, s.Path())
	require.Equal(t, int32(1), s.Size())

	_, statErr := os.Stat(oldPath)
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(newPath)
	require.NoError(t, statErr)

	got, err := s.ReadAt(0)
	require.NoError(t, err)
	require.Equal(t, record(0x01), got)
	require.NoError(t, s.Close())
}

func TestRemove_DeletesAndResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockchain_headers")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Write(record(0x01), 0, true))
	require.Equal(t, int32(1), s.Size())

	require.NoError(t, s.Remove())
	require.Equal(t, int32(0), s.Size())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Zero(t, fi.Size())
	require.NoError(t, s.Close())
}
