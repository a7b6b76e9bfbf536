// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/scryptspv/headerchain/chaincfg/chainhash"
)

// MessageEncoding describes how a protocol message should be serialized.
// Header and AuxPoW serialization is encoding-invariant, so only BaseEncoding
// is currently meaningful, but the parameter is threaded through FlcEncode/
// FlcDecode to match the rest of the wire surface this package's callers
// already expect.
type MessageEncoding uint32

const (
	// BaseEncoding encodes all messages in the default format specified
	// for the protocol without any extensions.
	BaseEncoding MessageEncoding = 1 << iota
)

// littleEndian is the byte order used by every on-wire and on-disk integer
// field in this package.
var littleEndian = binary.LittleEndian

// binaryFreeList maintains a free list of byte slices for use when
// serializing and deserializing integer values to and from reader/writer
// implementations, so repeated header reads don't thrash the allocator.
type binaryFreeList chan []byte

// Borrow returns a byte slice from the free list with a length of 8. A new
// buffer is allocated if there are not any available on the free list.
func (l binaryFreeList) Borrow() []byte {
	var buf []byte
	select {
	case buf = <-l:
	default:
		buf = make([]byte, 8)
	}
	return buf[:8]
}

// Return puts the provided byte slice back on the free list. The buffer MUST
// have been obtained via the Borrow function and therefore have a length of
// at least 8.
func (l binaryFreeList) Return(buf []byte) {
	select {
	case l <- buf:
	default:
		// Let it be garbage collected if the free list is full.
	}
}

// Uint32 reads four bytes from the provided reader using the free list
// buffer and converts them to a uint32 with the given byte order.
func (l binaryFreeList) Uint32(r io.Reader, byteOrder binary.ByteOrder) (uint32, error) {
	buf := l.Borrow()[:4]
	if _, err := io.ReadFull(r, buf); err != nil {
		l.Return(buf)
		return 0, err
	}
	rv := byteOrder.Uint32(buf)
	l.Return(buf)
	return rv, nil
}

// Uint64 reads eight bytes from the provided reader using the free list
// buffer and converts them to a uint64 with the given byte order.
func (l binaryFreeList) Uint64(r io.Reader, byteOrder binary.ByteOrder) (uint64, error) {
	buf := l.Borrow()
	if _, err := io.ReadFull(r, buf); err != nil {
		l.Return(buf)
		return 0, err
	}
	rv := byteOrder.Uint64(buf)
	l.Return(buf)
	return rv, nil
}

// PutUint32 copies the provided uint32 into a buffer from the free list and
// writes the resulting four bytes to the given writer.
func (l binaryFreeList) PutUint32(w io.Writer, byteOrder binary.ByteOrder, val uint32) error {
	buf := l.Borrow()[:4]
	byteOrder.PutUint32(buf, val)
	_, err := w.Write(buf)
	l.Return(buf)
	return err
}

// PutUint64 copies the provided uint64 into a buffer from the free list and
// writes the resulting eight bytes to the given writer.
func (l binaryFreeList) PutUint64(w io.Writer, byteOrder binary.ByteOrder, val uint64) error {
	buf := l.Borrow()
	byteOrder.PutUint64(buf, val)
	_, err := w.Write(buf)
	l.Return(buf)
	return err
}

// binarySerializer houses a free list of buffers for use when serializing
// and deserializing primitive integer values to and from a Reader/Writer.
var binarySerializer binaryFreeList = make(chan []byte, 8)

const (
	// maxVarIntPayload is the maximum payload size for a variable length
	// integer.
	maxVarIntPayload = 9
)

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64.
func ReadVarInt(r io.Reader, pver uint32) (uint64, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	discriminant := b[0]

	var rv uint64
	switch discriminant {
	case 0xff:
		sv, err := binarySerializer.Uint64(r, littleEndian)
		if err != nil {
			return 0, err
		}
		rv = sv

		// The encoding is not canonical if the value could have been
		// encoded using fewer bytes.
		min := uint64(0x100000000)
		if rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"%d is not a canonical varint", rv))
		}

	case 0xfe:
		sv, err := binarySerializer.Uint32(r, littleEndian)
		if err != nil {
			return 0, err
		}
		rv = uint64(sv)

		min := uint64(0x10000)
		if rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"%d is not a canonical varint", rv))
		}

	case 0xfd:
		buf := binarySerializer.Borrow()[:2]
		if _, err := io.ReadFull(r, buf); err != nil {
			binarySerializer.Return(buf)
			return 0, err
		}
		sv := littleEndian.Uint16(buf)
		binarySerializer.Return(buf)
		rv = uint64(sv)

		min := uint64(0xfd)
		if rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"%d is not a canonical varint", rv))
		}

	default:
		rv = uint64(discriminant)
	}

	return rv, nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, pver uint32, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{uint8(val)})
		return err
	}

	if val <= (1<<16)-1 {
		buf := binarySerializer.Borrow()[:2]
		littleEndian.PutUint16(buf, uint16(val))
		_, err := w.Write(append([]byte{0xfd}, buf...))
		binarySerializer.Return(buf)
		return err
	}

	if val <= (1<<32)-1 {
		if _, err := w.Write([]byte{0xfe}); err != nil {
			return err
		}
		return binarySerializer.PutUint32(w, littleEndian, uint32(val))
	}

	if _, err := w.Write([]byte{0xff}); err != nil {
		return err
	}
	return binarySerializer.PutUint64(w, littleEndian, val)
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	if val < 0xfd {
		return 1
	}
	if val <= (1<<16)-1 {
		return 3
	}
	if val <= (1<<32)-1 {
		return 5
	}
	return 9
}

// messageError describes an issue decoding a protocol data structure. It
// satisfies the error interface.
type messageErr struct {
	Func        string
	Description string
}

func (e *messageErr) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%s: %s", e.Func, e.Description)
	}
	return e.Description
}

func messageError(f string, desc string) error {
	return &messageErr{Func: f, Description: desc}
}

// writeElement writes the little-endian representation of element to w. It
// only understands the small set of field types this package actually
// serializes: a chainhash.Hash and the handful of fixed-width integers
// carried by AuxPoW merkle branches.
func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	case uint32:
		return binarySerializer.PutUint32(w, littleEndian, e)
	case int32:
		return binarySerializer.PutUint32(w, littleEndian, uint32(e))
	default:
		return fmt.Errorf("writeElement: unsupported type %T", element)
	}
}

// readElement reads the little-endian representation of element from r. See
// writeElement for the supported types.
func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	case *uint32:
		v, err := binarySerializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = v
		return nil
	case *int32:
		v, err := binarySerializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = int32(v)
		return nil
	default:
		return fmt.Errorf("readElement: unsupported type %T", element)
	}
}
