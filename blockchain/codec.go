// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"

	"github.com/scryptspv/headerchain/chaincfg"
	"github.com/scryptspv/headerchain/headerstore"
	"github.com/scryptspv/headerchain/wire"
)

// DeserializeHeaderAt decodes a header from buf, attaching height so the
// AuxPoW gate (chaincfg.Params.AuxPowActive) can decide whether a trailer
// follows the 80-byte base header. It returns the header and the offset
// into buf immediately past everything consumed.
//
// When expectTrailing is false, any bytes left over after the base header
// (or its AuxPoW trailer, if one was parsed) are rejected as
// InvalidHeaderErr — this is the path Chain.ReadHeader uses,
// where a buffer is expected to hold exactly one record. When true, extra
// bytes are left for the caller to keep decoding, as verify_chunk does
// while walking a 2016-header chunk one header at a time.
func DeserializeHeaderAt(params *chaincfg.Params, buf []byte, height int32, expectTrailing bool) (*wire.BlockHeader, int, error) {
	if len(buf) < wire.BlockHeaderLen {
		return nil, 0, InvalidHeaderError("buffer too short for a header: %d bytes", len(buf))
	}

	h := new(wire.BlockHeader)
	if err := h.DeserializeHeader(bytes.NewReader(buf[:wire.BlockHeaderLen])); err != nil {
		return nil, 0, InvalidHeaderError("malformed header: %v", err)
	}
	offset := wire.BlockHeaderLen

	if params.AuxPowActive(h, height) {
		rest := bytes.NewReader(buf[offset:])
		h.AuxPowHeader = &wire.AuxPowHeader{}
		if err := h.AuxPowHeader.Deserialize(rest); err != nil {
			return nil, 0, InvalidHeaderError("malformed auxpow trailer: %v", err)
		}
		offset = len(buf) - rest.Len()
	}

	if !expectTrailing && len(buf) != offset {
		return nil, 0, InvalidHeaderError("unexpected trailing data: %d extra bytes", len(buf)-offset)
	}

	return h, offset, nil
}

// stripHeader copies just the HeaderLen-byte base header out of a buffer
// that may also carry an AuxPoW trailer, for writing to a headerstore.Store
// (which only ever persists the base header).
func stripHeader(buf []byte) []byte {
	out := make([]byte, headerstore.HeaderLen)
	copy(out, buf[:headerstore.HeaderLen])
	return out
}

// serializeHeader returns the canonical HeaderLen-byte on-disk encoding of
// h, excluding any AuxPoW trailer.
func serializeHeader(h *wire.BlockHeader) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.SerializeHeader(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
