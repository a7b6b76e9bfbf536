// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/scryptspv/headerchain/chaincfg/chainhash"
)

// This module never validates transactions — it only needs enough of the
// parent coinbase transaction to compute its txid and feed it into an
// AuxPoW merkle-branch check (wire.AuxPowHeader.Check). MsgTx is therefore
// trimmed to the fields a coinbase actually uses: no witness data, no
// script interpretation, just enough wire-accurate (de)serialization to
// reproduce the transaction hash.

// OutPoint defines a flokicoin data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

func (o *OutPoint) flcEncode(w io.Writer) error {
	if err := writeElement(w, &o.Hash); err != nil {
		return err
	}
	return writeElement(w, o.Index)
}

func (o *OutPoint) flcDecode(r io.Reader) error {
	if err := readElement(r, &o.Hash); err != nil {
		return err
	}
	return readElement(r, &o.Index)
}

// TxIn defines a flokicoin transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

func (ti *TxIn) serializeSize() int {
	return 32 + 4 + VarIntSerializeSize(uint64(len(ti.SignatureScript))) +
		len(ti.SignatureScript) + 4
}

// TxOut defines a flokicoin transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

func (to *TxOut) serializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(to.PkScript))) + len(to.PkScript)
}

// MsgTx implements just enough of the flokicoin transaction wire format
// (version, inputs, outputs, locktime — no segwit marker/flag, no witness
// stack) to serialize a parent-chain coinbase transaction for a merged-mining
// proof. See the comment at the top of this file for why the rest of the
// format is absent.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// TxHash generates the Hash for the transaction, i.e. the double sha256 of
// its serialized form.
func (msg *MsgTx) TxHash() chainhash.Hash {
	return chainhash.DoubleHashRaw(func(w io.Writer) error {
		return msg.FlcEncode(w, 0, BaseEncoding)
	})
}

// FlcEncode encodes the receiver to w.
func (msg *MsgTx) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if err := writeElement(w, msg.Version); err != nil {
		return err
	}

	if err := WriteVarInt(w, pver, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := ti.PreviousOutPoint.flcEncode(w); err != nil {
			return err
		}
		if err := WriteVarInt(w, pver, uint64(len(ti.SignatureScript))); err != nil {
			return err
		}
		if _, err := w.Write(ti.SignatureScript); err != nil {
			return err
		}
		if err := writeElement(w, ti.Sequence); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, pver, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := binarySerializer.PutUint64(w, littleEndian, uint64(to.Value)); err != nil {
			return err
		}
		if err := WriteVarInt(w, pver, uint64(len(to.PkScript))); err != nil {
			return err
		}
		if _, err := w.Write(to.PkScript); err != nil {
			return err
		}
	}

	return writeElement(w, msg.LockTime)
}

// FlcDecode decodes r into the receiver.
func (msg *MsgTx) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if err := readElement(r, &msg.Version); err != nil {
		return err
	}

	inCount, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	msg.TxIn = make([]*TxIn, inCount)
	for i := range msg.TxIn {
		ti := new(TxIn)
		if err := ti.PreviousOutPoint.flcDecode(r); err != nil {
			return err
		}
		scriptLen, err := ReadVarInt(r, pver)
		if err != nil {
			return err
		}
		ti.SignatureScript = make([]byte, scriptLen)
		if _, err := io.ReadFull(r, ti.SignatureScript); err != nil {
			return err
		}
		if err := readElement(r, &ti.Sequence); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	outCount, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, outCount)
	for i := range msg.TxOut {
		to := new(TxOut)
		value, err := binarySerializer.Uint64(r, littleEndian)
		if err != nil {
			return err
		}
		to.Value = int64(value)
		scriptLen, err := ReadVarInt(r, pver)
		if err != nil {
			return err
		}
		to.PkScript = make([]byte, scriptLen)
		if _, err := io.ReadFull(r, to.PkScript); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}

	return readElement(r, &msg.LockTime)
}

// SerializeSize returns the number of bytes it would take to serialize msg.
func (msg *MsgTx) SerializeSize() int {
	n := 4 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut))) + 4
	for _, ti := range msg.TxIn {
		n += ti.serializeSize()
	}
	for _, to := range msg.TxOut {
		n += to.serializeSize()
	}
	return n
}

// Serialize writes the canonical on-disk/storage encoding of msg to w.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.FlcEncode(w, 0, BaseEncoding)
}

// Deserialize reads the canonical on-disk/storage encoding of a transaction
// from r into msg.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	return msg.FlcDecode(r, 0, BaseEncoding)
}

// Bytes returns the serialized transaction.
func (msg *MsgTx) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := msg.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
