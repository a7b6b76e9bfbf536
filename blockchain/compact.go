// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/scryptspv/headerchain/chaincfg/chainhash"
)

var (
	// bigOne is 1 represented as a big.Int.  It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// oneLsh256 is 1 shifted left 256 bits.  It is defined here to avoid
	// the overhead of creating it multiple times.
	oneLsh256 = new(big.Int).Lsh(bigOne, 256)

	// MaxTarget is the network's proof-of-work limit: the ceiling the
	// Digishield retarget clamps its computed target to (Kimoto Gravity
	// Well clamps to its own kgwPowLimit instead). It is its own
	// consensus constant, independent of easyBits/easyTarget (the fixed
	// value returned for H<=28) even though the two are close enough in
	// magnitude to be mistaken for each other — MaxTarget's mantissa is
	// 0xFFFFF, easyTarget's is 0xFFFF0.
	MaxTarget, _ = new(big.Int).SetString(
		"00000FFFFF000000000000000000000000000000000000000000000000000000", 16)
)

// HashToBig converts a chainhash.Hash into a big.Int that can be used to
// perform math comparisons.
func HashToBig(hash *chainhash.Hash) *big.Int {
	buf := *hash
	for i := 0; i < len(buf)/2; i++ {
		buf[i], buf[len(buf)-1-i] = buf[len(buf)-1-i], buf[i]
	}
	return new(big.Int).SetBytes(buf[:])
}

// CompactToBig converts a compact representation of a whole number N to a
// big.Int.  The representation is similar to IEEE754 floating
// point numbers.
//
// Like IEEE754 floating point, there are three basic components: the sign,
// the exponent, and the mantissa.  They are broken out as follows:
//
// - the most significant 8 bits represent the unsigned base 256 exponent
// - bit 23 (the 24th bit) represents the sign bit
// - the least significant 23 bits represent the mantissa
//
//	-------------------------------------------------
//	|   Exponent     |    Sign    |    Mantissa     |
//	-------------------------------------------------
//	| 8 bits [31-24] | 1 bit [23] | 23 bits [22-00] |
//	-------------------------------------------------
//
// The formula to calculate N is:
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}

	return bn
}

// BigToCompact converts a whole number N to a compact representation using
// an unsigned 32-bit number.  The compact representation only provides 23
// bits of precision, so values larger than (2^23 - 1) only encode the most
// significant digits of the number.  See CompactToBig for details.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// When the mantissa already has the sign bit set, the number is too
	// large to fit into the available 23-bits, so divide the number by
	// 256 and increment the exponent accordingly.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// BitsToTarget converts a compact difficulty encoding to its 256-bit target
// form, rejecting exponents and mantissas outside the canonical range this
// chain's headers are required to use.
func BitsToTarget(bits uint32) (*big.Int, error) {
	exponent := (bits >> 24) & 0xff
	mantissa := bits & 0xffffff

	if exponent < 0x03 || exponent > 0x1e {
		return nil, InvalidHeaderError("bits exponent %#x out of range", exponent)
	}
	if mantissa < 0x8000 || mantissa > 0x7fffff {
		return nil, InvalidHeaderError("bits mantissa %#x out of range", mantissa)
	}

	target := new(big.Int).Lsh(big.NewInt(int64(mantissa)), 8*uint(exponent-3))
	return target, nil
}

// TargetToBits canonicalizes a 256-bit target into its compact encoding,
// shifting the mantissa down a byte and bumping the exponent whenever the
// naive encoding would otherwise set the mantissa's sign bit.
func TargetToBits(target *big.Int) uint32 {
	return BigToCompact(target)
}

// WorkOfTarget returns the amount of proof-of-work represented by a single
// block solved at the given target: ceil(2^256 / (target+1)), computed as
// ((2^256 - target - 1) / (target + 1)) + 1 to stay in integer arithmetic.
func WorkOfTarget(target *big.Int) *big.Int {
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}
	denominator := new(big.Int).Add(target, bigOne)

	numerator := new(big.Int).Sub(oneLsh256, target)
	numerator.Sub(numerator, bigOne)

	work := new(big.Int).Div(numerator, denominator)
	return work.Add(work, bigOne)
}

// CalcWork calculates a work value from difficulty bits, for callers that
// only have the compact encoding on hand.
func CalcWork(bits uint32) *big.Int {
	target, err := BitsToTarget(bits)
	if err != nil || target.Sign() <= 0 {
		return big.NewInt(0)
	}
	return WorkOfTarget(target)
}
