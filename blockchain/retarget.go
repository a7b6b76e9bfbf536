// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math"
	"math/big"

	"github.com/scryptspv/headerchain/chaincfg"
	"github.com/scryptspv/headerchain/wire"
)

// HeaderReader supplies the headers a retarget computation needs to look
// behind the requested height. A Chain satisfies this by delegating to its
// HeaderStore and, below its forkpoint, to its parent.
type HeaderReader interface {
	HeaderAt(height int32) (*wire.BlockHeader, error)
}

// easyBits and easyTarget are the fixed difficulty returned for every
// height at or below 28, before any retarget window has accumulated
// enough history to average over.
const easyBits uint32 = 0x1e0ffff0

var easyTarget = CompactToBig(easyBits)

// kgwPowLimit is the proof-of-work floor used while Kimoto Gravity Well is
// in effect: 0x00000FFF followed by fifty-six hex F digits.
var kgwPowLimit = mustHex("00000FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF")

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("blockchain: bad hex constant " + s)
	}
	return n
}

const (
	kgwBlocksTargetSpacing = 30.0 // seconds
	kgwPastSecondsMin      = 864.0
	kgwPastSecondsMax      = 12096.0
	kgwPastBlocksMin       = kgwPastSecondsMin / kgwBlocksTargetSpacing
	kgwPastBlocksMax       = kgwPastSecondsMax / kgwBlocksTargetSpacing
)

// digishieldTargetTimespan is the desired time, in seconds, between
// consecutive headers once Digishield retargeting takes over.
const digishieldTargetTimespan = 60

// digishieldAdjustmentInterval is the number of blocks per Digishield
// retarget. It is 1, which makes the "blockstogoback" branch below
// vacuous; it is kept exactly as the source expresses it rather than
// simplified away, since collapsing it would be an unreviewed consensus
// change.
const digishieldAdjustmentInterval = 1

// digishieldHeightCutoff is the height at and above which Digishield
// replaces Kimoto Gravity Well as the active retarget rule.
const digishieldHeightCutoff = 4_800_000

// Retarget computes the (bits, target) pair that a header at height must
// satisfy. overrides, when non-nil, supplies headers for heights not yet
// persisted to r — used by Chain.CanConnect to retarget against a
// candidate header that hasn't been written to disk yet.
func Retarget(params *chaincfg.Params, height int32, r HeaderReader, overrides map[int32]*wire.BlockHeader) (uint32, *big.Int, error) {
	if params.TestNet {
		return 0, big.NewInt(0), nil
	}
	if height <= 28 {
		return easyBits, new(big.Int).Set(easyTarget), nil
	}

	chunk := height / 2016
	if cp, ok := params.CheckpointForChunk(chunk); ok && height%2016 == 0 {
		log.Tracef("retarget %d: using checkpoint for chunk %d: bits=%#x", height, chunk, cp.Bits)
		return cp.Bits, new(big.Int).Set(cp.Target), nil
	}

	if height < digishieldHeightCutoff {
		return kimotoGravityWell(height, r, overrides)
	}
	return digishieldTarget(height, r, overrides)
}

func headerAt(r HeaderReader, overrides map[int32]*wire.BlockHeader, height int32) (*wire.BlockHeader, error) {
	if overrides != nil {
		if h, ok := overrides[height]; ok {
			return h, nil
		}
	}
	return r.HeaderAt(height)
}

// kimotoGravityWell implements the rolling-average difficulty retarget used
// below digishieldHeightCutoff. The averaging and ratio math is carried out
// in float64, matching the source's use of Python floats: the sequence of
// operations is part of the consensus rule, not an implementation detail,
// and must not be reformed into fixed-point arithmetic.
func kimotoGravityWell(height int32, r HeaderReader, overrides map[int32]*wire.BlockHeader) (uint32, *big.Int, error) {
	blockLastSolvedIndex := height - 1
	blockReadingIndex := height - 1

	if blockLastSolvedIndex <= 0 || float64(blockLastSolvedIndex) < kgwPastSecondsMin {
		log.Tracef("kgw %d: below pre-window fallback, using pow limit", height)
		target := new(big.Int).Set(kgwPowLimit)
		return BigToCompact(target), target, nil
	}

	last, err := headerAt(r, overrides, blockLastSolvedIndex)
	if err != nil {
		return 0, nil, err
	}

	var pastDifficultyAverage, pastDifficultyAveragePrev float64
	var pastRateActualSeconds, pastRateTargetSeconds float64
	var pastRateAdjustmentRatio float64 = 1.0
	var pastBlocksMass float64

	for i := 1; i <= int(kgwPastBlocksMax); i++ {
		pastBlocksMass = float64(i)

		reading, err := headerAt(r, overrides, blockReadingIndex)
		if err != nil {
			return 0, nil, err
		}

		readingTarget, err := BitsToTarget(reading.Bits)
		if err != nil {
			return 0, nil, err
		}
		readingTargetF := bigIntToFloat(readingTarget)

		if i == 1 {
			pastDifficultyAverage = readingTargetF
		} else {
			pastDifficultyAverage = (readingTargetF-pastDifficultyAveragePrev)/float64(i) + pastDifficultyAveragePrev
		}
		pastDifficultyAveragePrev = pastDifficultyAverage

		pastRateActualSeconds = float64(last.Timestamp.Unix() - reading.Timestamp.Unix())
		pastRateTargetSeconds = kgwBlocksTargetSpacing * pastBlocksMass
		pastRateAdjustmentRatio = 1.0
		if pastRateActualSeconds < 0 {
			pastRateActualSeconds = 0
		}
		if pastRateActualSeconds != 0 && pastRateTargetSeconds != 0 {
			pastRateAdjustmentRatio = pastRateTargetSeconds / pastRateActualSeconds
		}

		eventHorizonDeviation := 1 + 0.7084*math.Pow(pastBlocksMass/144, -1.228)
		eventHorizonDeviationFast := eventHorizonDeviation
		eventHorizonDeviationSlow := 1 / eventHorizonDeviation

		if pastBlocksMass >= kgwPastBlocksMin {
			if pastRateAdjustmentRatio <= eventHorizonDeviationSlow || pastRateAdjustmentRatio >= eventHorizonDeviationFast {
				log.Tracef("kgw %d: event horizon reached after %d blocks, ratio=%f", height, i, pastRateAdjustmentRatio)
				break
			}
			if blockReadingIndex < 1 {
				break
			}
		}

		blockReadingIndex--
	}

	bnNew := pastDifficultyAverage
	if pastRateActualSeconds != 0 && pastRateTargetSeconds != 0 {
		bnNew *= pastRateActualSeconds
		bnNew /= pastRateTargetSeconds
	}

	newTarget := floatToBigInt(bnNew)
	if newTarget.Cmp(kgwPowLimit) > 0 {
		log.Debugf("kgw %d: clamping computed target to pow limit", height)
		newTarget = new(big.Int).Set(kgwPowLimit)
	}

	return BigToCompact(newTarget), newTarget, nil
}

// digishieldTarget implements the post-cutoff retarget rule: a
// heavily-dampened, tightly-clamped single-block adjustment.
func digishieldTarget(height int32, r HeaderReader, overrides map[int32]*wire.BlockHeader) (uint32, *big.Int, error) {
	blocksToGoBack := int32(digishieldAdjustmentInterval - 1)
	if height != digishieldAdjustmentInterval {
		blocksToGoBack = digishieldAdjustmentInterval
	}

	lastHeight := height - 1
	firstHeight := lastHeight - blocksToGoBack

	first, err := headerAt(r, overrides, firstHeight)
	if err != nil {
		return 0, nil, err
	}
	last, err := headerAt(r, overrides, lastHeight)
	if err != nil {
		return 0, nil, err
	}

	actualTimespan := last.Timestamp.Unix() - first.Timestamp.Unix()

	rawTimespan := actualTimespan
	actualTimespan = digishieldTargetTimespan + (actualTimespan-digishieldTargetTimespan)/8
	if min := digishieldTargetTimespan - digishieldTargetTimespan/4; actualTimespan < min {
		log.Debugf("digishield %d: clamping timespan %d to floor %d", height, actualTimespan, min)
		actualTimespan = min
	}
	if max := digishieldTargetTimespan + digishieldTargetTimespan/2; actualTimespan > max {
		log.Debugf("digishield %d: clamping timespan %d to ceiling %d", height, actualTimespan, max)
		actualTimespan = max
	}

	bnNew, err := BitsToTarget(last.Bits)
	if err != nil {
		return 0, nil, err
	}
	if height%digishieldAdjustmentInterval != 0 {
		return last.Bits, bnNew, nil
	}

	log.Tracef("digishield %d: raw timespan %d, damped/clamped timespan %d", height, rawTimespan, actualTimespan)

	bnNew.Mul(bnNew, big.NewInt(actualTimespan))
	bnNew.Div(bnNew, big.NewInt(digishieldTargetTimespan))
	if bnNew.Cmp(MaxTarget) > 0 {
		log.Debugf("digishield %d: clamping computed target to MaxTarget", height)
		bnNew = new(big.Int).Set(MaxTarget)
	}

	return BigToCompact(bnNew), bnNew, nil
}

func bigIntToFloat(n *big.Int) float64 {
	f := new(big.Float).SetInt(n)
	v, _ := f.Float64()
	return v
}

func floatToBigInt(f float64) *big.Int {
	bf := big.NewFloat(f)
	n, _ := bf.Int(nil)
	return n
}
