// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scryptspv/headerchain/chaincfg"
	"github.com/scryptspv/headerchain/wire"
)

// mapHeaderReader answers HeaderAt from a fixed table, for retarget tests
// that only need a handful of specific heights.
type mapHeaderReader map[int32]*wire.BlockHeader

func (m mapHeaderReader) HeaderAt(height int32) (*wire.BlockHeader, error) {
	h, ok := m[height]
	if !ok {
		return nil, MissingHeaderError(height)
	}
	return h, nil
}

func headerAtTime(bits uint32, unix int64) *wire.BlockHeader {
	return &wire.BlockHeader{Bits: bits, Timestamp: time.Unix(unix, 0)}
}

func TestRetarget_TestNetShortCircuits(t *testing.T) {
	params := &chaincfg.Params{Name: "test", TestNet: true}
	bits, target, err := Retarget(params, 1_000_000, mapHeaderReader{}, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(0), bits)
	require.Equal(t, 0, target.Sign())
}

// TestRetarget_EarlyHeightsAreFixedEasy covers Scenario 3: get_target(28)
// returns the fixed (0x1e0ffff0, 0x00000FFFF0...) pair with no headers to
// look back at.
func TestRetarget_EarlyHeightsAreFixedEasy(t *testing.T) {
	easyTarget, err := BitsToTarget(0x1e0ffff0)
	require.NoError(t, err)

	params := &chaincfg.Params{Name: "main"}
	for _, h := range []int32{0, 1, 28} {
		bits, target, err := Retarget(params, h, mapHeaderReader{}, nil)
		require.NoError(t, err, "height %d", h)
		require.Equal(t, uint32(0x1e0ffff0), bits)
		require.Equal(t, 0, target.Cmp(easyTarget))
	}
}

// TestRetarget_BelowKGWWindowUsesPowLimit covers the fallback kimotoGravityWell
// takes before enough history has accumulated to average over: no header
// lookups happen at all, since blockLastSolvedIndex < kgwPastSecondsMin.
func TestRetarget_BelowKGWWindowUsesPowLimit(t *testing.T) {
	params := &chaincfg.Params{Name: "main"}
	bits, target, err := Retarget(params, 100, mapHeaderReader{}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, target.Cmp(kgwPowLimit))
	require.Equal(t, BigToCompact(kgwPowLimit), bits)
}

// TestRetarget_ChunkBoundaryUsesCheckpoint exercises the checkpoint dispatch
// in Retarget: a height evenly divisible by 2016 consults
// params.CheckpointForChunk(height/2016) instead of running a retarget
// algorithm, provided that chunk is checkpointed.
func TestRetarget_ChunkBoundaryUsesCheckpoint(t *testing.T) {
	cpTarget, err := BitsToTarget(0x1d00ffff)
	require.NoError(t, err)
	params := &chaincfg.Params{
		Name: "main",
		Checkpoints: []chaincfg.Checkpoint{
			{Bits: 0x1e0ffff0, Target: MaxTarget}, // chunk 0, unused by this test
			{Bits: 0x1d00ffff, Target: cpTarget},  // chunk 1
		},
	}
	bits, target, err := Retarget(params, 2016, mapHeaderReader{}, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1d00ffff), bits)
	require.Equal(t, 0, target.Cmp(cpTarget))
}

func TestDigishieldTarget_UnchangedWhenSpacingMatchesTarget(t *testing.T) {
	const h = digishieldHeightCutoff + 100
	reader := mapHeaderReader{
		h - 2: headerAtTime(0x1d00ffff, 1_700_000_000),
		h - 1: headerAtTime(0x1d00ffff, 1_700_000_000+digishieldTargetTimespan),
	}
	bits, _, err := Retarget(&chaincfg.Params{Name: "main"}, h, reader, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1d00ffff), bits)
}

func TestDigishieldTarget_ClampsFastTimespanToThreeQuarters(t *testing.T) {
	const h = digishieldHeightCutoff + 100
	// Timestamps run backwards by enough that, even after the /8 damping,
	// the clamp floor of targetTimespan*3/4 kicks in.
	reader := mapHeaderReader{
		h - 2: headerAtTime(0x1c00ffff, 1_700_001_000),
		h - 1: headerAtTime(0x1c00ffff, 1_700_000_000),
	}
	_, target, err := Retarget(&chaincfg.Params{Name: "main"}, h, reader, nil)
	require.NoError(t, err)

	old, err := BitsToTarget(0x1c00ffff)
	require.NoError(t, err)
	clampedTimespan := digishieldTargetTimespan - digishieldTargetTimespan/4
	want := new(big.Int).Mul(old, big.NewInt(int64(clampedTimespan)))
	want.Div(want, big.NewInt(digishieldTargetTimespan))
	require.Equal(t, 0, target.Cmp(want))
}

func TestDigishieldTarget_ClampsSlowTimespanToOneAndHalf(t *testing.T) {
	const h = digishieldHeightCutoff + 100
	// Blocks arrived far too slowly: clamped to targetTimespan*3/2.
	reader := mapHeaderReader{
		h - 2: headerAtTime(0x1c00ffff, 1_700_000_000),
		h - 1: headerAtTime(0x1c00ffff, 1_700_000_000+100_000),
	}
	_, target, err := Retarget(&chaincfg.Params{Name: "main"}, h, reader, nil)
	require.NoError(t, err)

	old, err := BitsToTarget(0x1c00ffff)
	require.NoError(t, err)
	clampedTimespan := digishieldTargetTimespan + digishieldTargetTimespan/2
	want := new(big.Int).Mul(old, big.NewInt(int64(clampedTimespan)))
	want.Div(want, big.NewInt(digishieldTargetTimespan))
	require.Equal(t, 0, target.Cmp(want))
}

func TestDigishieldTarget_NeverExceedsMaxTarget(t *testing.T) {
	const h = digishieldHeightCutoff + 100
	reader := mapHeaderReader{
		h - 2: headerAtTime(0x1e0ffff0, 1_700_000_000),
		h - 1: headerAtTime(0x1e0ffff0, 1_700_000_000+100_000),
	}
	_, target, err := Retarget(&chaincfg.Params{Name: "main"}, h, reader, nil)
	require.NoError(t, err)
	require.True(t, target.Cmp(MaxTarget) <= 0, "digishield target must never exceed MaxTarget")
}

func TestRetarget_OverridesSupplyUnpersistedHeaders(t *testing.T) {
	const h = digishieldHeightCutoff + 100
	overrides := map[int32]*wire.BlockHeader{
		h - 2: headerAtTime(0x1d00ffff, 1_700_000_000),
		h - 1: headerAtTime(0x1d00ffff, 1_700_000_000+digishieldTargetTimespan),
	}
	bits, _, err := Retarget(&chaincfg.Params{Name: "main"}, h, mapHeaderReader{}, overrides)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1d00ffff), bits)
}
