// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/scryptspv/headerchain/blockchain"
)

var logRotator *rotator.Rotator

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	logRotator.Write(p)
	return len(p), nil
}

// initLogging opens a rotating log file inside the headers directory and
// points the blockchain package's logger at a subsystem logger backed by
// it, mirroring the per-subsystem logging convention the rest of this
// module's stack uses.
func initLogging(headersDir, level string) error {
	logFile := logFilePath(headersDir)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("creating log rotator: %w", err)
	}
	logRotator = r

	backend := btclog.NewBackend(logWriter{})
	logger := backend.Logger("HDRC")

	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		lvl = btclog.LevelInfo
	}
	logger.SetLevel(lvl)

	blockchain.UseLogger(logger)
	return nil
}
