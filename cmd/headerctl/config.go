// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogFilename = "headerctl.log"
	defaultLogLevel    = "info"
)

// options holds the flags shared by every headerctl subcommand.
type options struct {
	HeadersDir string `short:"d" long:"headers-dir" description:"Directory containing blockchain_headers and forks/" required:"true"`
	TestNet    bool   `long:"testnet" description:"Use testnet parameters instead of mainnet"`
	CheckBits  bool   `long:"check-bits" description:"Enforce that each header's bits field matches its computed retarget"`
	CheckPow   bool   `long:"check-pow" description:"Enforce that each header's proof-of-work hash meets its computed target"`
	Debug      string `long:"debuglevel" default:"info" description:"Logging level {trace, debug, info, warn, error, critical}"`

	Verify      verifyCmd      `command:"verify" description:"Walk every chain on disk and report the first verification failure, if any"`
	Chainwork   chainworkCmd   `command:"chainwork" description:"Print the cumulative chainwork of a chain's tip"`
	Checkpoints checkpointsCmd `command:"checkpoints" description:"Emit a Go checkpoint table literal for a chain"`
}

// cfg is populated by parseOptions and read by whichever subcommand's
// Execute method go-flags invokes, since go-flags calls Execute on the
// exact subcommand struct instance embedded in cfg rather than passing
// the parent around.
var cfg options

func parseOptions() (*flags.Parser, error) {
	parser := flags.NewParser(&cfg, flags.Default)
	_, err := parser.Parse()
	return parser, err
}

func logFilePath(headersDir string) string {
	return filepath.Join(headersDir, defaultLogFilename)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
