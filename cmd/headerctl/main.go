// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command headerctl is an offline maintenance and inspection tool for a
// headerstore/blockchain header tree: it can walk every chain on disk
// looking for the first verification failure, print a chain's cumulative
// chainwork, or emit a compiled-in checkpoint table literal from a chain's
// current history. It never talks to the network; everything it reports
// comes from files already on disk.
package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
)

func main() {
	if err := realMain(); err != nil {
		if _, ok := err.(*flags.Error); ok {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "headerctl:", err)
		os.Exit(1)
	}
}

func realMain() error {
	// parseOptions both parses the command line and, on success, invokes
	// the chosen subcommand's Execute method — go-flags dispatches to it
	// internally once a command is matched, so there's nothing left to do
	// here but surface whatever error (if any) came back.
	_, err := parseOptions()
	return err
}
