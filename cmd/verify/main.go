// Package main provides the verify command-line tool that checks a findings
// file against the manifest of the run that produced it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"phishtakedown/pkg/metadata"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	manifestPath := fs.String("manifest", "", "Path to run manifest (e.g., .runs/<run_id>.json)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *manifestPath == "" {
		fmt.Fprintln(stderr, "Usage: verify -manifest <path>")
		fs.PrintDefaults()

		return 2
	}

	m, err := metadata.Load(*manifestPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return 1
	}

	fmt.Fprintf(stdout, "Run %s: %s (%s)\n", m.RunID, m.Output, m.Report)

	if err := metadata.Verify(m); err != nil {
		fmt.Fprintf(stderr, "Verification failed: %v\n", err)

		return 1
	}

	fmt.Fprintf(stdout, "OK: %d findings, sha256 %s\n", m.Written, m.SHA256)

	return 0
}
