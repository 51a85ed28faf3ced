// vagus-vectors generates and verifies the CBOR conformance vector
// file shared with the on-chain verifier implementations.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vagus-network/planner-go/pkg/cbor"
)

func main() {
	os.Exit(Run(os.Args[1:], os.Stderr))
}

// Run is the entrypoint, separated for testing.
func Run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("vagus-vectors", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		generate = fs.Bool("generate", false, "generate the vector file from the builtin corpus")
		verify   = fs.Bool("verify", false, "verify a vector file against this implementation")
		path     = fs.String("file", "cbor_cases.yml", "vector file path")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	switch {
	case *generate:
		vf, err := cbor.GenerateVectors(cbor.BuiltinCases())
		if err != nil {
			logger.Error("generate vectors", "err", err)
			return 1
		}
		if err := cbor.SaveVectorFile(*path, vf); err != nil {
			logger.Error("save vectors", "err", err)
			return 1
		}
		logger.Info("generated vectors", "count", len(vf.TestVectors), "file", *path)
		return 0

	case *verify:
		vf, err := cbor.LoadVectorFile(*path)
		if err != nil {
			logger.Error("load vectors", "err", err)
			return 1
		}
		mismatches, err := cbor.VerifyVectors(vf)
		if err != nil {
			logger.Error("verify vectors", "err", err)
			return 1
		}
		for _, m := range mismatches {
			logger.Error("vector mismatch", "name", m.Name, "field", m.Field, "want", m.Want, "got", m.Got)
		}
		if len(mismatches) > 0 {
			return 1
		}
		logger.Info("all vectors verified", "count", len(vf.TestVectors), "file", *path)
		return 0

	default:
		fmt.Fprintln(stderr, "usage: vagus-vectors -generate|-verify [-file path]")
		return 2
	}
}
