// Command allocate runs the allocation engine over an answers file and
// prints the result.
//
//	allocate -input answers.yaml [-format json|yaml] [-dual-role]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "allocate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("allocate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "-", "answers file (.yaml, .yml or .json); - reads YAML or JSON from stdin")
	format := fs.String("format", "json", "output format: json or yaml")
	dualRole := fs.Bool("dual-role", false, "force the dual-role flag on")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "json" && *format != "yaml" {
		return fmt.Errorf("unknown format %q", *format)
	}

	in, err := readInput(*input, stdin)
	if err != nil {
		return err
	}
	if *dualRole {
		in.DualRole = true
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	res, err := scoring.NewEngine(logger, nil).Compute(in)
	if err != nil {
		return err
	}
	return writeResult(stdout, *format, res)
}

func readInput(path string, stdin io.Reader) (*scoring.Input, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	in := &scoring.Input{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(in)
	} else {
		// YAML is a superset of JSON, so stdin accepts either.
		err = yaml.Unmarshal(data, in)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", scoring.ErrInvalidInput, path, err)
	}
	return in, nil
}

func writeResult(w io.Writer, format string, res *scoring.Result) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
