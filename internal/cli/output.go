// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-blockcipher.
//
// go-blockcipher is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// Result is the outcome of one encrypt or decrypt invocation
type Result struct {
	Operation string `json:"operation"`
	Cipher    string `json:"cipher"`
	Mode      string `json:"mode"`
	Output    string `json:"output"`
	Units     int    `json:"units"`
}

// BenchResult compares the sequential and batched path of one operation
type BenchResult struct {
	Operation  string        `json:"operation"`
	Blocks     int           `json:"blocks"`
	Sequential time.Duration `json:"sequential_ns"`
	Parallel   time.Duration `json:"parallel_ns"`
	Match      bool          `json:"match"`
}

// PrintResult prints an encryption or decryption result
func (p *Printer) PrintResult(r Result) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(r)
	case OutputFormatText:
		fmt.Fprintln(p.writer, r.Output)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintBench prints benchmark comparisons
func (p *Printer) PrintBench(cipher string, results []BenchResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"cipher":  cipher,
			"results": results,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Cipher: %s\n", cipher)
		fmt.Fprintf(p.writer, "%-14s %-8s %-14s %-14s %-6s\n", "OPERATION", "BLOCKS", "SEQUENTIAL", "PARALLEL", "MATCH")
		for _, r := range results {
			fmt.Fprintf(p.writer, "%-14s %-8d %-14s %-14s %-6t\n",
				r.Operation, r.Blocks, r.Sequential.Round(time.Microsecond),
				r.Parallel.Round(time.Microsecond), r.Match)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	default:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
