package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/formfiller/formfiller/internal/fill"
)

var (
	outputPath = flag.String("output", "", "Output path (default: filled_<input> next to the source)")
	fontName   = flag.String("font", "Helvetica", "Font used for stamped values")
	fontSize   = flag.Int("size", 10, "Font size in points")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: source PDF and values file required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	valuesPath := flag.Arg(1)

	src, err := os.ReadFile(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading PDF: %v\n", err)
		os.Exit(1)
	}

	triples, err := loadTriples(valuesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading values file: %v\n", err)
		os.Exit(1)
	}

	engine := fill.NewEngine(nil, *fontName, *fontSize)
	result, err := engine.Fill(src, triples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error filling document: %v\n", err)
		os.Exit(1)
	}

	out := *outputPath
	if out == "" {
		dir, name := filepath.Split(pdfPath)
		out = filepath.Join(dir, "filled_"+name)
	}
	if err := os.WriteFile(out, result.Bytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Stamped %d value(s), skipped %d\n", result.Drawn, result.Skipped)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", out, len(result.Bytes))

	if result.Skipped > 0 {
		os.Exit(2)
	}
}

// loadTriples reads the values file: a JSON array of stamps, each naming the
// text, the zero-based page and the stored coordinate.
func loadTriples(path string) ([]fill.Triple, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var triples []fill.Triple
	if err := json.Unmarshal(data, &triples); err != nil {
		return nil, fmt.Errorf("invalid values file: %w", err)
	}
	if len(triples) == 0 {
		return nil, fmt.Errorf("values file contains no entries")
	}
	return triples, nil
}

func printHelp() {
	fmt.Println("fill_pdf - Stamp values onto a PDF at stored field positions")
	fmt.Println()
	fmt.Println("Takes a source PDF and a JSON array of values with coordinates and")
	fmt.Println("produces the filled document, without needing a running server.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -output    Output path (default: filled_<input> next to the source)")
	fmt.Println("  -font      Font used for stamped values (default: Helvetica)")
	fmt.Println("  -size      Font size in points (default: 10)")
	fmt.Println("  -verbose   Enable verbose output")
	fmt.Println("  -help      Show this help message")
	fmt.Println()
	fmt.Println("VALUES FILE:")
	fmt.Println(`  [{"fieldId": "name", "value": "Ada Lovelace", "page": 0, "x": 18.5, "y": 42.0}]`)
	fmt.Println()
	fmt.Println("  Coordinates are percentages of the page size with a top-left origin,")
	fmt.Println("  matching what the placement editor stores. Values above 100 are taken")
	fmt.Println("  as absolute points in PDF bottom-left orientation.")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  fill_pdf lease.pdf values.json")
	fmt.Println("  fill_pdf -output /tmp/out.pdf -size 12 lease.pdf values.json")
	fmt.Println()
	fmt.Println("EXIT CODES:")
	fmt.Println("  0  all values stamped")
	fmt.Println("  1  fatal error (unreadable input, parse or write failure)")
	fmt.Println("  2  output written but some values were skipped")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  fill_pdf [OPTIONS] <source.pdf> <values.json>")
}

func init() {
	flag.Usage = func() {
		printHelp()
	}
}
