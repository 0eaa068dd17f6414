// Package main generates pyrt/manifest.go from the symbol list in pyrt/manifest.txt.
//
// Each non-comment line is "<func|data> <symbol>". Order is preserved: it is the
// order Initialize resolves symbols in, and the first missing one is reported.
package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

type manifestEntry struct {
	Name    string
	Kind    string
	LineNum int
}

var (
	entryPattern  = regexp.MustCompile(`^(func|data)\s+([A-Za-z_][A-Za-z0-9_]*)$`)
	kindConstants = map[string]string{
		"func": "SymbolFunc",
		"data": "SymbolData",
	}
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <path-to-manifest.txt>\n", os.Args[0])
		os.Exit(1)
	}

	listPath := os.Args[1]
	file, err := os.Open(listPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open manifest list: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	var entries []manifestEntry
	seen := make(map[string]int)

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		matches := entryPattern.FindStringSubmatch(strings.Join(strings.Fields(line), " "))
		if matches == nil {
			fmt.Fprintf(os.Stderr, "Error: %s:%d: expected \"<func|data> <symbol>\", got %q\n", listPath, lineNum, line)
			os.Exit(1)
		}

		name := matches[2]
		if first, dup := seen[name]; dup {
			fmt.Fprintf(os.Stderr, "Error: %s:%d: duplicate symbol %s (first listed on line %d)\n", listPath, lineNum, name, first)
			os.Exit(1)
		}
		seen[name] = lineNum

		entries = append(entries, manifestEntry{Name: name, Kind: matches[1], LineNum: lineNum})
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %s lists no symbols\n", listPath)
		os.Exit(1)
	}

	generateManifest(entries)
}

func generateManifest(entries []manifestEntry) {
	fmt.Println("// Code generated by tools/gen_manifest.go from manifest.txt; DO NOT EDIT.")
	fmt.Println()
	fmt.Println("package pyrt")
	fmt.Println()
	fmt.Println(`//go:generate sh -c "go run ../tools/gen_manifest.go manifest.txt > manifest.go"`)
	fmt.Println()
	fmt.Println("// DefaultManifest returns the symbols bound by Initialize, in binding order.")
	fmt.Println("// The result is a fresh copy.")
	fmt.Println("func DefaultManifest() Manifest {")
	fmt.Println("\treturn Manifest{")
	for _, e := range entries {
		fmt.Printf("\t\t{Name: %q, Kind: %s},\n", e.Name, kindConstants[e.Kind])
	}
	fmt.Println("\t}")
	fmt.Println("}")
}
