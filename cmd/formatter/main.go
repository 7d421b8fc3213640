// Package main provides the report formatter command-line tool: it re-aligns
// the tables of listings reports and refreshes their stamp.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"listingdeck/internal/formatter"
	"listingdeck/internal/validator"
	"listingdeck/pkg/metadata"
)

func main() {
	targetPath := flag.String("path", ".", "Path to report file or directory to format")
	write := flag.Bool("write", false, "Write changes to file (default: false, dry-run)")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	fmt.Printf("📂 Scanning path: %s\n", *targetPath)

	if *write {
		fmt.Println("✍️  Write mode ENABLED (files will be modified)")
	} else {
		fmt.Println("👀 Dry-run mode (no changes will be written)")
	}

	fmt.Println()

	count := 0
	changed := 0
	errors := 0

	err := filepath.Walk(*targetPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("❌ Error accessing path %s: %v\n", path, err)

			errors++

			return nil
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		wasChanged, isReport, procErr := processFile(path, *write)
		if !isReport {
			return nil
		}

		count++

		switch {
		case procErr != nil:
			fmt.Printf("❌ Failed to process %s: %v\n", path, procErr)

			errors++
		case wasChanged && *write:
			changed++

			fmt.Printf("✅ Formatted & Signed: %s\n", path)
		case wasChanged:
			changed++

			fmt.Printf("📝 Would format & sign: %s\n", path)
		}

		return nil
	})
	if err != nil {
		log.Fatalf("❌ Error walking path: %v\n", err)
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📈 Summary:\n")
	fmt.Printf("  Scanned: %d reports\n", count)
	fmt.Printf("  Changed: %d reports\n", changed)
	fmt.Printf("  Errors:  %d\n", errors)

	if errors > 0 || (changed > 0 && !*write) {
		if !*write {
			fmt.Println("\n💡 Run with -write to apply changes.")
		}

		os.Exit(1)
	}
}

// processFile formats one report. Files without a listings stamp are not
// reports and are left alone.
func processFile(path string, write bool) (changed, isReport bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, false, err
	}

	original := string(content)

	meta, body := metadata.Extract(original)
	if meta == nil {
		return false, false, nil
	}

	formatted := formatter.FormatMarkdown(body)

	res := validator.NewReportValidator().ValidateReport(formatted)
	if !res.IsValid {
		res.WriteErrors(os.Stdout)

		return false, true, fmt.Errorf("report failed validation: %s", res)
	}

	// keep the original generation time so unchanged reports stay unchanged
	signed := metadata.Sign(formatted, *meta)
	if signed == original {
		return false, true, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(signed), 0644); err != nil {
			return false, true, err
		}
	}

	return true, true, nil
}

func printUsage() {
	fmt.Println("Usage: ./bin/formatter [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/formatter -path output")
	fmt.Println("  ./bin/formatter -path output/listings.md -write")
}
