// Package main provides the signer command-line tool: it validates a
// listings report and checks or refreshes its integrity stamp.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"listingdeck/internal/validator"
	"listingdeck/pkg/metadata"
)

func main() {
	inputPath := flag.String("input", "", "Path to input report (e.g., output/listings.md)")
	sign := flag.Bool("sign", false, "Re-sign the report after validation instead of only verifying it")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: signer -input <path> [-sign]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	contentBytes, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	content := string(contentBytes)
	fmt.Printf("📂 Reading: %s (%d bytes)\n", *inputPath, len(content))

	v := validator.NewReportValidator()

	// 1. Structure
	fmt.Println("🔍 Validating report structure...")

	res := v.ValidateReport(content)
	res.WriteErrors(os.Stdout)
	fmt.Println(res)

	if !res.IsValid {
		fmt.Println("❌ Skipping signature due to validation failure.")
		os.Exit(1)
	}

	// 2. Integrity
	if !*sign {
		integrity := v.ValidateIntegrity(content)
		integrity.WriteErrors(os.Stdout)

		if !integrity.IsValid {
			os.Exit(1)
		}

		fmt.Println("✅ Integrity Check Passed")

		return
	}

	meta, _ := metadata.Extract(content)
	if meta == nil {
		meta = &metadata.Metadata{Rendered: res.Stats.TotalRows}
	}

	// a fresh signature gets a fresh generation time
	meta.GeneratedAt = time.Time{}

	fmt.Println("✍️  Signing file...")

	signedContent := metadata.Sign(content, *meta)

	if err := os.WriteFile(*inputPath, []byte(signedContent), 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("✅ Signed and saved to: %s\n", *inputPath)
}
