package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/ai"
	"github.com/pdfscrubber/pdf-scrubber/internal/scrubber"
)

func main() {
	apiKey := flag.String("key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	model := flag.String("model", "gpt-4o-mini", "OpenAI model to use")
	timeout := flag.Duration("timeout", 30*time.Second, "extraction timeout")
	useStub := flag.Bool("stub", false, "use the stub extractor instead of OpenAI")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: test-extraction [--stub] [--key sk-...] [--model <name>] <file.pdf>\n")
		os.Exit(1)
	}
	path := flag.Arg(0)

	_ = gotenv.Load()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var extractor scrubber.Extractor
	if *useStub {
		extractor = scrubber.StubExtractor{}
	} else {
		if *apiKey == "" {
			*apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if *apiKey == "" {
			fmt.Fprintf(os.Stderr, "ERROR: OPENAI_API_KEY not set and no --key flag provided (or pass --stub)\n")
			os.Exit(1)
		}
		extractor = ai.NewExtractor(*apiKey, *model, logger)
	}

	fmt.Println("=== Metadata Extraction Test ===")
	fmt.Printf("  File: %s\n", path)
	fmt.Println()

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		os.Exit(1)
	}

	reader := scrubber.NewFitzTextReader(logger)
	text, err := reader.ReadText(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to extract text: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Extracted %d characters of text\n", len(text))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	metadata, err := extractor.Extract(ctx, text, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Extraction completed in %v\n", time.Since(start))
	fmt.Println()
	fmt.Println("Metadata:")
	fmt.Printf("  Company:  %s\n", metadata.Company)
	fmt.Printf("  Type:     %s\n", metadata.DocumentType)
	fmt.Printf("  Date:     %s\n", metadata.Date)
	fmt.Printf("  Assumed:  %v\n", metadata.Assumed)
	fmt.Println()
	fmt.Printf("Derived filename: %s\n", scrubber.DeriveFilename(*metadata))
}
