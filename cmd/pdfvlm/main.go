// Command pdfvlm is a thin front-end over pkg/pdfvlm: flag parsing,
// terminal progress, and writing the result file are all this binary
// does — the conversion pipeline itself lives in the core packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spherical/pdfvlm/internal/domain"
	"github.com/spherical/pdfvlm/pkg/pdfvlm"
)

var (
	outputPath  string
	pagesSpec   string
	dpi         int
	concurrency int
	fidelity    string
	maintain    bool
	showVersion bool
	verbose     bool
)

const version = "0.1.0"

func init() {
	flag.StringVar(&outputPath, "output", "", "Output file path (default: <input-name>.md)")
	flag.StringVar(&outputPath, "o", "", "Output file path (shorthand)")
	flag.StringVar(&pagesSpec, "pages", "all", `Page selection, e.g. "all", "3-15" or "1,3,5"`)
	flag.IntVar(&dpi, "dpi", 150, "Rendering resolution in [72,400]")
	flag.IntVar(&concurrency, "concurrency", 10, "Maximum simultaneous in-flight VLM calls")
	flag.StringVar(&fidelity, "fidelity", "tier2", "Prompt fidelity: tier1, tier2 or tier3")
	flag.BoolVar(&maintain, "maintain-format", false, "Dispatch pages sequentially, carrying format context forward")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Usage = usage
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("pdfvlm version %s\n", version)
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: PDF path or URL required\n\n")
		usage()
		os.Exit(1)
	}
	input := flag.Arg(0)

	_ = godotenv.Load()

	apiKey := os.Getenv("PDFVLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "Error: PDFVLM_API_KEY (or OPENROUTER_API_KEY) environment variable not set\n")
		os.Exit(1)
	}
	model := os.Getenv("PDFVLM_MODEL")
	baseURL := os.Getenv("PDFVLM_BASE_URL")

	logLevel := domain.LogLevelInfo
	if verbose {
		logLevel = domain.LogLevelDebug
	}
	logger := domain.NewLogger(logLevel).WithPrefix("pdfvlm")

	if outputPath == "" {
		baseName := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		outputPath = baseName + ".md"
	}

	selection, err := pdfvlm.ParsePageSelection(pagesSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nreceived interrupt, shutting down...")
		cancel()
	}()

	logger.Info("initializing converter for %s", input)
	provider := pdfvlm.NewHTTPProvider(baseURL, apiKey, model)
	observer := &cliObserver{logger: logger}

	cfg := pdfvlm.NewConfig(
		pdfvlm.WithProvider(provider),
		pdfvlm.WithDPI(dpi),
		pdfvlm.WithConcurrency(concurrency),
		pdfvlm.WithFidelity(parseFidelity(fidelity)),
		pdfvlm.WithMaintainFormat(maintain),
		pdfvlm.WithPages(selection),
		pdfvlm.WithProgressObserver(observer),
	)

	fmt.Printf("Converting: %s\n", input)
	fmt.Println(strings.Repeat("=", 60))

	start := time.Now()
	stats, err := pdfvlm.ConvertToFile(ctx, input, outputPath, cfg)
	if err != nil {
		logger.Error("conversion failed: %v", err)
		fmt.Fprintf(os.Stderr, "\nconversion failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Wrote %s (%d/%d pages) in %v\n", outputPath, stats.ProcessedPages, stats.TotalPages, time.Since(start).Round(time.Second))
	logger.Info("wrote %s (%d/%d pages) in %v", outputPath, stats.ProcessedPages, stats.TotalPages, time.Since(start).Round(time.Second))
}

func parseFidelity(s string) pdfvlm.Fidelity {
	switch strings.ToLower(s) {
	case "tier1":
		return pdfvlm.Tier1
	case "tier3":
		return pdfvlm.Tier3
	default:
		return pdfvlm.Tier2
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `pdfvlm - convert a PDF to Markdown using a vision-capable LLM

Usage:
  pdfvlm [options] <pdf-file-or-url>

Options:
  -o, --output <file>      Output file path (default: <input-name>.md)
  --pages <spec>           Page selection (default: all)
  --dpi <n>                Rendering resolution (default: 150)
  --concurrency <n>        Max simultaneous VLM calls (default: 10)
  --fidelity <tier>        tier1, tier2 or tier3 (default: tier2)
  --maintain-format         Sequential dispatch with format continuity
  -v, --version             Show version information
  --verbose                 Enable verbose logging

Environment Variables:
  PDFVLM_API_KEY            Provider API key (falls back to OPENROUTER_API_KEY)
  PDFVLM_MODEL               Override the default model
  PDFVLM_BASE_URL             Override the provider's base URL

`)
}
