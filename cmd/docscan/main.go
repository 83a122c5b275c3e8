package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/veridoc/docscan/internal/config"
	"github.com/veridoc/docscan/internal/imaging"
	"github.com/veridoc/docscan/internal/ocr"
	"github.com/veridoc/docscan/internal/scan"
	"github.com/veridoc/docscan/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("docscan %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		usage()
		return
	}

	fs := flag.NewFlagSet("docscan", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	_ = fs.Parse(os.Args[2:])

	opts, file, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docscan: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(file.LogLevel)

	scanner, err := scan.NewScanner(opts, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docscan: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "detect":
		runDetect(fs.Args(), scanner, false)
	case "verify":
		runDetect(fs.Args(), scanner, true)
	case "serve":
		srv := server.New(scanner, ocr.NewFieldReader(file.Language), log)
		if err := srv.Run(os.Stdin, os.Stdout); err != nil {
			log.WithError(err).Fatal("server error")
		}
	default:
		usage()
		os.Exit(2)
	}
}

// runDetect detects (and optionally verifies) a single image file and
// prints the result as JSON on stdout.
func runDetect(args []string, scanner *scan.Scanner, verify bool) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "docscan: exactly one image path is required")
		os.Exit(2)
	}

	frames := imaging.NewFrameCache()
	frame, err := frames.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "docscan: %v\n", err)
		os.Exit(1)
	}

	det, err := scanner.Detect(frame)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docscan: %v\n", err)
		os.Exit(1)
	}

	out := map[string]interface{}{"detection": det}
	if verify && det.Success {
		report, err := scanner.Verify(det.Cropped)
		if err != nil {
			fmt.Fprintf(os.Stderr, "docscan: %v\n", err)
			os.Exit(1)
		}
		out["authenticity"] = report
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "docscan: %v\n", err)
		os.Exit(1)
	}
}

// newLogger configures logrus to stderr so stdout stays parseable output.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	if os.Getenv("DOCSCAN_LOG_LEVEL") != "" {
		if lvl, err := logrus.ParseLevel(os.Getenv("DOCSCAN_LOG_LEVEL")); err == nil {
			log.SetLevel(lvl)
		}
	}
	return log
}

func usage() {
	fmt.Println("docscan - document detection and authenticity toolkit")
	fmt.Println()
	fmt.Println("Usage: docscan <command> [options] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  detect <image>   Locate the document region in an image file")
	fmt.Println("  verify <image>   Locate and run authenticity analysis")
	fmt.Println("  serve            Serve the pipeline over stdin/stdout (JSON lines)")
	fmt.Println("  version          Print version information")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>  YAML configuration file")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  DOCSCAN_LOG_LEVEL=debug  Override the configured log level")
}
