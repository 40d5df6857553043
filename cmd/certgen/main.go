package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/certgen/internal/ocr"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Logs go to stderr; stdout carries the per-file listing and, for the
	// mcp command, the protocol.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			printVersion()
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "grid":
			os.Exit(runGrid(args[1:]))
		case "serve":
			os.Exit(runServe(args[1:]))
		case "mcp":
			os.Exit(runMCP())
		}
	}

	os.Exit(runGenerate(args, os.Stdout))
}

func printUsage() {
	fmt.Println("certgen - batch certificate generator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  certgen [options] <roster> <template> <font> <output-dir>")
	fmt.Println("  certgen grid [-spacing N] <template> <out.png>")
	fmt.Println("  certgen serve [-addr host:port]")
	fmt.Println("  certgen mcp")
	fmt.Println("  certgen version")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -s, --fontsize N        Font size in pixels (default 48)")
	fmt.Println("  -k, --colorhex RRGGBB   Text color (default 000000)")
	fmt.Println("  -x N, -y N              Text position; centered when omitted")
	fmt.Println("  -r, --replace           Overwrite existing certificates")
	fmt.Println("  --format NAME           pdf, png, jpg, gif, tiff or bmp (default pdf)")
	fmt.Println("  --config FILE           YAML job file")
	fmt.Println("  --continue-on-error     Keep going after a failed certificate")
	fmt.Println("  --skip-malformed        Skip roster rows without a name and email")
	fmt.Println("  --header                The roster's first row is a header")
	fmt.Println("  --no-prompt             Skip existing certificates without asking")
	fmt.Println("  --qr TEXT               Add a QR code; {name} and {email} are replaced")
	fmt.Println("  --qr-size N             QR code size in pixels (default 120)")
	fmt.Println("  --verify                Read each name back with Tesseract")
	fmt.Println("  --verify-lang LANG      Tesseract language (default eng)")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  CERTGEN_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  CERTGEN_*                  Any job file setting, e.g. CERTGEN_FONT_SIZE")
}

func printVersion() {
	fmt.Printf("certgen %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Tesseract:  %s\n", ocr.Version())
}
