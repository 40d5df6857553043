package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ironsheep/certgen/internal/imaging"
	"github.com/ironsheep/certgen/internal/render"
	"github.com/ironsheep/certgen/internal/server"
	"github.com/ironsheep/certgen/internal/web"
)

func runGrid(args []string) int {
	fs := flag.NewFlagSet("certgen grid", flag.ContinueOnError)
	spacing := fs.Int("spacing", 50, "grid spacing in pixels")
	color := fs.String("color", "", "grid color as RRGGBB (default red)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: certgen grid [-spacing N] <template> <out.png>")
		return 2
	}
	templatePath, outPath := fs.Arg(0), fs.Arg(1)

	format, err := render.FormatFromPath(outPath)
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}

	tpl, err := imaging.NewTemplateCache().Load(templatePath)
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}
	grid, err := imaging.GridOverlay(tpl, *spacing, true, *color)
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}

	if err := render.WriteFile(outPath, grid.Image, format, render.DocInfo{Title: "Grid"}); err != nil {
		log.Printf("Error: %v", err)
		return 1
	}

	fmt.Printf("%dx%d grid every %dpx written to %s\n", grid.Width, grid.Height, grid.GridSpacing, outPath)
	return 0
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("certgen serve", flag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:8080", "listen address")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	h := web.NewHandler(nil, log.Default())
	log.Printf("Serving certgen on http://%s", *addr)
	if err := http.ListenAndServe(*addr, web.NewRouter(h)); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	return 0
}

func runMCP() int {
	if os.Getenv("CERTGEN_LOG_LEVEL") == "debug" {
		log.Printf("certgen MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(Version)
	if err := srv.Run(); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	return 0
}
