// extract 從網址或本機 HTML 檔擷取食譜並輸出 JSON
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"recipe-importer/internal/core/extract"
	"recipe-importer/internal/core/fetch"
	"recipe-importer/internal/core/scaling"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"
)

func main() {
	pageURL := flag.String("url", "", "recipe page to fetch")
	file := flag.String("file", "", "local HTML file instead of fetching")
	baseURL := flag.String("base-url", "", "source URL recorded for -file")
	multiplier := flag.Float64("scale", 1, "print ingredients scaled by this multiplier")
	showGrams := flag.Bool("grams", false, "include gram conversions when scaling")
	logLevel := flag.String("log-level", "warn", "debug|info|warn|error")
	flag.Parse()

	if (*pageURL == "") == (*file == "") {
		fmt.Fprintln(os.Stderr, "usage: extract -url URL | -file page.html [-base-url URL]")
		os.Exit(2)
	}

	common.InitConsoleLogger(*logLevel)
	defer common.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	fetcher := fetch.NewHTTPFetcher(cfg.Fetcher)
	chain := extract.NewChain(extract.DefaultStrategies(fetcher))

	source := *pageURL
	var html string
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", *file, err)
			os.Exit(1)
		}
		html = string(data)
		source = *baseURL
	} else {
		html, err = fetcher.Fetch(ctx, source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
			os.Exit(1)
		}
	}

	r, err := chain.Extract(ctx, html, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	var out interface{} = r
	if *multiplier != 1 || *showGrams {
		out = struct {
			Recipe      interface{}           `json:"recipe"`
			Multiplier  float64               `json:"multiplier"`
			Ingredients []scaling.ScaledToken `json:"ingredients"`
		}{r, *multiplier, scaling.ScaleIngredients(r.Ingredients, *multiplier, *showGrams)}
	}

	s, err := common.ToIndentedJSON(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(s)
}
