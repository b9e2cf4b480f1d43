// Command catalog manages the emoji dataset from the shell.
//
//	catalog -action validate -file emojis.csv
//	catalog -action import -file emojis.csv
//	catalog -action export -out current.csv
//	catalog -action render -slug grinning-face -out grinning-face.png
//
// Results go to stdout (or -out); logs always go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/app"
	"github.com/emojitopng/emojitopng-backend/internal/config"
	"github.com/emojitopng/emojitopng-backend/internal/ingest"
	"github.com/emojitopng/emojitopng-backend/internal/service"
	pkglogger "github.com/emojitopng/emojitopng-backend/pkg/logger"
)

// options parsed command line
type options struct {
	Action     string
	File       string
	Slug       string
	Out        string
	BaseURL    string
	Regenerate bool
}

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "Path to config file")
	var opts options
	flag.StringVar(&opts.Action, "action", "validate", "validate | import | clear | export | sitemap | render")
	flag.StringVar(&opts.File, "file", "", "CSV input file (validate, import); '-' reads stdin")
	flag.StringVar(&opts.Slug, "slug", "", "Emoji slug (render)")
	flag.StringVar(&opts.Out, "out", "", "Output file (export, sitemap, render); stdout when empty")
	flag.StringVar(&opts.BaseURL, "base-url", "", "Site base URL (sitemap); defaults to site.base_url")
	flag.BoolVar(&opts.Regenerate, "regenerate", false, "Bypass the render cache (render)")
	flag.Parse()

	config.LoadDotEnv()
	initLogging(os.Stderr)
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, a, opts, os.Stdin, os.Stdout); err != nil {
		a.Close()
		log.Fatalf("%s failed: %v", opts.Action, err)
	}
}

// initLogging stdout는 결과 전용
func initLogging(w io.Writer) {
	pkglogger.Init()
	pkglogger.InitStructuredTo("local", w)
}

// run executes one action. Only the action's result is written to stdout.
func run(ctx context.Context, a *app.App, opts options, stdin io.Reader, stdout io.Writer) error {
	switch opts.Action {
	case "validate":
		raw, err := readInput(opts.File, stdin)
		if err != nil {
			return err
		}
		printResult(stdout, a.Dataset.Validate(raw))
		return nil

	case "import":
		raw, err := readInput(opts.File, stdin)
		if err != nil {
			return err
		}
		res, snap, err := a.Catalog.Save(ctx, raw)
		if res != nil {
			printResult(stdout, res)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Imported: catalog now has %d records (source: %s)\n", len(snap.Records), snap.Source)
		return nil

	case "clear":
		snap, err := a.Catalog.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Override cleared: catalog now has %d records (source: %s)\n", len(snap.Records), snap.Source)
		return nil

	case "export":
		raw, source, err := a.Dataset.Export(ctx)
		if err != nil {
			return err
		}
		pkglogger.Info("Exporting %s dataset", source)
		return writeOutput(opts.Out, []byte(raw), stdout)

	case "sitemap":
		a.Catalog.Reload(ctx)
		site := opts.BaseURL
		if site == "" {
			site = a.Config.Site.BaseURL
		}
		data, err := a.Sitemap.Build(site, time.Now())
		if err != nil {
			return err
		}
		return writeOutput(opts.Out, data, stdout)

	case "render":
		if opts.Slug == "" {
			return errors.New("-slug is required for render")
		}
		a.Catalog.Reload(ctx)
		res, err := a.Render.Render(ctx, opts.Slug, service.RenderOptions{
			Regenerate: opts.Regenerate,
			Publish:    a.Config.Render.Publish,
		})
		if err != nil {
			return err
		}
		target := opts.Out
		if target == "" {
			target = res.Slug + ".png"
		}
		if err := writeOutput(target, res.PNG, stdout); err != nil {
			return err
		}
		if res.PublishURL != "" {
			pkglogger.Info("Published: %s", res.PublishURL)
		}
		return nil

	default:
		return fmt.Errorf("unknown action %q", opts.Action)
	}
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return "", errors.New("-file is required")
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	pkglogger.Info("Wrote %d bytes to %s", len(data), path)
	return nil
}

func printResult(w io.Writer, res *ingest.Result) {
	fmt.Fprintf(w, "Valid records: %d\n", len(res.Records))
	fmt.Fprintf(w, "Skipped rows:  %d\n", len(res.Skipped))
	for _, issue := range res.Skipped {
		fmt.Fprintf(w, "  line %d: %s\n", issue.Line, issue.Reason)
	}
}
