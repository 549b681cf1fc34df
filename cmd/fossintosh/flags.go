// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --config, --backend, --registry, --print, --view, --search, --format, --verbose, --version

package main

import (
	"flag"
	"io"

	"github.com/mauromedda/fossintosh-go/internal/mode/print"
)

type cliArgs struct {
	configPath string
	backend    string
	registry   string
	print      bool
	view       string
	search     string
	format     string
	verbose    bool
	version    bool
}

func parseFlags(argv []string, stderr io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("fossintosh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&args.configPath, "config", "", "Config file (default ~/.fossintosh/config.yaml)")
	fs.StringVar(&args.backend, "backend", "", "Backend command line, e.g. \"fossintosh-backend --stdio\"")
	fs.StringVar(&args.registry, "registry", "", "Catalog registry base URL")
	fs.BoolVar(&args.print, "print", false, "Non-interactive print mode")
	fs.StringVar(&args.view, "view", "", "Print view: catalog, search, updates, categories, curated")
	fs.StringVar(&args.search, "search", "", "Search term (implies --view search)")
	fs.StringVar(&args.format, "format", print.FormatText, "Print format: text or json")
	fs.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	if args.view == "" {
		args.view = print.ViewCatalog
		if args.search != "" {
			args.view = print.ViewSearch
		}
	}
	return args, nil
}
