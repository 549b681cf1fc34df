// ABOUTME: CLI entry point for fossintosh: catalog browser and installer front end
// ABOUTME: Loads config, starts the backend bridge, wires the stores, dispatches to a view mode

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	// termfix must be imported before any package that imports bubbletea.
	// It fixes the lipgloss background in its init(), preventing BubbleTea
	// from sending OSC 10/11 queries whose replies leak into key input.
	_ "github.com/mauromedda/fossintosh-go/internal/termfix"

	"github.com/mauromedda/fossintosh-go/internal/backend"
	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/config"
	"github.com/mauromedda/fossintosh-go/internal/gateway"
	"github.com/mauromedda/fossintosh-go/internal/ingest"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
	"github.com/mauromedda/fossintosh-go/internal/log"
	"github.com/mauromedda/fossintosh-go/internal/mode/interactive"
	"github.com/mauromedda/fossintosh-go/internal/mode/print"
	"github.com/mauromedda/fossintosh-go/internal/registry"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("fossintosh %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, args, os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run performs the full initialization sequence and dispatches to the
// selected mode.
func run(ctx context.Context, args cliArgs, stdout io.Writer) error {
	cfg, err := config.Load(args.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.Apply(config.Overrides{
		Backend:  args.backend,
		Registry: args.registry,
		Verbose:  args.verbose,
	})
	log.SetLevel(log.ParseLevel(cfg.Log.Level))

	if !args.print {
		// Log lines on stderr would corrupt the TUI.
		closer, err := log.OpenFile(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer closer.Close()
	}

	keys, err := cfg.Keybindings()
	if err != nil {
		return err
	}

	reg := registry.New(registry.Options{
		BaseURL:          cfg.Registry.BaseURL,
		Timeout:          cfg.Registry.Timeout,
		FetchConcurrency: cfg.Registry.FetchConcurrency,
		CacheTTL:         cfg.Registry.CacheTTL,
	})

	store := catalog.NewStore()
	table := lifecycle.NewTable()

	// Without a backend the registry index is a read-only catalog and every
	// command is rejected.
	var (
		cmds   gateway.Commands
		events gateway.Applier
		src    catalog.Source = reg
	)
	if cfg.HasBackend() {
		client, err := startBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		cmds, src = client, client

		sub, err := ingest.Start(client, table)
		if err != nil {
			log.Error("ingest: %v", err)
		}
		defer sub.Close()
		events = sub
	} else {
		log.Info("no backend configured; browsing %s read-only", reg.BaseURL())
	}

	gw := gateway.New(cmds, table, gateway.Options{
		Events:      events,
		DownloadDir: cfg.Downloads.Dir,
		ArtifactExt: cfg.Downloads.ArtifactExt,
	})

	if args.print {
		return runPrint(ctx, args, stdout, store, table, src, reg)
	}

	deps := interactive.Deps{
		Store:   store,
		Table:   table,
		Gateway: gw,
		Catalog: src,
		Curated: reg,
		Keys:    keys,
		Version: version,
	}
	if cfg.UI.Icons {
		deps.Icons = reg
	}
	return interactive.Run(ctx, deps)
}

func startBackend(ctx context.Context, cfg *config.Config) (*backend.Client, error) {
	tr, err := backend.NewStdioTransport(ctx, cfg.Backend.Command, cfg.Backend.Args, cfg.BackendEnv())
	if err != nil {
		return nil, fmt.Errorf("starting backend: %w", err)
	}
	return backend.NewClient(tr, cfg.Backend.RequestTimeout), nil
}

// runPrint loads the catalog once and renders the requested view. A load
// failure is shown as a banner, not returned.
func runPrint(ctx context.Context, args cliArgs, stdout io.Writer, store *catalog.Store, table *lifecycle.Table, src catalog.Source, reg *registry.Registry) error {
	var loadErr error
	if args.view != print.ViewCurated {
		_, loadErr = catalog.Load(ctx, src, store)
		if loadErr != nil {
			log.Error("%v", loadErr)
		}
	}
	return print.Run(ctx, print.Config{
		View:   args.view,
		Term:   args.search,
		Format: args.format,
	}, print.Deps{
		Store:   store,
		Table:   table,
		Curated: reg,
		Out:     stdout,
		LoadErr: loadErr,
	})
}
