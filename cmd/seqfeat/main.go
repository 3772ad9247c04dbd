// Command seqfeat encodes a table of protein sequences, previews the selected
// rows and saves them to a file or database sink
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"seqfeat/internal/adapters/fetch"
	"seqfeat/internal/adapters/table"
	"seqfeat/internal/modkit"
	"seqfeat/internal/modkit/module"
	"seqfeat/internal/platform/config"
	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/logger"
	"seqfeat/internal/platform/store"
	"seqfeat/internal/services/features/domain"
	featuresmod "seqfeat/internal/services/features/module"
	"seqfeat/internal/services/features/service"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultInput = "uniprot_sequences.csv"

var sinks = []string{featuresmod.SinkCSV, featuresmod.SinkParquet, featuresmod.SinkArrow, featuresmod.SinkPG, featuresmod.SinkCH}

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run executes one load, process, select, preview and save pass; stdin answers the row prompt
func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("seqfeat", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var (
		envFile   = fs.String("env", ".env", "dotenv file to load before reading config")
		out       = fs.String("out", "", "output path (CORE_FEATURES_OUTPUT)")
		sink      = fs.String("sink", "", "csv|parquet|arrow|pg|ch (CORE_FEATURES_SINK)")
		workers   = fs.Int("workers", 0, "concurrency (CORE_FEATURES_WORKERS)")
		preview   = fs.Int("preview", -1, "max rows to print, 0 prints every selected row (CORE_FEATURES_PREVIEW)")
		skipEmpty = fs.Bool("skip-empty", false, "drop records with an empty sequence instead of failing")
		rows      = fs.Int("rows", 0, "rows to display and save; prompts when 0")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *sink != "" && !slices.Contains(sinks, strings.ToLower(*sink)) {
		fmt.Fprintf(stdout, "Error: unknown sink %q, want one of %s\n", *sink, strings.Join(sinks, ", "))
		return 2
	}
	input := defaultInput
	if fs.NArg() > 0 {
		input = fs.Arg(0)
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}

	// Pass CLI flags into CORE_FEATURES_* so the module can read its own config
	mustSetEnv("CORE_FEATURES_OUTPUT", *out)
	mustSetEnv("CORE_FEATURES_SINK", *sink)
	if *workers > 0 {
		mustSetEnv("CORE_FEATURES_WORKERS", strconv.Itoa(*workers))
	}
	if *preview >= 0 {
		mustSetEnv("CORE_FEATURES_PREVIEW", strconv.Itoa(*preview))
	}
	if *skipEmpty {
		mustSetEnv("CORE_FEATURES_SKIP_EMPTY", "1")
	}

	if err := pipeline(ctx, input, *rows, stdout); err != nil {
		logger.C(ctx).Error().Err(err).Str("input", input).Msg("seqfeat failed")
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	return 0
}

func pipeline(ctx context.Context, input string, rows int, stdout io.Writer) (err error) {
	root := config.New()
	opts := featuresmod.FromConfig(root)
	if err := opts.Validate(); err != nil {
		return err
	}

	var st *store.Store
	if opts.Sink == featuresmod.SinkPG || opts.Sink == featuresmod.SinkCH {
		st, err = openStore(ctx, root, opts.Sink)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := st.Close(context.Background()); cerr != nil {
				logger.Get().Error().Err(cerr).Msg("failed to close store")
			}
		}()
	}

	fm := featuresmod.New(modkit.DepsFrom(root, st), opts)
	ports := module.MustPortsOf[featuresmod.Ports](fm)

	if fetch.IsRemote(input) {
		if input, err = fetch.New(fetch.FromConfig(root), nil).Fetch(ctx, input); err != nil {
			return err
		}
	}
	recs, err := table.File{Path: input}.Load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Data loaded successfully.")

	if opts.SkipEmpty {
		var skipped []domain.Record
		recs, skipped = service.PartitionEmpty(recs)
		for _, r := range skipped {
			logger.Get().Warn().Str("id", r.ID).Msg("skipping record with empty sequence")
		}
	}

	batch, err := ports.Processor.Process(ctx, recs)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Sequences processed successfully.")

	n, err := selectRows(os.Stdin, stdout, rows, len(batch.Records))
	if err != nil {
		return err
	}
	sel := batch.Head(n)

	shown := n
	if opts.Preview > 0 {
		shown = min(n, opts.Preview)
	}
	if err := table.Preview(stdout, sel, shown); err != nil {
		return perr.WrapIOf(err, "print preview")
	}

	dest, err := save(ctx, fm, ports, opts, sel)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(stdout, "Processing complete. Results for %d rows saved to '%s'.\n", n, dest)
	return nil
}

// selectRows asks until the answer is a whole number in 1..maxRows; a preset skips the prompt
func selectRows(in io.Reader, out io.Writer, preset, maxRows int) (int, error) {
	if preset != 0 {
		return service.ValidateRowCount(strconv.Itoa(preset), maxRows)
	}
	br := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Enter the number of rows to display and save (e.g., 10 or 20 or any number): ")
		line, rerr := br.ReadString('\n')
		if strings.TrimSpace(line) == "" && rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return 0, perr.InvalidArgf("no row count given")
			}
			return 0, perr.WrapIOf(rerr, "read row count")
		}
		n, err := service.ValidateRowCount(strings.TrimSpace(line), maxRows)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(out, "Invalid input: %v\n", err)
		if rerr != nil {
			return 0, err
		}
	}
}

func save(ctx context.Context, fm *featuresmod.Module, ports featuresmod.Ports, opts featuresmod.Options, b domain.Batch) (string, error) {
	switch opts.Sink {
	case featuresmod.SinkPG, featuresmod.SinkCH:
		if err := fm.EnsureSchema(ctx); err != nil {
			return "", err
		}
		if err := ports.DBSink.Write(ctx, b); err != nil {
			return "", err
		}
		return opts.Sink + ":run/" + b.RunID.String(), nil
	}

	dest := outputPath(opts)
	sink, err := table.Sink(opts.Sink, dest)
	if err != nil {
		return "", err
	}
	if err := sink.Write(ctx, b); err != nil {
		return "", err
	}
	return dest, nil
}

// outputPath swaps the default csv extension when another file format is selected
func outputPath(opts featuresmod.Options) string {
	if opts.Sink == table.FormatCSV || filepath.Ext(opts.Output) != ".csv" {
		return opts.Output
	}
	return strings.TrimSuffix(opts.Output, ".csv") + "." + opts.Sink
}

func openStore(ctx context.Context, root config.Conf, sink string) (*store.Store, error) {
	cfg := store.FromConfig(root, "seqfeat")
	if sink == featuresmod.SinkPG && !cfg.PG.Enabled {
		return nil, perr.Unavailablef("sink pg needs SERVICE_PGSQL_DBURL")
	}
	if sink == featuresmod.SinkCH && !cfg.CH.Enabled {
		return nil, perr.Unavailablef("sink ch needs SERVICE_CLICKHOUSE_DBURL")
	}
	// only open the backend that was asked for
	if sink == featuresmod.SinkPG {
		cfg.CH.Enabled = false
	} else {
		cfg.PG.Enabled = false
	}
	return store.Open(ctx, cfg, store.WithLogger(*logger.Get()))
}
