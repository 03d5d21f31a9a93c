package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"StockLens/internal/api"
	"StockLens/internal/apperr"
	"StockLens/internal/chart"
	"StockLens/internal/compare"
	"StockLens/internal/export"
	"StockLens/internal/model"
	"StockLens/internal/render"
)

// queryFlags are shared by compare and history.
type queryFlags struct {
	start string
	end   string
	json  bool
	xlsx  string
	png   string
	style string
}

func (q *queryFlags) set(f *flag.FlagSet) {
	f.StringVar(&q.start, "start", "", "start date, YYYYMMDD or YYYY-MM-DD (default Jan 1 of this year)")
	f.StringVar(&q.end, "end", "", "end date (default today)")
	f.BoolVar(&q.json, "json", false, "print JSON instead of a report")
	f.StringVar(&q.xlsx, "xlsx", "", "also write the workbook to this path; a directory gets the default file name")
	f.StringVar(&q.png, "png", "", "also write the chart to this path")
	f.StringVar(&q.style, "style", "auto", "terminal style: auto, dark, light, notty")
}

// exitFor maps an error onto the commander exit status.
func exitFor(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, apperr.ErrValidation) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// xlsxPath resolves a -xlsx argument; directories receive name.
func xlsxPath(arg, name string) string {
	if fi, err := os.Stat(arg); err == nil && fi.IsDir() {
		return filepath.Join(arg, name)
	}
	return arg
}

type compareCmd struct {
	queryFlags
	mode string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare 2 or 3 stocks over a period" }
func (*compareCmd) Usage() string {
	return `stocklens compare [-start d] [-end d] [-mode normalized|absolute] [-json] [-xlsx path] [-png path] <symbol> <symbol> [symbol]

  Symbols are company names (exact KRX listing name) or 6-digit codes.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	c.queryFlags.set(f)
	f.StringVar(&c.mode, "mode", string(model.ModeNormalized), "normalized (start = 100) or absolute")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return exitFor(err)
	}
	defer a.close()

	res, err := a.service.Compare(ctx, compare.Request{
		Symbols: f.Args(),
		Start:   c.start,
		End:     c.end,
		Mode:    model.ParseMode(c.mode),
	})
	if err != nil {
		return exitFor(err)
	}

	if c.xlsx != "" {
		if err := export.SaveCompare(xlsxPath(c.xlsx, export.CompareFileName(res.Start, res.End)), res); err != nil {
			return exitFor(err)
		}
	}
	if c.png != "" {
		if err := writeFile(c.png, func(w *os.File) error { return chart.Compare(w, res) }); err != nil {
			return exitFor(err)
		}
	}

	if c.json {
		if err := printJSON(api.NewCompareDTO(res)); err != nil {
			return exitFor(err)
		}
		return subcommands.ExitSuccess
	}
	out, err := render.Terminal(render.CompareMarkdown(res), c.style)
	if err != nil {
		return exitFor(err)
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

type historyCmd struct {
	queryFlags
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the price history of one stock" }
func (*historyCmd) Usage() string {
	return `stocklens history [-start d] [-end d] [-json] [-xlsx path] [-png path] <symbol>

  Prints the high, low and last close and the last 10 sessions.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) { c.queryFlags.set(f) }

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		return exitFor(err)
	}
	defer a.close()

	h, err := a.service.History(ctx, compare.HistoryRequest{Symbol: f.Arg(0), Start: c.start, End: c.end})
	if err != nil {
		return exitFor(err)
	}

	if !h.Empty() && c.xlsx != "" {
		if err := export.SaveHistory(xlsxPath(c.xlsx, export.HistoryFileName(h.Label, h.Start, h.End)), h); err != nil {
			return exitFor(err)
		}
	}
	if !h.Empty() && c.png != "" {
		if err := writeFile(c.png, func(w *os.File) error { return chart.History(w, h) }); err != nil {
			return exitFor(err)
		}
	}

	if c.json {
		if err := printJSON(api.NewHistoryDTO(h)); err != nil {
			return exitFor(err)
		}
		return subcommands.ExitSuccess
	}
	out, err := render.Terminal(render.HistoryMarkdown(h), c.style)
	if err != nil {
		return exitFor(err)
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

type resolveCmd struct {
	json bool
}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "look up the ticker code of company names" }
func (*resolveCmd) Usage() string {
	return `stocklens resolve [-json] <name or code>...
`
}

func (c *resolveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print JSON")
}

func (c *resolveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		return exitFor(err)
	}
	defer a.close()

	status := subcommands.ExitSuccess
	var out []api.ResolveDTO
	for _, input := range f.Args() {
		code, err := a.resolver.Resolve(ctx, input)
		if err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				return exitFor(err)
			}
			fmt.Fprintf(os.Stderr, "%v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		out = append(out, api.ResolveDTO{Input: input, Code: code})
	}
	if c.json {
		if err := printJSON(out); err != nil {
			return exitFor(err)
		}
		return status
	}
	for _, r := range out {
		fmt.Printf("%s\t%s\n", r.Code, r.Input)
	}
	return status
}

type aboutCmd struct {
	style string
}

func (*aboutCmd) Name() string     { return "about" }
func (*aboutCmd) Synopsis() string { return "describe what StockLens does" }
func (*aboutCmd) Usage() string    { return "stocklens about [-style auto]\n" }

func (c *aboutCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.style, "style", "auto", "terminal style: auto, dark, light, notty")
}

func (c *aboutCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	out, err := render.Terminal(render.AboutMarkdown(), c.style)
	if err != nil {
		return exitFor(err)
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
