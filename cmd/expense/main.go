// Expense generates random expense reports and totals existing ones.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Simplici0/expensegen/internal/config"
	"github.com/Simplici0/expensegen/internal/inventory"
	"github.com/Simplici0/expensegen/internal/logging"
	"github.com/Simplici0/expensegen/internal/report"
)

// usage prints command-line help to stderr.
func usage() {
	fmt.Fprint(os.Stderr, `expense
Random expense report generator

Usage:
  expense generate -o <file> [options]   Write a report and print its total
  expense total [-fmt <format>] <file>   Print the total of an existing report
  expense help                           Show this help message

Generate options:
  -o <file>           Output file (required)
  -n <count>          Number of entries (default REPORT_ENTRIES or 5)
  -fmt <format>       Entry format with {item} and {price} (default "{item} = {price}")
  -align              Align entry separators (default true)
  -inventory <file>   YAML or JSON inventory keyed by "$", "$$" and "$$$"
  -template <file>    Report template containing {report}
  -name <name>        Value for {name}
  -set key=value      Value for any other template field (repeatable)

Examples:
  expense generate -o report.txt -n 50 -name Nicolas
  expense generate -o report.txt -fmt "{price} = {item}" -set dept=Groceries
  expense total -fmt "{price} = {item}" report.txt
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := config.Load()
	logger := logging.New(os.Stderr, "expense", cfg.LogLevel)

	cmd := strings.ToLower(os.Args[1])
	args := os.Args[2:]

	var err error
	switch cmd {
	case "help", "-h", "--help":
		usage()
		return
	case "generate", "gen":
		err = cmdGenerate(args, cfg, os.Stdout, logger)
	case "total":
		err = cmdTotal(args, cfg, os.Stdout, logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Fatal("command failed", "cmd", cmd, "err", err)
	}
}

// fieldFlags collects repeated -set key=value pairs.
type fieldFlags map[string]string

func (f fieldFlags) String() string {
	pairs := make([]string, 0, len(f))
	for k, v := range f {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (f fieldFlags) Set(value string) error {
	k, v, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	f[strings.TrimSpace(k)] = v
	return nil
}

func cmdGenerate(args []string, cfg config.Config, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	output := fs.String("o", "", "output file")
	entries := fs.Int("n", cfg.Entries, "number of entries")
	itemFmt := fs.String("fmt", cfg.ItemFmt, "entry format")
	align := fs.Bool("align", cfg.AutoAlign, "align entry separators")
	inventoryPath := fs.String("inventory", cfg.InventoryPath, "inventory file")
	templatePath := fs.String("template", "", "template file")
	name := fs.String("name", "", "value for {name}")
	fields := fieldFlags{}
	fs.Var(fields, "set", "template field as key=value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return errors.New("output file is required (-o)")
	}

	engine, err := newEngine(*inventoryPath, *entries, logger)
	if err != nil {
		return err
	}
	engine.ItemFmt = *itemFmt
	engine.AutoAlign = *align

	if *templatePath != "" {
		data, err := os.ReadFile(*templatePath)
		if err != nil {
			return fmt.Errorf("read template file: %w", err)
		}
		engine.Template = report.ParseTemplate(string(data))
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "name" {
			fields["name"] = *name
		}
	})

	if err := engine.GenerateReport(*output, fields); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	logger.Info("report generated", "path", *output, "entries", *entries)

	total, err := engine.CalculateTotal(*output)
	if err != nil {
		return fmt.Errorf("calculate total: %w", err)
	}
	fmt.Fprintln(stdout, total)
	return nil
}

func cmdTotal(args []string, cfg config.Config, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("total", flag.ContinueOnError)
	itemFmt := fs.String("fmt", cfg.ItemFmt, "entry format the report was written with")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("exactly one report file is required")
	}

	// Totals never draw items, so the bundled inventory is enough.
	engine, err := newEngine("", 0, logger)
	if err != nil {
		return err
	}
	engine.ItemFmt = *itemFmt

	total, err := engine.CalculateTotal(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("calculate total: %w", err)
	}
	fmt.Fprintln(stdout, total)
	return nil
}

func newEngine(inventoryPath string, entries int, logger *log.Logger) (*report.Engine, error) {
	var inv inventory.Inventory
	if inventoryPath != "" {
		loaded, err := inventory.Load(inventoryPath)
		if err != nil {
			return nil, err
		}
		inv = loaded
	}

	engine, err := report.New(inv, entries, report.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create report engine: %w", err)
	}
	return engine, nil
}
