// Package report generates expense report text files from a tiered inventory
// and recomputes the total cost of a previously written report.
package report

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/Simplici0/expensegen/internal/inventory"
	"github.com/Simplici0/expensegen/internal/pricing"
)

const (
	// DefaultEntries is the number of entries used when the caller has no preference.
	DefaultEntries = 5
	// DefaultItemFmt renders an entry as "Gum = $1.23".
	DefaultItemFmt = ItemPlaceholder + " = " + PricePlaceholder
	// DefaultName is injected for {name} when the caller supplies none.
	DefaultName = "_DefaultName"

	datetimeLayout = "2006-01-02 15:04:05.000000"
)

//go:embed templates/default.txt
var defaultTemplate string

// DefaultTemplate returns the bundled report template lines.
func DefaultTemplate() []string {
	return ParseTemplate(defaultTemplate)
}

// ParseTemplate splits text into lines with trailing whitespace removed.
// A final line terminator does not produce an extra empty line.
func ParseTemplate(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return lines
}

// Engine holds report configuration. Fields may be changed freely between
// calls; they are validated when a report is generated or parsed. An Engine
// is not safe for concurrent use.
type Engine struct {
	Template  []string
	ItemFmt   string
	AutoAlign bool
	Entries   int

	inventory    inventory.Inventory
	src          pricing.Source
	logger       *log.Logger
	now          func() time.Time
	displayWidth bool
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithSource sets the random source used to pick items and prices.
func WithSource(src pricing.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithLogger sets the logger; engines are silent by default.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the clock used for the {datetime} field.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDisplayWidth aligns entries by terminal display width instead of
// character count.
func WithDisplayWidth() Option {
	return func(e *Engine) { e.displayWidth = true }
}

// New builds an engine over inv, filling tiers the caller left out with
// sentinel items. An empty inv loads the bundled default inventory.
func New(inv inventory.Inventory, entries int, opts ...Option) (*Engine, error) {
	resolved, err := inventory.Resolve(inv)
	if err != nil {
		return nil, fmt.Errorf("resolve inventory: %w", err)
	}

	e := &Engine{
		Template:  DefaultTemplate(),
		ItemFmt:   DefaultItemFmt,
		AutoAlign: true,
		Entries:   entries,
		inventory: resolved,
		src:       pricing.DefaultSource(),
		logger:    log.New(io.Discard),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Inventory returns a copy of the engine's inventory.
func (e *Engine) Inventory() inventory.Inventory {
	return e.inventory.Clone()
}

// Separator infers the separator words from the current ItemFmt.
func (e *Engine) Separator() ([]string, error) {
	return InferSeparator(e.ItemFmt)
}

// AlignEntries aligns entries on the separator of the current ItemFmt.
func (e *Engine) AlignEntries(entries []string) ([]string, error) {
	sep, err := e.Separator()
	if err != nil {
		return nil, err
	}
	return e.align(entries, sep), nil
}

func (e *Engine) align(entries, sep []string) []string {
	if e.displayWidth {
		return AlignEntriesDisplay(entries, sep)
	}
	return AlignEntries(entries, sep)
}
