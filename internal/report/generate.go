package report

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/Simplici0/expensegen/internal/pricing"
)

// GenerateEntries renders Entries random lines with ItemFmt, aligned when
// AutoAlign is set.
func (e *Engine) GenerateEntries() ([]string, error) {
	sep, err := e.Separator()
	if err != nil {
		return nil, err
	}

	n := max(e.Entries, 0)
	entries := make([]string, 0, n)
	for range n {
		item, price, err := e.randomItemAndPrice()
		if err != nil {
			return nil, err
		}
		line, err := substitute(e.ItemFmt, map[string]string{"item": item, "price": price})
		if err != nil {
			return nil, fmt.Errorf("render entry: %w", err)
		}
		entries = append(entries, line)
	}

	if e.AutoAlign {
		entries = e.align(entries, sep)
	}
	return entries, nil
}

func (e *Engine) randomItemAndPrice() (string, string, error) {
	tier := pricing.Tiers[e.src.IntN(len(pricing.Tiers))]
	items := e.inventory[tier]
	item := items[e.src.IntN(len(items))]

	price, err := pricing.Random(tier, e.src)
	if err != nil {
		return "", "", err
	}
	return item, price, nil
}

// Render builds the report document without writing it. fields supplies
// values for template placeholders; {report} is always the generated entries.
func (e *Engine) Render(fields map[string]string) (string, error) {
	entries, err := e.GenerateEntries()
	if err != nil {
		return "", err
	}

	merged := make(map[string]string, len(fields)+3)
	maps.Copy(merged, fields)
	merged["report"] = strings.Join(entries, "\n")

	skeleton := strings.Join(e.Template, "\n")
	if _, ok := merged["name"]; !ok && strings.Contains(skeleton, "{name}") {
		merged["name"] = DefaultName
	}
	if _, ok := merged["datetime"]; !ok && strings.Contains(skeleton, "{datetime}") {
		merged["datetime"] = e.now().Format(datetimeLayout)
	}

	doc, err := substitute(skeleton, merged)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}

	e.logger.Debug("report rendered", "entries", len(entries), "aligned", e.AutoAlign)
	return doc, nil
}

// GenerateReport renders a report and writes it to outputPath, replacing any
// existing content.
func (e *Engine) GenerateReport(outputPath string, fields map[string]string) error {
	doc, err := e.Render(fields)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(doc), 0o644); err != nil {
		return &FileAccessError{Op: "write report", Path: outputPath, Err: err}
	}

	e.logger.Debug("report written", "path", outputPath)
	return nil
}
