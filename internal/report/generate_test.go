package report

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Simplici0/expensegen/internal/inventory"
	"github.com/Simplici0/expensegen/internal/pricing"
)

// scriptedSource replays values, reduced modulo n, then repeats the last one.
type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.values[min(s.next, len(s.values)-1)]
	s.next++
	return v % n
}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 123456000, time.UTC)

func newTestEngine(t *testing.T, inv inventory.Inventory, entries int, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{
		WithSource(rand.New(rand.NewPCG(7, 11))),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	e, err := New(inv, entries, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNew_Defaults(t *testing.T) {
	e := newTestEngine(t, inventory.Inventory{pricing.Cheap: {"X"}}, DefaultEntries)

	if e.ItemFmt != "{item} = {price}" {
		t.Fatalf("ItemFmt=%q", e.ItemFmt)
	}
	if !e.AutoAlign {
		t.Fatalf("expected AutoAlign to default to true")
	}
	if e.Entries != 5 {
		t.Fatalf("Entries=%d, want 5", e.Entries)
	}
	if len(e.Template) == 0 || !strings.Contains(strings.Join(e.Template, "\n"), "{report}") {
		t.Fatalf("default template missing {report}: %q", e.Template)
	}

	inv := e.Inventory()
	if got := inv[pricing.Medium]; len(got) != 1 || got[0] != "_Default$$Item" {
		t.Fatalf("$$ tier=%q", got)
	}
	if got := inv[pricing.Expensive]; len(got) != 1 || got[0] != "_Default$$$Item" {
		t.Fatalf("$$$ tier=%q", got)
	}
}

func TestParseTemplate_TrimsTrailingWhitespace(t *testing.T) {
	got := ParseTemplate("TITLE  \r\n{report}\t\n  indented\n")
	want := []string{"TITLE", "{report}", "  indented"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("ParseTemplate=%q, want %q", got, want)
	}
	if got := ParseTemplate(""); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
}

func TestGenerateReport_GumScenario(t *testing.T) {
	// tier 0 ($), item 0, dollar offset 2 => $3, cents 7.
	src := &scriptedSource{values: []int{0, 0, 2, 7}}
	e := newTestEngine(t, inventory.Inventory{pricing.Cheap: {"Gum"}}, 1, WithSource(src))
	e.ItemFmt = "{item} = {price}"
	e.Template = []string{"{report}"}

	path := filepath.Join(t.TempDir(), "report.txt")
	if err := e.GenerateReport(path, nil); err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	line := string(data)
	if !regexp.MustCompile(`^Gum = \$[1-4]\.\d{2}$`).MatchString(line) {
		t.Fatalf("line=%q does not match Gum = $D.CC", line)
	}
	if line != "Gum = $3.07" {
		t.Fatalf("line=%q, want %q", line, "Gum = $3.07")
	}

	total, err := e.CalculateTotal(path)
	if err != nil {
		t.Fatalf("CalculateTotal: %v", err)
	}
	if total != "$3.07" {
		t.Fatalf("total=%q, want %q", total, "$3.07")
	}
}

func TestGenerateReport_DefaultTemplateInjectsNameAndDatetime(t *testing.T) {
	e := newTestEngine(t, nil, 3)

	path := filepath.Join(t.TempDir(), "report.txt")
	if err := e.GenerateReport(path, map[string]string{}); err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	doc := string(data)

	if !strings.Contains(doc, "NAME: _DefaultName") {
		t.Fatalf("default name not injected:\n%s", doc)
	}
	if !strings.Contains(doc, "GENERATED ON: 2024-03-09 14:05:07.123456") {
		t.Fatalf("datetime not injected:\n%s", doc)
	}
	if strings.Contains(doc, "{") {
		t.Fatalf("unsubstituted placeholder left:\n%s", doc)
	}
}

func TestGenerateReport_CallerFieldsWin(t *testing.T) {
	e := newTestEngine(t, nil, 2)
	e.Template = []string{"NAME: {name}", "ON: {datetime}", "DEPT: {dept}", "{report}"}

	doc, err := e.Render(map[string]string{
		"name":     "Nicolas",
		"datetime": "today",
		"dept":     "Groceries",
		"report":   "ignored",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(doc, "\n")
	if lines[0] != "NAME: Nicolas" || lines[1] != "ON: today" || lines[2] != "DEPT: Groceries" {
		t.Fatalf("caller fields not applied:\n%s", doc)
	}
	if len(lines) != 5 || lines[3] == "ignored" {
		t.Fatalf("report body not generated:\n%s", doc)
	}
}

func TestGenerateReport_MissingField(t *testing.T) {
	e := newTestEngine(t, nil, 1)
	e.Template = []string{"{report}", "APPROVED BY: {approver}"}

	path := filepath.Join(t.TempDir(), "report.txt")
	err := e.GenerateReport(path, nil)

	var mfe *MissingFieldError
	if !errors.As(err, &mfe) || mfe.Field != "approver" {
		t.Fatalf("err=%v, want MissingFieldError for approver", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("report written despite failure: %v", statErr)
	}
}

func TestGenerateReport_MissingPlaceholder(t *testing.T) {
	e := newTestEngine(t, nil, 0)
	e.ItemFmt = "{item} costs"

	err := e.GenerateReport(filepath.Join(t.TempDir(), "report.txt"), nil)
	if !errors.Is(err, ErrMissingPlaceholder) {
		t.Fatalf("err=%v, want ErrMissingPlaceholder", err)
	}
}

func TestGenerateReport_UnknownPlaceholderInItemFmt(t *testing.T) {
	e := newTestEngine(t, nil, 1)
	e.ItemFmt = "{item} = {price} ({qty})"

	_, err := e.Render(nil)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("err=%v, want ErrMissingField", err)
	}
}

func TestGenerateReport_ZeroEntries(t *testing.T) {
	e := newTestEngine(t, nil, 0)
	e.Template = []string{"HEADER", "{report}", "FOOTER"}

	doc, err := e.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if doc != "HEADER\n\nFOOTER" {
		t.Fatalf("doc=%q", doc)
	}
}

func TestGenerateReport_OverwritesExistingFile(t *testing.T) {
	e := newTestEngine(t, nil, 1)
	e.Template = []string{"{report}"}

	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale content\n", 50)), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := e.GenerateReport(path, nil); err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Fatalf("old content survived: %q", data)
	}
}

func TestGenerateReport_UnwritablePath(t *testing.T) {
	e := newTestEngine(t, nil, 1)

	path := filepath.Join(t.TempDir(), "missing-dir", "report.txt")
	err := e.GenerateReport(path, nil)
	if !errors.Is(err, ErrFileAccess) {
		t.Fatalf("err=%v, want ErrFileAccess", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected underlying not-exist error, got %v", err)
	}
}

func TestGenerateEntries_AutoAlign(t *testing.T) {
	e := newTestEngine(t, nil, 20)
	e.ItemFmt = "{price} = {item}"

	entries, err := e.GenerateEntries()
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}
	if len(entries) != 20 {
		t.Fatalf("len(entries)=%d, want 20", len(entries))
	}
	assertSameColumn(t, entries, "=")
	for _, entry := range entries {
		if !strings.HasPrefix(entry, "$") {
			t.Fatalf("entry %q does not start with its price", entry)
		}
	}
}

func TestGenerateEntries_UsesOnlyInventoryItems(t *testing.T) {
	inv := inventory.Inventory{
		pricing.Cheap:     {"Gum", "Cookies"},
		pricing.Medium:    {"Milk"},
		pricing.Expensive: {"Steak"},
	}
	e := newTestEngine(t, inv, 200)
	e.AutoAlign = false

	entries, err := e.GenerateEntries()
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}

	tierOf := map[string]pricing.Tier{"Gum": pricing.Cheap, "Cookies": pricing.Cheap, "Milk": pricing.Medium, "Steak": pricing.Expensive}
	priceRe := regexp.MustCompile(`^\$(\d+)\.\d{2}$`)
	for _, entry := range entries {
		item, price, ok := strings.Cut(entry, " = ")
		if !ok {
			t.Fatalf("entry %q not in item format", entry)
		}
		tier, known := tierOf[item]
		if !known {
			t.Fatalf("entry %q uses an item outside the inventory", entry)
		}
		m := priceRe.FindStringSubmatch(price)
		if m == nil {
			t.Fatalf("price %q malformed", price)
		}
		bounds, _ := pricing.DollarRange(tier)
		var dollars int
		for _, c := range m[1] {
			dollars = dollars*10 + int(c-'0')
		}
		if dollars < bounds.Min || dollars > bounds.Max {
			t.Fatalf("entry %q: dollars outside %+v", entry, bounds)
		}
	}
}
