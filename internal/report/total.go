package report

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/Simplici0/expensegen/internal/pricing"
)

// Tally is the outcome of scanning a report for prices.
type Tally struct {
	Total   float64
	Matched int
	Skipped int
}

// SplitEntry splits line on sep into its item and price parts. It fails unless
// sep occurs exactly once. The part starting with the currency marker is the
// price when it comes first; otherwise the right part is.
func SplitEntry(line, sep string) (item, price string, ok bool) {
	if sep == "" || strings.Count(line, sep) != 1 {
		return "", "", false
	}
	left, right, _ := strings.Cut(line, sep)
	if strings.HasPrefix(strings.TrimSpace(left), pricing.CurrencyMarker) {
		return right, left, true
	}
	return left, right, true
}

// SumPrices adds up the price of every line in r that splits cleanly on sep.
// Other lines are counted as skipped. Lines may be of any length.
func SumPrices(r io.Reader, sep string) (Tally, error) {
	var t Tally

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			t.add(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), sep)
		}
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return Tally{}, err
		}
	}
}

func (t *Tally) add(line, sep string) {
	_, raw, ok := SplitEntry(line, sep)
	if !ok {
		t.Skipped++
		return
	}
	price, err := pricing.Parse(raw)
	if err != nil {
		t.Skipped++
		return
	}
	t.Total += price
	t.Matched++
}

// CalculateTotal reads filePath and returns the summed price of every entry
// written with the current ItemFmt, formatted as "$<amount>".
func (e *Engine) CalculateTotal(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", &FileAccessError{Op: "read report", Path: filePath, Err: err}
	}
	defer f.Close()

	sep, err := e.Separator()
	if err != nil {
		return "", err
	}

	tally, err := SumPrices(f, strings.Join(sep, " "))
	if err != nil {
		return "", &FileAccessError{Op: "read report", Path: filePath, Err: err}
	}

	e.logger.Debug("report totalled", "path", filePath, "matched", tally.Matched, "skipped", tally.Skipped)
	return pricing.FormatTotal(tally.Total), nil
}
