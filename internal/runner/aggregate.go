package runner

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hodq/hodq/internal/catalog"
	"github.com/hodq/hodq/internal/engine"
)

var printer = message.NewPrinter(language.English)

// Summarize reduces the named field of the collected rows to a single
// number. Rows where the field is unbound are skipped; a bound non-numeric
// value fails with a *engine.CoercionError.
//
// Reducers:
//
//	sum   total of the field across rows
//	avg   mean of the field across rows with the field bound (0 for none)
//	ratio sum over rows whose match field equals one of the match values,
//	      divided by the sum over all rows (0 when the denominator is 0)
func Summarize(rows []engine.Row, sum *catalog.Summary) (float64, error) {
	switch sum.Reducer {
	case catalog.ReducerSum:
		total, _, err := sumField(rows, sum.Field)
		return total, err
	case catalog.ReducerAvg:
		total, n, err := sumField(rows, sum.Field)
		if err != nil || n == 0 {
			return 0, err
		}
		return total / float64(n), nil
	case catalog.ReducerRatio:
		return ratio(rows, sum)
	}
	return 0, fmt.Errorf("unknown reducer %q", sum.Reducer)
}

// FormatSummary renders a reduced value per the summary's display options:
// grouped currency with two fraction digits, a percentage with one fraction
// digit, or a plain grouped number.
func FormatSummary(v float64, sum *catalog.Summary) string {
	switch {
	case sum.Percent:
		return fmt.Sprintf("%.1f%%", v*100)
	case sum.Currency:
		return printer.Sprintf("$%.2f", v)
	default:
		return printer.Sprintf("%.2f", v)
	}
}

func sumField(rows []engine.Row, field string) (total float64, n int, err error) {
	for _, row := range rows {
		v, ok := row.Get(field)
		if !ok {
			continue
		}
		f, err := v.Float()
		if err != nil {
			return 0, 0, err
		}
		total += f
		n++
	}
	return total, n, nil
}

func ratio(rows []engine.Row, sum *catalog.Summary) (float64, error) {
	var num, den float64
	for _, row := range rows {
		v, ok := row.Get(sum.Field)
		if !ok {
			continue
		}
		f, err := v.Float()
		if err != nil {
			return 0, err
		}
		den += f
		if matches(row, sum.MatchField, sum.MatchValues) {
			num += f
		}
	}
	if den == 0 {
		return 0, nil
	}
	return num / den, nil
}

func matches(row engine.Row, field string, values []string) bool {
	v, ok := row.Get(field)
	if !ok {
		return false
	}
	for _, want := range values {
		if v.Display() == want {
			return true
		}
	}
	return false
}
