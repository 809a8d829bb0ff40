package edges

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/txgraph/pkg/domain"
)

// Separator joins annotation components. It is the DOT line-break escape, so the
// rendered label keeps one edge per line.
const Separator = `\n`

// TimeGranularity selects which time component is rendered.
type TimeGranularity int

const (
	TimeNone TimeGranularity = iota
	TimeFull
	TimeDate
)

// ParseTimeGranularity converts a flag value into a TimeGranularity.
func ParseTimeGranularity(s string) (TimeGranularity, error) {
	switch s {
	case "", "none":
		return TimeNone, nil
	case "full", "time":
		return TimeFull, nil
	case "date":
		return TimeDate, nil
	}
	return TimeNone, fmt.Errorf("unknown time granularity %q (want none, full or date)", s)
}

func (g TimeGranularity) String() string {
	switch g {
	case TimeFull:
		return "full"
	case TimeDate:
		return "date"
	default:
		return "none"
	}
}

// ValueSet selects which value components are rendered.
type ValueSet struct {
	Native bool
	Fiat   bool
}

// Annotator renders edge annotations for transaction outputs.
type Annotator struct {
	Time   TimeGranularity
	Values ValueSet
}

// Annotate renders the label for an output entry.
// The time component comes first, the value component after it.
func (a Annotator) Annotate(e domain.Entry) string {
	label := a.timeComponent(e) + Separator + a.valueComponent(e)
	return trimSeparators(label)
}

// Label pairs each output with its annotation.
func (a Annotator) Label(outputs []domain.Entry) []Labeled {
	out := make([]Labeled, 0, len(outputs))
	for _, o := range outputs {
		out = append(out, Labeled{Address: o.Recipient, Annotation: a.Annotate(o)})
	}
	return out
}

func (a Annotator) timeComponent(e domain.Entry) string {
	switch a.Time {
	case TimeFull:
		return e.Time
	case TimeDate:
		if e.Date != "" {
			return e.Date
		}
		if len(e.Time) >= 10 {
			return e.Time[:10]
		}
		return e.Time
	default:
		return ""
	}
}

func (a Annotator) valueComponent(e domain.Entry) string {
	var parts []string
	if a.Values.Native {
		parts = append(parts, "BTC"+FormatNative(e.Value))
	}
	if a.Values.Fiat {
		parts = append(parts, "USD"+strconv.FormatFloat(e.ValueUSD, 'f', -1, 64))
	}
	return strings.Join(parts, Separator)
}

// FormatNative renders a satoshi amount in coins with up to 8 fractional digits,
// trimming trailing zeros but keeping at least one.
func FormatNative(sats int64) string {
	sign := ""
	if sats < 0 {
		sign = "-"
		sats = -sats
	}
	whole := sats / domain.SatoshisPerCoin
	frac := fmt.Sprintf("%08d", sats%domain.SatoshisPerCoin)
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	return sign + strconv.FormatInt(whole, 10) + "." + frac
}

func trimSeparators(s string) string {
	for strings.HasPrefix(s, Separator) {
		s = strings.TrimPrefix(s, Separator)
	}
	for strings.HasSuffix(s, Separator) {
		s = strings.TrimSuffix(s, Separator)
	}
	return s
}
