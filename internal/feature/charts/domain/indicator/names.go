package indicator

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies one of the supported indicators.
type Name string

const (
	Volume         Name = "Volume"
	MACD           Name = "MACD"
	RSI            Name = "RSI"
	WilliamsR      Name = "WilliamsR"
	BollingerBands Name = "BollingerBands"
)

// All lists every supported indicator in chart order.
var All = []Name{Volume, MACD, RSI, WilliamsR, BollingerBands}

// ErrUnknownIndicator is returned by ParseNames for names outside All.
var ErrUnknownIndicator = errors.New("unknown indicator")

// aliases maps lower-cased spellings accepted from users to canonical names.
var aliases = map[string]Name{
	"volume":         Volume,
	"vol":            Volume,
	"macd":           MACD,
	"rsi":            RSI,
	"williamsr":      WilliamsR,
	"williams%r":     WilliamsR,
	"willr":          WilliamsR,
	"%r":             WilliamsR,
	"bollingerbands": BollingerBands,
	"bollinger":      BollingerBands,
	"bbands":         BollingerBands,
	"bb":             BollingerBands,
}

// ParseNames parses a comma-separated list of indicator names.
// An empty list selects every indicator. Duplicates are dropped.
func ParseNames(csv string) ([]Name, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return append([]Name(nil), All...), nil
	}
	seen := make(map[Name]struct{})
	var out []Name
	for _, part := range strings.Split(csv, ",") {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(part), " ", ""))
		if key == "" {
			continue
		}
		n, ok := aliases[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, strings.TrimSpace(part))
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		return append([]Name(nil), All...), nil
	}
	return out, nil
}
