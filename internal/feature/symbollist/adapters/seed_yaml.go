package adapters

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stock_chart/internal/feature/symbollist/domain/entity"
)

// LoadSeedFile reads a YAML watchlist. Entries without an explicit
// active flag are active, and missing sort keys follow file order.
func LoadSeedFile(path string) ([]entity.Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML watchlist document.
func ParseSeed(data []byte) ([]entity.Symbol, error) {
	var raw struct {
		Symbols []struct {
			Code    string `yaml:"code"`
			Name    string `yaml:"name"`
			Market  string `yaml:"market"`
			Active  *bool  `yaml:"active"`
			SortKey *int   `yaml:"sort_key"`
		} `yaml:"symbols"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse watchlist seed: %w", err)
	}

	out := make([]entity.Symbol, 0, len(raw.Symbols))
	seen := make(map[string]struct{}, len(raw.Symbols))
	for i, s := range raw.Symbols {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		if code == "" {
			return nil, fmt.Errorf("parse watchlist seed: entry %d has no code", i+1)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("parse watchlist seed: duplicate code %q", code)
		}
		seen[code] = struct{}{}

		sym := entity.Symbol{Code: code, Name: s.Name, Market: s.Market, IsActive: true, SortKey: i + 1}
		if sym.Name == "" {
			sym.Name = code
		}
		if s.Active != nil {
			sym.IsActive = *s.Active
		}
		if s.SortKey != nil {
			sym.SortKey = *s.SortKey
		}
		out = append(out, sym)
	}
	return out, nil
}
