package universe

// Category is a hand-curated group of tickers
type Category struct {
	Name    string   `json:"name" yaml:"name"`
	Symbols []string `json:"symbols" yaml:"symbols"`
}

// Universe is the ordered screening list.
// The list is taken as-is: no dedupe, no validation.
// ⭐ SSOT: 스크리닝 대상 종목 목록
type Universe struct {
	Categories []Category `json:"categories"`
}

// Default returns the compiled-in universe (large caps, growth, and a momentum/penny tail)
func Default() Universe {
	return Universe{
		Categories: []Category{
			{Name: "Large Cap Tech", Symbols: []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "NFLX"}},
			{Name: "Growth", Symbols: []string{"AMD", "INTC", "CRM", "ADBE", "PYPL", "NOW", "SNOW", "PLTR"}},
			{Name: "Financials", Symbols: []string{"JPM", "BAC", "GS", "MS", "V", "MA"}},
			{Name: "Consumer", Symbols: []string{"WMT", "TGT", "HD", "NKE", "SBUX"}},
			{Name: "Energy", Symbols: []string{"XOM", "CVX", "SLB"}},
			{Name: "Healthcare", Symbols: []string{"JNJ", "PFE", "UNH", "ABBV"}},
			{Name: "Penny/Momentum", Symbols: []string{"GME", "AMC", "BB", "SNDL", "NAKD"}},
			{Name: "Additional Momentum", Symbols: []string{"RIVN", "LCID", "F", "GM"}},
		},
	}
}

// Symbols flattens categories in declaration order
func (u Universe) Symbols() []string {
	symbols := make([]string, 0, u.Count())
	for _, c := range u.Categories {
		symbols = append(symbols, c.Symbols...)
	}
	return symbols
}

// Count returns the number of entries, duplicates included
func (u Universe) Count() int {
	n := 0
	for _, c := range u.Categories {
		n += len(c.Symbols)
	}
	return n
}

// CategoryOf returns the first category listing the symbol
func (u Universe) CategoryOf(symbol string) (string, bool) {
	for _, c := range u.Categories {
		for _, s := range c.Symbols {
			if s == symbol {
				return c.Name, true
			}
		}
	}
	return "", false
}
