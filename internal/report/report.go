package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/internal/picks"
)

// Reporter prints run progress and the closing summary for humans.
// Colors are dropped automatically when out is not a terminal.
// ⭐ SSOT: 콘솔 출력 포맷은 여기서만
type Reporter struct {
	out         io.Writer
	showDropped bool

	header  lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
	ratings map[contracts.Rating]lipgloss.Style
}

// New creates a reporter writing to out
func New(out io.Writer) *Reporter {
	r := lipgloss.NewRenderer(out)

	return &Reporter{
		out:     out,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		ratings: map[contracts.Rating]lipgloss.Style{
			contracts.RatingStrongBuy: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
			contracts.RatingBuy:       r.NewStyle().Foreground(lipgloss.Color("#34D399")),
			contracts.RatingHold:      r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
			contracts.RatingSell:      r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		},
	}
}

// WithDropped lists symbols without data under the fetch line.
// Off by default; the fetcher already logs them as a warning.
func (r *Reporter) WithDropped(show bool) *Reporter {
	r.showDropped = show
	return r
}

// Start announces a run
func (r *Reporter) Start() {
	fmt.Fprintln(r.out, r.header.Render("📈 Generating daily stock picks..."))
	fmt.Fprintln(r.out)
}

// Fetching announces the bulk fetch
func (r *Reporter) Fetching(count int) {
	fmt.Fprintf(r.out, "📊 Fetching stock data for %d symbols...\n", count)
}

// Fetched reports the fetch outcome
func (r *Reporter) Fetched(records int, dropped []string) {
	fmt.Fprintln(r.out, r.success.Render(fmt.Sprintf("✅ Fetched data for %d stocks", records)))
	if r.showDropped && len(dropped) > 0 {
		fmt.Fprintln(r.out, r.warn.Render(fmt.Sprintf("⚠️  No data for %d symbols: %v", len(dropped), dropped)))
	}
}

// Pass prints one pass's accepted picks
func (r *Reporter) Pass(pr picks.PassResult) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.header.Render(fmt.Sprintf("🔍 Running %s...", PassTitle(pr.Pass))))
	for _, p := range pr.Accepted {
		fmt.Fprintf(r.out, "  ✓ %s: %s/100 (%s)\n", p.Symbol, FormatScore(p.Score), r.rating(p.Rating))
	}
	if len(pr.Accepted) == 0 {
		fmt.Fprintln(r.out, r.muted.Render("  (no picks above "+FormatScore(pr.Pass.MinScore)+")"))
	}
}

// Saved reports where the document landed
func (r *Reporter) Saved(doc contracts.DailyStocks, paths []string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.success.Render(fmt.Sprintf("✅ Generated %d stock picks", doc.TotalPicks)))
	for i, p := range paths {
		if i == 0 {
			fmt.Fprintf(r.out, "📁 Saved to: %s\n", p)
		} else {
			fmt.Fprintf(r.out, "📁 Also saved to: %s\n", p)
		}
	}
}

// Summary prints rating counts and the top pick
func (r *Reporter) Summary(doc contracts.DailyStocks) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.header.Render("📊 Summary:"))
	for _, rating := range []contracts.Rating{contracts.RatingStrongBuy, contracts.RatingBuy, contracts.RatingHold} {
		fmt.Fprintf(r.out, "  • %s: %d\n", r.rating(rating), doc.CountByRating(rating))
	}

	if top, ok := doc.TopPick(); ok {
		fmt.Fprintf(r.out, "  • Top Pick: %s (%s/100)\n", top.Symbol, FormatScore(top.Score))
	} else {
		fmt.Fprintf(r.out, "  • Top Pick: %s\n", r.muted.Render("none"))
	}
}

func (r *Reporter) rating(rating contracts.Rating) string {
	if s, ok := r.ratings[rating]; ok {
		return s.Render(string(rating))
	}
	return string(rating)
}

// PassTitle names a pass for humans
func PassTitle(p picks.Pass) string {
	switch p.Strategy {
	case contracts.StrategyCANSLIM:
		return "CAN SLIM Growth Screener"
	case contracts.StrategyMomentum:
		switch p.Window {
		case contracts.Window7D:
			return "Technical Momentum Screener (7-day)"
		case contracts.Window24H:
			return "Technical Momentum Screener (24h)"
		}
		return fmt.Sprintf("Technical Momentum Screener (%s)", p.Window)
	case contracts.StrategyComposite:
		return "Composite Rating Engine"
	default:
		return p.Name()
	}
}

// FormatScore drops a zero fraction: 70 -> "70", 72.5 -> "72.5"
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
