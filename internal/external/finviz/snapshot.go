package finviz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/dailypicks/internal/contracts"
)

// snapshot maps the quote page's label cells to their value text
type snapshot map[string]string

// parseSnapshot reads the label/value pairs from the snapshot table
func parseSnapshot(html string) (snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	// Finviz HTML 구조: 라벨/값 셀이 번갈아 나옴
	table := doc.Find("table.snapshot-table2").First()
	if table.Length() == 0 {
		return nil, contracts.ErrNoData
	}

	snap := make(snapshot)
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		for i := 0; i+1 < cells.Length(); i += 2 {
			label := strings.TrimSpace(cells.Eq(i).Text())
			if label == "" {
				continue
			}
			snap[label] = strings.TrimSpace(cells.Eq(i + 1).Text())
		}
	})

	if len(snap) == 0 {
		return nil, contracts.ErrNoData
	}
	return snap, nil
}

// percent parses "25.30%" style cells; "-" and blanks are missing
func (s snapshot) percent(label string) *float64 {
	raw, ok := s[label]
	if !ok {
		return nil
	}

	raw = strings.TrimSuffix(strings.ReplaceAll(raw, ",", ""), "%")
	if raw == "" || raw == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (s snapshot) number(label string) float64 {
	if v := s.percent(label); v != nil {
		return *v
	}
	return 0
}

// fundamentals maps the cells the scorers use.
// "EPS next Y" is skipped: the page uses that label for both the estimate and its growth.
func (s snapshot) fundamentals() contracts.Fundamentals {
	return contracts.Fundamentals{
		EPSTrailing:       s.number("EPS (ttm)"),
		TrailingPE:        s.number("P/E"),
		EPSGrowthQoQ:      s.percent("EPS Q/Q"),
		EPSGrowthThisYear: s.percent("EPS this Y"),
		SalesGrowthQoQ:    s.percent("Sales Q/Q"),
		InstOwnership:     s.percent("Inst Own"),
	}
}
