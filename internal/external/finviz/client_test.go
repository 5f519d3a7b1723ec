package finviz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/config"
	"github.com/wonny/dailypicks/pkg/httputil"
	"github.com/wonny/dailypicks/pkg/logger"
)

const sampleHTML = `
<html>
<body>
<table class="snapshot-table2">
	<tr>
		<td>Index</td><td>NDX, S&amp;P 500</td>
		<td>P/E</td><td>35.42</td>
		<td>EPS (ttm)</td><td>6.51</td>
		<td>Insider Own</td><td>0.10%</td>
	</tr>
	<tr>
		<td>EPS this Y</td><td>26.50%</td>
		<td>EPS Q/Q</td><td>31.20%</td>
		<td>Sales Q/Q</td><td>-</td>
		<td>Inst Own</td><td>61.84%</td>
	</tr>
</table>
</body>
</html>
`

func TestParseSnapshot(t *testing.T) {
	snap, err := parseSnapshot(sampleHTML)
	require.NoError(t, err)

	assert.Equal(t, "35.42", snap["P/E"])
	assert.Equal(t, "NDX, S&P 500", snap["Index"])

	f := snap.fundamentals()
	assert.Equal(t, 35.42, f.TrailingPE)
	assert.Equal(t, 6.51, f.EPSTrailing)
	require.NotNil(t, f.EPSGrowthQoQ)
	assert.Equal(t, 31.2, *f.EPSGrowthQoQ)
	require.NotNil(t, f.EPSGrowthThisYear)
	assert.Equal(t, 26.5, *f.EPSGrowthThisYear)
	require.NotNil(t, f.InstOwnership)
	assert.Equal(t, 61.84, *f.InstOwnership)
	assert.Nil(t, f.SalesGrowthQoQ, "dash means missing")
}

func TestParseSnapshot_NoTable(t *testing.T) {
	_, err := parseSnapshot(`<html><body><p>Not found</p></body></html>`)
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFundamentals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote.ashx", r.URL.Path)
		if r.URL.Query().Get("t") != "AAPL" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(sampleHTML))
	}))
	defer server.Close()

	cfg := &config.Config{Fetch: config.FetchConfig{Timeout: 5 * time.Second}}
	c := NewClient(httputil.New(cfg, logger.Nop()), server.URL+"/", logger.Nop())

	f, err := c.Fundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, f.InstOwnership)
	assert.Equal(t, 61.84, *f.InstOwnership)

	_, err = c.Fundamentals(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZZZZ")
}
