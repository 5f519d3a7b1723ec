package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wonny/dailypicks/internal/contracts"
)

// Recorder collects per-run metrics on a private registry
// so a one-shot run can export them to a node_exporter textfile.
type Recorder struct {
	registry *prometheus.Registry

	symbols     *prometheus.GaugeVec
	passPicks   *prometheus.GaugeVec
	picks       *prometheus.GaugeVec
	duration    *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
	runs        *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		symbols: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dailypicks_symbols",
				Help: "Symbols per fetch outcome in the last run",
			},
			[]string{"outcome"},
		),
		passPicks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dailypicks_pass_accepted",
				Help: "Picks accepted per scoring pass in the last run",
			},
			[]string{"pass"},
		),
		picks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dailypicks_picks",
				Help: "Published picks per rating in the last run",
			},
			[]string{"rating"},
		),
		duration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dailypicks_stage_duration_seconds",
				Help: "Duration of each stage in the last run",
			},
			[]string{"stage"},
		),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dailypicks_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailypicks_runs_total",
				Help: "Runs by result since process start",
			},
			[]string{"result"},
		),
	}
}

// RecordFetch records the fetch outcome
func (r *Recorder) RecordFetch(requested, fetched, dropped int) {
	r.symbols.WithLabelValues("requested").Set(float64(requested))
	r.symbols.WithLabelValues("fetched").Set(float64(fetched))
	r.symbols.WithLabelValues("dropped").Set(float64(dropped))
}

// RecordPass records how many picks one pass accepted
func (r *Recorder) RecordPass(pass string, accepted int) {
	r.passPicks.WithLabelValues(pass).Set(float64(accepted))
}

// RecordPicks records the published document's rating mix
func (r *Recorder) RecordPicks(doc contracts.DailyStocks) {
	for _, rating := range []contracts.Rating{contracts.RatingStrongBuy, contracts.RatingBuy, contracts.RatingHold, contracts.RatingSell} {
		r.picks.WithLabelValues(string(rating)).Set(float64(doc.CountByRating(rating)))
	}
	r.picks.WithLabelValues("total").Set(float64(doc.TotalPicks))
}

// RecordDuration records a stage duration
func (r *Recorder) RecordDuration(stage string, d time.Duration) {
	r.duration.WithLabelValues(stage).Set(d.Seconds())
}

// RecordRun records a finished run
func (r *Recorder) RecordRun(err error, at time.Time) {
	if err != nil {
		r.runs.WithLabelValues("failure").Inc()
		return
	}
	r.runs.WithLabelValues("success").Inc()
	r.lastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile atomically writes every metric in text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
