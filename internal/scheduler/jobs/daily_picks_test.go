package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/internal/pipeline"
	"github.com/wonny/dailypicks/pkg/logger"
)

type fakeRunner struct {
	err   error
	calls int
}

func (r *fakeRunner) Run(context.Context) (*pipeline.Result, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &pipeline.Result{RunID: "run-1", Document: contracts.DailyStocks{TotalPicks: 3}}, nil
}

func TestDailyPicksJob(t *testing.T) {
	runner := &fakeRunner{}
	job := NewDailyPicksJob(runner, "0 30 6 * * 1-5", logger.Nop())

	assert.Equal(t, "daily_picks", job.Name())
	assert.Equal(t, "0 30 6 * * 1-5", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, runner.calls)
}

func TestDailyPicksJob_Error(t *testing.T) {
	runner := &fakeRunner{err: errors.New("fetch market data: context canceled")}
	job := NewDailyPicksJob(runner, "@daily", logger.Nop())

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, runner.err)
	assert.Contains(t, err.Error(), "generate picks")
}
