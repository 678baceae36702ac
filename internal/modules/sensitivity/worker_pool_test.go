package sensitivity

import (
	"testing"

	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name            string
		numWorkers      int
		expectedWorkers int
	}{
		{"positive workers", 5, 5},
		{"zero workers defaults to 10", 0, DefaultWorkers},
		{"negative workers defaults to 10", -1, DefaultWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedWorkers, NewWorkerPool(tt.numWorkers).Workers())
		})
	}
}

func TestSimulateRates_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	assert.Empty(t, pool.SimulateRates(simulation.DefaultParameters(), nil, nil))
}

func TestSimulateRates_PreservesOrder(t *testing.T) {
	pool := NewWorkerPool(8)
	base := simulation.DefaultParameters()
	rates := []float64{0.8, 0.05, 0.5, 0.25, 0.35}

	results := pool.SimulateRates(base, rates, nil)
	require.Len(t, results, len(rates))

	for i, rate := range rates {
		expected := simulation.Run(base.WithDepositRate(rate))
		assert.Equal(t, expected, results[i], "rate=%v", rate)
	}
}

func TestSimulateRates_NilProgress(t *testing.T) {
	pool := NewWorkerPool(2)
	assert.NotPanics(t, func() {
		pool.SimulateRates(simulation.DefaultParameters(), []float64{0.1, 0.2}, nil)
	})
}
