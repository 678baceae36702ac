package sensitivity

import (
	"sync"

	"github.com/aristath/breakeven/internal/modules/simulation"
)

// DefaultWorkers is used when the pool is created with a non-positive size
const DefaultWorkers = 10

// ProgressCallback is called once per finished sample. Calls may arrive out
// of sample order; current counts finished samples.
type ProgressCallback func(current, total int, message string)

// WorkerPool runs one simulation per sampled rate on a bounded set of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	return &WorkerPool{
		numWorkers: numWorkers,
	}
}

// Workers returns the configured pool size
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// SimulateRates runs the validated base parameters once per rate, with only
// the deposit rate replaced.
//
// Results are written by index, so the returned slice is in the same order as
// rates whatever order the workers finish in.
func (wp *WorkerPool) SimulateRates(
	base simulation.Parameters,
	rates []float64,
	progress ProgressCallback,
) []simulation.Result {
	numRates := len(rates)
	if numRates == 0 {
		return []simulation.Result{}
	}

	jobs := make(chan jobItem, numRates)
	results := make(chan resultItem, numRates)

	var wg sync.WaitGroup
	numActualWorkers := wp.numWorkers
	if numRates < numActualWorkers {
		numActualWorkers = numRates
	}

	for i := 0; i < numActualWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(jobs, results, base)
		}()
	}

	for idx, rate := range rates {
		jobs <- jobItem{
			index: idx,
			rate:  rate,
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	resultSlice := make([]simulation.Result, numRates)
	completed := 0
	for result := range results {
		resultSlice[result.index] = result.simResult
		completed++
		if progress != nil {
			progress(completed, numRates, "Evaluating deposit rate sample")
		}
	}

	return resultSlice
}

type jobItem struct {
	rate  float64
	index int
}

type resultItem struct {
	simResult simulation.Result
	index     int
}

func worker(
	jobs <-chan jobItem,
	results chan<- resultItem,
	base simulation.Parameters,
) {
	for job := range jobs {
		results <- resultItem{
			index:     job.index,
			simResult: simulation.Run(base.WithDepositRate(job.rate)),
		}
	}
}
