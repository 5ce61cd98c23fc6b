package montecarlo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
)

// Model estimates the probability that the price ends the hour above the
// target by bootstrap resampling historical 1-minute returns. It implements
// ports.ProbabilityModel.
type Model struct {
	workers int
}

// NewModel creates a Model. workers <= 0 uses one worker per CPU.
func NewModel(workers int) *Model {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Model{workers: workers}
}

// FairProbability runs numSimulations bootstrap paths of horizonMinutes
// steps each and returns the fraction that finish above targetPrice.
func (m *Model) FairProbability(ctx context.Context, returns []float64, currentPrice, targetPrice float64, horizonMinutes, numSimulations int) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("montecarlo.FairProbability: empty returns window")
	}
	if horizonMinutes <= 0 || numSimulations <= 0 {
		return 0, fmt.Errorf("montecarlo.FairProbability: horizon %d, simulations %d", horizonMinutes, numSimulations)
	}

	workers := m.workers
	if workers > numSimulations {
		workers = numSimulations
	}

	counts := make(chan int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		sims := numSimulations / workers
		if w < numSimulations%workers {
			sims++
		}

		wg.Add(1)
		go func(sims int) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

			above := 0
			for i := 0; i < sims; i++ {
				if i%1024 == 0 && ctx.Err() != nil {
					counts <- above
					return
				}
				price := currentPrice
				for step := 0; step < horizonMinutes; step++ {
					price *= 1 + returns[rng.IntN(len(returns))]
				}
				if price > targetPrice {
					above++
				}
			}
			counts <- above
		}(sims)
	}

	go func() {
		wg.Wait()
		close(counts)
	}()

	total := 0
	for c := range counts {
		total += c
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("montecarlo.FairProbability: %w", err)
	}
	return float64(total) / float64(numSimulations), nil
}
