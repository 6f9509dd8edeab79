// Package simulator generates discrete-time Geometric Brownian Motion paths.
package simulator

import (
	"math"

	"MarketForecast/internal/model"
)

// Simulate generates req.PathCount independent paths of req.HorizonDays prices.
// Day 0 of every path is S0; each following day multiplies the previous price
// by exp((mu - sigma^2/2) + sigma*Z) with Z drawn from src on [-1, 1).
func Simulate(req model.SimulationRequest, src Source) (model.PathMatrix, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	drift := req.Mu - 0.5*req.Sigma*req.Sigma
	paths := make(model.PathMatrix, req.PathCount)
	for i := range paths {
		path := make([]float64, req.HorizonDays)
		path[0] = req.S0
		for t := 1; t < req.HorizonDays; t++ {
			shock := req.Sigma * src.Uniform()
			path[t] = path[t-1] * math.Exp(drift+shock)
		}
		paths[i] = path
	}
	return paths, nil
}
