package calculator

import (
	"fmt"
	"math"

	"MarketForecast/internal/model"
)

// LogReturns computes r[i] = ln(p[i]/p[i-1]) for consecutive prices.
// At least 2 prices are required and every price must be finite and positive.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 prices, got %d", model.ErrInsufficientData, len(prices))
	}
	for i, p := range prices {
		if !(p > 0) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: price[%d] must be finite and positive, got %v", model.ErrInvalidParameter, i, p)
		}
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return returns, nil
}

// EstimateDriftVolatility returns the mean and the population standard
// deviation (divide by n, not n-1) of the log returns of prices.
func EstimateDriftVolatility(prices []float64) (model.Estimate, error) {
	returns, err := LogReturns(prices)
	if err != nil {
		return model.Estimate{}, err
	}
	mu := Mean(returns)
	variance := 0.0
	for _, r := range returns {
		d := r - mu
		variance += d * d
	}
	variance /= float64(len(returns))
	return model.Estimate{
		Mu:      mu,
		Sigma:   math.Sqrt(variance),
		Returns: len(returns),
	}, nil
}
