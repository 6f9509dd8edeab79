package model

// Estimate holds the first-order log-return moments of a price series.
type Estimate struct {
	Mu      float64 // mean daily log return
	Sigma   float64 // population standard deviation of daily log returns
	Returns int     // number of log returns the moments were computed from
}
