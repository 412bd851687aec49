package circuitbreaker

import "time"

// DefaultConfig provides balanced settings for most services.
func DefaultConfig() Config {
	return Config{
		MaxRequests:         3,
		Interval:            2 * time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 15,
		FailureRatio:        0.5,
		MinRequests:         10,
	}
}

// HTTPServiceConfig is tuned for the portal REST backend: short open period,
// fast trip on consecutive failures.
func HTTPServiceConfig() Config {
	return Config{
		MaxRequests:         3,
		Interval:            2 * time.Minute,
		Timeout:             10 * time.Second,
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		MinRequests:         10,
	}
}

func (c Config) readyToTrip(requests, totalFailures, consecutiveFailures uint32) bool {
	if c.ConsecutiveFailures > 0 && consecutiveFailures >= c.ConsecutiveFailures {
		return true
	}

	if requests == 0 || requests < c.MinRequests || c.FailureRatio <= 0 {
		return false
	}

	return float64(totalFailures)/float64(requests) >= c.FailureRatio
}
