// Package circuitbreaker keeps one gobreaker per backend service.
//
// Every backend call goes through Manager.Execute so failures are counted in
// one place. Config.IsSuccessful lets callers exclude client errors (a 409
// duplicate, a 400 validation failure) from the failure count: those mean the
// backend is healthy and answered.
//
// A HealthChecker can probe open breakers and reset them once the service
// answers again.
package circuitbreaker
