package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows requests to pass through.
	StateClosed State = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen allows limited probe requests to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies this circuit breaker for metrics/logging.
	Name string
	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive half-open successes
	// required to close the circuit again.
	SuccessThreshold int
	// OpenDuration is the cooldown before an open circuit starts probing.
	OpenDuration time.Duration
	// HalfOpenMaxRequests is the number of concurrent probes allowed while
	// half-open.
	HalfOpenMaxRequests int
	// OnStateChange is called when state changes.
	OnStateChange func(name string, from, to State)
	// Clock overrides time handling, mainly for tests.
	Clock Clock
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:                name,
		FailureThreshold:    5,
		SuccessThreshold:    3,
		OpenDuration:        30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
}

// CircuitBreaker prevents cascading failures by failing fast when a
// dependency is unhealthy.
//
// States:
//   - Closed: normal operation, requests pass through
//   - Open: dependency is unhealthy, requests fail immediately
//   - Half-Open: testing recovery, a bounded number of probes allowed
//
// Recovery is asymmetric: SuccessThreshold consecutive successes are needed
// to close, while a single failure during probing reopens the circuit.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu               sync.Mutex
	state            State
	failures         int
	successes        int
	halfOpenRequests int
	lastFailureTime  time.Time
}

// BreakerSnapshot is a read-only view of circuit breaker state.
type BreakerSnapshot struct {
	State            State
	Failures         int
	Successes        int
	HalfOpenInFlight int
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 3
	}
	if config.OpenDuration <= 0 {
		config.OpenDuration = 30 * time.Second
	}
	if config.HalfOpenMaxRequests <= 0 {
		config.HalfOpenMaxRequests = 1
	}
	if config.Clock == nil {
		config.Clock = SystemClock
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the given function through the circuit breaker.
// Returns ErrCircuitOpen (or ErrHalfOpenLimitReached, which wraps it) when
// rejecting; the function is not invoked in that case.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	probe, err := cb.acquire()
	if err != nil {
		return err
	}
	if probe {
		// The slot is released even if fn panics.
		defer cb.releaseProbe()
	}

	opErr := fn()
	cb.recordResult(opErr)
	return opErr
}

// State returns the current circuit breaker state, applying the lazy
// open-to-half-open transition if the cooldown has elapsed.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// Snapshot returns a read-only view of the breaker's counters and state.
func (cb *CircuitBreaker) Snapshot() BreakerSnapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return BreakerSnapshot{
		State:            cb.currentState(),
		Failures:         cb.failures,
		Successes:        cb.successes,
		HalfOpenInFlight: cb.halfOpenRequests,
	}
}

// Reset returns the circuit breaker to the closed state with zeroed counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.toState(StateClosed)
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenRequests = 0
}

// acquire admits or rejects a request. The probe flag reports whether a
// half-open slot was taken and must be released on completion.
func (cb *CircuitBreaker) acquire() (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		return false, nil
	case StateHalfOpen:
		if cb.halfOpenRequests >= cb.config.HalfOpenMaxRequests {
			return false, ErrHalfOpenLimitReached
		}
		cb.halfOpenRequests++
		return true, nil
	default:
		return false, ErrCircuitOpen
	}
}

// releaseProbe frees a half-open slot. A transition may already have zeroed
// the counter, so it never goes negative.
func (cb *CircuitBreaker) releaseProbe() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.halfOpenRequests > 0 {
		cb.halfOpenRequests--
	}
}

// recordResult records the outcome of an admitted request.
func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.currentState() {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.toState(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.lastFailureTime = cb.config.Clock.Now()

	switch cb.currentState() {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.toState(StateOpen)
		}
	case StateHalfOpen:
		// A single failure during probing reopens the circuit.
		cb.toState(StateOpen)
	}
}

// currentState returns the state, handling the cooldown transition.
// Callers must hold the lock.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen {
		if cb.config.Clock.Now().Sub(cb.lastFailureTime) >= cb.config.OpenDuration {
			cb.toState(StateHalfOpen)
		}
	}
	return cb.state
}

// toState transitions to a new state, resetting counters.
func (cb *CircuitBreaker) toState(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to

	cb.failures = 0
	cb.successes = 0
	cb.halfOpenRequests = 0

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}
