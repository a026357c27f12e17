package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/shield/logger"
	"github.com/kbukum/shield/resilience"
)

// Option configures the resilient wrapper.
type Option[I any] func(*options[I])

type options[I any] struct {
	estimator CostEstimator[I]
	log       *logger.Logger
}

// WithCostEstimator charges each request's estimated cost against the
// orchestrator's cost bucket.
func WithCostEstimator[I any](fn CostEstimator[I]) Option[I] {
	return func(o *options[I]) { o.estimator = fn }
}

// WithLogger logs each wrapped call with a correlation id.
func WithLogger[I any](log *logger.Logger) Option[I] {
	return func(o *options[I]) { o.log = log }
}

// WithResilience wraps a client so every Execute runs through the
// orchestrator's chain: rate limit admission, then breaker-gated retry.
func WithResilience[I, O any](c RequestResponse[I, O], orch *resilience.Orchestrator, opts ...Option[I]) RequestResponse[I, O] {
	o := options[I]{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &resilientClient[I, O]{
		inner: c,
		orch:  orch,
		opts:  o,
	}
}

type resilientClient[I, O any] struct {
	inner RequestResponse[I, O]
	orch  *resilience.Orchestrator
	opts  options[I]
}

// Name implements RequestResponse.
func (r *resilientClient[I, O]) Name() string { return r.inner.Name() }

// Execute implements RequestResponse.
func (r *resilientClient[I, O]) Execute(ctx context.Context, input I) (O, error) {
	callID := uuid.NewString()

	var callOpts []resilience.CallOption
	if r.opts.estimator != nil {
		callOpts = append(callOpts, resilience.WithEstimatedCost(r.opts.estimator(input)))
	}

	log := r.opts.log.WithFields(logger.Fields(logger.FieldCallID, callID))
	log.Debug("executing call")

	out, err := resilience.Do(ctx, r.orch, func() (O, error) {
		return r.inner.Execute(ctx, input)
	}, callOpts...)

	if err != nil {
		log.WithError(err).Error("call failed")
		return out, err
	}
	log.Debug("call completed")
	return out, nil
}
