package client

import (
	"context"
)

// RequestResponse is a single request/response call to an upstream service.
// Service clients implement this per operation; the resilience wrapper
// decorates it without knowing anything about the payload types.
type RequestResponse[I, O any] interface {
	// Name returns the client's unique name.
	Name() string
	// Execute performs one call.
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function to the RequestResponse interface.
type Func[I, O any] struct {
	// ClientName identifies the upstream dependency.
	ClientName string
	// Call performs the request.
	Call func(ctx context.Context, input I) (O, error)
}

// Name implements RequestResponse.
func (f Func[I, O]) Name() string { return f.ClientName }

// Execute implements RequestResponse.
func (f Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.Call(ctx, input)
}

// CostEstimator estimates the rate-limit cost of one request, e.g. an LLM
// prompt's token count. A nil estimator charges no cost.
type CostEstimator[I any] func(input I) int
