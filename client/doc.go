// Package client decorates service clients with resilience.
//
// A client exposes one upstream operation through the RequestResponse
// interface; WithResilience routes every call through an orchestrator so
// retries, circuit breaking and rate limiting apply uniformly:
//
//	chat := client.Func[ChatRequest, ChatResponse]{
//	    ClientName: "openai",
//	    Call:       api.Chat,
//	}
//	guarded := client.WithResilience[ChatRequest, ChatResponse](chat, orch,
//	    client.WithCostEstimator[ChatRequest](estimateTokens))
package client
