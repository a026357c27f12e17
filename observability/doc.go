// Package observability provides OpenTelemetry bootstrap and resilience
// instrumentation.
//
// InitMeter and InitTracer configure OTLP HTTP export for processes that
// want it. Metrics creates the resilience instruments, and Hooks adapts
// them to the callback slots on the resilience configs:
//
//	metrics, _ := observability.NewMetrics(observability.Meter("shield"))
//	hooks := observability.NewHooks("openai", metrics, log)
//	retryCfg.OnRetry = hooks.OnRetry
//	breakerCfg.OnStateChange = hooks.OnStateChange
//	rateCfg.OnWait = hooks.OnWait
package observability
