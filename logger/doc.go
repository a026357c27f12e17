// Package logger provides structured logging built on zerolog.
//
// A Logger is tagged with the dependency it reports on, so resilience events
// from different upstreams are easy to tell apart:
//
//	log := logger.NewDefault("openai")
//	log.Warn("circuit opened", logger.Fields("failures", 5))
package logger
