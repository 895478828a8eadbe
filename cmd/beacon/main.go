// Beacon is a provider-agnostic chat-completion client with automatic
// fallback across configured backends.
//
// It resolves a prompt against an ordered chain of providers, translating
// the request into each backend's wire dialect, and walks the chain until
// one answers:
//   - Multi-provider invocation (OpenAI, Anthropic, Groq, OpenRouter, ...)
//   - Local backend support (Ollama, LM Studio)
//   - Health probing and credential validation
//   - Scheduled sweeps with Prometheus metrics
//   - SQLite attempt journal for diagnostics
//
// Usage:
//
//	# Send a prompt through the fallback chain
//	beacon chat "explain raft in two sentences"
//
//	# Probe all configured providers
//	beacon probe
//
//	# Validate a provider's credential
//	beacon validate anthropic
//
//	# Run scheduled health sweeps with a metrics endpoint
//	beacon monitor --listen :9090
//
//	# Show version information
//	beacon version
package main

func main() {
	Execute()
}
