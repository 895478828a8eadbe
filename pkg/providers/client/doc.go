// Package client performs single provider invocations: it builds the wire
// request through pkg/providers/wire, runs exactly one HTTP exchange under a
// hard deadline, and classifies every possible failure into the closed
// providers.ProviderError taxonomy.
//
// The client never retries and never lets a transport or parse error escape
// unclassified. Retrying against other providers is the fallback
// orchestrator's job; retrying the same provider is nobody's job.
//
// # Deadlines
//
// Each call runs under context.WithTimeout, so expiry aborts the in-flight
// connection rather than abandoning it. The default bound is 30 seconds;
// health probes pass a 10-second override through ChatOptions.Timeout.
//
// # Usage
//
//	cli := client.New(client.Options{})
//	resp, err := cli.Invoke(ctx, inst, []providers.Message{
//	    {Role: providers.RoleUser, Content: "hello"},
//	}, providers.ChatOptions{MaxTokens: 200})
package client
