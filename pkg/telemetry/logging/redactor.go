package logging

import "regexp"

// credentialPatterns match the API-key shapes the configured backends issue,
// plus generic bearer tokens. Anything matched is replaced wholesale; partial
// keys are still keys.
var credentialPatterns = []*regexp.Regexp{
	// OpenAI / Groq / Mistral style keys
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{8,}`),
	// Anthropic keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{8,}`),
	// OpenRouter keys
	regexp.MustCompile(`sk-or-[A-Za-z0-9_-]{8,}`),
	// Bearer headers quoted back in vendor error bodies
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]{8,}=*`),
	// Explicit key-value forms: api_key=..., x-api-key: ...
	regexp.MustCompile(`(?i)(api[-_]?key)["':=\s]+[A-Za-z0-9._-]{8,}`),
}

const redactedPlaceholder = "[redacted]"

// Redact masks credential shapes in s. The input is returned unchanged when
// nothing matches.
func Redact(s string) string {
	for _, pattern := range credentialPatterns {
		s = pattern.ReplaceAllString(s, redactedPlaceholder)
	}
	return s
}
