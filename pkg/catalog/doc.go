// Package catalog holds the static table of known chat-completion backends.
//
// A Definition describes one backend the way it exists in the world: where it
// lives, which wire dialect it speaks, which models it offers, and whether it
// needs a credential. Definitions are immutable for the lifetime of the
// process; runtime state (API keys, enabled flags, model choices) lives on
// providers.Instance, which pairs a Definition with user configuration.
//
// # Wire families
//
// Every backend speaks one of two dialects, identified by the Family tag:
//
//   - FamilyStandard: the chat/completions shape shared by OpenAI and the many
//     servers that imitate it (Groq, OpenRouter, Mistral, Ollama, LM Studio).
//   - FamilyMessages: the messages shape with a top-level system field and a
//     different image-embedding format (Anthropic).
//
// The translator in pkg/providers/wire dispatches on this tag, so teaching the
// system a third dialect means one more Family value and one more branch, not
// a new type hierarchy.
//
// # Usage
//
//	def, ok := catalog.Lookup("anthropic")
//	if !ok {
//	    return fmt.Errorf("unknown provider")
//	}
//	fmt.Println(def.DisplayName, def.DefaultModel)
package catalog
