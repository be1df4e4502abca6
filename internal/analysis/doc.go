// Package analysis derives entities and facts from extracted units using
// pattern heuristics. It covers the structured shapes that show up in most
// operational documents (URLs, emails, dates, quantities, proper-noun
// phrases) without requiring a model.
package analysis
