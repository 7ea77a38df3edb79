// Package dispatch implements the task dispatch and fallback resolution core:
// keyword fast-path routing over registered handlers, classifier-backed intent
// resolution for unmatched input, and a single-retry missing-info loop that
// fills handler-declared gaps from conversation context before asking the user.
package dispatch
