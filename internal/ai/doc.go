// Package ai talks to an OpenAI compatible chat completions endpoint and turns
// its answers into routine drafts, exercise alternatives and chat replies.
package ai
