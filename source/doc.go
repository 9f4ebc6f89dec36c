// Package source provides tokenizers that turn raw input into the event
// stream consumed by package stream.
//
// Drivers are registered by name:
//
//	go-json        github.com/goccy/go-json tokens (default)
//	encoding/json  standard library tokens
//	yaml           YAML documents via github.com/goccy/go-yaml
//
// Both JSON drivers reject malformed input with a stream.TokenSourceError.
// Every driver accepts a sequence of concatenated root values, such as
// JSON Lines, and numbers keep their source text.
package source
