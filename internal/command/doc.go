// Package command exposes the storage repositories as a fixed set of named
// operations taking JSON payloads, the boundary the desktop front-end
// invokes. It normalizes loose argument spellings and applies defaults
// before anything reaches storage; it holds no domain logic of its own.
package command
