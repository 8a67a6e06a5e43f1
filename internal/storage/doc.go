// Package storage provides SQLite-backed repositories for tracked game
// accounts with embedded schema migrations and an append-only spend ledger.
package storage
