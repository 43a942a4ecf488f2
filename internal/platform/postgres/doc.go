// Package postgres contains the PostgreSQL implementations of the store
// interfaces. Each store wraps a store.DBTX so it works against either a
// pooled connection or a transaction, maps database errors to the sentinel
// errors defined in internal/store, and logs through the request-scoped
// slog logger.
package postgres
