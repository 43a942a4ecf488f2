// Package store defines the persistence interfaces for the application's
// entities, along with the sentinel errors and pagination types shared by
// all implementations. Concrete implementations live under
// internal/platform/postgres.
package store
