// Package mocks provides centralized in-memory implementations of the
// store interfaces for testing. Instead of defining inline fakes in
// individual test files, these implementations are shared across test
// packages: handler tests, service tests and CLI tests all exercise the
// same map-backed stores.
//
// Each store supports a ForcedErr field to simulate infrastructure
// failures; when set, every call returns that error.
package mocks
