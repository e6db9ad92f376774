// Package store adapts the persistence repositories to the interfaces the
// application services consume, translating models and storage errors.
package store
