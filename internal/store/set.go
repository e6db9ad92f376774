package store

import "github.com/humia/planning/internal/persistence/sqlite"

// Set groups the adapters sharing one SQLite storage.
type Set struct {
	Accounts *Accounts
	Sessions *Sessions
	Registry *Registry
	Planning *Planning
}

// FromStorage wraps every repository of storage.
func FromStorage(storage *sqlite.Storage) Set {
	return Set{
		Accounts: NewAccounts(storage.Users),
		Sessions: NewSessions(storage.Sessions),
		Registry: NewRegistry(storage.Registry),
		Planning: NewPlanning(storage.Planning),
	}
}
