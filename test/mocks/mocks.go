// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `go generate ./test/mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/persistence.go -destination=persistence_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/inventory_store.go -destination=inventory_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/suggester.go -destination=suggester_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/alerts.go -destination=alerts_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/database.go -destination=database_mock.go -package=mocks
