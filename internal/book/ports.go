package book

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Store defines the contract for the ordered book table.
type Store interface {
	// ReadAll returns every row in store order. maxStaleness bounds how old a cached
	// read may be; zero forces a fresh read.
	ReadAll(ctx context.Context, maxStaleness time.Duration) ([]Row, error)
	Append(ctx context.Context, row Row) (RowID, error)
	Replace(ctx context.Context, id RowID, row Row) error
	Delete(ctx context.Context, id RowID) error
}

// Pinger is implemented by stores that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
