package db

import "context"

type DBType string

const (
	Mongo  DBType = "mongo"
	Memory DBType = "memory"
)

// DB is the lifecycle of a storage backend.
type DB interface {
	Connect(ctx context.Context) error
	Ping(ctx context.Context) error
	Disconnect() error
}
