package metadata

import (
	"context"
)

// Keys stored in the metadata table.
const (
	TokenKey    = "authToken"
	UserNameKey = "userName"
)

type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
