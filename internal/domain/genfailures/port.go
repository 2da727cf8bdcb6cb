package genfailures

import "context"

// Repository port for the generation failure log
type Repository interface {
	Save(ctx context.Context, f *Failure) error
	Latest(ctx context.Context, tenant string, limit int) ([]*Failure, error)
}
