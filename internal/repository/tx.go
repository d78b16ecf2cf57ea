package repository

import "context"

// TxManager runs fn inside one storage transaction carried by ctx. Repository calls made with
// the ctx passed to fn join that transaction; nested Do calls join the outer one. Any error
// returned by fn rolls the whole unit back.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
