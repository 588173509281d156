package content

import "context"

// Store executes query plans against one backend. Both adapter shapes
// (relational and document) and the fallback snapshot satisfy the read
// portion of this contract with identical filtering semantics.
type Store interface {
	List(ctx context.Context, t Type, spec QuerySpec) (PageResult, error)
	GetByID(ctx context.Context, t Type, id string) (*Item, error)
	GetBySlug(ctx context.Context, t Type, slug string) (*Item, error)
	IncrementViews(ctx context.Context, t Type, id string) error
	Count(ctx context.Context, t Type) (int64, error)
	SumViews(ctx context.Context, t Type) (int64, error)
}

// Provider answers the read contract from a local snapshot when the primary
// store is unreachable.
type Provider interface {
	List(ctx context.Context, t Type, spec QuerySpec) (PageResult, error)
	GetByID(ctx context.Context, t Type, id string) (*Item, error)
	GetBySlug(ctx context.Context, t Type, slug string) (*Item, error)
}
