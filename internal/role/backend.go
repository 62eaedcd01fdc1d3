package role

import "context"

// Backend is the role/permission service the registry reads and writes.
// Read and write calls return the raw response body; the registry owns
// decoding. A missing role must be reported as an error wrapping ErrNotFound
// and rejected input as one wrapping ErrValidation; any other error is
// treated as a transport failure.
type Backend interface {
	ListRoles(ctx context.Context, q Query) ([]byte, error)
	GetRole(ctx context.Context, id string) ([]byte, error)
	CreateRole(ctx context.Context, in Input) ([]byte, error)
	UpdateRole(ctx context.Context, id string, in Input) ([]byte, error)
	DeleteRole(ctx context.Context, id string) error
	SetRoleStatus(ctx context.Context, id string, status Status) ([]byte, error)
	ListPermissions(ctx context.Context) ([]byte, error)
}
