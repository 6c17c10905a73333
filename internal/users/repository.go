package users

import "context"

// RepositoryPort defines data access methods for users. Multi-step mutations
// are transactional inside the implementation: a failed operation leaves no
// partial state behind.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, username, email, passwordHash string, roleIDs []int64) (*User, error)
	ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error
	DeleteUser(ctx context.Context, id int64) error
}
