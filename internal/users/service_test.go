package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatewarden/gatewarden/internal/rbac"
	"github.com/gatewarden/gatewarden/internal/shared"
)

type mockRepository struct {
	users      map[int64]*User
	nextID     int64
	deleted    []int64
	rolesByID  map[int64][]int64
	createErr  error
	replaceErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:     make(map[int64]*User),
		rolesByID: make(map[int64][]int64),
		nextID:    1,
	}
}

func (m *mockRepository) seed(u User) *User {
	u.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = &u
	return &u
}

func (m *mockRepository) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockRepository) GetUser(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) CreateUser(ctx context.Context, username, email, passwordHash string, roleIDs []int64) (*User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	u := m.seed(User{Username: username, Email: email, PasswordHash: passwordHash})
	m.rolesByID[u.ID] = roleIDs
	return u, nil
}

func (m *mockRepository) ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if _, ok := m.users[userID]; !ok {
		return shared.ErrNotFound
	}
	m.rolesByID[userID] = roleIDs
	return nil
}

func (m *mockRepository) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRoleDirectory struct {
	roles map[string]rbac.Role
}

func newMockRoleDirectory() *mockRoleDirectory {
	return &mockRoleDirectory{roles: map[string]rbac.Role{
		shared.RoleUser:       {ID: 1, Name: shared.RoleUser},
		shared.RoleModerator:  {ID: 2, Name: shared.RoleModerator},
		shared.RoleAdmin:      {ID: 3, Name: shared.RoleAdmin},
		shared.RoleSuperAdmin: {ID: 4, Name: shared.RoleSuperAdmin},
	}}
}

func (m *mockRoleDirectory) GetRoleByName(ctx context.Context, name string) (rbac.Role, error) {
	role, ok := m.roles[name]
	if !ok {
		return rbac.Role{}, shared.ErrNotFound
	}
	return role, nil
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo, newMockRoleDirectory()), repo
}

func TestCreateUserDefaultsToUserRole(t *testing.T) {
	service, repo := newTestService()
	actor := actorWith(shared.RoleAdmin)

	user, err := service.CreateUser(context.Background(), actor, CreateInput{
		Username: "Newbie",
		Email:    "Newbie@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{shared.RoleUser}, user.Roles)
	assert.Equal(t, "newbie", user.Username)
	assert.Equal(t, "newbie@example.com", user.Email)
	assert.Equal(t, []int64{1}, repo.rolesByID[user.ID])

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass"))
	assert.NoError(t, err)
}

func TestCreateUserRejectsAnonymousActor(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), nil, CreateInput{Username: "x", Email: "x@y.z", Password: "p"})
	assert.ErrorIs(t, err, shared.ErrInvalidPrincipal)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	service, repo := newTestService()
	repo.seed(User{Username: "taken", Email: "taken@example.com"})

	_, err := service.CreateUser(context.Background(), actorWith(shared.RoleAdmin), CreateInput{
		Username: "Taken",
		Email:    "new@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreateUserSuperAdminRoleNeverGrantable(t *testing.T) {
	service, _ := newTestService()

	// Even a super admin actor may not hand out ROLE_SUPER_ADMIN.
	_, err := service.CreateUser(context.Background(), actorWith(shared.RoleSuperAdmin), CreateInput{
		Username: "elevated",
		Email:    "elevated@example.com",
		Password: "s3cret-pass",
		Roles:    []string{shared.RoleSuperAdmin},
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCreateUserUnknownRole(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), actorWith(shared.RoleAdmin), CreateInput{
		Username: "auditor",
		Email:    "auditor@example.com",
		Password: "s3cret-pass",
		Roles:    []string{"ROLE_AUDITOR"},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateUserModeratorCannotCreateAdmin(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), actorWith(shared.RoleModerator), CreateInput{
		Username: "boss",
		Email:    "boss@example.com",
		Password: "s3cret-pass",
		Roles:    []string{shared.RoleAdmin},
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUpdateUserRolesModeratorCannotAssignAdmin(t *testing.T) {
	service, repo := newTestService()
	target := repo.seed(User{Username: "plain", Email: "plain@example.com", Roles: []string{shared.RoleUser}})

	_, err := service.UpdateUserRoles(context.Background(), actorWith(shared.RoleModerator), target.ID, []string{shared.RoleAdmin})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUpdateUserRolesAdminCannotAssignSuperAdmin(t *testing.T) {
	service, repo := newTestService()
	target := repo.seed(User{Username: "plain", Email: "plain@example.com", Roles: []string{shared.RoleUser}})

	_, err := service.UpdateUserRoles(context.Background(), actorWith(shared.RoleAdmin), target.ID, []string{shared.RoleSuperAdmin})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUpdateUserRolesChecksTargetCurrentRoles(t *testing.T) {
	service, repo := newTestService()
	target := repo.seed(User{Username: "chief", Email: "chief@example.com", Roles: []string{shared.RoleAdmin}})

	// Moderator may not touch an admin-roled user even to demote them.
	_, err := service.UpdateUserRoles(context.Background(), actorWith(shared.RoleModerator), target.ID, []string{shared.RoleUser})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, repo.rolesByID[target.ID])
}

func TestUpdateUserRolesEmptySetDefaultsToUser(t *testing.T) {
	service, repo := newTestService()
	target := repo.seed(User{Username: "plain", Email: "plain@example.com", Roles: []string{shared.RoleUser}})

	updated, err := service.UpdateUserRoles(context.Background(), actorWith(shared.RoleAdmin), target.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{shared.RoleUser}, updated.Roles)
	assert.Equal(t, []int64{1}, repo.rolesByID[target.ID])
}

func TestUpdateUserRolesUnknownTarget(t *testing.T) {
	service, _ := newTestService()

	_, err := service.UpdateUserRoles(context.Background(), actorWith(shared.RoleAdmin), 404, []string{shared.RoleUser})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteUserModeratorCannotDeleteAdmin(t *testing.T) {
	service, repo := newTestService()
	target := repo.seed(User{Username: "chief", Email: "chief@example.com", Roles: []string{shared.RoleAdmin}})

	err := service.DeleteUser(context.Background(), actorWith(shared.RoleModerator), target.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, repo.deleted)
}

func TestDeleteUserAdminDeletesPlainUser(t *testing.T) {
	service, repo := newTestService()
	target := repo.seed(User{Username: "plain", Email: "plain@example.com", Roles: []string{shared.RoleUser}})

	err := service.DeleteUser(context.Background(), actorWith(shared.RoleAdmin), target.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{target.ID}, repo.deleted)
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "kim", normalizeIdentifier("  Kim "))
	assert.Equal(t, "kim@example.com", normalizeIdentifier("KIM@Example.COM"))
}
