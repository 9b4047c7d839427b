package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create_DefaultsToViewer(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewUserService(repository.NewSQLiteUserRepo(database))
	ctx := context.Background()

	u, err := svc.Create(ctx, "  Rita@Example.COM ", "Rita Reyes", "")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID, "UUID should be generated")
	assert.Equal(t, "rita@example.com", u.Email)
	assert.Equal(t, domain.RoleViewer, u.Role)
	assert.True(t, u.Active)

	byEmail, err := svc.GetByEmail(ctx, "RITA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewUserService(repository.NewSQLiteUserRepo(database))
	ctx := context.Background()

	_, err := svc.Create(ctx, "dup@example.com", "First", domain.RoleEditor)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "DUP@example.com", "Second", domain.RoleEditor)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "already registered")
}

func TestUserService_Create_Invalid(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewUserService(repository.NewSQLiteUserRepo(database))

	tests := []struct {
		name  string
		email string
		full  string
		role  domain.UserRole
	}{
		{"missing email", "", "Name", domain.RoleViewer},
		{"email without at", "nobody", "Name", domain.RoleViewer},
		{"blank name", "x@example.com", "  ", domain.RoleViewer},
		{"unknown role", "x@example.com", "Name", "owner"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.email, tc.full, tc.role)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
