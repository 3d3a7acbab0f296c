package service

import (
	"context"
	"testing"

	"my-notes-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUsersPermission(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeFactory{store: store})
	note := seedNote(store, 1, "n")

	assert.NoError(t, svc.CheckUsersPermission(context.Background(), 1, note.Id))
}

func TestCheckUsersPermissionDeniesOtherUsers(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeFactory{store: store})
	note := seedNote(store, 1, "n")

	err := svc.CheckUsersPermission(context.Background(), 2, note.Id)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestCheckUsersPermissionDeniesMissingNote(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeFactory{store: store})

	// A nonexistent note reads the same as someone else's note.
	err := svc.CheckUsersPermission(context.Background(), 1, 404)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}
