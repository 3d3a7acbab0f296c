package service

import (
	"context"

	"my-notes-be/internal/pkg/apperror"
	"my-notes-be/internal/repository/specification"
	"my-notes-be/internal/repository/unitofwork"
)

type IAuthService interface {
	CheckUsersPermission(ctx context.Context, userId, noteId int64) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory) IAuthService {
	return &authService{uowFactory: uowFactory}
}

// CheckUsersPermission verifies the note belongs to the user. A missing note is
// reported as forbidden rather than not found so the existence of other users'
// notes does not leak through the error.
func (s *authService) CheckUsersPermission(ctx context.Context, userId, noteId int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.Forbidden("access to the note is denied")
	}
	return nil
}
