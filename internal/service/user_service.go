package service

import (
	"context"
	"fmt"
	"time"

	"my-notes-be/internal/dto"
	"my-notes-be/internal/entity"
	"my-notes-be/internal/pkg/apperror"
	"my-notes-be/internal/pkg/logger"
	"my-notes-be/internal/pkg/mailer"
	"my-notes-be/internal/repository/memory"
	"my-notes-be/internal/repository/specification"
	"my-notes-be/internal/repository/unitofwork"
	"my-notes-be/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.RegisterUserResponse, error)
	Login(ctx context.Context, req *dto.LoginUserRequest) (*dto.LoginUserResponse, error)
	Logout(ctx context.Context, token string) error
}

type userService struct {
	uowFactory   unitofwork.RepositoryFactory
	sessions     *memory.SessionRepository
	emailService mailer.IEmailService
	jwtSecret    string
	tokenTTL     time.Duration
	logger       logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	emailService mailer.IEmailService,
	jwtSecret string,
	tokenTTL time.Duration,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:   uowFactory,
		sessions:     sessions,
		emailService: emailService,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		logger:       log,
	}
}

func (s *userService) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.RegisterUserResponse, error) {
	if req.Password != req.RepeatPassword {
		return nil, apperror.BadRequest("passwords do not match")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict(fmt.Sprintf("a user with email %s already exists", req.Email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &entity.User{
		Email:        req.Email,
		Login:        req.Login,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendWelcome(user.Email, user.Login); emailErr != nil {
			s.logger.Warn("UserService", "failed to send welcome email", map[string]interface{}{
				"email": user.Email,
				"error": emailErr.Error(),
			})
		}
	}()

	return &dto.RegisterUserResponse{Id: user.Id}, nil
}

func (s *userService) Login(ctx context.Context, req *dto.LoginUserRequest) (*dto.LoginUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.BadRequest("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.BadRequest("invalid email or password")
	}

	claims := jwt.MapClaims{
		"user_id": user.Id,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, apperror.Internal("failed to sign token", err)
	}

	s.sessions.Save(&store.Session{
		Token:    signedToken,
		UserId:   user.Id,
		IssuedAt: time.Now(),
	})

	return &dto.LoginUserResponse{Id: user.Id, Token: signedToken}, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	s.sessions.Delete(token)
	return nil
}
