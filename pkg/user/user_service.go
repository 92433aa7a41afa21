package user

import (
	"FoodShare-Backend/domain"
	"FoodShare-Backend/entities"
	"FoodShare-Backend/pkg/jwt"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"strings"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.LoginResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, session *domain.Session) (domain.Profile, error)
		Logout(ctx context.Context, session *domain.Session) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.LoginResponse, error) {
	if req.Role != domain.RoleDonor && req.Role != domain.RoleReceiver {
		return domain.LoginResponse{}, domain.ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.LoginResponse{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		// a concurrent registration can win the race past CheckEmailExists
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.LoginResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.LoginResponse{}, fmt.Errorf("create user: %w", err)
	}

	log.Infow("user registered", "user_id", user.ID.String(), "role", user.Role)
	return s.issue(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	return s.issue(user), nil
}

func (s *userService) Me(ctx context.Context, session *domain.Session) (domain.Profile, error) {
	if session == nil {
		return domain.Profile{}, nil
	}

	user, err := s.userRepository.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, domain.ErrUserNotFound
		}
		return domain.Profile{}, fmt.Errorf("get user: %w", err)
	}
	return toProfile(user), nil
}

func (s *userService) Logout(_ context.Context, session *domain.Session) error {
	if session == nil || session.Token == "" {
		return nil
	}
	return s.jwtService.RevokeToken(session.Token)
}

func (s *userService) issue(user *entities.User) domain.LoginResponse {
	return domain.LoginResponse{
		Token:   s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
		Profile: toProfile(user),
	}
}

func toProfile(user *entities.User) domain.Profile {
	return domain.Profile{
		UserID:    user.ID.String(),
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
