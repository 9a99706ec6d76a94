package service

import (
	"context"
	"errors"

	"github.com/AlibekovAA/places-api/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/places-api/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	"github.com/AlibekovAA/places-api/internal/upload"
	userdomain "github.com/AlibekovAA/places-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/places-api/internal/user/repository"
)

// Images is the part of the uploader the service needs.
type Images interface {
	Save(ctx context.Context, img upload.Image) (string, error)
	Discard(ctx context.Context, ref string)
}

type Tokens interface {
	IssueToken(userID, email string) (string, error)
}

type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	tokens      Tokens
	images      Images
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	tokens Tokens,
	images Images,
	clock clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		tokens:      tokens,
		images:      images,
		clock:       clock,
		log:         log,
	}
}

// SignupInput is expected to be validated, with Email already normalized.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Image    upload.Image
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	UserID string
	Email  string
	Token  string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "signup_attempt",
	}).Info("signup attempt")

	_, err := s.repo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "signup_email_exists",
		}).Warn("signup failed: email already exists")
		return AuthResult{}, ErrEmailTaken
	case !errors.Is(err, commonerrors.ErrUserNotFound):
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "signup_lookup_failed",
		}).Errorf("signup failed: lookup error: %v", err)
		return AuthResult{}, internalError(ErrSignupFailed, err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return AuthResult{}, ErrSignupFailed.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "signup_id_generation_failed",
		}).Errorf("signup failed: id generation error: %v", err)
		return AuthResult{}, ErrSignupFailed.WithCause(err)
	}

	imageRef, err := s.images.Save(ctx, input.Image)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "signup_image_failed",
		}).Errorf("signup failed: image store error: %v", err)
		return AuthResult{}, ErrSignupFailed.WithCause(err)
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Image:        imageRef,
		PlaceIDs:     []string{},
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.images.Discard(ctx, imageRef)
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "signup_email_exists",
			}).Warn("signup failed: email taken concurrently")
			return AuthResult{}, ErrEmailTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		return AuthResult{}, internalError(ErrSignupFailed, err)
	}

	token, err := s.tokens.IssueToken(string(user.ID), user.Email)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "signup_token_issue_failed",
		}).Errorf("signup failed: token issue error: %v", err)
		return AuthResult{}, ErrSignupFailed.WithCause(err)
	}

	incrementUsersSignedUp()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "signup_success",
	}).Info("signup success")

	return AuthResult{UserID: string(user.ID), Email: user.Email, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			incrementLogins("invalid_credentials")
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			return AuthResult{}, ErrInvalidCredentials
		}
		incrementLogins("error")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, internalError(ErrLoginFailed, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		incrementLogins("invalid_credentials")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(string(user.ID), user.Email)
	if err != nil {
		incrementLogins("error")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, ErrLoginFailed.WithCause(err)
	}

	incrementLogins("success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return AuthResult{UserID: string(user.ID), Email: user.Email, Token: token}, nil
}
