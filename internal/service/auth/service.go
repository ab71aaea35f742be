package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

const (
	MsgCredentialsRequired = "User ID, password, and portal are required"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgAdminPortal         = "Access denied. Admin credentials required for Admin portal."
	MsgDoctorPortal        = "Access denied. Doctor credentials required for Doctor portal."
	MsgNoToken             = "Access denied. No token provided."
	MsgTokenExpired        = "Token has expired. Please login again."
	MsgInvalidToken        = "Invalid token."
)

type Service struct {
	doctors  repository.DoctorRepository
	jwtSvc   auth.JWTService
	denylist *auth.Denylist
	hasher   security.PasswordHasher
	logger   *logger.Logger
}

func NewService(doctors repository.DoctorRepository, jwtSvc auth.JWTService, denylist *auth.Denylist,
	hasher security.PasswordHasher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		doctors:  doctors,
		jwtSvc:   jwtSvc,
		denylist: denylist,
		hasher:   hasher,
		logger:   log,
	}
}

// Login checks the credentials and that the account's role matches the portal.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if strings.TrimSpace(req.UserID) == "" || req.Password == "" || req.Portal == "" {
		return nil, apperrors.NewBadRequest(MsgCredentialsRequired, nil)
	}

	doctor, err := s.doctors.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(MsgInvalidCredentials, nil)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if err := s.hasher.Compare(doctor.PasswordHash, req.Password); err != nil {
		s.logger.Warn("login rejected", "user_id", req.UserID, "reason", "password")
		return nil, apperrors.NewUnauthorized(MsgInvalidCredentials, nil)
	}

	switch {
	case req.Portal == model.PortalAdmin && doctor.Role != model.RoleAdmin:
		return nil, apperrors.NewForbidden(MsgAdminPortal)
	case req.Portal == model.PortalDoctor && doctor.Role != model.RoleDoctor:
		return nil, apperrors.NewForbidden(MsgDoctorPortal)
	}

	info := doctor.UserInfo()
	token, _, err := s.jwtSvc.Issue(auth.Identity{
		UserID:           info.UserID,
		Role:             string(info.Role),
		DoctorID:         info.DoctorID,
		DoctorName:       info.DoctorName,
		DoctorSpeciality: info.DoctorSpeciality,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("login", "user_id", info.UserID, "role", string(info.Role), "portal", string(req.Portal))
	return &model.LoginResponse{Token: token, User: info}, nil
}

// Authenticate verifies a bearer token and returns the caller it names.
func (s *Service) Authenticate(token string) (model.Actor, *auth.Claims, error) {
	if token == "" {
		return model.Actor{}, nil, apperrors.NewUnauthorized(MsgNoToken, nil)
	}
	claims, err := s.jwtSvc.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return model.Actor{}, nil, apperrors.NewUnauthorized(MsgTokenExpired, err)
		}
		return model.Actor{}, nil, apperrors.NewUnauthorized(MsgInvalidToken, err)
	}
	if s.denylist != nil && s.denylist.IsRevoked(claims.ID) {
		return model.Actor{}, nil, apperrors.NewUnauthorized(MsgInvalidToken, nil)
	}
	actor := ActorFromClaims(claims)
	if !actor.Role.Valid() || (actor.Role == model.RoleDoctor && actor.DoctorID == "") {
		return model.Actor{}, nil, apperrors.NewUnauthorized(MsgInvalidToken, nil)
	}
	return actor, claims, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(claims *auth.Claims) {
	if claims == nil || s.denylist == nil {
		return
	}
	s.denylist.Revoke(claims.ID, claims.ExpiresAtTime())
	s.logger.Info("logout", "user_id", claims.UserID)
}

func ActorFromClaims(c *auth.Claims) model.Actor {
	id := c.Identity()
	return model.Actor{
		UserID:           id.UserID,
		Role:             model.Role(id.Role),
		DoctorID:         id.DoctorID,
		DoctorName:       id.DoctorName,
		DoctorSpeciality: id.DoctorSpeciality,
	}
}
