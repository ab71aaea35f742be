package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Identity is what a token asserts about its bearer.
type Identity struct {
	UserID           string
	Role             string
	DoctorID         string
	DoctorName       string
	DoctorSpeciality string
}

// Claims are the signed token claims. The subject carries the login user_id.
type Claims struct {
	jwt.RegisteredClaims
	UserID           string `json:"user_id"`
	Role             string `json:"role"`
	DoctorID         string `json:"doctor_id"`
	DoctorName       string `json:"doctor_name"`
	DoctorSpeciality string `json:"doctor_speciality"`
}

func (c *Claims) Identity() Identity {
	return Identity{
		UserID:           c.UserID,
		Role:             c.Role,
		DoctorID:         c.DoctorID,
		DoctorName:       c.DoctorName,
		DoctorSpeciality: c.DoctorSpeciality,
	}
}

// ExpiresAtTime returns the expiry or the zero time when none is set.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

type JWTService interface {
	Issue(identity Identity) (token string, expiresAt time.Time, err error)
	Verify(token string) (*Claims, error)
}

type jwtService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option customises a JWTService.
type Option func(*jwtService)

func WithIssuer(issuer string) Option {
	return func(s *jwtService) { s.issuer = issuer }
}

// WithClock replaces the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *jwtService) { s.now = now }
}

func NewJWTService(secret string, ttl time.Duration, opts ...Option) JWTService {
	s := &jwtService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "hospital-api",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *jwtService) Issue(identity Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:           identity.UserID,
		Role:             identity.Role,
		DoctorID:         identity.DoctorID,
		DoctorName:       identity.DoctorName,
		DoctorSpeciality: identity.DoctorSpeciality,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *jwtService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
