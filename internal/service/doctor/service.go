package doctor

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

const MsgUserIDExists = "User ID already exists"

type Service struct {
	repo   repository.DoctorRepository
	hasher security.PasswordHasher
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.DoctorRepository, hasher security.PasswordHasher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, hasher: hasher, logger: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if _, err := s.repo.GetByUserID(ctx, req.UserID); err == nil {
		return nil, apperrors.NewBadRequest(MsgUserIDExists, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user_id: %w", err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	d := &model.Doctor{
		DoctorID:         strings.TrimSpace(req.DoctorID),
		DoctorName:       req.DoctorName,
		UserID:           req.UserID,
		PasswordHash:     hash,
		DoctorSpeciality: req.DoctorSpeciality,
		Role:             req.Role,
	}
	if d.DoctorID == "" {
		d.DoctorID = s.generateID()
	}
	if d.Role == "" {
		d.Role = model.RoleDoctor
	}

	if err := s.repo.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewBadRequest(MsgUserIDExists, err)
		}
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	s.logger.Info("doctor created", "doctor_id", d.DoctorID, "user_id", d.UserID, "role", string(d.Role))
	return d, nil
}

func (s *Service) Get(ctx context.Context, doctorID string) (*model.Doctor, error) {
	d, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, params model.ListParams) ([]*model.Doctor, model.Pagination, error) {
	params = params.Normalize()
	doctors, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, model.NewPagination(total, params), nil
}

// hashPassword reports a length violation as a validation failure.
func (s *Service) hashPassword(password string) (string, error) {
	if err := security.ValidatePassword(password); err != nil {
		return "", apperrors.NewBadRequest("Validation failed", err).WithDetails(err.Error())
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Update patches name, speciality, role and password. doctor_id and user_id never change.
func (s *Service) Update(ctx context.Context, doctorID string, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	d, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return nil, notFound(err)
	}
	req.Apply(d)
	if req.Password != nil {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		d.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, doctorID string) (*model.Doctor, error) {
	d, err := s.repo.Delete(ctx, doctorID)
	if err != nil {
		return nil, notFound(err)
	}
	s.logger.Info("doctor deleted", "doctor_id", doctorID)
	return d, nil
}

// generateID returns DOC- followed by the base-36 millisecond clock and six random base-36 digits.
func (s *Service) generateID() string {
	ts := strconv.FormatInt(s.now().UnixMilli(), 36)
	n, err := rand.Int(rand.Reader, big.NewInt(36*36*36*36*36*36))
	if err != nil {
		n = big.NewInt(s.now().UnixNano() % (36 * 36 * 36 * 36 * 36 * 36))
	}
	random := strconv.FormatInt(n.Int64(), 36)
	random = strings.Repeat("0", 6-len(random)) + random
	return strings.ToUpper("DOC-" + ts + random)
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Doctor", err)
	}
	return err
}
