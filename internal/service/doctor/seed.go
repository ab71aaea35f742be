package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// SeedAccount is a login created on first start.
type SeedAccount struct {
	DoctorID   string
	Name       string
	UserID     string
	Password   string
	Speciality string
	Role       model.Role
}

var DefaultAccounts = []SeedAccount{
	{"DOC-ADMIN-001", "Hospital Admin", "admin_hospital", "admin123", "Administration", model.RoleAdmin},
	{"DOC-CARDIO-001", "Dr. Sarah Johnson", "dr_cardiology", "doctor123", "Cardiology", model.RoleDoctor},
	{"DOC-NEURO-001", "Dr. Michael Chen", "dr_neuro", "doctor123", "Neurology", model.RoleDoctor},
}

// Seed creates the accounts whose user_id is not taken yet and returns how many were created.
func (s *Service) Seed(ctx context.Context, accounts []SeedAccount) (int, error) {
	created := 0
	for _, a := range accounts {
		if _, err := s.repo.GetByUserID(ctx, a.UserID); err == nil {
			s.logger.Debug("seed account exists", "user_id", a.UserID)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return created, fmt.Errorf("failed to check %s: %w", a.UserID, err)
		}

		_, err := s.Create(ctx, &model.CreateDoctorRequest{
			DoctorID:         a.DoctorID,
			DoctorName:       a.Name,
			UserID:           a.UserID,
			Password:         a.Password,
			DoctorSpeciality: a.Speciality,
			Role:             a.Role,
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", a.UserID, err)
		}
		created++
	}
	if created > 0 {
		s.logger.Info("seeded accounts", "created", created)
	}
	return created, nil
}
