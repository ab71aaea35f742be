package model

import (
	"strings"
	"time"
)

// Role of an authenticated account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor
}

// EntityKind names one of the record collections.
type EntityKind string

const (
	EntityPatients      EntityKind = "patients"
	EntityDoctors       EntityKind = "doctors"
	EntityVisits        EntityKind = "visits"
	EntityPrescriptions EntityKind = "prescriptions"
)

// Timestamps is embedded by every stored record.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 200
)

// ListParams are the query parameters shared by every list endpoint.
type ListParams struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// Normalize applies defaults and bounds.
func (p ListParams) Normalize() ListParams {
	p.Search = strings.TrimSpace(p.Search)
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination represents list metadata
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

func NewPagination(total int, p ListParams) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}
