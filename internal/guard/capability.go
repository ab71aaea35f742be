// Package guard decides what an actor may do and enforces the references
// between visits, prescriptions, patients and doctors on every write.
package guard

import (
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpWrite  Operation = "write"
	OpImport Operation = "import"
)

const (
	MsgAdminRequired        = "Access denied. Admin privileges required."
	MsgDoctorRequired       = "Access denied. Doctor privileges required."
	MsgInsufficient         = "Access denied. Insufficient privileges."
	MsgOwnVisitPrescription = "Access denied. You can only add prescriptions for your own visits."
)

type roles []model.Role

func (r roles) has(role model.Role) bool {
	for _, x := range r {
		if x == role {
			return true
		}
	}
	return false
}

var (
	adminOnly     = roles{model.RoleAdmin}
	doctorOnly    = roles{model.RoleDoctor}
	adminOrDoctor = roles{model.RoleAdmin, model.RoleDoctor}
)

// policy lists the roles allowed per entity and operation. Anything absent is denied.
var policy = map[model.EntityKind]map[Operation]roles{
	model.EntityPatients: {
		OpRead: adminOnly, OpWrite: adminOnly, OpImport: adminOnly,
	},
	model.EntityDoctors: {
		OpRead: adminOnly, OpWrite: adminOnly,
	},
	model.EntityVisits: {
		OpRead: adminOrDoctor, OpWrite: adminOnly, OpImport: adminOnly,
	},
	model.EntityPrescriptions: {
		OpRead: doctorOnly, OpWrite: doctorOnly, OpImport: doctorOnly,
	},
}

// Capabilities are the decisions for one actor.
type Capabilities struct {
	actor model.Actor
}

func For(actor model.Actor) Capabilities {
	return Capabilities{actor: actor}
}

func (c Capabilities) Actor() model.Actor {
	return c.actor
}

// Can reports whether the policy allows op on kind. A doctor actor without a
// doctor identity is allowed nothing.
func (c Capabilities) Can(op Operation, kind model.EntityKind) bool {
	if c.actor.Role == model.RoleDoctor && c.actor.DoctorID == "" {
		return false
	}
	return policy[kind][op].has(c.actor.Role)
}

func (c Capabilities) CanRead(kind model.EntityKind) bool {
	return c.Can(OpRead, kind)
}

func (c Capabilities) CanWrite(kind model.EntityKind) bool {
	return c.Can(OpWrite, kind)
}

func (c Capabilities) CanImport(kind model.EntityKind) bool {
	return c.Can(OpImport, kind)
}

// Require returns a Forbidden error naming the role the operation needs.
func (c Capabilities) Require(op Operation, kind model.EntityKind) error {
	if c.Can(op, kind) {
		return nil
	}
	allowed := policy[kind][op]
	switch {
	case len(allowed) == 1 && allowed[0] == model.RoleAdmin:
		return apperrors.NewForbidden(MsgAdminRequired)
	case len(allowed) == 1 && allowed[0] == model.RoleDoctor:
		return apperrors.NewForbidden(MsgDoctorRequired)
	default:
		return apperrors.NewForbidden(MsgInsufficient)
	}
}

// Scope is the query filter applied to visits and prescriptions. Doctors see
// only their own records; admins are unscoped.
func (c Capabilities) Scope() repository.Scope {
	if c.actor.Role == model.RoleDoctor {
		return repository.Scope{DoctorID: c.actor.DoctorID}
	}
	return repository.Scope{}
}

// Owns reports whether a record tied to doctorID is within the actor's scope.
func (c Capabilities) Owns(doctorID string) bool {
	switch c.actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleDoctor:
		return c.actor.DoctorID != "" && c.actor.DoctorID == doctorID
	default:
		return false
	}
}
