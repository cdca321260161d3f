package personnel

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on_leave"
)

// Personnel is a tenant's staff member. Work orders and tasks reference it by
// id only; it is never cascade-deleted with them.
type Personnel struct {
	tenantID    uuid.UUID
	id          uuid.UUID
	displayName string
	status      Status
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func New(tenantID uuid.UUID, displayName string) Personnel {
	return Personnel{
		tenantID:    tenantID,
		displayName: strings.TrimSpace(displayName),
		status:      StatusActive,
		isActive:    true,
	}
}

func Hydrate(
	tenantID uuid.UUID,
	id uuid.UUID,
	displayName string,
	status Status,
	isActive bool,
	createdAt time.Time,
	updatedAt time.Time,
) Personnel {
	return Personnel{
		tenantID:    tenantID,
		id:          id,
		displayName: strings.TrimSpace(displayName),
		status:      status,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p Personnel) TenantID() uuid.UUID  { return p.tenantID }
func (p Personnel) ID() uuid.UUID        { return p.id }
func (p Personnel) DisplayName() string  { return p.displayName }
func (p Personnel) Status() Status       { return p.status }
func (p Personnel) IsActive() bool       { return p.isActive }
func (p Personnel) CreatedAt() time.Time { return p.createdAt }
func (p Personnel) UpdatedAt() time.Time { return p.updatedAt }
func (p Personnel) IsZero() bool         { return p.id == uuid.Nil }

// Eligible reports whether the personnel may receive new assignments.
func (p Personnel) Eligible() bool {
	return p.isActive && p.status == StatusActive
}
