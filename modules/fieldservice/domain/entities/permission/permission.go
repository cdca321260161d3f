package permission

import "github.com/google/uuid"

type Resource string

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Modifier string

const (
	ModifierAll Modifier = "all"
	ModifierOwn Modifier = "own"
)

// Permission is a statically declared capability the route layer can check
// and administrators can grant to roles.
type Permission struct {
	ID       uuid.UUID
	Name     string
	Resource Resource
	Action   Action
	Modifier Modifier
}
