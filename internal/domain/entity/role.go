package entity

// Role is a named permission tier. Profiles reference roles by integer id;
// administrative privilege is resolved by name (see service.AdminGate).
type Role struct {
	ID   int
	Name string
}

// Well-known role names seeded by the schema. The admin set is configurable
// and defaults to RoleNameAdmin.
const (
	RoleNameStudent = "student"
	RoleNameTeacher = "teacher"
	RoleNameAdmin   = "admin"
)
