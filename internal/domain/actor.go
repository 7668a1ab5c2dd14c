package domain

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return Role(s), nil
	}
	return "", ValidationError{Field: "role", Msg: "unknown role: " + s}
}

// Actor identifies who is performing an operation. Services receive it
// explicitly rather than digging it out of ambient session state, so audit
// fields (approved_by, damage assessor) are always attributable.
type Actor struct {
	Role        Role   `json:"role"`
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}
