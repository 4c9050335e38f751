// Package domain holds the user role vocabulary.
package domain

// Role identifies a team member's function.
type Role string

const (
	RoleMarketing       Role = "Marketing"
	RoleOperations      Role = "Operations"
	RoleSales           Role = "Sales"
	RoleSalesAgent      Role = "Sales Agent"
	RoleCustomerService Role = "Customer Service"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleMarketing, RoleOperations, RoleSales, RoleSalesAgent, RoleCustomerService:
		return true
	}
	return false
}
