package models

import "fmt"

// Role identifies what kind of account a user holds. The wire format carries
// roles as strings; parsing is strict so an unexpected value is caught at the
// boundary instead of leaking into UI branching.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleCourier         Role = "courier"
	RoleAdmin           Role = "admin"
)

// ParseRole converts a wire-format role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleRestaurantOwner, RoleCourier, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
