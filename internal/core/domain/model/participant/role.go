package participant

import "dispatch/internal/pkg/errs"

// Role identifies which side of an order a participant is on.
type Role int

const (
	UnknownRole Role = iota
	CustomerRole
	VendorRole
	DriverRole
)

var roleNames = map[Role]string{
	CustomerRole: "CUSTOMER",
	VendorRole:   "VENDOR",
	DriverRole:   "DRIVER",
}

// ParseRole maps a role name to its value.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidError("role")
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}
