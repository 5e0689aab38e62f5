// Package role defines the closed set of field roles a class may declare.
//
// Key types:
//   - RoleEnum: semantic purpose of a field (data, coord, attr, name)
//   - FromToken: tag token -> role, with the two composition tokens
//     (dataof, coordof) mapping to the underlying role
package role

//go:generate go tool stringer -type=RoleEnum -output=role_string.go

type RoleEnum int

const (
	RoleUnknown RoleEnum = iota
	RoleData
	RoleCoord
	RoleAttr
	RoleName

	// RoleTotal is a constant that represents the total number of roles defined
	RoleTotal = int(iota)
)

// IsArrayLike reports whether fields of this role carry dims and a dtype.
func (r RoleEnum) IsArrayLike() bool {
	return r == RoleData || r == RoleCoord
}

// FromToken maps a tag token to a role. The composition tokens dataof and
// coordof resolve to the underlying role with composed set.
func FromToken(token string) (r RoleEnum, composed bool) {
	switch token {
	default:
		return RoleUnknown, false
	case "data":
		return RoleData, false
	case "coord":
		return RoleCoord, false
	case "dataof":
		return RoleData, true
	case "coordof":
		return RoleCoord, true
	case "attr":
		return RoleAttr, false
	case "name":
		return RoleName, false
	}
}
