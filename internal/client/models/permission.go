package models

// PermissionStatus is the photo library authorization state.
type PermissionStatus int

const (
	PermissionNotDetermined PermissionStatus = iota
	PermissionAuthorized
	PermissionLimited
	PermissionDenied
	PermissionRestricted
)

// CanWrite reports whether images may be saved.
func (s PermissionStatus) CanWrite() bool {
	return s == PermissionAuthorized || s == PermissionLimited
}

func (s PermissionStatus) String() string {
	switch s {
	case PermissionAuthorized:
		return "authorized"
	case PermissionLimited:
		return "limited"
	case PermissionDenied:
		return "denied"
	case PermissionRestricted:
		return "restricted"
	default:
		return "not determined"
	}
}
