package services

// Access is the level of authentication a route or method demands.
type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessSuperuser
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessSuperuser:
		return "superuser"
	default:
		return "unknown"
	}
}
