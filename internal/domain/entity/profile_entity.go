package entity

// Profile is the access profile a user holds on the platform.
type Profile string

const (
	ProfileClient Profile = "client"
	ProfileOwner  Profile = "owner"
	ProfileAdmin  Profile = "admin"
)

// Valid reports whether p is one of the known profiles.
func (p Profile) Valid() bool {
	switch p {
	case ProfileClient, ProfileOwner, ProfileAdmin:
		return true
	}
	return false
}

// Description returns a human readable label for the profile.
func (p Profile) Description() string {
	switch p {
	case ProfileClient:
		return "Client"
	case ProfileOwner:
		return "Restaurant owner"
	case ProfileAdmin:
		return "Administrator"
	default:
		return "Unknown"
	}
}
