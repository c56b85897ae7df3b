package account

type Role string

const (
	RoleSystemAdmin    Role = "system_admin"
	RoleAcademyAdmin   Role = "academy_admin"
	RoleCoach          Role = "coach"
	RolePlayer         Role = "player"
	RoleParent         Role = "parent"
	RoleExternalClient Role = "external_client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleAcademyAdmin, RoleCoach, RolePlayer, RoleParent, RoleExternalClient:
		return true
	}
	return false
}

// Privileged roles may act on bookings they do not own.
func (r Role) Privileged() bool {
	return r == RoleSystemAdmin || r == RoleAcademyAdmin
}

// Internal reports whether the role is a member of an academy's own community.
func (r Role) Internal() bool {
	return r == RoleCoach || r == RolePlayer || r == RoleParent
}

type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      Role    `json:"role"`
	AcademyID *string `json:"academy_id,omitempty"`
}

func (u User) InAcademy(academyID string) bool {
	return u.AcademyID != nil && *u.AcademyID == academyID
}

// DisplayName falls back to the email when no full name is known.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// CanManageAcademy reports whether the user administers bookings of the given academy.
func (u User) CanManageAcademy(academyID string) bool {
	switch u.Role {
	case RoleSystemAdmin:
		return true
	case RoleAcademyAdmin:
		return u.InAcademy(academyID)
	}
	return false
}
