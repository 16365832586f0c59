package entity

// Role represents a staff role in the hospital
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin        = 1
	RoleIDReceptionist = 2
	RoleIDDoctor       = 3
	RoleIDPharmacist   = 4
	RoleIDAccountant   = 5
)

// RoleNames constants
const (
	RoleAdmin        = "admin"
	RoleReceptionist = "receptionist"
	RoleDoctor       = "doctor"
	RolePharmacist   = "pharmacist"
	RoleAccountant   = "accountant"
)

var roleNames = map[int]string{
	RoleIDAdmin:        RoleAdmin,
	RoleIDReceptionist: RoleReceptionist,
	RoleIDDoctor:       RoleDoctor,
	RoleIDPharmacist:   RolePharmacist,
	RoleIDAccountant:   RoleAccountant,
}

// RoleName returns the role name for a role ID, or an empty string if unknown.
func RoleName(roleID int) string {
	return roleNames[roleID]
}

// IsValidRoleID reports whether roleID is one of the seeded roles.
func IsValidRoleID(roleID int) bool {
	_, ok := roleNames[roleID]
	return ok
}
