package model

// Role tags an account. It is stored and reported but grants nothing extra.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account represents a registered identity that can authenticate.
type Account struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:credential_hash;size:255;not null"` // Never expose in JSON
	Role         Role   `json:"role" gorm:"size:10;not null;default:USER"`
}

// TableName pins the table name.
func (Account) TableName() string {
	return "accounts"
}
