package models

import "golang.org/x/crypto/bcrypt"

const (
	RoleSolicitante = "SOLICITANTE"
	RoleTesteador   = "TESTEADOR"
	RoleAdmin       = "ADMIN"
)

type User struct {
	BaseUUIDModel
	Name     string `gorm:"type:varchar(120);not null"             json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null"             json:"-"`
	Role     string `gorm:"type:varchar(20);not null"              json:"role"`
}

func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleSolicitante, RoleTesteador, RoleAdmin:
		return true
	}
	return false
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Scope is the injected caller scope every core operation receives. For
// solicitantes RestrictToOwn limits queries to requests they created;
// testeadores and admins see everything.
type Scope struct {
	UserID        string
	RestrictToOwn bool
}

func ScopeFor(user User) Scope {
	return Scope{
		UserID:        user.ID,
		RestrictToOwn: user.Role == RoleSolicitante,
	}
}
