package models

const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Name     string `db:"name" json:"name"`
	Role     string `db:"role" json:"role"`
}

// UserAccount is the server-side record; the password hash never leaves the store.
type UserAccount struct {
	User
	PasswordHash string `db:"password_hash" json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}
