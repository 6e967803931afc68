package models

type User struct {
	ID        string `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Password  string `json:"-" db:"password"` // Never return password in JSON
	Name      string `json:"name" db:"name"`
	Role      string `json:"role" db:"role"` // "vendor", "factory", "entrepreneur" or "admin"
	Language  string `json:"language" db:"language"`
	CreatedAt int64  `json:"createdAt" db:"created_at"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Language  string `json:"language"`
	CreatedAt int64  `json:"createdAt"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		Language:  u.Language,
		CreatedAt: u.CreatedAt,
	}
}
