package models

import "time"

// Role определяет роль пользователя бэк-офиса
type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// User представляет текущего пользователя, как его возвращает профиль API
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin сообщает, есть ли у пользователя права администратора
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserCreate содержит данные для создания агента администратором
type UserCreate struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password"`
}

// UserUpdate содержит частичное обновление профиля
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Token представляет ответ эндпоинта выдачи токена
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
