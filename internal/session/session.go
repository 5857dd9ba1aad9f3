// Package session управляет сессией пользователя: вход, выход, восстановление
// при старте и реакция на отказ API в авторизации.
package session

import (
	"github.com/rajivgeraev/estatepro/internal/models"
)

// TokenKey ключ хранилища, под которым лежит токен
const TokenKey = "token"

// Session описывает текущую личность. User задан тогда и только тогда, когда задан Token.
type Session struct {
	Token string
	User  *models.User
}

// IsAuthenticated сообщает, авторизован ли пользователь
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// IsAdmin сообщает, есть ли у пользователя права администратора
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

// Owner возвращает ключ владельца избранного для этой сессии
func (s Session) Owner() models.OwnerKey {
	if !s.IsAuthenticated() {
		return models.GuestOwner
	}
	return models.UserOwner(s.User.ID)
}

// Credential содержит данные для входа
type Credential struct {
	Email    string
	Password string
}

// Navigator представляет слой представления, который умеет показать экран входа
type Navigator interface {
	OnLoginSurface() bool
	RedirectToLogin()
}

type noopNavigator struct{}

func (noopNavigator) OnLoginSurface() bool { return true }
func (noopNavigator) RedirectToLogin()     {}
