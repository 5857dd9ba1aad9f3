package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// OwnerKey идентифицирует владельца набора избранного
type OwnerKey string

// GuestOwner используется, когда пользователь не авторизован
const GuestOwner OwnerKey = "guest"

// UserOwner возвращает ключ владельца для авторизованного пользователя
func UserOwner(userID int64) OwnerKey {
	return OwnerKey("user:" + strconv.FormatInt(userID, 10))
}

// StorageKey возвращает ключ хранилища, под которым лежит набор владельца
func (k OwnerKey) StorageKey() string {
	if id, ok := strings.CutPrefix(string(k), "user:"); ok && id != "" {
		return fmt.Sprintf("favorites_user_%s", id)
	}
	return "favorites_guest"
}

// FavoriteSet представляет снимок избранного одного владельца
type FavoriteSet struct {
	Owner OwnerKey `json:"owner"`
	IDs   []int64  `json:"ids"`
}

// Contains проверяет наличие объекта в наборе
func (s FavoriteSet) Contains(id int64) bool {
	return slices.Contains(s.IDs, id)
}

// Len возвращает размер набора
func (s FavoriteSet) Len() int {
	return len(s.IDs)
}
