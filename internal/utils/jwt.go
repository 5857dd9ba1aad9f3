package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken возвращается, если из токена нельзя извлечь субъект
var ErrMalformedToken = errors.New("malformed token")

// JWTService отвечает за создание и валидацию JWT токенов
type JWTService struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTService создаёт новый экземпляр JWTService
func NewJWTService(secretKey string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// GenerateToken создаёт JWT токен, subject которого равен ID пользователя
func (s *JWTService) GenerateToken(userID int64) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken проверяет подпись и срок действия JWT токена
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	}, jwt.WithTimeFunc(s.now))
}

// ExtractUserID проверяет токен и возвращает ID пользователя из subject
func (s *JWTService) ExtractUserID(tokenString string) (int64, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, ErrMalformedToken
	}
	return id, nil
}

// TokenClaims содержит поля токена, доступные клиенту без секрета
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired сообщает, истёк ли токен к моменту now. Токен без exp не истекает.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// PeekClaims читает claims без проверки подписи.
// Клиент не знает секрета, поэтому решение о валидности остаётся за сервером.
func PeekClaims(tokenString string) (TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var out TokenClaims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
