// Package db содержит таблицы stand-in API в памяти процесса:
// пользователей и объекты недвижимости.
package db

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/estatepro/internal/models"
)

var (
	// ErrNotFound возвращается, если запись не найдена
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken возвращается при попытке занять чужой email
	ErrEmailTaken = errors.New("email already registered")
)

type userRow struct {
	user         models.User
	passwordHash []byte
}

// DB хранит таблицы stand-in API
type DB struct {
	mu         sync.RWMutex
	users      map[int64]*userRow
	properties map[int64]*models.Property
	nextUserID int64
	nextPropID int64
	hashCost   int
	now        func() time.Time
}

// New создаёт пустую базу. cost задаёт стоимость bcrypt, 0 означает bcrypt.DefaultCost.
func New(cost int) *DB {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &DB{
		users:      make(map[int64]*userRow),
		properties: make(map[int64]*models.Property),
		hashCost:   cost,
		now:        time.Now,
	}
}

// SetClock подменяет источник времени, используется в тестах
func (d *DB) SetClock(now func() time.Time) {
	d.mu.Lock()
	d.now = now
	d.mu.Unlock()
}

// Authenticate возвращает пользователя, если email и пароль совпадают
func (d *DB) Authenticate(email, password string) (models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, row := range d.users {
		if strings.EqualFold(row.user.Email, email) {
			if bcrypt.CompareHashAndPassword(row.passwordHash, []byte(password)) != nil {
				return models.User{}, false
			}
			return row.user, true
		}
	}
	return models.User{}, false
}

// UserByID возвращает пользователя по ID
func (d *DB) UserByID(id int64) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	row, ok := d.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return row.user, nil
}

// CreateUser добавляет пользователя с указанной ролью
func (d *DB) CreateUser(in models.UserCreate, role models.Role) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), d.hashCost)
	if err != nil {
		return models.User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.emailTakenLocked(in.Email, 0) {
		return models.User{}, ErrEmailTaken
	}

	d.nextUserID++
	u := models.User{
		ID:        d.nextUserID,
		Name:      in.Name,
		Email:     in.Email,
		Role:      role,
		Phone:     in.Phone,
		CreatedAt: d.now().UTC(),
	}
	d.users[u.ID] = &userRow{user: u, passwordHash: hash}
	return u, nil
}

// UpdateUser применяет частичное обновление к пользователю
func (d *DB) UpdateUser(id int64, in models.UserUpdate) (models.User, error) {
	var hash []byte
	if in.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*in.Password), d.hashCost)
		if err != nil {
			return models.User{}, err
		}
		hash = h
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	row, ok := d.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if in.Email != nil && !strings.EqualFold(*in.Email, row.user.Email) && d.emailTakenLocked(*in.Email, id) {
		return models.User{}, ErrEmailTaken
	}

	if in.Name != nil {
		row.user.Name = *in.Name
	}
	if in.Email != nil {
		row.user.Email = *in.Email
	}
	if in.Phone != nil {
		row.user.Phone = in.Phone
	}
	if hash != nil {
		row.passwordHash = hash
	}
	d.refreshAgentLocked(row.user)
	return row.user, nil
}

// DeleteUser удаляет пользователя и его объекты
func (d *DB) DeleteUser(id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[id]; !ok {
		return ErrNotFound
	}
	delete(d.users, id)
	for pid, p := range d.properties {
		if p.AgentID == id {
			delete(d.properties, pid)
		}
	}
	return nil
}

// UsersByRole возвращает пользователей с ролью, упорядоченных по ID
func (d *DB) UsersByRole(role models.Role) []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.User, 0, len(d.users))
	for _, row := range d.users {
		if row.user.Role == role {
			out = append(out, row.user)
		}
	}
	slices.SortFunc(out, func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (d *DB) emailTakenLocked(email string, except int64) bool {
	for id, row := range d.users {
		if id != except && strings.EqualFold(row.user.Email, email) {
			return true
		}
	}
	return false
}

// refreshAgentLocked обновляет денормализованные данные агента в его объектах
func (d *DB) refreshAgentLocked(u models.User) {
	for _, p := range d.properties {
		if p.AgentID == u.ID {
			p.Agent = agentOf(u)
		}
	}
}

func agentOf(u models.User) models.PropertyAgent {
	return models.PropertyAgent{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}
