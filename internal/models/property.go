package models

import (
	"fmt"
	"time"
)

// PropertyType определяет тип объекта недвижимости
type PropertyType string

const (
	PropertyHouse      PropertyType = "house"
	PropertyApartment  PropertyType = "apartment"
	PropertyCondo      PropertyType = "condo"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
)

// Valid проверяет, что тип объекта входит в допустимый набор
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyHouse, PropertyApartment, PropertyCondo, PropertyLand, PropertyCommercial:
		return true
	}
	return false
}

// PropertyStatus определяет статус публикации объекта
type PropertyStatus string

const (
	StatusDraft     PropertyStatus = "draft"
	StatusPublished PropertyStatus = "published"
)

// Sort определяет порядок сортировки публичного каталога
type Sort string

const (
	SortNone      Sort = ""
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

// ParseSort разбирает значение сортировки из пользовательского ввода
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case SortNone, SortPriceAsc, SortPriceDesc:
		return Sort(s), nil
	case "none", "default":
		return SortNone, nil
	}
	return SortNone, fmt.Errorf("unknown sort %q (expected price_asc or price_desc)", s)
}

// PropertyAgent содержит краткую информацию об агенте объекта
type PropertyAgent struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// Property представляет снимок объекта недвижимости, полученный от API
type Property struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description,omitempty"`
	Price        float64        `json:"price"`
	Surface      float64        `json:"surface"`
	City         string         `json:"city"`
	Street       *string        `json:"street,omitempty"`
	Address      *string        `json:"address,omitempty"`
	PropertyType PropertyType   `json:"property_type"`
	Bedrooms     *int           `json:"bedrooms,omitempty"`
	Bathrooms    *int           `json:"bathrooms,omitempty"`
	Status       PropertyStatus `json:"status"`
	Images       []string       `json:"images"`
	AgentID      int64          `json:"agent_id"`
	Agent        PropertyAgent  `json:"agent"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PropertyCreate содержит поля для создания объекта
type PropertyCreate struct {
	Title        string         `json:"title"`
	Description  *string        `json:"description,omitempty"`
	Price        float64        `json:"price"`
	Surface      float64        `json:"surface"`
	City         string         `json:"city"`
	Street       *string        `json:"street,omitempty"`
	Address      *string        `json:"address,omitempty"`
	PropertyType PropertyType   `json:"property_type"`
	Bedrooms     *int           `json:"bedrooms,omitempty"`
	Bathrooms    *int           `json:"bathrooms,omitempty"`
	Status       PropertyStatus `json:"status,omitempty"`
}

// PropertyUpdate содержит частичное обновление объекта, nil-поля не изменяются
type PropertyUpdate struct {
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Price        *float64        `json:"price,omitempty"`
	Surface      *float64        `json:"surface,omitempty"`
	City         *string         `json:"city,omitempty"`
	Street       *string         `json:"street,omitempty"`
	Address      *string         `json:"address,omitempty"`
	PropertyType *PropertyType   `json:"property_type,omitempty"`
	Bedrooms     *int            `json:"bedrooms,omitempty"`
	Bathrooms    *int            `json:"bathrooms,omitempty"`
	Status       *PropertyStatus `json:"status,omitempty"`
	Images       []string        `json:"images,omitempty"`
}
