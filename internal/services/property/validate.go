package property

import "github.com/rajivgeraev/estatepro/internal/models"

// ValidateCreate проверяет поля нового объекта и возвращает текст ошибки
func ValidateCreate(in models.PropertyCreate) string {
	switch {
	case len(in.Title) < 3:
		return "title must be at least 3 characters"
	case in.Price < 0:
		return "price must be non-negative"
	case in.Surface <= 0:
		return "surface must be positive"
	case len(in.City) < 2:
		return "city must be at least 2 characters"
	case !in.PropertyType.Valid():
		return "property_type is not valid"
	case in.Status != "" && in.Status != models.StatusDraft && in.Status != models.StatusPublished:
		return "status must be draft or published"
	}
	return validateRooms(in.Bedrooms, in.Bathrooms)
}

// ValidateUpdate проверяет частичное обновление объекта
func ValidateUpdate(in models.PropertyUpdate) string {
	switch {
	case in.Title != nil && len(*in.Title) < 3:
		return "title must be at least 3 characters"
	case in.Price != nil && *in.Price < 0:
		return "price must be non-negative"
	case in.Surface != nil && *in.Surface <= 0:
		return "surface must be positive"
	case in.City != nil && len(*in.City) < 2:
		return "city must be at least 2 characters"
	case in.PropertyType != nil && !in.PropertyType.Valid():
		return "property_type is not valid"
	case in.Status != nil && *in.Status != models.StatusDraft && *in.Status != models.StatusPublished:
		return "status must be draft or published"
	}
	return validateRooms(in.Bedrooms, in.Bathrooms)
}

func validateRooms(bedrooms, bathrooms *int) string {
	if bedrooms != nil && *bedrooms < 0 {
		return "bedrooms must be non-negative"
	}
	if bathrooms != nil && *bathrooms < 0 {
		return "bathrooms must be non-negative"
	}
	return ""
}
