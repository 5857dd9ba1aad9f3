package db

import (
	"fmt"
	"time"

	"github.com/rajivgeraev/estatepro/internal/models"
)

const (
	SeedAdminEmail    = "admin@realestate.pro"
	SeedAdminPassword = "admin123"
	SeedAgentEmail    = "agent@realestate.pro"
	SeedAgentPassword = "agent123"
)

var seedCities = []string{"New York", "Los Angeles", "Austin", "Miami"}

// Seed наполняет базу демонстрационными данными: администратор, агент,
// двенадцать опубликованных объектов и два черновика.
func (d *DB) Seed() error {
	if _, err := d.CreateUser(models.UserCreate{
		Email:    SeedAdminEmail,
		Name:     "Admin",
		Password: SeedAdminPassword,
	}, models.RoleAdmin); err != nil {
		return fmt.Errorf("ошибка создания администратора: %w", err)
	}

	phone := "555-0199"
	agent, err := d.CreateUser(models.UserCreate{
		Email:    SeedAgentEmail,
		Name:     "Best Agent",
		Phone:    &phone,
		Password: SeedAgentPassword,
	}, models.RoleAgent)
	if err != nil {
		return fmt.Errorf("ошибка создания агента: %w", err)
	}

	// Объекты создаются с шагом в минуту, чтобы порядок по дате был детерминированным
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 14; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		d.SetClock(func() time.Time { return at })

		pt := models.PropertyHouse
		if i%2 == 0 {
			pt = models.PropertyApartment
		}
		status := models.StatusPublished
		if i > 12 {
			status = models.StatusDraft
		}
		bedrooms := 2 + i%3
		bathrooms := 1 + i%2
		address := fmt.Sprintf("%d00 Main St, Apt %d", i, i)
		description := fmt.Sprintf("Demo property %d with modern amenities.", i)

		p, err := d.CreateProperty(agent.ID, models.PropertyCreate{
			Title:        fmt.Sprintf("Beautiful %s in City Center %d", pt, i),
			Description:  &description,
			Price:        float64(150000 + i*25000),
			Surface:      float64(80 + i*10),
			City:         seedCities[i%len(seedCities)],
			Address:      &address,
			PropertyType: pt,
			Bedrooms:     &bedrooms,
			Bathrooms:    &bathrooms,
			Status:       status,
		})
		if err != nil {
			return fmt.Errorf("ошибка создания объекта %d: %w", i, err)
		}

		images := make([]string, 0, 3)
		for j := 1; j <= 3; j++ {
			images = append(images, fmt.Sprintf("uploads/%d/image_%d.jpg", p.ID, j))
		}
		if _, err := d.UpdateProperty(p.ID, models.PropertyUpdate{Images: images}); err != nil {
			return err
		}
	}
	d.SetClock(time.Now)
	return nil
}
