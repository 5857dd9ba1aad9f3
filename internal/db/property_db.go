package db

import (
	"cmp"
	"slices"

	"github.com/rajivgeraev/estatepro/internal/models"
)

// PropertyFilter описывает выборку объектов
type PropertyFilter struct {
	PublishedOnly bool
	City          string
	AgentID       int64
	Status        models.PropertyStatus
	// Sort принимает price_asc, price_desc или price (по убыванию цены)
	Sort  string
	Skip  int
	Limit int
}

// Properties возвращает окно выборки. Без сортировки по цене новые объекты идут первыми.
func (d *DB) Properties(f PropertyFilter) []models.Property {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.Property, 0, len(d.properties))
	for _, p := range d.properties {
		if f.PublishedOnly && p.Status != models.StatusPublished {
			continue
		}
		if f.City != "" && p.City != f.City {
			continue
		}
		if f.AgentID != 0 && p.AgentID != f.AgentID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, clone(p))
	}

	slices.SortStableFunc(out, func(a, b models.Property) int {
		switch f.Sort {
		case string(models.SortPriceAsc):
			if c := cmp.Compare(a.Price, b.Price); c != 0 {
				return c
			}
		case string(models.SortPriceDesc), "price":
			if c := cmp.Compare(b.Price, a.Price); c != 0 {
				return c
			}
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if f.Skip > 0 {
		if f.Skip >= len(out) {
			return []models.Property{}
		}
		out = out[f.Skip:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}

// PropertyByID возвращает объект по ID
func (d *DB) PropertyByID(id int64) (models.Property, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.properties[id]
	if !ok {
		return models.Property{}, ErrNotFound
	}
	return clone(p), nil
}

// CreateProperty добавляет объект агента. Новый объект создаётся без изображений.
func (d *DB) CreateProperty(agentID int64, in models.PropertyCreate) (models.Property, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	agent, ok := d.users[agentID]
	if !ok {
		return models.Property{}, ErrNotFound
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}

	now := d.now().UTC()
	d.nextPropID++
	p := &models.Property{
		ID:           d.nextPropID,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		Surface:      in.Surface,
		City:         in.City,
		Street:       in.Street,
		Address:      in.Address,
		PropertyType: in.PropertyType,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Status:       status,
		Images:       []string{},
		AgentID:      agentID,
		Agent:        agentOf(agent.user),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d.properties[p.ID] = p
	return clone(p), nil
}

// UpdateProperty применяет частичное обновление
func (d *DB) UpdateProperty(id int64, in models.PropertyUpdate) (models.Property, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.properties[id]
	if !ok {
		return models.Property{}, ErrNotFound
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Surface != nil {
		p.Surface = *in.Surface
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.Street != nil {
		p.Street = in.Street
	}
	if in.Address != nil {
		p.Address = in.Address
	}
	if in.PropertyType != nil {
		p.PropertyType = *in.PropertyType
	}
	if in.Bedrooms != nil {
		p.Bedrooms = in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = in.Bathrooms
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Images != nil {
		p.Images = slices.Clone(in.Images)
	}
	p.UpdatedAt = d.now().UTC()
	return clone(p), nil
}

// DeleteProperty удаляет объект
func (d *DB) DeleteProperty(id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.properties[id]; !ok {
		return ErrNotFound
	}
	delete(d.properties, id)
	return nil
}

func clone(p *models.Property) models.Property {
	c := *p
	c.Images = slices.Clone(p.Images)
	if c.Images == nil {
		c.Images = []string{}
	}
	return c
}
