// Package media превращает пути изображений объектов в абсолютные URL.
package media

import (
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"

	"github.com/rajivgeraev/estatepro/internal/config"
)

// Resolver строит URL изображения по пути из объекта
type Resolver interface {
	Resolve(imagePath string) string
}

// BaseURLResolver склеивает базовый URL и путь
type BaseURLResolver struct {
	base string
}

// NewBaseURLResolver создаёт резолвер на основе базового URL
func NewBaseURLResolver(base string) *BaseURLResolver {
	return &BaseURLResolver{base: base}
}

func (r *BaseURLResolver) Resolve(imagePath string) string {
	if isAbsolute(imagePath) {
		return imagePath
	}
	return r.base + imagePath
}

// CloudinaryResolver отдаёт изображения через доставку Cloudinary,
// public ID равен пути без расширения
type CloudinaryResolver struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryResolver создаёт резолвер Cloudinary
func NewCloudinaryResolver(cfg config.CloudinaryConfig) (*CloudinaryResolver, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryResolver{cld: cld}, nil
}

func (r *CloudinaryResolver) Resolve(imagePath string) string {
	if isAbsolute(imagePath) {
		return imagePath
	}
	publicID := strings.TrimSuffix(strings.TrimPrefix(imagePath, "/"), path.Ext(imagePath))
	asset, err := r.cld.Image(publicID)
	if err != nil {
		return imagePath
	}
	url, err := asset.String()
	if err != nil {
		return imagePath
	}
	return url
}

// NewResolver выбирает Cloudinary, если он настроен, иначе базовый URL
func NewResolver(cfg *config.Config) (Resolver, error) {
	if cfg.CloudinaryConfig.Enabled() {
		return NewCloudinaryResolver(cfg.CloudinaryConfig)
	}
	return NewBaseURLResolver(cfg.MediaURL), nil
}

func isAbsolute(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
