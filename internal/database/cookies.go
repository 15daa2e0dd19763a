package database

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/example/laundrypro/internal/models"
)

// CookieRepository keeps the API session cookies in Postgres so a restarted
// console resumes the session.
type CookieRepository struct {
	db *gorm.DB
}

func NewCookieRepository(db *gorm.DB) *CookieRepository {
	return &CookieRepository{db: db}
}

// LoadCookies returns the unexpired cookies stored for origin.
func (r *CookieRepository) LoadCookies(ctx context.Context, origin string) ([]*http.Cookie, error) {
	var rows []models.SessionCookie
	err := r.db.WithContext(ctx).
		Where("origin = ? AND (expires_at IS NULL OR expires_at > ?)", origin, time.Now()).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	cookies := make([]*http.Cookie, 0, len(rows))
	for _, row := range rows {
		c := &http.Cookie{Name: row.Name, Value: row.Value}
		if row.ExpiresAt != nil {
			c.Expires = *row.ExpiresAt
		}
		cookies = append(cookies, c)
	}
	return cookies, nil
}

// SaveCookies replaces the stored set for origin with cookies.
func (r *CookieRepository) SaveCookies(ctx context.Context, origin string, cookies []*http.Cookie) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("origin = ?", origin).Delete(&models.SessionCookie{}).Error; err != nil {
			return err
		}
		for _, c := range cookies {
			row := models.SessionCookie{Origin: origin, Name: c.Name, Value: c.Value}
			if !c.Expires.IsZero() {
				exp := c.Expires
				row.ExpiresAt = &exp
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CookieRepository) ClearCookies(ctx context.Context, origin string) error {
	return r.db.WithContext(ctx).Where("origin = ?", origin).Delete(&models.SessionCookie{}).Error
}
