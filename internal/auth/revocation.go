package auth

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/products_api/internal/models"
)

// RevocationStore is the server-side logout list. Revoked rows are kept
// until the token they denylist would have expired anyway.
type RevocationStore struct {
	DB *gorm.DB
}

func (s *RevocationStore) Revoke(ctx context.Context, p *Principal) error {
	row := models.RevokedToken{
		Token:     p.Token,
		UserID:    p.UserID,
		ExpiresAt: p.ExpiresAt.Unix(),
	}
	// A second logout with the same token is a no-op, not an error.
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	// Opportunistic cleanup, rows past their own expiry can never match a
	// live token again.
	s.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now().Unix()).
		Delete(&models.RevokedToken{})

	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}
	return count > 0, nil
}
