// file: internals/helpers/auth/token_blacklist.go
package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenBlacklistModel: access token yang dicabut (logout). Yang disimpan
// HMAC token, bukan token mentah.
type TokenBlacklistModel struct {
	Token     string    `gorm:"column:token;type:text;primaryKey" json:"-"`
	ExpiredAt time.Time `gorm:"column:expired_at;not null;index" json:"expired_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TokenBlacklistModel) TableName() string { return "token_blacklist" }

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

// RevokeToken: simpan HMAC(access_token) sampai token itu expired.
func RevokeToken(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return nil
	}
	row := TokenBlacklistModel{
		Token:     hmacHex(rawAccessToken, jwtSecret),
		ExpiredAt: expiresAt.UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"expired_at"}),
		}).
		Create(&row).Error
}

// IsBlacklisted: ada baris yang belum expired?
func IsBlacklisted(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string, now time.Time) (bool, error) {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).
		Model(&TokenBlacklistModel{}).
		Where("token = ? AND expired_at > ?", hmacHex(rawAccessToken, jwtSecret), now.UTC()).
		Count(&n).Error
	return n > 0, err
}

// PurgeExpired: hard delete baris yang sudah lewat
func PurgeExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("expired_at <= ?", now.UTC()).Delete(&TokenBlacklistModel{})
	return res.RowsAffected, res.Error
}

// BlacklistChecker: adapter untuk AuthJWTOpts.BlacklistChecker
func BlacklistChecker(db *gorm.DB, jwtSecret string) func(rawToken string) (bool, error) {
	return func(rawToken string) (bool, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return IsBlacklisted(ctx, db, rawToken, jwtSecret, time.Now())
	}
}
