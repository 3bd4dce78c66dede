package daemon

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authdesk/authdesk/internal/config"
	"github.com/authdesk/authdesk/internal/db/models"
)

const generatedPasswordBytes = 12

// Seed creates the configured authority types and, when no admin exists yet,
// the initial admin user. Running it again changes nothing.
func Seed(ctx context.Context, cfg *config.Seed, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range cfg.AuthorityTypes {
			if name == "" {
				continue
			}

			var t models.AuthorityType
			if err := tx.Where(models.AuthorityType{Name: name}).FirstOrCreate(&t).Error; err != nil {
				return errors.Wrapf(err, "failed to seed authority type %q", name)
			}
		}

		if cfg.AdminEmail == "" {
			return nil
		}

		var admins int64
		if err := tx.Model(&models.User{}).Where("type = ?", models.UserTypeAdmin).Count(&admins).Error; err != nil {
			return errors.Wrap(err, "failed to count admin users")
		}

		if admins > 0 {
			return nil
		}

		password := cfg.AdminPassword
		if password == "" {
			b := make([]byte, generatedPasswordBytes)
			if _, err := rand.Read(b); err != nil {
				return errors.Wrap(err, "failed to generate admin password")
			}

			password = hex.EncodeToString(b)

			log.Warn().Str("email", cfg.AdminEmail).Str("password", password).Msg("created admin user with generated password, change it")
		}

		hash, err := models.HashPassword(password)
		if err != nil {
			return errors.Wrap(err, "failed to hash admin password")
		}

		admin := models.User{
			Email:    cfg.AdminEmail,
			Name:     "Administrator",
			Password: hash,
			Type:     models.UserTypeAdmin,
		}

		return errors.Wrap(tx.Create(&admin).Error, "failed to seed admin user")
	})
}
