package seed

import (
	"riskcheck/config"
	"riskcheck/internal/logger"

	. "riskcheck/internal/models"

	"gorm.io/gorm"
)

// Seed creates the development accounts, one per role. Existing emails are
// left untouched so reseeding a database is harmless.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	users := []struct {
		Name     string
		Email    string
		Password string
		Role     string
	}{
		{
			Name:     "Admin General",
			Email:    "admin@riskcheck.local",
			Password: "password",
			Role:     RoleAdmin,
		}, {
			Name:     "Carla Solicitante",
			Email:    "carla@riskcheck.local",
			Password: "password",
			Role:     RoleSolicitante,
		}, {
			Name:     "Tomas Testeador",
			Email:    "tomas@riskcheck.local",
			Password: "password",
			Role:     RoleTesteador,
		},
	}

	for _, seed := range users {
		var existing User
		if err := db.First(&existing, "email = ?", seed.Email).Error; err == nil {
			log.Info("User already exists", "email", seed.Email)
			continue
		}

		user := User{
			Name:  seed.Name,
			Email: seed.Email,
			Role:  seed.Role,
		}
		if err := user.SetPassword(seed.Password); err != nil {
			log.Er("failed to hash seed password", err, "email", seed.Email)
			continue
		}

		log.Info("Seeding user", "email", seed.Email, "role", seed.Role)
		if err := db.Create(&user).Error; err != nil {
			log.Er("failed to create user", err, "email", seed.Email)
		}
	}

	return nil
}
