package database

import "github.com/SelfhostedPro/foss.space/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Thread{},
		&models.Post{},
		&models.PostVersion{},
		&models.ThreadTag{},
		&models.PostTag{},
		&models.Like{},
		&models.Bookmark{},
		&models.Flag{},
		&models.Subscription{},
		&models.Notification{},
	}
}
