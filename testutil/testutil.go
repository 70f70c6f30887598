// Package testutil provides a migrated SQLite database and fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/models"
)

// HobbyNames is the catalogue seeded by SeedHobbies.
var HobbyNames = []string{"Musik", "Fuglekiggeri", "Søvn", "Yoga", "Squash"}

// DB returns a fresh, migrated SQLite database stored under t.TempDir().
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "persongraph_test.db")
	db, err := database.Open(sqlite.Open(database.SQLiteDSN(path)), gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedHobbies inserts HobbyNames and returns them keyed by name.
func SeedHobbies(t *testing.T, db *gorm.DB) map[string]models.Hobby {
	t.Helper()
	out := make(map[string]models.Hobby, len(HobbyNames))
	for _, name := range HobbyNames {
		h := models.Hobby{Name: name, Category: "General", Type: "Indoor"}
		require.NoError(t, db.Create(&h).Error)
		out[name] = h
	}
	return out
}

// NewPerson builds an unsaved person aggregate living at street/zipcode.
func NewPerson(first, street string, zipcode int, phones []models.Phone, hobbies ...string) *models.Person {
	p := &models.Person{
		FirstName: first,
		LastName:  "Jensen",
		Email:     first + "@example.dk",
		Address:   &models.Address{Street: street, Zipcode: zipcode},
		Phones:    phones,
	}
	for _, h := range hobbies {
		p.Hobbies = append(p.Hobbies, models.Hobby{Name: h})
	}
	return p
}

// Count returns the number of rows of model matching the optional condition.
func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
