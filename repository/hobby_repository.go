package repository

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camden-git/persongraph/models"
)

// DefaultHobbies is the catalogue seeded when no catalogue file is configured.
var DefaultHobbies = []models.Hobby{
	{Name: "Musik", Category: "Generel", Type: "Indendørs", WikiLink: "https://da.wikipedia.org/wiki/Musik"},
	{Name: "Fuglekiggeri", Category: "Natur", Type: "Udendørs", WikiLink: "https://da.wikipedia.org/wiki/Fuglekiggeri"},
	{Name: "Søvn", Category: "Generel", Type: "Indendørs", WikiLink: "https://da.wikipedia.org/wiki/S%C3%B8vn"},
	{Name: "Yoga", Category: "Motion", Type: "Indendørs", WikiLink: "https://da.wikipedia.org/wiki/Yoga"},
	{Name: "Squash", Category: "Sport", Type: "Indendørs", WikiLink: "https://da.wikipedia.org/wiki/Squash"},
}

type hobbyCatalogueEntry struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Type     string `yaml:"type"`
	WikiLink string `yaml:"wiki_link"`
}

// HobbyRepository writes the hobby catalogue.
type HobbyRepository struct {
	DB *gorm.DB
}

// NewHobbyRepository creates a new instance of HobbyRepository
func NewHobbyRepository(db *gorm.DB) *HobbyRepository {
	return &HobbyRepository{DB: db}
}

// Upsert inserts hobbies by name, refreshing category, type and wiki link of
// names that already exist. It returns the number of rows written.
func (r *HobbyRepository) Upsert(ctx context.Context, hobbies []models.Hobby) (int64, error) {
	if len(hobbies) == 0 {
		return 0, nil
	}
	for i := range hobbies {
		if err := hobbies[i].Validate(); err != nil {
			return 0, fmt.Errorf("invalid hobby %q: %w", hobbies[i].Name, err)
		}
	}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "type", "wiki_link"}),
	}).Create(&hobbies)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert hobbies: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// LoadCatalogue reads a YAML (or JSON) list of hobbies from path.
func (r *HobbyRepository) LoadCatalogue(path string) ([]models.Hobby, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hobby catalogue %s: %w", path, err)
	}
	var entries []hobbyCatalogueEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse hobby catalogue %s: %w", path, err)
	}
	hobbies := make([]models.Hobby, 0, len(entries))
	for _, e := range entries {
		hobbies = append(hobbies, models.Hobby{Name: e.Name, Category: e.Category, Type: e.Type, WikiLink: e.WikiLink})
	}
	return hobbies, nil
}
