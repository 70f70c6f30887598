package repository

import (
	"context"

	"github.com/camden-git/persongraph/models"
)

// HobbyReader is the read side of the hobby catalogue.
type HobbyReader interface {
	FindHobbyByName(ctx context.Context, name string) (*models.Hobby, error)
	ListHobbies(ctx context.Context) ([]models.Hobby, error)
	SearchHobbiesByName(ctx context.Context, query string) ([]models.Hobby, error)
}

// HobbyRepositoryInterface defines the write operations on the hobby catalogue.
// Only seeding writes hobbies; the person facade never creates them.
type HobbyRepositoryInterface interface {
	Upsert(ctx context.Context, hobbies []models.Hobby) (int64, error)
	LoadCatalogue(path string) ([]models.Hobby, error)
}

var (
	_ HobbyReader              = (*Lookup)(nil)
	_ HobbyRepositoryInterface = (*HobbyRepository)(nil)
)
