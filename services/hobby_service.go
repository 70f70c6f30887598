package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/repository"
)

// HobbyCache stores hobby read results. Implementations must be safe for
// concurrent use; a miss or a cache failure is reported as ok == false.
type HobbyCache interface {
	GetHobbies(ctx context.Context, key string) ([]models.Hobby, bool)
	SetHobbies(ctx context.Context, key string, hobbies []models.Hobby)
}

const (
	hobbyCacheKeyAll    = "all"
	hobbyCacheKeySearch = "search:"
	hobbyCacheKeyName   = "name:"
)

// HobbyService serves the read side of the hobby catalogue.
type HobbyService struct {
	Reader repository.HobbyReader
	Stats  *database.StatsStore
	Cache  HobbyCache // optional
	Log    *logger.Logger
}

func NewHobbyService(db *gorm.DB, stats *database.StatsStore, cache HobbyCache, log *logger.Logger) *HobbyService {
	return &HobbyService{
		Reader: repository.NewLookup(db),
		Stats:  stats,
		Cache:  cache,
		Log:    log,
	}
}

// sortHobbies orders hobbies by name in natural order ("Yoga 2" before "Yoga 10").
func sortHobbies(hobbies []models.Hobby) {
	sort.SliceStable(hobbies, func(i, j int) bool {
		if hobbies[i].Name == hobbies[j].Name {
			return false
		}
		return natsort.Compare(hobbies[i].Name, hobbies[j].Name)
	})
}

func (s *HobbyService) cached(ctx context.Context, key string, load func() ([]models.Hobby, error)) ([]models.Hobby, error) {
	if s.Cache != nil {
		if hobbies, ok := s.Cache.GetHobbies(ctx, key); ok {
			return hobbies, nil
		}
	}
	hobbies, err := load()
	if err != nil {
		return nil, err
	}
	sortHobbies(hobbies)
	if s.Cache != nil {
		s.Cache.SetHobbies(ctx, key, hobbies)
	}
	return hobbies, nil
}

// GetHobbies lists the catalogue. An empty catalogue is NotFound.
func (s *HobbyService) GetHobbies(ctx context.Context) ([]models.Hobby, error) {
	hobbies, err := s.cached(ctx, hobbyCacheKeyAll, func() ([]models.Hobby, error) {
		return s.Reader.ListHobbies(ctx)
	})
	if err != nil {
		return nil, wrap("list hobbies", err)
	}
	if len(hobbies) == 0 {
		return nil, notFound("there are currently no hobbies")
	}
	return hobbies, nil
}

// SearchHobbies returns hobbies whose name contains query; possibly none.
func (s *HobbyService) SearchHobbies(ctx context.Context, query string) ([]models.Hobby, error) {
	key := hobbyCacheKeySearch + strings.ToLower(query)
	hobbies, err := s.cached(ctx, key, func() ([]models.Hobby, error) {
		return s.Reader.SearchHobbiesByName(ctx, query)
	})
	if err != nil {
		return nil, wrap("search hobbies", err)
	}
	if hobbies == nil {
		hobbies = []models.Hobby{}
	}
	return hobbies, nil
}

func (s *HobbyService) GetHobbyByName(ctx context.Context, name string) (*models.Hobby, error) {
	hobbies, err := s.cached(ctx, hobbyCacheKeyName+name, func() ([]models.Hobby, error) {
		h, err := s.Reader.FindHobbyByName(ctx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("hobby %q not found", name)
		}
		if err != nil {
			return nil, err
		}
		return []models.Hobby{*h}, nil
	})
	if err != nil {
		return nil, wrap("get hobby", err)
	}
	if len(hobbies) == 0 {
		return nil, notFound("hobby %q not found", name)
	}
	return &hobbies[0], nil
}

func (s *HobbyService) CountHobbies(ctx context.Context) (int64, error) {
	n, err := s.Stats.CountHobbies(ctx)
	return n, wrap("count hobbies", err)
}

// CountPersonsByHobbyName counts people with the hobby; an unknown hobby counts 0.
func (s *HobbyService) CountPersonsByHobbyName(ctx context.Context, name string) (int64, error) {
	n, err := s.Stats.CountPersonsWithHobby(ctx, name)
	return n, wrap("count persons by hobby", err)
}
