package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/repository"
)

type PhoneService struct {
	DB     *gorm.DB
	Lookup *repository.Lookup
	Events EventPublisher
	Log    *logger.Logger
}

func NewPhoneService(db *gorm.DB, events EventPublisher, log *logger.Logger) *PhoneService {
	return &PhoneService{
		DB:     db,
		Lookup: repository.NewLookup(db),
		Events: publisherOrNop(events),
		Log:    log,
	}
}

// RemovePhone deletes a phone number from its owner.
func (s *PhoneService) RemovePhone(ctx context.Context, number int) error {
	var owner uint
	err := inTx(ctx, s.DB, s.Lookup, "remove phone", func(tx *gorm.DB, lk *repository.Lookup) error {
		phone, err := lk.FindPhoneByNumber(ctx, number)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("phone number %d not found", number)
		}
		if err != nil {
			return err
		}
		owner = phone.PersonID
		if err := tx.Delete(&models.Phone{}, "number = ?", number).Error; err != nil {
			return fmt.Errorf("failed to delete phone %d: %w", number, err)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			s.Log.Error("remove phone failed", "number", number, "error", err)
		}
		return err
	}

	s.Log.Info("phone removed", "number", number, "person_id", owner)
	s.Events.Broadcast(newEvent(EventPhoneRemoved, "phone", number, map[string]interface{}{"person_id": owner}))
	return nil
}

func (s *PhoneService) ListPhones(ctx context.Context) ([]models.Phone, error) {
	phones, err := s.Lookup.ListPhones(ctx)
	if err != nil {
		return nil, wrap("list phones", err)
	}
	if phones == nil {
		phones = []models.Phone{}
	}
	return phones, nil
}
