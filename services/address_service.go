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

type AddressService struct {
	DB     *gorm.DB
	Lookup *repository.Lookup
	Events EventPublisher
	Log    *logger.Logger
}

func NewAddressService(db *gorm.DB, events EventPublisher, log *logger.Logger) *AddressService {
	return &AddressService{
		DB:     db,
		Lookup: repository.NewLookup(db),
		Events: publisherOrNop(events),
		Log:    log,
	}
}

// DeleteAddress deletes an address nobody lives at. It fails with Conflict
// while residents exist.
func (s *AddressService) DeleteAddress(ctx context.Context, id uint) error {
	err := inTx(ctx, s.DB, s.Lookup, "delete address", func(tx *gorm.DB, lk *repository.Lookup) error {
		if _, err := lk.LockAddressByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("address with id %d not found", id)
			}
			return err
		}
		residents, err := lk.CountPersonsReferencingAddress(ctx, id)
		if err != nil {
			return err
		}
		if residents > 0 {
			return conflict("address with id %d still has %d resident(s)", id, residents)
		}
		if err := tx.Delete(&models.Address{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete address %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			s.Log.Error("delete address failed", "address_id", id, "error", err)
		}
		return err
	}

	s.Log.Info("address deleted", "address_id", id)
	s.Events.Broadcast(newEvent(EventAddressDeleted, "address", id, nil))
	return nil
}

// PurgeOrphanAddresses deletes every address no person references and
// returns how many were deleted. Each address is rechecked under its own
// lock, so one attached in the meantime is kept.
func (s *AddressService) PurgeOrphanAddresses(ctx context.Context) (int, error) {
	ids, err := s.Lookup.ListOrphanAddressIDs(ctx, 0)
	if err != nil {
		return 0, wrap("list orphan addresses", err)
	}

	deleted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		var released bool
		err := inTx(ctx, s.DB, s.Lookup, "purge orphan address", func(tx *gorm.DB, lk *repository.Lookup) error {
			var err error
			released, err = releaseAddress(ctx, tx, lk, id)
			return err
		})
		if err != nil {
			s.Log.Error("purge orphan address failed", "address_id", id, "error", err)
			return deleted, err
		}
		if released {
			deleted++
			s.Events.Broadcast(newEvent(EventAddressDeleted, "address", id, map[string]interface{}{"orphan": true}))
		}
	}

	if deleted > 0 {
		s.Log.Info("orphan addresses purged", "count", deleted)
	}
	return deleted, nil
}
