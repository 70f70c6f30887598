package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/repository"
)

// resolveAddress returns the stored address with in's natural key, creating
// it if needed. A concurrent insert of the same key is absorbed by the
// unique index and re-read.
func resolveAddress(ctx context.Context, tx *gorm.DB, lk *repository.Lookup, in *models.Address) (*models.Address, error) {
	found, err := lk.FindAddressByNaturalKey(ctx, in.Street, in.Zipcode)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	addr := models.Address{Street: in.Street, Zipcode: in.Zipcode}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "street"}, {Name: "zipcode"}},
		DoNothing: true,
	}).Create(&addr)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to insert address %q %d: %w", in.Street, in.Zipcode, result.Error)
	}
	if result.RowsAffected == 1 && addr.ID != 0 {
		return &addr, nil
	}

	found, err = lk.FindAddressByNaturalKey(ctx, in.Street, in.Zipcode)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read address %q %d after conflict: %w", in.Street, in.Zipcode, err)
	}
	return found, nil
}

// resolveHobbies maps the submitted hobby names to stored hobbies. Hobbies
// are never created here.
func resolveHobbies(ctx context.Context, lk *repository.Lookup, in []models.Hobby) ([]models.Hobby, error) {
	seen := make(map[string]bool, len(in))
	out := make([]models.Hobby, 0, len(in))
	for _, h := range in {
		if seen[h.Name] {
			continue
		}
		seen[h.Name] = true

		found, err := lk.FindHobbyByName(ctx, h.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("hobby %q not found", h.Name)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *found)
	}
	return out, nil
}

// reconcilePhones binds the submitted phones to personID. An unknown number
// is created. A known number is merged only when checkOwnership is set and
// personID already owns it; otherwise it is a conflict.
func reconcilePhones(ctx context.Context, tx *gorm.DB, lk *repository.Lookup, personID uint, phones []models.Phone, checkOwnership bool) error {
	for _, ph := range phones {
		existing, err := lk.FindPhoneByNumber(ctx, ph.Number)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := models.Phone{Number: ph.Number, Description: ph.Description, PersonID: personID}
			if err := tx.Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return conflict("phone number %d is already in use", ph.Number)
				}
				return fmt.Errorf("failed to insert phone %d: %w", ph.Number, err)
			}
		case err != nil:
			return err
		case checkOwnership && existing.PersonID == personID:
			err := tx.Model(&models.Phone{}).Where("number = ?", ph.Number).Update("description", ph.Description).Error
			if err != nil {
				return fmt.Errorf("failed to update phone %d: %w", ph.Number, err)
			}
		default:
			return conflict("phone number %d is already in use", ph.Number)
		}
	}
	return nil
}

// bindHobbies replaces the hobby links of personID with hobbies.
func bindHobbies(tx *gorm.DB, personID uint, hobbies []models.Hobby) error {
	if err := tx.Where("person_id = ?", personID).Delete(&models.HobbyPerson{}).Error; err != nil {
		return fmt.Errorf("failed to clear hobbies of person %d: %w", personID, err)
	}
	if len(hobbies) == 0 {
		return nil
	}
	links := make([]models.HobbyPerson, 0, len(hobbies))
	for _, h := range hobbies {
		links = append(links, models.HobbyPerson{PersonID: personID, HobbyID: h.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link hobbies to person %d: %w", personID, err)
	}
	return nil
}

// releaseAddress deletes the address if no person references it any more.
// The address row is locked before counting so a concurrent writer cannot
// attach a person between the count and the delete.
func releaseAddress(ctx context.Context, tx *gorm.DB, lk *repository.Lookup, addressID uint) (bool, error) {
	if _, err := lk.LockAddressByID(ctx, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	n, err := lk.CountPersonsReferencingAddress(ctx, addressID)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := tx.Delete(&models.Address{}, addressID).Error; err != nil {
		return false, fmt.Errorf("failed to delete orphan address %d: %w", addressID, err)
	}
	return true, nil
}
