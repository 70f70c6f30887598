package services

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/repository"
)

// PersonService keeps a person, its address, phones and hobby links consistent.
// Every mutation runs in a single transaction.
type PersonService struct {
	DB     *gorm.DB
	Lookup *repository.Lookup
	Events EventPublisher
	Log    *logger.Logger
}

// NewPersonService creates a new instance of PersonService. events may be nil.
func NewPersonService(db *gorm.DB, events EventPublisher, log *logger.Logger) *PersonService {
	return &PersonService{
		DB:     db,
		Lookup: repository.NewLookup(db),
		Events: publisherOrNop(events),
		Log:    log,
	}
}

func validatePersonInput(p *models.Person) error {
	if p == nil {
		return invalid(errors.New("person is required"))
	}
	if err := p.Validate(); err != nil {
		return invalid(err)
	}
	if p.Address == nil {
		return invalid(validation.Errors{"address": errors.New("address is required")})
	}
	seen := make(map[int]bool, len(p.Phones))
	for _, ph := range p.Phones {
		if seen[ph.Number] {
			return invalid(validation.Errors{"phones": fmt.Errorf("phone number %d is listed more than once", ph.Number)})
		}
		seen[ph.Number] = true
	}
	return nil
}

// CreatePerson stores a new person with its address, phones and hobby links
// and returns the stored aggregate.
func (s *PersonService) CreatePerson(ctx context.Context, in *models.Person) (*models.Person, error) {
	if err := validatePersonInput(in); err != nil {
		return nil, err
	}

	var out *models.Person
	err := inTx(ctx, s.DB, s.Lookup, "create person", func(tx *gorm.DB, lk *repository.Lookup) error {
		addr, err := resolveAddress(ctx, tx, lk, in.Address)
		if err != nil {
			return err
		}
		hobbies, err := resolveHobbies(ctx, lk, in.Hobbies)
		if err != nil {
			return err
		}

		row := models.Person{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			AddressID: &addr.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}

		if err := reconcilePhones(ctx, tx, lk, row.ID, in.Phones, false); err != nil {
			return err
		}
		if err := bindHobbies(tx, row.ID, hobbies); err != nil {
			return err
		}

		out, err = loadPerson(ctx, lk, row.ID)
		return err
	})
	if err != nil {
		s.logFailure("create person", err)
		return nil, err
	}

	s.Log.Info("person created", "person_id", out.ID, "address_id", out.AddressID)
	s.Events.Broadcast(newEvent(EventPersonCreated, "person", out.ID, nil))
	return out, nil
}

// UpdatePerson replaces the fields, address and hobby set of an existing
// person and merges the submitted phones into the ones it owns.
// An unknown id is reported as NotFound before the input is validated.
func (s *PersonService) UpdatePerson(ctx context.Context, in *models.Person) (*models.Person, error) {
	if in == nil {
		return nil, validatePersonInput(in)
	}

	var out *models.Person
	var releasedAddress bool
	err := inTx(ctx, s.DB, s.Lookup, "update person", func(tx *gorm.DB, lk *repository.Lookup) error {
		current, err := lk.FindPersonByID(ctx, in.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("person with id %d not found", in.ID)
		}
		if err != nil {
			return err
		}
		if err := validatePersonInput(in); err != nil {
			return err
		}

		addr, err := resolveAddress(ctx, tx, lk, in.Address)
		if err != nil {
			return err
		}
		if err := reconcilePhones(ctx, tx, lk, current.ID, in.Phones, true); err != nil {
			return err
		}
		hobbies, err := resolveHobbies(ctx, lk, in.Hobbies)
		if err != nil {
			return err
		}

		result := tx.Model(&models.Person{ID: current.ID}).Updates(map[string]interface{}{
			"first_name": in.FirstName,
			"last_name":  in.LastName,
			"email":      in.Email,
			"address_id": addr.ID,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update person %d: %w", current.ID, result.Error)
		}
		if err := bindHobbies(tx, current.ID, hobbies); err != nil {
			return err
		}

		if current.AddressID != nil && *current.AddressID != addr.ID {
			if releasedAddress, err = releaseAddress(ctx, tx, lk, *current.AddressID); err != nil {
				return err
			}
		}

		out, err = loadPerson(ctx, lk, current.ID)
		return err
	})
	if err != nil {
		s.logFailure("update person", err)
		return nil, err
	}

	s.Log.Info("person updated", "person_id", out.ID, "address_id", out.AddressID, "old_address_deleted", releasedAddress)
	s.Events.Broadcast(newEvent(EventPersonUpdated, "person", out.ID, nil))
	return out, nil
}

// DeletePerson removes a person together with its phones and hobby links.
// The address stays; an address nobody lives at is removed with
// AddressService.DeleteAddress or by the janitor.
func (s *PersonService) DeletePerson(ctx context.Context, id uint) error {
	var addressID *uint
	err := inTx(ctx, s.DB, s.Lookup, "delete person", func(tx *gorm.DB, lk *repository.Lookup) error {
		p, err := lk.FindPersonByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("person with id %d not found", id)
		}
		if err != nil {
			return err
		}
		addressID = p.AddressID

		// the schema cascades these as well
		if err := tx.Where("person_id = ?", id).Delete(&models.Phone{}).Error; err != nil {
			return fmt.Errorf("failed to delete phones of person %d: %w", id, err)
		}
		if err := tx.Where("person_id = ?", id).Delete(&models.HobbyPerson{}).Error; err != nil {
			return fmt.Errorf("failed to delete hobby links of person %d: %w", id, err)
		}
		if err := tx.Delete(&models.Person{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete person %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete person", err)
		return err
	}

	s.Log.Info("person deleted", "person_id", id, "address_id", addressID)
	s.Events.Broadcast(newEvent(EventPersonDeleted, "person", id, nil))
	return nil
}

// RemoveAddressFromPerson detaches the person's address and deletes the
// address if no other person references it. A person without an address
// is left unchanged.
func (s *PersonService) RemoveAddressFromPerson(ctx context.Context, id uint) error {
	var (
		addressID       uint
		releasedAddress bool
	)
	err := inTx(ctx, s.DB, s.Lookup, "remove address from person", func(tx *gorm.DB, lk *repository.Lookup) error {
		p, err := lk.FindPersonByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("person with id %d not found", id)
		}
		if err != nil {
			return err
		}
		if p.AddressID == nil {
			return nil
		}
		addressID = *p.AddressID

		if err := tx.Model(&models.Person{ID: id}).Update("address_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear address of person %d: %w", id, err)
		}
		releasedAddress, err = releaseAddress(ctx, tx, lk, addressID)
		return err
	})
	if err != nil {
		s.logFailure("remove address from person", err)
		return err
	}
	if addressID == 0 {
		return nil
	}

	s.Log.Info("address removed from person", "person_id", id, "address_id", addressID, "address_deleted", releasedAddress)
	s.Events.Broadcast(newEvent(EventAddressRemoved, "person", id, map[string]interface{}{
		"address_id":      addressID,
		"address_deleted": releasedAddress,
	}))
	return nil
}

func (s *PersonService) GetPersonByID(ctx context.Context, id uint) (*models.Person, error) {
	var out *models.Person
	err := inReadTx(ctx, s.DB, s.Lookup, "get person", func(lk *repository.Lookup) error {
		var err error
		out, err = loadPerson(ctx, lk, id)
		return err
	})
	return out, err
}

// GetPersonByNumber returns the owner of a phone number.
func (s *PersonService) GetPersonByNumber(ctx context.Context, number int) (*models.Person, error) {
	var out *models.Person
	err := inReadTx(ctx, s.DB, s.Lookup, "get person by number", func(lk *repository.Lookup) error {
		phone, err := lk.FindPhoneByNumber(ctx, number)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("no person with phone number %d", number)
		}
		if err != nil {
			return err
		}
		out, err = loadPerson(ctx, lk, phone.PersonID)
		return err
	})
	return out, err
}

// GetPersonsByHobbyName fails with NotFound only when the hobby is unknown.
func (s *PersonService) GetPersonsByHobbyName(ctx context.Context, name string) ([]models.Person, error) {
	var out []models.Person
	err := inReadTx(ctx, s.DB, s.Lookup, "get persons by hobby", func(lk *repository.Lookup) error {
		hobby, err := lk.FindHobbyByName(ctx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("hobby %q not found", name)
		}
		if err != nil {
			return err
		}
		people, err := lk.ListPersonsWithHobby(ctx, hobby.ID)
		if err != nil {
			return err
		}
		out, err = assembleAll(ctx, lk, people)
		return err
	})
	return out, err
}

// GetPersonsByZipcode returns an empty list when nobody lives in zipcode.
func (s *PersonService) GetPersonsByZipcode(ctx context.Context, zipcode int) ([]models.Person, error) {
	var out []models.Person
	err := inReadTx(ctx, s.DB, s.Lookup, "get persons by zipcode", func(lk *repository.Lookup) error {
		people, err := lk.ListPersonsByZipcode(ctx, zipcode)
		if err != nil {
			return err
		}
		out, err = assembleAll(ctx, lk, people)
		return err
	})
	return out, err
}

func (s *PersonService) ListPersons(ctx context.Context, sortOrder string) ([]models.Person, error) {
	var out []models.Person
	err := inReadTx(ctx, s.DB, s.Lookup, "list persons", func(lk *repository.Lookup) error {
		people, err := lk.ListPersons(ctx, sortOrder)
		if err != nil {
			return err
		}
		out, err = assembleAll(ctx, lk, people)
		return err
	})
	return out, err
}

func (s *PersonService) logFailure(op string, err error) {
	if KindOf(err) == KindInternal {
		s.Log.Error("person operation failed", "op", op, "error", err)
		return
	}
	s.Log.Debug("person operation rejected", "op", op, "kind", KindOf(err).String(), "error", err)
}
