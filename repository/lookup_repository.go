package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/models"
)

// Lookup holds the read-only finders over the directory tables.
// Single-row finders return gorm.ErrRecordNotFound unwrapped when nothing
// matches; list finders return an empty slice.
type Lookup struct {
	DB *gorm.DB
}

// NewLookup creates a new instance of Lookup
func NewLookup(db *gorm.DB) *Lookup {
	return &Lookup{DB: db}
}

// WithTx returns a Lookup whose reads run inside tx.
func (l *Lookup) WithTx(tx *gorm.DB) *Lookup {
	return &Lookup{DB: tx}
}

func (l *Lookup) conn(ctx context.Context) *gorm.DB {
	return l.DB.WithContext(ctx)
}

func first[T any](q *gorm.DB, what string) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return &out, nil
}

// FindAddressByNaturalKey finds the address with the given street and zipcode.
func (l *Lookup) FindAddressByNaturalKey(ctx context.Context, street string, zipcode int) (*models.Address, error) {
	q := l.conn(ctx).Where("street = ? AND zipcode = ?", street, zipcode)
	return first[models.Address](q, fmt.Sprintf("address %q %d", street, zipcode))
}

func (l *Lookup) FindAddressByID(ctx context.Context, id uint) (*models.Address, error) {
	return first[models.Address](l.conn(ctx).Where("id = ?", id), fmt.Sprintf("address by ID %d", id))
}

// LockAddressByID reads the address and takes a row lock on it until the
// enclosing transaction ends. SQLite ignores the lock clause; there the
// immediate write transaction already excludes other writers.
func (l *Lookup) LockAddressByID(ctx context.Context, id uint) (*models.Address, error) {
	q := l.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
	return first[models.Address](q, fmt.Sprintf("address by ID %d for update", id))
}

func (l *Lookup) FindPhoneByNumber(ctx context.Context, number int) (*models.Phone, error) {
	return first[models.Phone](l.conn(ctx).Where("number = ?", number), fmt.Sprintf("phone %d", number))
}

// FindPersonByID returns the person row only; associations are not loaded.
func (l *Lookup) FindPersonByID(ctx context.Context, id uint) (*models.Person, error) {
	return first[models.Person](l.conn(ctx).Where("id = ?", id), fmt.Sprintf("person by ID %d", id))
}

func (l *Lookup) FindHobbyByName(ctx context.Context, name string) (*models.Hobby, error) {
	return first[models.Hobby](l.conn(ctx).Where("name = ?", name), fmt.Sprintf("hobby %q", name))
}

func (l *Lookup) ListPersonsReferencingAddress(ctx context.Context, addressID uint) ([]models.Person, error) {
	var people []models.Person
	err := l.conn(ctx).Where("address_id = ?", addressID).Order("id ASC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list persons at address %d: %w", addressID, err)
	}
	return people, nil
}

func (l *Lookup) CountPersonsReferencingAddress(ctx context.Context, addressID uint) (int64, error) {
	var n int64
	err := l.conn(ctx).Model(&models.Person{}).Where("address_id = ?", addressID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count persons at address %d: %w", addressID, err)
	}
	return n, nil
}

func (l *Lookup) ListPersonsWithHobby(ctx context.Context, hobbyID uint) ([]models.Person, error) {
	var people []models.Person
	err := l.conn(ctx).
		Joins("JOIN hobby_person ON hobby_person.person_id = person.id").
		Where("hobby_person.hobby_id = ?", hobbyID).
		Order("person.id ASC").
		Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list persons with hobby %d: %w", hobbyID, err)
	}
	return people, nil
}

func (l *Lookup) ListPhonesOwnedBy(ctx context.Context, personID uint) ([]models.Phone, error) {
	var phones []models.Phone
	err := l.conn(ctx).Where("person_id = ?", personID).Order("number ASC").Find(&phones).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list phones of person %d: %w", personID, err)
	}
	return phones, nil
}

func (l *Lookup) ListHobbiesOf(ctx context.Context, personID uint) ([]models.Hobby, error) {
	var hobbies []models.Hobby
	err := l.conn(ctx).
		Joins("JOIN hobby_person ON hobby_person.hobby_id = hobby.id").
		Where("hobby_person.person_id = ?", personID).
		Order("hobby.name ASC").
		Find(&hobbies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hobbies of person %d: %w", personID, err)
	}
	return hobbies, nil
}

// ListPersons lists every person row in the given sort order (see database.OrderClause).
func (l *Lookup) ListPersons(ctx context.Context, sortOrder string) ([]models.Person, error) {
	var people []models.Person
	err := l.conn(ctx).Order(database.OrderClause(sortOrder)).Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return people, nil
}

func (l *Lookup) ListPersonsByZipcode(ctx context.Context, zipcode int) ([]models.Person, error) {
	var people []models.Person
	err := l.conn(ctx).
		Joins("JOIN address ON address.id = person.address_id").
		Where("address.zipcode = ?", zipcode).
		Order("person.id ASC").
		Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list persons in zipcode %d: %w", zipcode, err)
	}
	return people, nil
}

func (l *Lookup) ListHobbies(ctx context.Context) ([]models.Hobby, error) {
	var hobbies []models.Hobby
	if err := l.conn(ctx).Order("name ASC").Find(&hobbies).Error; err != nil {
		return nil, fmt.Errorf("failed to list hobbies: %w", err)
	}
	return hobbies, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchHobbiesByName matches hobbies whose name contains query, ignoring case.
func (l *Lookup) SearchHobbiesByName(ctx context.Context, query string) ([]models.Hobby, error) {
	var hobbies []models.Hobby
	pattern := "%" + strings.ToLower(likeEscaper.Replace(query)) + "%"
	err := l.conn(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC").
		Find(&hobbies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search hobbies for %q: %w", query, err)
	}
	return hobbies, nil
}

func (l *Lookup) ListPhones(ctx context.Context) ([]models.Phone, error) {
	var phones []models.Phone
	if err := l.conn(ctx).Order("number ASC").Find(&phones).Error; err != nil {
		return nil, fmt.Errorf("failed to list phones: %w", err)
	}
	return phones, nil
}

// ListOrphanAddressIDs returns up to limit ids of addresses no person references.
// A limit of zero or less means no limit.
func (l *Lookup) ListOrphanAddressIDs(ctx context.Context, limit int) ([]uint, error) {
	var ids []uint
	q := l.conn(ctx).Model(&models.Address{}).
		Where("NOT EXISTS (SELECT 1 FROM person WHERE person.address_id = address.id)").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list orphan addresses: %w", err)
	}
	return ids, nil
}
