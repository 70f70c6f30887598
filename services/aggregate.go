package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/repository"
)

// assemble fills in the address, phones and hobbies of p.
func assemble(ctx context.Context, lk *repository.Lookup, p *models.Person) error {
	phones, err := lk.ListPhonesOwnedBy(ctx, p.ID)
	if err != nil {
		return err
	}
	hobbies, err := lk.ListHobbiesOf(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Phones = phones
	p.Hobbies = hobbies
	p.Address = nil

	if p.AddressID != nil {
		addr, err := lk.FindAddressByID(ctx, *p.AddressID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		p.Address = addr
	}
	return nil
}

func assembleAll(ctx context.Context, lk *repository.Lookup, people []models.Person) ([]models.Person, error) {
	for i := range people {
		if err := assemble(ctx, lk, &people[i]); err != nil {
			return nil, err
		}
	}
	if people == nil {
		people = []models.Person{}
	}
	return people, nil
}

// loadPerson reads and assembles one person, failing with NotFound if absent.
func loadPerson(ctx context.Context, lk *repository.Lookup, id uint) (*models.Person, error) {
	p, err := lk.FindPersonByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("person with id %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := assemble(ctx, lk, p); err != nil {
		return nil, err
	}
	return p, nil
}
