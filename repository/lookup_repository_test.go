package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/testutil"
)

type seeded struct {
	home, away       models.Address
	anna, bent, carl models.Person
	hobbies          map[string]models.Hobby
}

// seedDirectory stores three people: Anna and Bent at home, Carl away.
func seedDirectory(t *testing.T, db *gorm.DB) seeded {
	t.Helper()
	s := seeded{
		home:    models.Address{Street: "Falkonner Alle", Zipcode: 2800},
		away:    models.Address{Street: "Nørregaard", Zipcode: 3500},
		hobbies: testutil.SeedHobbies(t, db),
	}
	require.NoError(t, db.Create(&s.home).Error)
	require.NoError(t, db.Create(&s.away).Error)

	mk := func(first string, addr *models.Address) models.Person {
		p := models.Person{FirstName: first, LastName: "Jensen", Email: first + "@example.dk", AddressID: &addr.ID}
		require.NoError(t, db.Omit("Address", "Phones", "Hobbies").Create(&p).Error)
		return p
	}
	s.anna = mk("Anna", &s.home)
	s.bent = mk("Bent", &s.home)
	s.carl = mk("Carl", &s.away)

	require.NoError(t, db.Create(&[]models.Phone{
		{Number: 20000002, Description: "work", PersonID: s.anna.ID},
		{Number: 10000001, Description: "home", PersonID: s.anna.ID},
		{Number: 30000003, PersonID: s.carl.ID},
	}).Error)
	require.NoError(t, db.Create(&[]models.HobbyPerson{
		{PersonID: s.anna.ID, HobbyID: s.hobbies["Yoga"].ID},
		{PersonID: s.anna.ID, HobbyID: s.hobbies["Musik"].ID},
		{PersonID: s.carl.ID, HobbyID: s.hobbies["Yoga"].ID},
	}).Error)
	return s
}

func TestLookupSingleRowFinders(t *testing.T) {
	db := testutil.DB(t)
	s := seedDirectory(t, db)
	lk := NewLookup(db)
	ctx := context.Background()

	addr, err := lk.FindAddressByNaturalKey(ctx, "Falkonner Alle", 2800)
	require.NoError(t, err)
	assert.Equal(t, s.home.ID, addr.ID)

	_, err = lk.FindAddressByNaturalKey(ctx, "Falkonner Alle", 2900)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	addr, err = lk.FindAddressByID(ctx, s.away.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nørregaard", addr.Street)

	ph, err := lk.FindPhoneByNumber(ctx, 30000003)
	require.NoError(t, err)
	assert.Equal(t, s.carl.ID, ph.PersonID)
	_, err = lk.FindPhoneByNumber(ctx, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	p, err := lk.FindPersonByID(ctx, s.bent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bent", p.FirstName)
	assert.Nil(t, p.Address)
	assert.Empty(t, p.Phones)
	_, err = lk.FindPersonByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	h, err := lk.FindHobbyByName(ctx, "Søvn")
	require.NoError(t, err)
	assert.Equal(t, s.hobbies["Søvn"].ID, h.ID)
	_, err = lk.FindHobbyByName(ctx, "søvn")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLookupListFinders(t *testing.T) {
	db := testutil.DB(t)
	s := seedDirectory(t, db)
	lk := NewLookup(db)
	ctx := context.Background()

	residents, err := lk.ListPersonsReferencingAddress(ctx, s.home.ID)
	require.NoError(t, err)
	require.Len(t, residents, 2)
	assert.Equal(t, s.anna.ID, residents[0].ID)

	n, err := lk.CountPersonsReferencingAddress(ctx, s.away.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	yogis, err := lk.ListPersonsWithHobby(ctx, s.hobbies["Yoga"].ID)
	require.NoError(t, err)
	require.Len(t, yogis, 2)
	assert.Equal(t, "Anna", yogis[0].FirstName)
	assert.Equal(t, "Carl", yogis[1].FirstName)

	none, err := lk.ListPersonsWithHobby(ctx, s.hobbies["Squash"].ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	phones, err := lk.ListPhonesOwnedBy(ctx, s.anna.ID)
	require.NoError(t, err)
	require.Len(t, phones, 2)
	assert.Equal(t, 10000001, phones[0].Number)

	hobbies, err := lk.ListHobbiesOf(ctx, s.anna.ID)
	require.NoError(t, err)
	require.Len(t, hobbies, 2)
	assert.Equal(t, "Musik", hobbies[0].Name)

	inZip, err := lk.ListPersonsByZipcode(ctx, 3500)
	require.NoError(t, err)
	require.Len(t, inZip, 1)
	assert.Equal(t, s.carl.ID, inZip[0].ID)

	all, err := lk.ListPersons(ctx, "last_name_asc")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	allPhones, err := lk.ListPhones(ctx)
	require.NoError(t, err)
	assert.Len(t, allPhones, 3)
}

func TestLookupSearchHobbiesEscapesWildcards(t *testing.T) {
	db := testutil.DB(t)
	testutil.SeedHobbies(t, db)
	require.NoError(t, db.Create(&models.Hobby{Name: "100% Fitness"}).Error)
	lk := NewLookup(db)
	ctx := context.Background()

	got, err := lk.SearchHobbiesByName(ctx, "QUASH")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Squash", got[0].Name)

	got, err = lk.SearchHobbiesByName(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% Fitness", got[0].Name)

	got, err = lk.SearchHobbiesByName(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLookupOrphanAddresses(t *testing.T) {
	db := testutil.DB(t)
	s := seedDirectory(t, db)
	lk := NewLookup(db)
	ctx := context.Background()

	ids, err := lk.ListOrphanAddressIDs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, db.Model(&models.Person{ID: s.carl.ID}).Update("address_id", nil).Error)
	extra := models.Address{Street: "Vestergade", Zipcode: 1456}
	require.NoError(t, db.Create(&extra).Error)

	ids, err = lk.ListOrphanAddressIDs(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{s.away.ID, extra.ID}, ids)

	ids, err = lk.ListOrphanAddressIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{s.away.ID}, ids)
}

func TestLookupWithTxSeesUncommittedRows(t *testing.T) {
	db := testutil.DB(t)
	lk := NewLookup(db)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		addr := models.Address{Street: "Falkonner Alle", Zipcode: 2800}
		require.NoError(t, tx.Create(&addr).Error)

		got, err := lk.WithTx(tx).FindAddressByNaturalKey(ctx, "Falkonner Alle", 2800)
		require.NoError(t, err)
		assert.Equal(t, addr.ID, got.ID)

		locked, err := lk.WithTx(tx).LockAddressByID(ctx, addr.ID)
		require.NoError(t, err)
		assert.Equal(t, addr.ID, locked.ID)
		return gorm.ErrInvalidTransaction
	})
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)

	_, err = lk.FindAddressByNaturalKey(ctx, "Falkonner Alle", 2800)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
