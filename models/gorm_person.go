package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Person represents a person in the directory using GORM.
// It corresponds to the 'person' table.
type Person struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"size:45;not null" json:"first_name"`
	LastName  string `gorm:"size:45;not null" json:"last_name"`
	Email     string `gorm:"size:45;not null" json:"email"`
	AddressID *uint  `gorm:"index" json:"address_id"` // nil once the address has been removed from the person

	// Relationships
	Address *Address `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Phones  []Phone  `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"phones"`
	Hobbies []Hobby  `gorm:"many2many:hobby_person;constraint:OnDelete:CASCADE" json:"hobbies"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "person"
}

// Validate checks the scalar fields and any nested address, phones and hobbies.
func (p Person) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.Required.Error("first name is required"), validation.Length(1, 45)),
		validation.Field(&p.LastName, validation.Required.Error("last name is required"), validation.Length(1, 45)),
		validation.Field(&p.Email, validation.Required.Error("email is required"), validation.Length(3, 45), is.EmailFormat),
		validation.Field(&p.Address),
		validation.Field(&p.Phones),
		validation.Field(&p.Hobbies),
	)
}

// HobbyPerson is a row of the 'hobby_person' join table. GORM creates the
// table from Person.Hobbies; this type is used to write rows explicitly.
type HobbyPerson struct {
	PersonID uint `gorm:"primaryKey" json:"person_id"`
	HobbyID  uint `gorm:"primaryKey" json:"hobby_id"`
}

// TableName overrides the table name for HobbyPerson to be `hobby_person`
func (HobbyPerson) TableName() string {
	return "hobby_person"
}
