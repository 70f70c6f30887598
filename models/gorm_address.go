package models

import validation "github.com/go-ozzo/ozzo-validation/v4"

// Address is a postal address shared by the people living there.
// (Street, Zipcode) is the natural key and is unique.
type Address struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Street  string `gorm:"size:45;not null;uniqueIndex:idx_address_natural_key" json:"street"`
	Zipcode int    `gorm:"not null;uniqueIndex:idx_address_natural_key" json:"zipcode"`
}

func (Address) TableName() string {
	return "address"
}

func (a Address) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Street, validation.Required.Error("street is required"), validation.Length(1, 45)),
		validation.Field(&a.Zipcode, validation.Required.Error("zipcode is required"), validation.Min(1)),
	)
}
