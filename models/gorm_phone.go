package models

import validation "github.com/go-ozzo/ozzo-validation/v4"

// Phone is identified by its number and owned by exactly one person.
type Phone struct {
	Number      int    `gorm:"primaryKey;autoIncrement:false" json:"number"`
	Description string `gorm:"size:45" json:"description"`
	PersonID    uint   `gorm:"not null;index" json:"person_id"`
}

func (Phone) TableName() string {
	return "phone"
}

func (p Phone) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Number, validation.Required.Error("phone number is required"), validation.Min(1)),
		validation.Field(&p.Description, validation.Length(0, 45)),
	)
}
