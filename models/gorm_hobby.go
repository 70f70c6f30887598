package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Hobby is part of a fixed catalogue. People reference hobbies by name;
// rows are only written by the seed command.
type Hobby struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Category string `gorm:"size:255" json:"category"`
	Type     string `gorm:"size:255" json:"type"`
	WikiLink string `gorm:"size:255" json:"wiki_link"`
}

func (Hobby) TableName() string {
	return "hobby"
}

func (h Hobby) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Name, validation.Required.Error("hobby name is required"), validation.Length(1, 255)),
		validation.Field(&h.WikiLink, validation.Length(0, 255), is.URL),
	)
}
