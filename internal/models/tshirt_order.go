package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TshirtSizes is the closed set of orderable sizes.
var TshirtSizes = []string{"XS", "S", "M", "L", "XL", "2XL", "3XL"}

// ValidTshirtSize reports whether size is orderable.
func ValidTshirtSize(size string) bool {
	for _, s := range TshirtSizes {
		if s == size {
			return true
		}
	}
	return false
}

// TshirtOrder is one merchandise line on a registration.
type TshirtOrder struct {
	ID             string `json:"id" gorm:"type:uuid;primaryKey"`
	RegistrationID string `json:"registrationId" gorm:"type:uuid;index"`

	Size     string `json:"size"`
	Quantity int    `json:"quantity"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *TshirtOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
