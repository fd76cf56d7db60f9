package models

import (
	"time"

	"github.com/William2897/aoy-registration-form/internal/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyMember is owned by exactly one registration and is deleted with it.
// For pricing it carries its own occupation category and birth date.
type FamilyMember struct {
	ID             string `json:"id" gorm:"type:uuid;primaryKey"`
	RegistrationID string `json:"registrationId" gorm:"type:uuid;index"`

	FullName       string           `json:"fullName"`
	DateOfBirth    time.Time        `json:"dateOfBirth"`
	OccupationType pricing.Category `json:"occupationType"`
	Phone          string           `json:"phone,omitempty"`

	RiceType    string `json:"riceType"`
	PortionSize string `json:"portionSize"`

	FoodAllergies    bool   `json:"foodAllergies"`
	AllergiesDetails string `json:"allergiesDetails,omitempty"`
	HealthIssues     bool   `json:"healthIssues"`
	HealthDetails    string `json:"healthDetails,omitempty"`

	Volunteer      bool     `json:"volunteer"`
	VolunteerRoles []string `json:"volunteerRoles" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *FamilyMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
