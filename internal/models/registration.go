package models

import (
	"time"

	"github.com/William2897/aoy-registration-form/internal/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VolunteerRoles is the closed set of teams a participant can sign up for.
var VolunteerRoles = []string{
	"food_team",
	"registration_team",
	"treasury_team",
	"prayer_team",
	"pa_av_team",
	"emergency_medical_team",
	"children_program",
	"usher",
}

// MaxVolunteerRoles caps how many teams one person may join.
const MaxVolunteerRoles = 5

// ValidVolunteerRole reports whether role names a known team.
func ValidVolunteerRole(role string) bool {
	for _, r := range VolunteerRoles {
		if r == role {
			return true
		}
	}
	return false
}

// PricingFields is the fee snapshot frozen at submission time. It records
// the price that was charged, not a value to be recomputed later.
type PricingFields struct {
	BasePrice      float64 `json:"basePrice" gorm:"type:decimal(10,2)"`
	FamilyTotal    float64 `json:"familyTotal" gorm:"type:decimal(10,2)"`
	TshirtTotal    float64 `json:"tshirtTotal" gorm:"type:decimal(10,2)"`
	Subtotal       float64 `json:"subtotal" gorm:"type:decimal(10,2)"`
	Discount       float64 `json:"discount" gorm:"type:decimal(10,2)"`
	FamilyDiscount float64 `json:"familyDiscount" gorm:"type:decimal(10,2)"`
	FinalTotal     float64 `json:"finalTotal" gorm:"type:decimal(10,2)"`
	IsEarlyBird    bool    `json:"isEarlyBird"`
}

// FromBreakdown copies an engine breakdown into the snapshot columns.
func (p *PricingFields) FromBreakdown(b pricing.Breakdown) {
	p.BasePrice = b.BasePrice
	p.FamilyTotal = b.FamilyTotal
	p.TshirtTotal = b.TshirtTotal
	p.Subtotal = b.Subtotal
	p.Discount = b.EarlyBirdDiscount
	p.FamilyDiscount = b.FamilyDiscount
	p.FinalTotal = b.FinalTotal
	p.IsEarlyBird = b.IsEarlyBird
}

// Registration is the main applicant record with its owned family members
// and merchandise orders.
type Registration struct {
	ID string `json:"id" gorm:"type:uuid;primaryKey"`

	Email           string           `json:"email"`
	FullName        string           `json:"fullName"`
	DateOfBirth     time.Time        `json:"dateOfBirth"`
	Gender          string           `json:"gender"`
	Country         string           `json:"country"`
	Phone           string           `json:"phone"`
	OccupationType  pricing.Category `json:"occupationType"`
	WalkInCategory  pricing.Category `json:"walkInCategory,omitempty"`
	Conference      string           `json:"conference"`
	OtherConference string           `json:"otherConference,omitempty"`
	Church          string           `json:"church"`

	RiceType    string `json:"riceType"`
	PortionSize string `json:"portionSize"`

	Volunteer      bool     `json:"volunteer"`
	VolunteerRoles []string `json:"volunteerRoles" gorm:"serializer:json"`

	HasFamily     bool           `json:"hasFamily"`
	FamilyMembers []FamilyMember `json:"familyDetails" gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE"`

	OrderTshirt  bool          `json:"orderTshirt"`
	TshirtOrders []TshirtOrder `json:"tshirtOrders" gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE"`

	FoodAllergies    bool   `json:"foodAllergies"`
	AllergiesDetails string `json:"allergiesDetails,omitempty"`
	HealthIssues     bool   `json:"healthIssues"`
	HealthDetails    string `json:"healthDetails,omitempty"`

	PaymentMethod   string `json:"paymentMethod"`
	PaymentProofURL string `json:"paymentProofUrl,omitempty"`
	TermsAccepted   bool   `json:"termsAccepted"`

	IsConfirmed bool   `json:"isConfirmed"`
	Status      string `json:"status" gorm:"default:pending"`

	PricingFields `gorm:"embedded"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
