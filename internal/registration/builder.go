package registration

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/William2897/aoy-registration-form/internal/models"
	"github.com/William2897/aoy-registration-form/internal/pricing"
)

// MaxProofSize is the upload cap for payment proofs.
const MaxProofSize = 5 << 20 // 5MB

// MinFamilyMembers is the bundle size required for the family discount and
// for family mode at all.
const MinFamilyMembers = 2

// ProofFile describes an attached payment proof. The bytes themselves stay
// with the transport layer; validation only needs the metadata.
type ProofFile struct {
	Filename    string
	ContentType string
	Size        int64
}

// FamilySubmission is one family member as submitted by the form.
type FamilySubmission struct {
	FullName         string   `json:"fullName"`
	DateOfBirth      string   `json:"dateOfBirth"`
	OccupationType   string   `json:"occupationType"`
	Phone            string   `json:"phone"`
	RiceType         string   `json:"riceType"`
	PortionSize      string   `json:"portionSize"`
	FoodAllergies    bool     `json:"foodAllergies"`
	AllergiesDetails string   `json:"allergiesDetails"`
	HealthIssues     bool     `json:"healthIssues"`
	HealthDetails    string   `json:"healthDetails"`
	Volunteer        bool     `json:"volunteer"`
	VolunteerRoles   []string `json:"volunteerRoles"`
}

// OrderSubmission is one merchandise line as submitted by the form.
type OrderSubmission struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Submission is the decoded wizard state at the moment of final submission.
// It is an immutable snapshot; the builder never mutates it.
type Submission struct {
	Email            string
	FullName         string
	DateOfBirth      string
	Gender           string
	Country          string
	Phone            string
	OccupationType   string
	WalkInCategory   string
	Conference       string
	OtherConference  string
	Church           string
	RiceType         string
	PortionSize      string
	Volunteer        bool
	VolunteerRoles   []string
	HasFamily        bool
	FamilyDetails    []FamilySubmission
	OrderTshirt      bool
	TshirtOrders     []OrderSubmission
	FoodAllergies    bool
	AllergiesDetails string
	HealthIssues     bool
	HealthDetails    string
	PaymentMethod    string
	PaymentProof     *ProofFile
	TermsAccepted    bool
}

// Builder validates submissions and produces finalized registrations with
// the engine's breakdown embedded.
type Builder struct {
	engine *pricing.Engine
}

func NewBuilder(engine *pricing.Engine) *Builder {
	return &Builder{engine: engine}
}

// Build validates sub against now and returns the finalized registration.
// Failures come back as ValidationErrors; a pricing.ConfigError means the
// rate table itself is broken and is returned as-is.
func (b *Builder) Build(sub Submission, now time.Time) (*models.Registration, error) {
	var errs ValidationErrors
	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	// (a) required personal fields.
	if _, err := mail.ParseAddress(sub.Email); err != nil {
		add("email", "invalid email address")
	}
	if strings.TrimSpace(sub.FullName) == "" {
		add("fullName", "full name is required")
	}
	birth, birthOK := b.checkBirthDate(sub.DateOfBirth, "dateOfBirth", now, add)
	if sub.Gender != "male" && sub.Gender != "female" {
		add("gender", "invalid gender")
	}
	if strings.TrimSpace(sub.Country) == "" {
		add("country", "country is required")
	}
	if strings.TrimSpace(sub.Phone) == "" {
		add("phone", "phone number is required")
	}
	if strings.TrimSpace(sub.Conference) == "" {
		add("conference", "conference is required")
	} else if sub.Conference == "Other" && strings.TrimSpace(sub.OtherConference) == "" {
		add("otherConference", "conference name is required when selecting Other")
	}
	if strings.TrimSpace(sub.Church) == "" {
		add("church", "church is required")
	}
	if sub.RiceType != "brown" && sub.RiceType != "white" {
		add("riceType", "rice type must be brown or white")
	}
	if sub.PortionSize != "small" && sub.PortionSize != "big" {
		add("portionSize", "portion size must be small or big")
	}
	if sub.FoodAllergies && strings.TrimSpace(sub.AllergiesDetails) == "" {
		add("allergiesDetails", "allergy details are required")
	}
	if sub.HealthIssues && strings.TrimSpace(sub.HealthDetails) == "" {
		add("healthDetails", "health details are required")
	}

	category := pricing.Category(sub.OccupationType)
	walkInSub := pricing.Category(sub.WalkInCategory)
	b.checkRegistrantCategory(category, walkInSub, birth, birthOK, now, add)

	// (b) family members.
	if sub.HasFamily {
		if len(sub.FamilyDetails) < MinFamilyMembers {
			add("familyDetails", fmt.Sprintf("family registration requires at least %d family members", MinFamilyMembers))
		}
		for i, m := range sub.FamilyDetails {
			b.checkFamilyMember(i, m, now, add)
		}
	}

	// (c) merchandise orders.
	if sub.OrderTshirt {
		if len(sub.TshirtOrders) == 0 {
			add("tshirtOrders", "at least one t-shirt order is required")
		}
		for i, o := range sub.TshirtOrders {
			if !models.ValidTshirtSize(o.Size) {
				add(fmt.Sprintf("tshirtOrders[%d].size", i), "invalid t-shirt size")
			}
			if o.Quantity < 1 {
				add(fmt.Sprintf("tshirtOrders[%d].quantity", i), "quantity must be at least 1")
			}
		}
	}

	// (d) volunteer roles.
	checkRoles(sub.Volunteer, sub.VolunteerRoles, "volunteerRoles", add)

	// (e) payment.
	switch sub.PaymentMethod {
	case "bank":
		if sub.PaymentProof == nil {
			add("paymentProof", "payment proof is required for bank transfer")
		}
	case "onsite":
	default:
		add("paymentMethod", "payment method is required")
	}
	if sub.PaymentProof != nil {
		if sub.PaymentProof.Size > MaxProofSize {
			add("paymentProof", "payment proof must not exceed 5MB")
		}
		ct := sub.PaymentProof.ContentType
		if !strings.HasPrefix(ct, "image/") && ct != "application/pdf" {
			add("paymentProof", "payment proof must be an image or a PDF")
		}
	}

	// (f) terms.
	if !sub.TermsAccepted {
		add("termsAccepted", "terms and conditions must be accepted")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	// Price only fully valid submissions; the snapshot is authoritative.
	family := make([]pricing.Category, 0, len(sub.FamilyDetails))
	members := make([]models.FamilyMember, 0, len(sub.FamilyDetails))
	if sub.HasFamily {
		for _, m := range sub.FamilyDetails {
			mc := pricing.Category(m.OccupationType)
			family = append(family, mc)
			dob, _ := parseDate(m.DateOfBirth)
			members = append(members, models.FamilyMember{
				FullName:         strings.TrimSpace(m.FullName),
				DateOfBirth:      dob,
				OccupationType:   mc,
				Phone:            m.Phone,
				RiceType:         m.RiceType,
				PortionSize:      m.PortionSize,
				FoodAllergies:    m.FoodAllergies,
				AllergiesDetails: m.AllergiesDetails,
				HealthIssues:     m.HealthIssues,
				HealthDetails:    m.HealthDetails,
				Volunteer:        m.Volunteer,
				VolunteerRoles:   m.VolunteerRoles,
			})
		}
	}

	orders := make([]pricing.Order, 0, len(sub.TshirtOrders))
	lines := make([]models.TshirtOrder, 0, len(sub.TshirtOrders))
	if sub.OrderTshirt {
		for _, o := range sub.TshirtOrders {
			orders = append(orders, pricing.Order{Quantity: o.Quantity})
			lines = append(lines, models.TshirtOrder{Size: o.Size, Quantity: o.Quantity})
		}
	}

	breakdown, err := b.engine.Compute(
		pricing.Participant{Category: category, WalkInCategory: walkInSub},
		family, orders, now,
	)
	if err != nil {
		return nil, err
	}

	reg := &models.Registration{
		Email:            strings.TrimSpace(sub.Email),
		FullName:         strings.TrimSpace(sub.FullName),
		DateOfBirth:      birth,
		Gender:           sub.Gender,
		Country:          strings.TrimSpace(sub.Country),
		Phone:            strings.TrimSpace(sub.Phone),
		OccupationType:   category,
		WalkInCategory:   walkInSub,
		Conference:       sub.Conference,
		OtherConference:  sub.OtherConference,
		Church:           strings.TrimSpace(sub.Church),
		RiceType:         sub.RiceType,
		PortionSize:      sub.PortionSize,
		Volunteer:        sub.Volunteer,
		VolunteerRoles:   sub.VolunteerRoles,
		HasFamily:        sub.HasFamily,
		FamilyMembers:    members,
		OrderTshirt:      sub.OrderTshirt,
		TshirtOrders:     lines,
		FoodAllergies:    sub.FoodAllergies,
		AllergiesDetails: sub.AllergiesDetails,
		HealthIssues:     sub.HealthIssues,
		HealthDetails:    sub.HealthDetails,
		PaymentMethod:    sub.PaymentMethod,
		TermsAccepted:    sub.TermsAccepted,
		Status:           "pending",
	}
	reg.FromBreakdown(breakdown)
	return reg, nil
}

// checkRegistrantCategory enforces age eligibility and walk-in gating for
// the main applicant.
func (b *Builder) checkRegistrantCategory(category, walkInSub pricing.Category, birth time.Time, birthOK bool, now time.Time, add func(field, message string)) {
	if !category.Known() {
		add("occupationType", "invalid occupation type")
		return
	}

	if category.IsWalkIn() {
		if !b.engine.Config().WalkInActive(now) {
			w := b.engine.Config().WalkInWindow
			add("occupationType", fmt.Sprintf("walk-in registration is only open from %s to %s",
				w.Start.Format("02/01/2006"), w.End.Format("02/01/2006")))
		}
		if category == pricing.WalkInFull {
			if walkInSub == "" {
				add("walkInCategory", "walk-in sub-category is required")
			} else if !walkInSub.Known() || walkInSub.IsWalkIn() {
				add("walkInCategory", "invalid walk-in sub-category")
			}
		}
		if birthOK && !pricing.ValidForAge(birth, category, now) {
			add("occupationType", eligibilityMessage(category, pricing.Age(birth, now), pricing.CategoriesForAge(birth, now)))
		}
		return
	}

	if walkInSub != "" {
		add("walkInCategory", "walk-in sub-category is only valid for walk-in full registration")
	}
	if birthOK && !pricing.ValidForAge(birth, category, now) {
		add("occupationType", eligibilityMessage(category, pricing.Age(birth, now), pricing.CategoriesForAge(birth, now)))
	}
}

func (b *Builder) checkFamilyMember(i int, m FamilySubmission, now time.Time, add func(field, message string)) {
	field := func(name string) string {
		return fmt.Sprintf("familyDetails[%d].%s", i, name)
	}

	if strings.TrimSpace(m.FullName) == "" {
		add(field("fullName"), "full name is required")
	}
	birth, birthOK := b.checkBirthDate(m.DateOfBirth, field("dateOfBirth"), now, add)

	mc := pricing.Category(m.OccupationType)
	switch {
	case !mc.Known() || mc.IsWalkIn():
		// Walk-in categories are selectable by the main registrant only.
		add(field("occupationType"), "invalid occupation type for family member")
	case birthOK && !pricing.ValidForAge(birth, mc, now):
		add(field("occupationType"), eligibilityMessage(mc, pricing.Age(birth, now), pricing.CategoriesForAge(birth, now)))
	}

	if !mc.IsChild() {
		if m.RiceType != "brown" && m.RiceType != "white" {
			add(field("riceType"), "rice type must be brown or white")
		}
		if m.PortionSize != "small" && m.PortionSize != "big" {
			add(field("portionSize"), "portion size must be small or big")
		}
	}
	if m.FoodAllergies && strings.TrimSpace(m.AllergiesDetails) == "" {
		add(field("allergiesDetails"), "allergy details are required")
	}
	if m.HealthIssues && strings.TrimSpace(m.HealthDetails) == "" {
		add(field("healthDetails"), "health details are required")
	}

	checkRoles(m.Volunteer, m.VolunteerRoles, field("volunteerRoles"), add)
}

func (b *Builder) checkBirthDate(raw, field string, now time.Time, add func(field, message string)) (time.Time, bool) {
	birth, err := parseDate(raw)
	if err != nil {
		add(field, "invalid date of birth")
		return time.Time{}, false
	}
	if birth.After(now) {
		add(field, "date of birth cannot be in the future")
		return time.Time{}, false
	}
	return birth, true
}

func checkRoles(volunteer bool, roles []string, field string, add func(field, message string)) {
	if !volunteer {
		return
	}
	if len(roles) == 0 {
		add(field, "select at least one volunteer role")
		return
	}
	if len(roles) > models.MaxVolunteerRoles {
		add(field, fmt.Sprintf("at most %d volunteer roles may be selected", models.MaxVolunteerRoles))
	}
	for _, r := range roles {
		if !models.ValidVolunteerRole(r) {
			add(field, fmt.Sprintf("unknown volunteer role %q", r))
		}
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
