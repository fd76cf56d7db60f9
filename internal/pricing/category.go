// Package pricing implements the registration fee engine: occupation
// categories with their rate table, age-based eligibility, time-boxed
// offers, and the total computation. Everything is pure; callers supply
// the current time.
package pricing

// Category is the rate-determining classification of a registrant.
type Category string

const (
	WorkingAdult    Category = "working_adult"
	Homemaker       Category = "homemaker"
	Student         Category = "student"
	MinistrySalary  Category = "ministry_salary"
	MinistryStipend Category = "ministry_stipend"
	WalkInFull      Category = "walk_in_full"
	WalkInPartial   Category = "walk_in_partial"
	Child5To12      Category = "child_5_12"
	ChildBelow4     Category = "child_below_4"
)

// Categories lists every known category. The rate table must cover all of
// them.
var Categories = []Category{
	WorkingAdult,
	Homemaker,
	Student,
	MinistrySalary,
	MinistryStipend,
	WalkInFull,
	WalkInPartial,
	Child5To12,
	ChildBelow4,
}

// adultCategories are the categories selectable by anyone over 12. Walk-in
// variants are deliberately absent: they are offered to the main registrant
// only, during the event itself.
var adultCategories = []Category{
	WorkingAdult,
	Student,
	MinistrySalary,
	MinistryStipend,
	Homemaker,
}

// Known reports whether c is a member of the closed category set.
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// IsWalkIn reports whether c is one of the walk-in variants.
func (c Category) IsWalkIn() bool {
	return c == WalkInFull || c == WalkInPartial
}

// IsChild reports whether c is one of the child bands.
func (c Category) IsChild() bool {
	return c == Child5To12 || c == ChildBelow4
}
