package pricing

import "time"

// Age returns whole years between birth and ref, counting a year only once
// the birthday has passed.
func Age(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() ||
		(ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	return years
}

// CategoriesForAge returns the categories a person born on birth may select
// as of ref. Children are pinned to their band; everyone older gets the
// adult set.
func CategoriesForAge(birth, ref time.Time) []Category {
	age := Age(birth, ref)
	switch {
	case age <= 4:
		return []Category{ChildBelow4}
	case age <= 12:
		return []Category{Child5To12}
	default:
		out := make([]Category, len(adultCategories))
		copy(out, adultCategories)
		return out
	}
}

// ValidForAge reports whether c is selectable for a person born on birth as
// of ref. Walk-in categories carry the adult age requirement.
func ValidForAge(birth time.Time, c Category, ref time.Time) bool {
	age := Age(birth, ref)
	switch c {
	case ChildBelow4:
		return age <= 4
	case Child5To12:
		return age >= 5 && age <= 12
	default:
		return age > 12
	}
}
