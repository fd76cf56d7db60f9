package pricing

import (
	"testing"
	"time"
)

var ref = time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday already passed", time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC), 25},
		{"birthday today", time.Date(2000, 6, 5, 0, 0, 0, 0, time.UTC), 25},
		{"birthday tomorrow", time.Date(2000, 6, 6, 0, 0, 0, 0, time.UTC), 24},
		{"birthday later this month", time.Date(2000, 6, 20, 0, 0, 0, 0, time.UTC), 24},
		{"birthday later this year", time.Date(2000, 11, 1, 0, 0, 0, 0, time.UTC), 24},
		{"newborn", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.birth, ref); got != tt.want {
				t.Errorf("Age(%v) = %d, want %d", tt.birth, got, tt.want)
			}
		})
	}
}

func birthForAge(age int) time.Time {
	// Birthday well before ref so the person is exactly `age`.
	return time.Date(ref.Year()-age, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestCategoriesForAge(t *testing.T) {
	tests := []struct {
		age  int
		want []Category
	}{
		{0, []Category{ChildBelow4}},
		{4, []Category{ChildBelow4}},
		{5, []Category{Child5To12}},
		{12, []Category{Child5To12}},
		{13, []Category{WorkingAdult, Student, MinistrySalary, MinistryStipend, Homemaker}},
		{40, []Category{WorkingAdult, Student, MinistrySalary, MinistryStipend, Homemaker}},
	}
	for _, tt := range tests {
		got := CategoriesForAge(birthForAge(tt.age), ref)
		if len(got) != len(tt.want) {
			t.Errorf("age %d: got %v, want %v", tt.age, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("age %d: got %v, want %v", tt.age, got, tt.want)
				break
			}
		}
	}
}

func TestCategoriesForAgeExcludeWalkIn(t *testing.T) {
	for _, c := range CategoriesForAge(birthForAge(30), ref) {
		if c.IsWalkIn() {
			t.Errorf("walk-in category %q offered through age-based selection", c)
		}
	}
}

func TestValidForAge(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		category Category
		want     bool
	}{
		{"toddler in under-4 band", 3, ChildBelow4, true},
		{"toddler as child band", 3, Child5To12, false},
		{"toddler as adult", 3, WorkingAdult, false},
		{"four year old in under-4 band", 4, ChildBelow4, true},
		{"five year old in child band", 5, Child5To12, true},
		{"five year old in under-4 band", 5, ChildBelow4, false},
		{"twelve year old in child band", 12, Child5To12, true},
		{"twelve year old as adult", 12, Student, false},
		{"thirteen year old as student", 13, Student, true},
		{"thirteen year old in child band", 13, Child5To12, false},
		{"adult as walk-in", 30, WalkInFull, true},
		{"child as walk-in", 8, WalkInPartial, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidForAge(birthForAge(tt.age), tt.category, ref); got != tt.want {
				t.Errorf("ValidForAge(age %d, %q) = %v, want %v", tt.age, tt.category, got, tt.want)
			}
		})
	}
}
