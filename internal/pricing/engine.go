package pricing

import (
	"fmt"
	"math"
	"time"
)

// Config is the externally supplied rule set: rates, windows and discount
// knobs. Changing any of these must not require touching engine code.
type Config struct {
	// Rates maps every category to its base fee. walk_in_full keeps an
	// entry as the fallback rate even though pricing normally defers to
	// the chosen sub-category.
	Rates map[Category]float64

	TshirtUnitPrice float64

	// EarlyBirdAmount is a fixed currency amount per eligible person, not
	// a percentage.
	EarlyBirdAmount float64
	EarlyBirdEnd    time.Time

	WalkInWindow Window

	FamilyDiscountPercent float64
}

// ConfigError reports a category with no usable rate entry. Pricing must
// fail loudly on this rather than default to zero.
type ConfigError struct {
	Category Category
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pricing: no rate configured for category %q", e.Category)
}

// Participant is the pricing view of the main registrant. WalkInCategory is
// consulted only when Category is walk_in_full.
type Participant struct {
	Category       Category
	WalkInCategory Category
}

// Order is the pricing view of a merchandise line.
type Order struct {
	Quantity int
}

// Breakdown is the fee snapshot persisted with a registration. All values
// are MYR rounded to two decimals.
type Breakdown struct {
	BasePrice         float64 `json:"basePrice"`
	FamilyTotal       float64 `json:"familyTotal"`
	TshirtTotal       float64 `json:"tshirtTotal"`
	Subtotal          float64 `json:"subtotal"`
	EarlyBirdDiscount float64 `json:"earlyBirdDiscount"`
	FamilyDiscount    float64 `json:"familyDiscount"`
	FinalTotal        float64 `json:"finalTotal"`
	IsEarlyBird       bool    `json:"isEarlyBird"`
}

// Engine computes fee breakdowns from a validated Config.
type Engine struct {
	cfg Config
}

// NewEngine validates that every category has a non-negative rate entry and
// returns an engine over cfg.
func NewEngine(cfg Config) (*Engine, error) {
	for _, c := range Categories {
		rate, ok := cfg.Rates[c]
		if !ok || rate < 0 {
			return nil, &ConfigError{Category: c}
		}
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the rule set the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Compute derives the authoritative fee breakdown for a registrant, their
// family members (categories only) and merchandise orders, as of now.
//
// The early-bird discount is a fixed amount per eligible head: the
// registrant plus every family member outside the under-4 band. The family
// discount applies only with at least two family members, on the
// registration-fee portion after the early-bird reduction, merchandise
// excluded. The final total never goes below zero.
func (e *Engine) Compute(p Participant, family []Category, orders []Order, now time.Time) (Breakdown, error) {
	base, err := e.basePrice(p)
	if err != nil {
		return Breakdown{}, err
	}

	var familyTotal float64
	for _, c := range family {
		rate, err := e.rate(c)
		if err != nil {
			return Breakdown{}, err
		}
		familyTotal += rate
	}

	var tshirtTotal float64
	for _, o := range orders {
		tshirtTotal += float64(o.Quantity) * e.cfg.TshirtUnitPrice
	}

	earlyBird := 0.0
	isEarlyBird := e.cfg.EarlyBirdActive(now)
	if isEarlyBird {
		heads := 0
		if p.Category != ChildBelow4 {
			heads++
		}
		for _, c := range family {
			if c != ChildBelow4 {
				heads++
			}
		}
		earlyBird = e.cfg.EarlyBirdAmount * float64(heads)
	}

	familyDiscount := 0.0
	if len(family) >= 2 {
		familyDiscount = round2((base + familyTotal - earlyBird) * e.cfg.FamilyDiscountPercent / 100)
	}

	subtotal := round2(base + familyTotal + tshirtTotal)
	final := round2(subtotal - earlyBird - familyDiscount)
	if final < 0 {
		final = 0
	}

	return Breakdown{
		BasePrice:         round2(base),
		FamilyTotal:       round2(familyTotal),
		TshirtTotal:       round2(tshirtTotal),
		Subtotal:          subtotal,
		EarlyBirdDiscount: round2(earlyBird),
		FamilyDiscount:    familyDiscount,
		FinalTotal:        final,
		IsEarlyBird:       isEarlyBird,
	}, nil
}

func (e *Engine) basePrice(p Participant) (float64, error) {
	if p.Category == WalkInFull {
		sub := p.WalkInCategory
		if sub == "" {
			// Fallback only; the builder rejects walk_in_full without a
			// sub-category before pricing.
			sub = WorkingAdult
		}
		return e.rate(sub)
	}
	return e.rate(p.Category)
}

func (e *Engine) rate(c Category) (float64, error) {
	rate, ok := e.cfg.Rates[c]
	if !ok || rate < 0 {
		return 0, &ConfigError{Category: c}
	}
	return rate, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
