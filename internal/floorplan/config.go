package floorplan

import (
	"errors"
	"fmt"
)

// Category identifies the pricing tier of a seat
type Category string

const (
	CategoryVIP      Category = "VIP"
	CategoryPremium  Category = "PREMIUM"
	CategoryStandard Category = "STANDARD"
)

// Default per-category prices, used when a section does not override them
const (
	DefaultPriceVIP      = 150.0
	DefaultPricePremium  = 90.0
	DefaultPriceStandard = 50.0
)

// ErrInvalidConfig signals a floor-plan configuration inconsistent with the
// hall geometry. Generation aborts entirely; there is no partial output.
var ErrInvalidConfig = errors.New("invalid floor plan config")

const (
	maxRowsPerSection = 200
	maxSeatsPerRow    = 200
)

// SectionConfig describes one seating block of the hall
type SectionConfig struct {
	Name        string   `json:"name" binding:"required"`
	Rows        int      `json:"rows" binding:"required,min=1"`
	SeatsPerRow int      `json:"seats_per_row" binding:"required,min=1"`
	Category    Category `json:"category" binding:"omitempty,oneof=VIP PREMIUM STANDARD"`
	BasePrice   float64  `json:"base_price" binding:"omitempty,min=0"`
	OriginX     float64  `json:"origin_x"`
	OriginY     float64  `json:"origin_y"`
}

// CategorySplit requests fixed per-category seat counts distributed across
// the hall in generation order. When set it takes precedence over the
// per-section Category field. Seats beyond the split default to STANDARD.
type CategorySplit struct {
	VIP      int `json:"vip" binding:"min=0"`
	Premium  int `json:"premium" binding:"min=0"`
	Standard int `json:"standard" binding:"min=0"`
}

// Total returns the number of seats the split claims
func (s CategorySplit) Total() int {
	return s.VIP + s.Premium + s.Standard
}

// Config is the declarative hall description consumed by Generate.
// Identical configs always produce identical seat sets.
type Config struct {
	Sections []SectionConfig `json:"sections" binding:"required,min=1,dive"`
	Split    *CategorySplit  `json:"split,omitempty"`

	// Spacing between adjacent seats/rows in layout units. Zero means 1.0.
	SeatPitch float64 `json:"seat_pitch,omitempty"`
	RowPitch  float64 `json:"row_pitch,omitempty"`
}

// Capacity returns the total number of seats the config describes
func (c *Config) Capacity() int {
	total := 0
	for _, s := range c.Sections {
		total += s.Rows * s.SeatsPerRow
	}
	return total
}

// Validate checks the config against hall geometry limits. A failed
// validation is a whole-config rejection, never a partial one.
func (c *Config) Validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("%w: at least one section is required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if s.Name == "" {
			return fmt.Errorf("%w: section name must not be empty", ErrInvalidConfig)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate section name %q", ErrInvalidConfig, s.Name)
		}
		seen[s.Name] = true

		if s.Rows < 1 || s.Rows > maxRowsPerSection {
			return fmt.Errorf("%w: section %q rows must be between 1 and %d", ErrInvalidConfig, s.Name, maxRowsPerSection)
		}
		if s.SeatsPerRow < 1 || s.SeatsPerRow > maxSeatsPerRow {
			return fmt.Errorf("%w: section %q seats per row must be between 1 and %d", ErrInvalidConfig, s.Name, maxSeatsPerRow)
		}
		if s.BasePrice < 0 {
			return fmt.Errorf("%w: section %q base price must not be negative", ErrInvalidConfig, s.Name)
		}
		switch s.Category {
		case "", CategoryVIP, CategoryPremium, CategoryStandard:
		default:
			return fmt.Errorf("%w: section %q has unknown category %q", ErrInvalidConfig, s.Name, s.Category)
		}
	}

	if c.Split != nil {
		if c.Split.VIP < 0 || c.Split.Premium < 0 || c.Split.Standard < 0 {
			return fmt.Errorf("%w: category split counts must not be negative", ErrInvalidConfig)
		}
		if total, capacity := c.Split.Total(), c.Capacity(); total > capacity {
			return fmt.Errorf("%w: category split requests %d seats but hall capacity is %d", ErrInvalidConfig, total, capacity)
		}
	}

	return nil
}

// defaultPrice returns the category-derived price
func defaultPrice(cat Category) float64 {
	switch cat {
	case CategoryVIP:
		return DefaultPriceVIP
	case CategoryPremium:
		return DefaultPricePremium
	default:
		return DefaultPriceStandard
	}
}
