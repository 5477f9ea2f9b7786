package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSectionConfig() *Config {
	return &Config{
		Sections: []SectionConfig{
			{Name: "Orchestra", Rows: 2, SeatsPerRow: 3, Category: CategoryVIP, BasePrice: 120},
			{Name: "Balcony", Rows: 3, SeatsPerRow: 4, Category: CategoryStandard},
		},
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := twoSectionConfig()

	first, err := Generate(cfg)
	require.NoError(t, err)
	second, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Capacity(), len(first))
	assert.Equal(t, first, second)
}

func TestGenerateLabelsAndOrder(t *testing.T) {
	cfg := twoSectionConfig()

	seats, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, seats, 18)

	// Sections appear in configured order, rows top-down, seats 1..n
	assert.Equal(t, "Orchestra", seats[0].Section)
	assert.Equal(t, "A", seats[0].RowLabel)
	assert.Equal(t, "1", seats[0].SeatLabel)
	assert.Equal(t, "A", seats[2].RowLabel)
	assert.Equal(t, "3", seats[2].SeatLabel)
	assert.Equal(t, "B", seats[3].RowLabel)
	assert.Equal(t, "Balcony", seats[6].Section)
	assert.Equal(t, "A", seats[6].RowLabel)
}

func TestGeneratePricing(t *testing.T) {
	cfg := twoSectionConfig()

	seats, err := Generate(cfg)
	require.NoError(t, err)

	// Section override wins; unset price falls back to the category default
	assert.Equal(t, 120.0, seats[0].BasePrice)
	assert.Equal(t, CategoryVIP, seats[0].Category)
	assert.Equal(t, DefaultPriceStandard, seats[6].BasePrice)
	assert.Equal(t, CategoryStandard, seats[6].Category)
}

func TestGenerateCategorySplit(t *testing.T) {
	cfg := &Config{
		Sections: []SectionConfig{
			{Name: "Main", Rows: 2, SeatsPerRow: 5},
		},
		Split: &CategorySplit{VIP: 3, Premium: 4},
	}

	seats, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, seats, 10)

	for i, seat := range seats {
		switch {
		case i < 3:
			assert.Equal(t, CategoryVIP, seat.Category, "seat %d", i)
		case i < 7:
			assert.Equal(t, CategoryPremium, seat.Category, "seat %d", i)
		default:
			assert.Equal(t, CategoryStandard, seat.Category, "seat %d", i)
		}
	}
}

func TestValidateRejectsOverCapacitySplit(t *testing.T) {
	cfg := &Config{
		Sections: []SectionConfig{
			{Name: "Main", Rows: 1, SeatsPerRow: 4},
		},
		Split: &CategorySplit{VIP: 3, Premium: 3},
	}

	_, err := Generate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRejectsDuplicateSections(t *testing.T) {
	cfg := &Config{
		Sections: []SectionConfig{
			{Name: "Main", Rows: 1, SeatsPerRow: 2},
			{Name: "Main", Rows: 1, SeatsPerRow: 2},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRejectsEmptyConfig(t *testing.T) {
	err := (&Config{}).Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRowLabel(t *testing.T) {
	cases := map[int]string{
		0:  "A",
		1:  "B",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for index, want := range cases {
		assert.Equal(t, want, RowLabel(index), "index %d", index)
	}
}

func TestHashStableAndConfigSensitive(t *testing.T) {
	cfg := twoSectionConfig()

	h1, err := Hash(cfg)
	require.NoError(t, err)
	h2, err := Hash(twoSectionConfig())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	changed := twoSectionConfig()
	changed.Sections[1].Rows = 4
	h3, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
