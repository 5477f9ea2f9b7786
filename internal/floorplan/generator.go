package floorplan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// SeatDescriptor is one generated seat. The catalog materializes these into
// durable seat rows; the generator itself never touches storage.
type SeatDescriptor struct {
	Section   string   `json:"section"`
	RowLabel  string   `json:"row_label"`
	SeatLabel string   `json:"seat_label"`
	Category  Category `json:"category"`
	BasePrice float64  `json:"base_price"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
}

// Generate turns a validated config into the full ordered seat list.
// It is a pure function: the same config always yields the same descriptors
// in the same order (sections as configured, rows top-down, seats 1..n).
func Generate(cfg *Config) ([]SeatDescriptor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seatPitch := cfg.SeatPitch
	if seatPitch == 0 {
		seatPitch = 1.0
	}
	rowPitch := cfg.RowPitch
	if rowPitch == 0 {
		rowPitch = 1.0
	}

	descriptors := make([]SeatDescriptor, 0, cfg.Capacity())
	seatIndex := 0 // global generation order, drives split assignment

	for _, section := range cfg.Sections {
		for row := 0; row < section.Rows; row++ {
			label := RowLabel(row)
			for seat := 1; seat <= section.SeatsPerRow; seat++ {
				category := seatCategory(cfg, section, seatIndex)
				price := section.BasePrice
				if price == 0 {
					price = defaultPrice(category)
				}

				descriptors = append(descriptors, SeatDescriptor{
					Section:   section.Name,
					RowLabel:  label,
					SeatLabel: strconv.Itoa(seat),
					Category:  category,
					BasePrice: price,
					X:         section.OriginX + float64(seat-1)*seatPitch,
					Y:         section.OriginY + float64(row)*rowPitch,
				})
				seatIndex++
			}
		}
	}

	return descriptors, nil
}

// seatCategory resolves the category of the seat at the given global index
func seatCategory(cfg *Config, section SectionConfig, index int) Category {
	if cfg.Split != nil && cfg.Split.Total() > 0 {
		switch {
		case index < cfg.Split.VIP:
			return CategoryVIP
		case index < cfg.Split.VIP+cfg.Split.Premium:
			return CategoryPremium
		default:
			return CategoryStandard
		}
	}
	if section.Category != "" {
		return section.Category
	}
	return CategoryStandard
}

// RowLabel converts a zero-based row index to its display label:
// A..Z, then AA, AB, ... like spreadsheet columns.
func RowLabel(index int) string {
	label := ""
	for index >= 0 {
		label = string(rune('A'+index%26)) + label
		index = index/26 - 1
	}
	return label
}

// Hash returns the idempotence key for a config: the SHA-256 of its
// canonical JSON encoding. Regeneration with an unchanged config hashes
// identically and must be a no-op for the catalog.
func Hash(cfg *Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode floor plan config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
