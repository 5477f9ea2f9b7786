package availability

import (
	"sort"
	"time"

	"stagepass/internal/seats"
)

// SeatAvailability is one seat as the public availability view shows it.
// ReservationStatus is the effective status: a lapsed hold reads AVAILABLE
// here even before the sweep reclaims it. Holder identity never appears.
type SeatAvailability struct {
	ID                string  `json:"id"`
	SeatLabel         string  `json:"seat_label"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	Available         bool    `json:"available"`
	ReservationStatus string  `json:"reservation_status"`
}

// RowAvailability groups a section's seats by row, in seat order
type RowAvailability struct {
	RowLabel string             `json:"row_label"`
	Seats    []SeatAvailability `json:"seats"`
}

// SectionCounts summarizes one section's seat states
type SectionCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Held      int `json:"held"`
	Booked    int `json:"booked"`
}

type SectionAvailability struct {
	Name     string            `json:"name"`
	Counts   SectionCounts     `json:"counts"`
	MinPrice float64           `json:"min_price"`
	Rows     []RowAvailability `json:"rows"`
}

// EventAvailability is the full availability snapshot for one event, shaped
// for rendering: sections in name order, rows in label order, seats in
// label order.
type EventAvailability struct {
	EventID     string                `json:"event_id"`
	Sections    []SectionAvailability `json:"sections"`
	Counts      SectionCounts         `json:"counts"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Filters narrows the availability view
type Filters struct {
	Category      string `form:"category" binding:"omitempty,oneof=VIP PREMIUM STANDARD"`
	AvailableOnly bool   `form:"available_only"`
}

// buildView aggregates raw seat rows into the nested availability shape.
// Counts always reflect the whole section even when available_only trims
// the seat lists.
func buildView(eventID string, seatRows []seats.Seat, filters Filters, now time.Time) *EventAvailability {
	type rowKey struct {
		section string
		row     string
	}

	sectionNames := make([]string, 0)
	sectionCounts := make(map[string]*SectionCounts)
	sectionMinPrice := make(map[string]float64)
	rowSeats := make(map[rowKey][]SeatAvailability)
	rowLabels := make(map[string][]string)

	view := &EventAvailability{
		EventID:     eventID,
		Sections:    make([]SectionAvailability, 0),
		GeneratedAt: now,
	}

	for i := range seatRows {
		seat := &seatRows[i]
		if filters.Category != "" && string(seat.Category) != filters.Category {
			continue
		}

		counts, known := sectionCounts[seat.Section]
		if !known {
			counts = &SectionCounts{}
			sectionCounts[seat.Section] = counts
			sectionNames = append(sectionNames, seat.Section)
			sectionMinPrice[seat.Section] = seat.BasePrice
		}
		if seat.BasePrice < sectionMinPrice[seat.Section] {
			sectionMinPrice[seat.Section] = seat.BasePrice
		}

		effective := seat.EffectiveStatus(now)
		counts.Total++
		view.Counts.Total++
		switch effective {
		case seats.StatusAvailable:
			counts.Available++
			view.Counts.Available++
		case seats.StatusHeld:
			counts.Held++
			view.Counts.Held++
		case seats.StatusBooked:
			counts.Booked++
			view.Counts.Booked++
		}

		if filters.AvailableOnly && effective != seats.StatusAvailable {
			continue
		}

		key := rowKey{section: seat.Section, row: seat.RowLabel}
		if _, seen := rowSeats[key]; !seen {
			rowLabels[seat.Section] = append(rowLabels[seat.Section], seat.RowLabel)
		}
		rowSeats[key] = append(rowSeats[key], SeatAvailability{
			ID:                seat.ID.String(),
			SeatLabel:         seat.SeatLabel,
			Category:          string(seat.Category),
			Price:             seat.BasePrice,
			X:                 seat.X,
			Y:                 seat.Y,
			Available:         effective == seats.StatusAvailable,
			ReservationStatus: string(effective),
		})
	}

	sort.Strings(sectionNames)
	for _, name := range sectionNames {
		labels := rowLabels[name]
		sort.Strings(labels)

		rows := make([]RowAvailability, 0, len(labels))
		for _, label := range labels {
			seatList := rowSeats[rowKey{section: name, row: label}]
			sort.Slice(seatList, func(i, j int) bool {
				return seatLabelLess(seatList[i].SeatLabel, seatList[j].SeatLabel)
			})
			rows = append(rows, RowAvailability{RowLabel: label, Seats: seatList})
		}

		view.Sections = append(view.Sections, SectionAvailability{
			Name:     name,
			Counts:   *sectionCounts[name],
			MinPrice: sectionMinPrice[name],
			Rows:     rows,
		})
	}

	return view
}

// seatLabelLess orders numeric seat labels numerically ("2" before "10")
// and falls back to string order for anything else
func seatLabelLess(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
