package services

import (
	"fmt"

	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// seatsPerRow is two seats left of the aisle and two right
const seatsPerRow = 4

// BuildSeatMap lays out seats 1..capacity in rows of four (left pair, aisle,
// right pair). The capacity mod 4 remaining seats form a trailing back bench.
// Layout depends on capacity alone.
func BuildSeatMap(capacity int) ([]models.SeatRow, error) {
	if capacity <= 0 {
		return nil, &models.ValidationError{
			Code:    models.CodeInvalidCapacity,
			Field:   "capacity",
			Message: fmt.Sprintf("capacity must be positive, got %d", capacity),
		}
	}

	fullRows := capacity / seatsPerRow
	remainder := capacity % seatsPerRow

	rows := make([]models.SeatRow, 0, fullRows+1)
	seat := 1
	for i := 1; i <= fullRows; i++ {
		rows = append(rows, models.SeatRow{
			RowNumber:  i,
			RowLabel:   getRowLabel(i),
			LeftSeats:  []int{seat, seat + 1},
			RightSeats: []int{seat + 2, seat + 3},
		})
		seat += seatsPerRow
	}

	if remainder > 0 {
		back := make([]int, remainder)
		for i := range back {
			back[i] = seat + i
		}
		rows = append(rows, models.SeatRow{
			RowNumber: fullRows + 1,
			RowLabel:  getRowLabel(fullRows + 1),
			BackSeats: back,
		})
	}

	return rows, nil
}

// AnnotateSeatMap marks each seat of the layout as available or not
func AnnotateSeatMap(rows []models.SeatRow, occupancy *models.TripOccupancy) []models.SeatMapRow {
	occupied := make(map[int]struct{}, len(occupancy.OccupiedSeats))
	for _, s := range occupancy.OccupiedSeats {
		occupied[s] = struct{}{}
	}

	toInfo := func(seats []int) []models.SeatInfo {
		if len(seats) == 0 {
			return nil
		}
		infos := make([]models.SeatInfo, len(seats))
		for i, s := range seats {
			_, taken := occupied[s]
			infos[i] = models.SeatInfo{SeatNumber: s, Available: !taken}
		}
		return infos
	}

	annotated := make([]models.SeatMapRow, len(rows))
	for i, row := range rows {
		annotated[i] = models.SeatMapRow{
			RowNumber:  row.RowNumber,
			RowLabel:   row.RowLabel,
			LeftSeats:  toInfo(row.LeftSeats),
			RightSeats: toInfo(row.RightSeats),
			BackSeats:  toInfo(row.BackSeats),
		}
	}
	return annotated
}

// getRowLabel converts a 1-based row number to A..Z, then AA, AB, ...
func getRowLabel(rowNumber int) string {
	if rowNumber <= 0 {
		return "A"
	}
	if rowNumber <= 26 {
		return string(rune('A' + rowNumber - 1))
	}
	first := (rowNumber - 1) / 26
	second := (rowNumber - 1) % 26
	return string(rune('A'+first-1)) + string(rune('A'+second))
}
