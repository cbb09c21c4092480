package usecase

import (
	"context"
	"testing"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableSlots_EmptyDayCoversWindow(t *testing.T) {
	f := newFixture(t)
	court := f.addCourt(t, "20.00")

	for _, minutes := range []int{30, 60, 120} {
		slots, err := f.svc.Availability.AvailableSlots(context.Background(), court, monday(0, 0), minutes)
		require.NoError(t, err)

		require.Len(t, slots, (22-8)*60/minutes)
		assert.Equal(t, monday(8, 0), slots[0].Start)
		assert.Equal(t, monday(22, 0), slots[len(slots)-1].End)
		for i := 1; i < len(slots); i++ {
			assert.Equal(t, slots[i-1].End, slots[i].Start)
		}
	}
}

func TestAvailableSlots_ExcludesBooked(t *testing.T) {
	f := newFixture(t)
	court := f.addCourt(t, "20.00")

	f.addBooking(t, court, uuid.New(), monday(10, 0), monday(11, 30), entity.BookingStatusConfirmed)
	f.addBooking(t, court, uuid.New(), monday(15, 0), monday(16, 0), entity.BookingStatusCancelled)

	slots, err := f.svc.Availability.AvailableSlots(context.Background(), court, monday(0, 0), 60)
	require.NoError(t, err)
	require.Len(t, slots, 12)

	for _, s := range slots {
		assert.NotEqual(t, monday(10, 0), s.Start)
		assert.NotEqual(t, monday(11, 0), s.Start)
	}
}

func TestAvailableSlots_Errors(t *testing.T) {
	f := newFixture(t)
	court := f.addCourt(t, "20.00")
	ctx := context.Background()

	_, err := f.svc.Availability.AvailableSlots(ctx, court, monday(0, 0), 50)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Availability.AvailableSlots(ctx, court, monday(0, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	court.Status = entity.CourtStatusMaintenance
	slots, err := f.svc.Availability.AvailableSlots(ctx, court, monday(0, 0), 60)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestIsAvailable(t *testing.T) {
	f := newFixture(t)
	court := f.addCourt(t, "20.00")
	ctx := context.Background()

	f.addBooking(t, court, uuid.New(), monday(10, 0), monday(11, 0), entity.BookingStatusPending)

	tests := []struct {
		name       string
		start, end int
		want       bool
	}{
		{"touching before", 9, 10, true},
		{"touching after", 11, 12, true},
		{"same slot", 10, 11, false},
		{"covering", 9, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.svc.Availability.IsAvailable(ctx, court, monday(tt.start, 0), monday(tt.end, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	court.Status = entity.CourtStatusInactive
	ok, err := f.svc.Availability.IsAvailable(ctx, court, monday(14, 0), monday(15, 0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetAvailableSlots(t *testing.T) {
	f := newFixture(t)
	court := f.addCourt(t, "20.00")
	ctx := context.Background()

	resp, err := f.svc.Availability.GetAvailableSlots(ctx, court.ID.String(), &request.SlotsRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.SlotMinutes)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Len(t, resp.Slots, 14)

	_, err = f.svc.Availability.GetAvailableSlots(ctx, uuid.NewString(), &request.SlotsRequest{Date: "2026-03-02"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Availability.GetAvailableSlots(ctx, "not-a-uuid", &request.SlotsRequest{Date: "2026-03-02"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Availability.GetAvailableSlots(ctx, court.ID.String(), &request.SlotsRequest{Date: "02/03/2026"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
