package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_Slots_FullDay(t *testing.T) {
	cal := NewCalendar(DefaultConfig)

	slots := cal.Slots()

	require.Len(t, slots, 20) // 08:00 .. 17:30, 30-min steps
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "08:30", slots[1])
	assert.Equal(t, "17:30", slots[len(slots)-1])
	assert.NotContains(t, slots, "18:00") // closing hour is not bookable
}

func TestCalendar_Slots_StrictlyIncreasingAndGapUniform(t *testing.T) {
	cal := NewCalendar(DefaultConfig)

	slots := cal.Slots()

	for i := 1; i < len(slots); i++ {
		prev, err := cal.SlotOffset(slots[i-1])
		require.NoError(t, err)
		cur, err := cal.SlotOffset(slots[i])
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, cur-prev, "slots %s -> %s", slots[i-1], slots[i])
	}
}

func TestCalendar_Slots_Deterministic(t *testing.T) {
	cal := NewCalendar(DefaultConfig)

	assert.Equal(t, cal.Slots(), cal.Slots())
}

func TestCalendar_Slots_NoDuplicates(t *testing.T) {
	cal := NewCalendar(DefaultConfig)

	seen := make(map[string]bool)
	for _, s := range cal.Slots() {
		assert.False(t, seen[s], "duplicate slot %s", s)
		seen[s] = true
	}
}

func TestCalendar_Slots_TwelveHourLayout(t *testing.T) {
	cfg := DefaultConfig
	cfg.LabelLayout = "3:04 PM"
	cal := NewCalendar(cfg)

	slots := cal.Slots()

	require.Len(t, slots, 20)
	assert.Equal(t, "8:00 AM", slots[0])
	assert.Equal(t, "5:30 PM", slots[len(slots)-1])

	// Labels must round-trip through the same layout.
	for _, s := range slots {
		_, err := cal.SlotOffset(s)
		assert.NoError(t, err, "label %s should parse under its own layout", s)
	}
}

func TestCalendar_Slots_AlternateClosingHour(t *testing.T) {
	cfg := DefaultConfig
	cfg.CloseHour = 19
	cal := NewCalendar(cfg)

	slots := cal.Slots()

	require.Len(t, slots, 22)
	assert.Equal(t, "18:30", slots[len(slots)-1])
}

func TestCalendar_SlotTime(t *testing.T) {
	cal := NewCalendar(DefaultConfig)

	got, err := cal.SlotTime("2026-09-01", "10:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 30, 0, 0, time.Local), got)

	_, err = cal.SlotTime("not-a-date", "10:30")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = cal.SlotTime("2026-09-01", "half past ten")
	assert.ErrorIs(t, err, ErrUnknownSlot)
}
