package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	bookingRepo "kiings/database/repository/booking"
)

// slotCacheTTL bounds how stale a cached availability answer can get.
const slotCacheTTL = 30 * time.Second

// Availability resolves which calendar slots are still bookable on a date,
// applying the minimum-gap exclusion against existing bookings.
//
// Store-read failures degrade to the unfiltered calendar (fail-open): the
// unique (date, time) index still rejects true conflicts at persistence
// time, so a temporarily inaccurate slot list is preferred over refusing
// the whole request.
type Availability struct {
	Cal    Calendar
	Repo   bookingRepo.BookingRepository
	Cache  *redis.Client // optional; nil disables caching
	Logger *zap.Logger
}

// NewAvailability wires the resolver.
func NewAvailability(cal Calendar, repo bookingRepo.BookingRepository, cache *redis.Client, logger *zap.Logger) *Availability {
	return &Availability{Cal: cal, Repo: repo, Cache: cache, Logger: logger}
}

// AvailableSlots returns the ordered labels still bookable on the date.
// An empty slice is a valid answer for a fully booked day.
func (a *Availability) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}

	if cached, ok := a.cacheGet(ctx, date); ok {
		return cached, nil
	}

	booked, err := a.Repo.GetBookedSlots(ctx, date)
	if err != nil {
		a.Logger.Warn("availability: store read failed, serving unfiltered calendar",
			zap.String("date", date), zap.Error(err))
		return a.Cal.Slots(), nil
	}

	available := a.filter(booked)
	a.cacheSet(ctx, date, available)
	return available, nil
}

// IsSlotAvailable reports whether the slot may still be booked on the date.
// It validates the label against the calendar; the gap rule is applied the
// same way AvailableSlots applies it.
func (a *Availability) IsSlotAvailable(ctx context.Context, date, slot string) (bool, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return false, ErrInvalidDate
	}
	offset, err := a.Cal.SlotOffset(slot)
	if err != nil {
		return false, ErrUnknownSlot
	}
	inCalendar := false
	for _, s := range a.Cal.Slots() {
		if s == slot {
			inCalendar = true
			break
		}
	}
	if !inCalendar {
		return false, ErrUnknownSlot
	}

	booked, err := a.Repo.GetBookedSlots(ctx, date)
	if err != nil {
		// Fail-open, same policy as AvailableSlots; the unique index is the
		// final arbiter on insert.
		a.Logger.Warn("availability: store read failed during slot check",
			zap.String("date", date), zap.String("slot", slot), zap.Error(err))
		return true, nil
	}

	for _, b := range booked {
		bookedOffset, err := a.Cal.SlotOffset(b)
		if err != nil {
			a.Logger.Warn("availability: skipping unparsable booked slot label",
				zap.String("date", date), zap.String("label", b), zap.Error(err))
			continue
		}
		if absDuration(offset-bookedOffset) <= a.Cal.cfg.MinGap {
			return false, nil
		}
	}
	return true, nil
}

// SlotTime resolves date + slot to wall-clock time (cancellation cutoff math).
func (a *Availability) SlotTime(date, slot string) (time.Time, error) {
	return a.Cal.SlotTime(date, slot)
}

// Invalidate drops the cached slot list for a date after a booking is
// created or cancelled.
func (a *Availability) Invalidate(ctx context.Context, date string) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.Del(ctx, slotCacheKey(date)).Err(); err != nil {
		a.Logger.Warn("availability: cache invalidation failed", zap.String("date", date), zap.Error(err))
	}
}

// filter drops every calendar slot within MinGap (inclusive) of a booked
// slot, in either direction. Booked labels that do not parse under the
// configured layout are logged and skipped: a label-format mismatch between
// producer and consumer must not silently block or unblock slots.
func (a *Availability) filter(booked []string) []string {
	bookedOffsets := make([]time.Duration, 0, len(booked))
	for _, b := range booked {
		offset, err := a.Cal.SlotOffset(b)
		if err != nil {
			a.Logger.Warn("availability: skipping unparsable booked slot label",
				zap.String("label", b), zap.Error(err))
			continue
		}
		bookedOffsets = append(bookedOffsets, offset)
	}

	available := make([]string, 0)
	for _, slot := range a.Cal.Slots() {
		offset, err := a.Cal.SlotOffset(slot)
		if err != nil {
			continue
		}
		excluded := false
		for _, b := range bookedOffsets {
			if absDuration(offset-b) <= a.Cal.cfg.MinGap {
				excluded = true
				break
			}
		}
		if !excluded {
			available = append(available, slot)
		}
	}
	return available
}

func (a *Availability) cacheGet(ctx context.Context, date string) ([]string, bool) {
	if a.Cache == nil {
		return nil, false
	}
	raw, err := a.Cache.Get(ctx, slotCacheKey(date)).Result()
	if err != nil {
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (a *Availability) cacheSet(ctx context.Context, date string, slots []string) {
	if a.Cache == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := a.Cache.Set(ctx, slotCacheKey(date), raw, slotCacheTTL).Err(); err != nil {
		a.Logger.Warn("availability: cache write failed", zap.String("date", date), zap.Error(err))
	}
}

func slotCacheKey(date string) string {
	return "slots:" + date
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
