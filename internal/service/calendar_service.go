package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jaganov/theblogs-app/internal/db"
	"gorm.io/gorm"
)

var (
	ErrInvalidYear  = errors.New("year must be between 1 and 9999")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// CalendarService derives day-of-month presence from stored post timestamps.
type CalendarService struct {
	db       *gorm.DB
	location *time.Location
}

// NewCalendarService creates a CalendarService evaluating months in location.
func NewCalendarService(gdb *gorm.DB, location *time.Location) *CalendarService {
	if location == nil {
		location = time.UTC
	}
	return &CalendarService{db: gdb, location: location}
}

// DaysWithPosts returns the sorted distinct days of the given month that have
// at least one published post. Drafts never count. Out-of-range input is a
// caller error, never coerced.
func (s *CalendarService) DaysWithPosts(ctx context.Context, year, month int) ([]int, error) {
	if year < 1 || year > 9999 {
		return nil, ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.location)
	monthEnd := monthStart.AddDate(0, 1, 0)

	// sqlite stores timestamps as text, so boundary parameters must share
	// the stored offset for range comparisons to hold.
	var createdAts []time.Time
	if err := s.db.WithContext(ctx).Model(&db.Post{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", db.StatusPublished, monthStart.UTC(), monthEnd.UTC()).
		Pluck("created_at", &createdAts).Error; err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	for _, createdAt := range createdAts {
		seen[createdAt.In(s.location).Day()] = struct{}{}
	}

	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Ints(days)
	return days, nil
}
