package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/jaganov/theblogs-app/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCalendarTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:calendar-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Post{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func createCalendarPost(t *testing.T, gdb *gorm.DB, slug, status string, createdAt time.Time) {
	t.Helper()
	post := db.Post{
		Title:     "Calendar Post",
		Slug:      slug,
		Content:   "body",
		Status:    status,
		CreatedAt: createdAt,
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("create post %s: %v", slug, err)
	}
}

func TestDaysWithPostsAggregatesPublishedDays(t *testing.T) {
	gdb := setupCalendarTest(t)
	svc := NewCalendarService(gdb, time.UTC)

	createCalendarPost(t, gdb, "first-a-00000001", db.StatusPublished, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	createCalendarPost(t, gdb, "first-b-00000002", db.StatusPublished, time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC))
	createCalendarPost(t, gdb, "mid-00000003", db.StatusPublished, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	createCalendarPost(t, gdb, "draft-00000004", db.StatusDraft, time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC))
	createCalendarPost(t, gdb, "other-month-00000005", db.StatusPublished, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	days, err := svc.DaysWithPosts(context.Background(), 2024, 6)
	if err != nil {
		t.Fatalf("days with posts: %v", err)
	}
	if !slices.Equal(days, []int{1, 15}) {
		t.Fatalf("expected days [1 15], got %v", days)
	}
}

func TestDaysWithPostsEmptyMonth(t *testing.T) {
	gdb := setupCalendarTest(t)
	svc := NewCalendarService(gdb, time.UTC)

	days, err := svc.DaysWithPosts(context.Background(), 2024, 2)
	if err != nil {
		t.Fatalf("days with posts: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected no days, got %v", days)
	}
}

func TestDaysWithPostsValidatesRange(t *testing.T) {
	gdb := setupCalendarTest(t)
	svc := NewCalendarService(gdb, time.UTC)

	if _, err := svc.DaysWithPosts(context.Background(), 0, 6); !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear for year 0, got %v", err)
	}
	if _, err := svc.DaysWithPosts(context.Background(), 10000, 6); !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear for year 10000, got %v", err)
	}
	if _, err := svc.DaysWithPosts(context.Background(), 2024, 0); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth for month 0, got %v", err)
	}
	if _, err := svc.DaysWithPosts(context.Background(), 2024, 13); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth for month 13, got %v", err)
	}
}

func TestDaysWithPostsUsesConfiguredZone(t *testing.T) {
	gdb := setupCalendarTest(t)

	// 23:30 UTC on June 30 is already July 1 in UTC+2.
	createCalendarPost(t, gdb, "boundary-00000006", db.StatusPublished, time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC))

	zone := time.FixedZone("UTC+2", 2*60*60)
	svc := NewCalendarService(gdb, zone)

	june, err := svc.DaysWithPosts(context.Background(), 2024, 6)
	if err != nil {
		t.Fatalf("june: %v", err)
	}
	if len(june) != 0 {
		t.Fatalf("expected June to be empty in UTC+2, got %v", june)
	}

	july, err := svc.DaysWithPosts(context.Background(), 2024, 7)
	if err != nil {
		t.Fatalf("july: %v", err)
	}
	if !slices.Equal(july, []int{1}) {
		t.Fatalf("expected July day [1] in UTC+2, got %v", july)
	}
}
