package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jaganov/theblogs-app/internal/config"
	"github.com/jaganov/theblogs-app/internal/db"
	"github.com/jaganov/theblogs-app/internal/search"
	"github.com/jaganov/theblogs-app/internal/service"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 测试数据生成器：生成作者账号与按日期回填的文章，便于演示分页、
// 搜索与日历聚合。
func main() {
	userCount := flag.Int("users", 5, "number of author accounts to create")
	postCount := flag.Int("posts", 40, "number of posts to create")
	backDays := flag.Int("back-days", 120, "spread created_at over this many past days")
	password := flag.String("password", "password123", "password for every generated account")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// The on-disk index (if configured) is rebuilt by the server on boot,
	// so the seeder only needs a throwaway in-memory one.
	index, err := search.NewBleveIndex(search.Options{})
	if err != nil {
		log.Fatalf("failed to initialize search index: %v", err)
	}
	defer index.Close()

	posts := service.NewPostService(gdb, index, nil)

	fmt.Println("seeding test data...")

	users, err := seedUsers(gdb, *userCount, *password)
	if err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}

	created := seedPosts(posts, users, *postCount, *backDays)

	fmt.Printf("done: %d users, %d posts (password: %s)\n", len(users), created, *password)
}

func seedUsers(gdb *gorm.DB, count int, password string) ([]db.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]db.User, 0, count)
	for len(users) < count {
		user := db.User{
			Username: strings.ToLower(gofakeit.Username()),
			Password: string(hashed),
		}
		if err := gdb.Create(&user).Error; err != nil {
			// Random usernames occasionally collide; just draw again.
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func seedPosts(posts *service.PostService, users []db.User, count, backDays int) int {
	now := time.Now()
	created := 0

	for i := 0; i < count; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]
		createdAt := gofakeit.DateRange(now.AddDate(0, 0, -backDays), now)

		status := db.StatusPublished
		if gofakeit.Number(1, 5) == 1 {
			status = db.StatusDraft
		}

		input := service.PostInput{
			Title:     gofakeit.Sentence(gofakeit.Number(4, 9)),
			Content:   gofakeit.Paragraph(4, 6, 30, "\n\n"),
			Excerpt:   gofakeit.Sentence(gofakeit.Number(10, 25)),
			Status:    status,
			UserID:    author.ID,
			CreatedAt: &createdAt,
		}
		if gofakeit.Bool() {
			input.FeaturedImage = gofakeit.ImageURL(1200, 800)
			input.ImageCaption = gofakeit.Sentence(5)
		}

		post, err := posts.Create(context.Background(), input)
		if err != nil {
			log.Printf("failed to create post %d/%d: %v", i+1, count, err)
			continue
		}
		created++
		fmt.Printf("created %s post %q by %s (%s)\n", post.Status, post.Title, author.Username, post.Slug)
	}
	return created
}
