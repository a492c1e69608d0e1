// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumBlogs    int
	ShouldClean bool
}

var tagPool = []string{
	"go", "programming", "web-dev", "databases", "cloud", "devops",
	"travel", "food", "fitness", "music", "books", "photography",
	"design", "career", "productivity", "open-source",
}

// Seeder creates demo data for the application database.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data, children first.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, table := range []string{"comments", "likes", "saves", "blogs", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, blogs, comments, likes and saves.
func (s *Seeder) Run(opts Options) error {
	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	blogs, err := s.SeedBlogs(users, opts.NumBlogs)
	if err != nil {
		return err
	}
	if err := s.SeedEngagement(users, blogs); err != nil {
		return err
	}
	log.Printf("Seeded %d users and %d blogs", len(users), len(blogs))
	return nil
}

// SeedUsers creates n fake users.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := &models.User{
			FirstName: first,
			LastName:  last,
			Username:  strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, s.rand.Intn(1000))),
			Email:     strings.ToLower(fmt.Sprintf("%s.%s%d@%s", first, last, s.rand.Intn(1000), gofakeit.DomainName())),
			Bio:       gofakeit.Sentence(10),
			Image:     fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
			CreatedAt: s.pastTime(365),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedBlogs creates n fake blogs spread across the given users.
func (s *Seeder) SeedBlogs(users []*models.User, n int) ([]*models.Blog, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author blogs")
	}
	blogs := make([]*models.Blog, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		blog := &models.Blog{
			Title:       fmt.Sprintf("%s %d", gofakeit.Sentence(4), i),
			Description: gofakeit.Sentence(12),
			Content:     gofakeit.Paragraph(3, 5, 12, "\n\n"),
			Tags:        s.pickTags(),
			AuthorID:    author.ID,
			CreatedAt:   s.pastTime(180),
		}
		if s.rand.Intn(3) == 0 {
			blog.Images = []string{
				fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			}
		}
		if err := s.db.Create(blog).Error; err != nil {
			return nil, fmt.Errorf("seeding blog: %w", err)
		}
		blogs = append(blogs, blog)
	}
	return blogs, nil
}

// SeedEngagement scatters comments, likes and saves across the blogs.
func (s *Seeder) SeedEngagement(users []*models.User, blogs []*models.Blog) error {
	for _, blog := range blogs {
		for _, user := range users {
			if s.rand.Intn(4) == 0 {
				like := &models.Like{BlogID: blog.ID, UserID: user.ID, CreatedAt: s.pastTime(90)}
				if err := s.db.Create(like).Error; err != nil {
					return fmt.Errorf("seeding like: %w", err)
				}
			}
			if s.rand.Intn(8) == 0 {
				save := &models.Save{BlogID: blog.ID, UserID: user.ID, CreatedAt: s.pastTime(90)}
				if err := s.db.Create(save).Error; err != nil {
					return fmt.Errorf("seeding save: %w", err)
				}
			}
			if s.rand.Intn(6) == 0 {
				comment := &models.Comment{
					BlogID:    blog.ID,
					UserID:    user.ID,
					Content:   gofakeit.Sentence(8 + s.rand.Intn(12)),
					CreatedAt: s.pastTime(90),
				}
				if err := s.db.Create(comment).Error; err != nil {
					return fmt.Errorf("seeding comment: %w", err)
				}
			}
		}
	}
	return nil
}

func (s *Seeder) pickTags() []string {
	n := 1 + s.rand.Intn(4)
	picked := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(picked) < n {
		tag := tagPool[s.rand.Intn(len(tagPool))]
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		picked = append(picked, tag)
	}
	return picked
}

// pastTime returns a millisecond-truncated timestamp up to maxDays in the past.
func (s *Seeder) pastTime(maxDays int) time.Time {
	back := time.Duration(s.rand.Intn(maxDays*24*60)) * time.Minute
	return time.Now().UTC().Add(-back).Truncate(time.Millisecond)
}
