// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/LgendSourabie/blango/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a user with the given email, hashing the password.
// An empty email gets a generated one.
func (f *Factory) CreateUser(email, password string) (*models.User, error) {
	if email == "" {
		email = gofakeit.Email()
	}
	if password == "" {
		password = "password123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Password: string(hashed)}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateToken mints an auth token for the user with a fresh random key.
func (f *Factory) CreateToken(user *models.User) (*models.AuthToken, error) {
	key := strings.ReplaceAll(uuid.New().String(), "-", "")
	key += key[:8] // pad to the 40-character key length

	token := &models.AuthToken{Key: key, UserID: user.ID}
	if err := f.db.Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// BuildPost constructs a post for the author without persisting it. The
// publication time is spread over the past maxDays days.
func (f *Factory) BuildPost(author *models.User, maxDays int) *models.Post {
	if maxDays <= 0 {
		maxDays = 90
	}

	title := strings.TrimSuffix(gofakeit.Sentence(5), ".")
	back := time.Duration(f.rand.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rand.Intn(24))*time.Hour +
		time.Duration(f.rand.Intn(60))*time.Minute

	return &models.Post{
		Title:       title,
		Slug:        slugify(title),
		Content:     gofakeit.Paragraph(2, 4, 8, "\n"),
		AuthorID:    author.ID,
		PublishedAt: time.Now().UTC().Add(-back),
	}
}

// CreatePost persists a generated post for the author.
func (f *Factory) CreatePost(author *models.User, maxDays int) (*models.Post, error) {
	post := f.BuildPost(author, maxDays)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// slugify collapses a title into a URL-safe slug with a short random suffix
// so regenerated titles never collide.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return fmt.Sprintf("%s-%s", slug, uuid.New().String()[:8])
}
