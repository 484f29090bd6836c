package seed

import (
	"fmt"

	"github.com/LgendSourabie/blango/internal/middleware"
	"github.com/LgendSourabie/blango/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// wellKnownUsers are always seeded so local clients and docs examples have
// stable accounts to work with. The password for each is "password123".
var wellKnownUsers = []string{
	"user1@gmail.com",
	"user2@gmail.com",
}

// Run populates the database with users, tokens, and posts.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 50
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	factory := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for _, email := range wellKnownUsers {
		user, err := factory.CreateUser(email, "password123")
		if err != nil {
			return fmt.Errorf("create user %s: %w", email, err)
		}
		if _, err := factory.CreateToken(user); err != nil {
			return fmt.Errorf("create token for %s: %w", email, err)
		}
		users = append(users, user)
	}
	for len(users) < opts.NumUsers {
		user, err := factory.CreateUser("", "")
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := users[i%len(users)]
		if _, err := factory.CreatePost(author, 90); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
	}

	middleware.Logger.Info("seed complete",
		"users", len(users),
		"posts", opts.NumPosts,
	)
	return nil
}

// Clean removes all seeded data. Order matters: posts and tokens reference
// users.
func Clean(db *gorm.DB) error {
	for _, model := range []any{&models.Post{}, &models.AuthToken{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
