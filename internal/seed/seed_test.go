package seed

import (
	"testing"

	"github.com/LgendSourabie/blango/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.AuthToken{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestRun(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 4, NumPosts: 8}))

	var userCount, postCount, tokenCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Post{}).Count(&postCount)
	db.Model(&models.AuthToken{}).Count(&tokenCount)

	assert.Equal(t, int64(4), userCount)
	assert.Equal(t, int64(8), postCount)
	assert.Equal(t, int64(2), tokenCount, "well-known users get tokens")

	t.Run("well-known users exist with working passwords", func(t *testing.T) {
		var user models.User
		require.NoError(t, db.Where("email = ?", "user1@gmail.com").First(&user).Error)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	})

	t.Run("posts carry valid authors and UTC timestamps", func(t *testing.T) {
		var posts []models.Post
		require.NoError(t, db.Find(&posts).Error)
		for _, p := range posts {
			assert.NotZero(t, p.AuthorID)
			assert.NotEmpty(t, p.Slug)
			assert.False(t, p.PublishedAt.IsZero())
		}
	})
}

func TestRun_Clean(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 3, NumPosts: 3}))
	require.NoError(t, Run(db, Options{NumUsers: 3, NumPosts: 3, ShouldClean: true}))

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	assert.Equal(t, int64(3), userCount, "clean run starts from an empty table")
}

func TestFactory_CreateToken(t *testing.T) {
	db := setupSeedDB(t)
	factory := NewFactory(db)

	user, err := factory.CreateUser("user1@gmail.com", "password123")
	require.NoError(t, err)

	token, err := factory.CreateToken(user)
	require.NoError(t, err)
	assert.Len(t, token.Key, 40)
	assert.Equal(t, user.ID, token.UserID)
}

func TestSlugify(t *testing.T) {
	slug := slugify("Hello, World! This Is A Title")
	assert.Contains(t, slug, "hello-world-this-is-a-title")
	// Random suffix keeps regenerated titles unique.
	assert.NotEqual(t, slug, slugify("Hello, World! This Is A Title"))
}
