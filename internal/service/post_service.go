// Package service holds the application logic between the HTTP handlers and
// the repositories: payload validation, author URL resolution, and the wire
// representation of posts.
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/LgendSourabie/blango/internal/models"
	"github.com/LgendSourabie/blango/internal/observability"
	"github.com/LgendSourabie/blango/internal/repository"
	"github.com/LgendSourabie/blango/internal/validation"
)

// PublishedAtLayout is the canonical output format for post timestamps:
// UTC with microsecond precision and a literal Z suffix, always emitted
// even when the fractional part is zero.
const PublishedAtLayout = "2006-01-02T15:04:05.000000Z"

// publishedAtInputLayouts are the accepted input formats, tried in order.
// Offsets and naive timestamps are both fine on the way in; naive values
// are taken as UTC.
var publishedAtInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// PostPayload is the wire representation of a post. The author is carried
// as a resource URL, not an embedded object.
type PostPayload struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	PublishedAt string `json:"published_at"`
}

// PostList is the paginated list envelope.
type PostList struct {
	Count    int64         `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []PostPayload `json:"results"`
}

type CreatePostInput struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	PublishedAt string `json:"published_at"`
}

type ListPostsInput struct {
	Limit  int
	Offset int
}

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	baseURL  string
}

// NewPostService wires the post service. baseURL is the absolute prefix used
// when building resource URLs, e.g. "http://localhost:8000".
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, baseURL string) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// WithBaseURL returns a copy of the service minting resource URLs against
// baseURL. Handlers use it so links carry the host the request came in on.
func (s *PostService) WithBaseURL(baseURL string) *PostService {
	if baseURL == "" {
		return s
	}
	clone := *s
	clone.baseURL = strings.TrimRight(baseURL, "/")
	return &clone
}

const (
	maxTitleLen  = 300
	defaultLimit = 100
	maxLimit     = 500
)

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostList, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	count, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	results := make([]PostPayload, 0, len(posts))
	for _, p := range posts {
		results = append(results, s.serialize(p))
	}

	list := &PostList{
		Count:   count,
		Results: results,
	}
	if int64(offset+limit) < count {
		next := s.pageURL(limit, offset+limit)
		list.Next = &next
	}
	if offset > 0 {
		prevOffset := offset - limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prev := s.pageURL(limit, prevOffset)
		list.Previous = &prev
	}
	return list, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*PostPayload, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := s.serialize(post)
	return &payload, nil
}

// CreatePost validates the payload, resolves the author URL to a stored user,
// and persists the post. The author field of the payload wins over the
// authenticated caller; see the user directory for resolution rules.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*PostPayload, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if err := validation.ValidateSlug(in.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	email, err := ParseAuthorURL(in.Author)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewValidationError(fmt.Sprintf("Author %q does not resolve to a known user", in.Author))
	}

	publishedAt, err := ParsePublishedAt(in.PublishedAt)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		Slug:        in.Slug,
		Content:     in.Content,
		AuthorID:    author.ID,
		PublishedAt: publishedAt,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	post.Author = *author
	payload := s.serialize(post)
	return &payload, nil
}

func (s *PostService) serialize(p *models.Post) PostPayload {
	return PostPayload{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Author:      s.AuthorURL(p.Author.Email),
		PublishedAt: FormatPublishedAt(p.PublishedAt),
	}
}

// AuthorURL builds the resource URL for a user, addressed by email.
func (s *PostService) AuthorURL(email string) string {
	return s.baseURL + "/api/v1/users/" + url.PathEscape(email)
}

func (s *PostService) pageURL(limit, offset int) string {
	return fmt.Sprintf("%s/api/v1/posts/?limit=%d&offset=%d", s.baseURL, limit, offset)
}

// ParseAuthorURL extracts the user email from an author resource URL. The
// host is deliberately ignored; only the path shape matters, so URLs minted
// against any host name resolve the same way.
func ParseAuthorURL(raw string) (string, error) {
	if raw == "" {
		return "", models.NewValidationError("Author is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", models.NewValidationError("Author must be a valid resource URL")
	}
	const marker = "/api/v1/users/"
	idx := strings.Index(parsed.Path, marker)
	if idx < 0 {
		return "", models.NewValidationError("Author must be a user resource URL")
	}
	email := strings.TrimSuffix(parsed.Path[idx+len(marker):], "/")
	email, unescapeErr := url.PathUnescape(email)
	if unescapeErr != nil || email == "" {
		return "", models.NewValidationError("Author must be a user resource URL")
	}
	return email, nil
}

// ParsePublishedAt accepts ISO-8601 timestamps with or without fractional
// seconds, with an offset, a Z, or naked. The result is always UTC.
func ParsePublishedAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, models.NewValidationError("published_at is required")
	}
	for _, layout := range publishedAtInputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, models.NewValidationError("published_at must be an ISO-8601 timestamp")
}

// FormatPublishedAt renders a timestamp in the canonical wire format.
func FormatPublishedAt(t time.Time) string {
	return t.UTC().Format(PublishedAtLayout)
}
