// Package main seeds a Penwell database with an admin, categories, sample
// posts and a few comments.
//
// It reads the same flags, environment and .env file as the server:
//
//	go run ./cmd/seed --data-path ./data
//	SEED_ADMIN_EMAIL=me@example.com SEED_ADMIN_PASSWORD=changeme go run ./cmd/seed
//
// Running it twice is safe; existing records are reused.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/penwellapp/penwell-server/internal/auth"
	"github.com/penwellapp/penwell-server/internal/config"
	"github.com/penwellapp/penwell-server/internal/domain"
	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/logger"
	"github.com/penwellapp/penwell-server/internal/media"
	"github.com/penwellapp/penwell-server/internal/policy"
	"github.com/penwellapp/penwell-server/internal/service"
	"github.com/penwellapp/penwell-server/internal/store/sqldb"
)

type samplePost struct {
	title      string
	slug       string
	content    string
	categories []string
}

var sampleCategories = []service.CreateCategoryRequest{
	{Name: "Engineering", Description: "How we build things"},
	{Name: "Product", Description: "What we build and why"},
	{Name: "Culture", Description: "How we work together"},
}

var samplePosts = []samplePost{
	{
		title:      "Hello, Penwell",
		slug:       "hello-penwell",
		content:    "Welcome to the blog. Posts are written in **markdown** and can be filed under any number of categories.",
		categories: []string{"Product"},
	},
	{
		title:      "Paginating without surprises",
		slug:       "paginating-without-surprises",
		content:    "A page past the end is empty, not an error. Limits are capped at one hundred.\n\n- page starts at 1\n- limit defaults to 10",
		categories: []string{"Engineering"},
	},
	{
		title:      "Importing from the old CMS",
		slug:       "importing-from-the-old-cms",
		content:    "<p>Old posts arrive as <em>HTML</em> and are stored as markdown.</p><ul><li>headings</li><li>links</li></ul>",
		categories: []string{"Engineering", "Product"},
	},
	{
		title:      "Writing week",
		slug:       "writing-week",
		content:    "Once a quarter the whole team writes. Drafts go up here first.",
		categories: []string{"Culture"},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	}).WithField("command", "seed")

	if err := run(context.Background(), cfg, log); err != nil {
		log.WithError(err).Error("Seeding failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	st, err := sqldb.Open(cfg.Database.Driver, cfg.Database.DSN, log.Logger)
	if err != nil {
		return err
	}
	defer st.Close()

	covers, err := media.NewCoverStorage(cfg.Uploads.Path, cfg.Uploads.MaxBytes)
	if err != nil {
		return err
	}
	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(key, time.Hour)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(st, tokens, log.Logger)
	categorySvc := service.NewCategoryService(st, log.Logger)
	postSvc := service.NewPostService(st, covers, log.Logger)
	commentSvc := service.NewCommentService(st, log.Logger)

	admin, err := account(ctx, authSvc, "Admin",
		getenv("SEED_ADMIN_EMAIL", "admin@penwell.local"),
		getenv("SEED_ADMIN_PASSWORD", "penwell-admin"))
	if err != nil {
		return err
	}
	if !admin.IsAdmin() {
		return fmt.Errorf("%s exists but is not an admin", admin.Email)
	}
	adminActor := policy.ActorFor(admin)

	categoryIDs, err := seedCategories(ctx, categorySvc, adminActor)
	if err != nil {
		return err
	}

	reader, err := account(ctx, authSvc, "Reader", "reader@penwell.local", "penwell-reader")
	if err != nil {
		return err
	}
	readerActor := policy.ActorFor(reader)

	var created int
	for _, sp := range samplePosts {
		ids := make([]int64, 0, len(sp.categories))
		for _, name := range sp.categories {
			ids = append(ids, categoryIDs[name])
		}

		post, err := postSvc.Create(ctx, adminActor, service.CreatePostRequest{
			Title:       sp.title,
			Slug:        sp.slug,
			Content:     sp.content,
			CategoryIDs: ids,
		})
		if domainerrors.Is(err, domainerrors.ErrConflict) {
			log.Debug("Post already seeded", "slug", sp.slug)
			continue
		}
		if err != nil {
			return fmt.Errorf("create post %q: %w", sp.title, err)
		}
		created++

		if _, err := commentSvc.Create(ctx, readerActor, post.ID, service.CommentRequest{
			Content: "Thanks for writing about " + sp.title + ".",
		}); err != nil {
			return fmt.Errorf("comment on %q: %w", sp.title, err)
		}
	}

	log.Info("Seeding complete",
		"admin", admin.Email,
		"categories", len(categoryIDs),
		"posts_created", created,
	)
	return nil
}

// account registers a user, or logs in when the email is taken.
func account(ctx context.Context, svc *service.AuthService, name, email, password string) (*domain.User, error) {
	resp, err := svc.Register(ctx, service.RegisterRequest{Name: name, Email: email, Password: password})
	if domainerrors.Is(err, domainerrors.ErrConflict) {
		resp, err = svc.Login(ctx, service.LoginRequest{Email: email, Password: password})
	}
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", email, err)
	}
	return resp.User, nil
}

func seedCategories(ctx context.Context, svc *service.CategoryService, actor policy.Actor) (map[string]int64, error) {
	for _, req := range sampleCategories {
		_, err := svc.Create(ctx, actor, req)
		if err != nil && !domainerrors.Is(err, domainerrors.ErrConflict) {
			return nil, fmt.Errorf("create category %q: %w", req.Name, err)
		}
	}

	all, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(all))
	for _, c := range all {
		ids[c.Name] = c.ID
	}
	return ids, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
