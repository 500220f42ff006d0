// Package main prints a summary of a Penwell database: entity counts,
// categories with their post counts, and the newest posts.
//
// It reads the same flags, environment and .env file as the server:
//
//	go run ./cmd/dbinspect --data-path ./data
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/penwellapp/penwell-server/internal/config"
	"github.com/penwellapp/penwell-server/internal/listing"
	"github.com/penwellapp/penwell-server/internal/logger"
	"github.com/penwellapp/penwell-server/internal/store/sqldb"
)

const recentPosts = 10

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := sqldb.Open(cfg.Database.Driver, cfg.Database.DSN, logger.Discard().Logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	fmt.Println("=== Database Inspection ===")
	fmt.Printf("Driver: %s\n\n", st.Driver())

	users, err := st.CountUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	posts, err := st.CountPosts(ctx, listing.All())
	if err != nil {
		log.Fatalf("Failed to count posts: %v", err)
	}
	comments, err := st.CountComments(ctx)
	if err != nil {
		log.Fatalf("Failed to count comments: %v", err)
	}
	categories, err := st.ListCategories(ctx)
	if err != nil {
		log.Fatalf("Failed to list categories: %v", err)
	}

	fmt.Printf("Users:      %d\n", users)
	fmt.Printf("Posts:      %d\n", posts)
	fmt.Printf("Categories: %d\n", len(categories))
	fmt.Printf("Comments:   %d\n", comments)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	if len(categories) > 0 {
		fmt.Println("\n=== Categories ===")
		fmt.Fprintln(tw, "ID\tNAME\tPOSTS")
		for _, c := range categories {
			fmt.Fprintf(tw, "%d\t%s\t%d\n", c.ID, c.Name, c.PostCount)
		}
		_ = tw.Flush()
	}

	if posts == 0 {
		return
	}

	page, err := listing.Paginate(posts, 1, recentPosts)
	if err != nil {
		log.Fatalf("Failed to paginate: %v", err)
	}
	recent, err := st.ListPosts(ctx, listing.FilterSpec{Selector: listing.All(), Sort: listing.DefaultSort()}, page)
	if err != nil {
		log.Fatalf("Failed to list posts: %v", err)
	}

	fmt.Println("\n=== Newest posts ===")
	fmt.Fprintln(tw, "ID\tSLUG\tAUTHOR\tCOMMENTS\tCATEGORIES\tCOVER")
	for _, p := range recent {
		cover := "-"
		if p.CoverImage != "" {
			cover = p.CoverImage
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", p.ID, p.Slug, p.AuthorName, p.CommentCount, len(p.Categories), cover)
	}
	_ = tw.Flush()
}
