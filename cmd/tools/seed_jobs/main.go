// Command seed_jobs populates the jobs table with sample postings for local
// development, so the catalog has enough pages to exercise search and
// pagination.
//
// Usage:
//
//	go run cmd/tools/seed_jobs/main.go
//
// Requires DATABASE_URL environment variable to be set.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/anand/job-board/internal/markup"
	"github.com/anand/job-board/internal/store"
)

var samples = []struct {
	title       string
	description string
}{
	{"Senior Go Engineer", "<p>Build and operate the services behind the job catalog. <strong>Go</strong> and PostgreSQL in production.</p>"},
	{"Frontend Engineer", "<p>Own the catalog and intake views.</p><ul><li>Debounced search</li><li>Pagination</li></ul>"},
	{"Site Reliability Engineer", "<p>Keep the boards up. On-call rotation, <em>generous</em> error budgets.</p>"},
	{"Data Engineer", "<p>Pipelines over application and catalog data.</p>"},
	{"Engineering Manager", "<p>Lead a team of six across catalog and intake.</p>"},
	{"QA Engineer", "<p>Own the test strategy for the intake flow.</p>"},
	{"Technical Writer", "<p>Document the posting workflow for admins.</p>"},
	{"Backend Intern", "<p>Six months, paid, real production work in Go.</p>"},
	{"Product Designer", "<p>Shape the review views the admins live in.</p>"},
	{"Security Engineer", "<p>Harden the resume intake and session handling.</p>"},
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	st, err := store.Connect(ctx, dsn, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to migrate schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Job Seed Script ===")
	fmt.Println()

	created := 0
	for _, s := range samples {
		job, err := st.CreateJob(ctx, s.title, markup.Sanitize(s.description))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to create %q: %v\n", s.title, err)
			os.Exit(1)
		}
		fmt.Printf("  created %s  %s\n", job.ID, job.Title)
		created++
	}

	fmt.Println()
	fmt.Printf("Done. %d postings created.\n", created)
}
