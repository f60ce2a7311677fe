package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rollcall/rollcall/internal/model"
	"github.com/rollcall/rollcall/internal/redact"
	"github.com/rollcall/rollcall/internal/repository"
)

type output struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run seeds the store and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("seed-users", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		databaseURL = flags.String("database-url", os.Getenv("DATABASE_URL"), "Store connection string (mongodb, postgres, redis)")
		count       = flags.Int("count", 10, "Number of users to create")
		prefix      = flags.String("prefix", "seed", "Name and email prefix")
		domain      = flags.String("domain", "example.com", "Email domain")
		format      = flags.String("format", "plain", "Output format: plain or json")
	)
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *databaseURL == "" {
		fmt.Fprintln(stderr, "DATABASE_URL is required")
		return 1
	}
	if *count < 1 {
		fmt.Fprintln(stderr, "count must be at least 1")
		return 1
	}
	mode := strings.ToLower(*format)
	if mode != "plain" && mode != "json" {
		fmt.Fprintln(stderr, "invalid format; use plain or json")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := repository.Open(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(stderr, "connect store:", redact.Error(err, *databaseURL))
		return 1
	}
	defer store.Close(context.Background())

	created := make([]output, 0, *count)
	for i := 1; i <= *count; i++ {
		u := model.NewUser(
			fmt.Sprintf("%s user %d", *prefix, i),
			fmt.Sprintf("%s-%d@%s", *prefix, i, *domain),
		)
		if err := store.CreateUser(ctx, u); err != nil {
			fmt.Fprintf(stderr, "create user %d: %s\n", i, redact.Error(err, *databaseURL))
			return 1
		}
		created = append(created, output{ID: u.ID, Name: u.Name, Email: u.Email})
	}

	if mode == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(created); err != nil {
			fmt.Fprintln(stderr, "encode output:", err)
			return 1
		}
		return 0
	}
	for _, u := range created {
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
	}
	return 0
}
