// Command seed adds books and users directly to the database. Book and
// admin account creation is not exposed over HTTP.
//
//	seed add-book --title T --author A --description D --content C [--published-date YYYY-MM-DD]
//	seed add-fake-books N
//	seed add-user --email E --username U --password P --first-name F --last-name L [--role admin|client]
//	seed delete-book --id N
//	seed set-active --id N [--active=false]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Clark-Hu/bookreviews/internal/auth"
	"github.com/Clark-Hu/bookreviews/internal/config"
	"github.com/Clark-Hu/bookreviews/internal/domain"
	"github.com/Clark-Hu/bookreviews/internal/logger"
	"github.com/Clark-Hu/bookreviews/internal/repository"
	"github.com/Clark-Hu/bookreviews/internal/store"
)

const (
	dateLayout        = "2006-01-02"
	maxDescriptionLen = 500
	maxContentLen     = 2000
)

var errUsage = errors.New("usage: seed add-book|add-fake-books|add-user|delete-book|set-active [flags]")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	if err := config.LoadDotenv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logger.New(logger.Config{
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})

	// parse before connecting so flag errors do not need a database
	var action func(context.Context, *repository.Repository) error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "add-book":
		params, err := parseAddBook(rest, time.Now())
		if err != nil {
			return err
		}
		action = func(ctx context.Context, repo *repository.Repository) error {
			book, err := repo.Books.Create(ctx, params)
			if err != nil {
				return fmt.Errorf("create book: %w", err)
			}
			fmt.Fprintf(out, "Book %q by %s added successfully (id %d).\n", book.Title, book.Author, book.ID)
			return nil
		}
	case "add-fake-books":
		count, err := parseCount(rest)
		if err != nil {
			return err
		}
		action = func(ctx context.Context, repo *repository.Repository) error {
			faker := gofakeit.New(0)
			now := time.Now()
			for i := 0; i < count; i++ {
				if _, err := repo.Books.Create(ctx, fakeBook(faker, now)); err != nil {
					return fmt.Errorf("create fake book %d: %w", i+1, err)
				}
			}
			fmt.Fprintf(out, "Successfully created %d fake books.\n", count)
			return nil
		}
	case "add-user":
		params, err := parseAddUser(rest)
		if err != nil {
			return err
		}
		action = func(ctx context.Context, repo *repository.Repository) error {
			user, err := repo.Users.Create(ctx, params)
			if err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return fmt.Errorf("a user with email %s or username %s already exists", params.Email, params.Username)
				}
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(out, "User %s (%s) created with id %d.\n", user.Username, user.Role, user.ID)
			return nil
		}
	case "delete-book":
		id, err := parseID("delete-book", rest)
		if err != nil {
			return err
		}
		action = func(ctx context.Context, repo *repository.Repository) error {
			book, err := repo.Books.GetByID(ctx, id)
			if err != nil {
				return notFoundOr(err, "book", id)
			}
			if err := repo.Books.Delete(ctx, id); err != nil {
				return notFoundOr(err, "book", id)
			}
			fmt.Fprintf(out, "Book %q deleted together with its reviews.\n", book.Title)
			return nil
		}
	case "set-active":
		id, active, err := parseSetActive(rest)
		if err != nil {
			return err
		}
		action = func(ctx context.Context, repo *repository.Repository) error {
			user, err := repo.Users.GetByID(ctx, id)
			if err != nil {
				return notFoundOr(err, "user", id)
			}
			if err := repo.Users.SetActive(ctx, id, active); err != nil {
				return notFoundOr(err, "user", id)
			}
			state := "deactivated"
			if active {
				state = "activated"
			}
			fmt.Fprintf(out, "User %s %s.\n", user.Username, state)
			return nil
		}
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}

	if cfg.MigrateOnStart {
		if err := store.Migrate(cfg.DBURL, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	st, err := store.New(ctx, cfg.DBURL, store.Options{
		MaxConns:    2,
		ConnTimeout: time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		Logger:      log.With(slog.String("component", "seed")),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	return action(ctx, repository.New(st))
}

func parseAddBook(args []string, now time.Time) (repository.BookCreateParams, error) {
	fs := flag.NewFlagSet("add-book", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "title of the book")
	author := fs.String("author", "", "author of the book")
	description := fs.String("description", "", "description of the book")
	content := fs.String("content", "", "content of the book")
	published := fs.String("published-date", "", "published date (YYYY-MM-DD), defaults to today")
	if err := fs.Parse(args); err != nil {
		return repository.BookCreateParams{}, err
	}

	required := []struct{ name, val string }{
		{"title", *title},
		{"author", *author},
		{"description", *description},
		{"content", *content},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			return repository.BookCreateParams{}, fmt.Errorf("the --%s flag is required", r.name)
		}
	}

	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if *published != "" {
		parsed, err := time.Parse(dateLayout, *published)
		if err != nil {
			return repository.BookCreateParams{}, fmt.Errorf("invalid date format %q, use YYYY-MM-DD", *published)
		}
		date = parsed
	}

	return repository.BookCreateParams{
		Title:         strings.TrimSpace(*title),
		Author:        strings.TrimSpace(*author),
		Description:   *description,
		Content:       *content,
		PublishedDate: date,
	}, nil
}

func parseCount(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("add-fake-books takes exactly one argument: the number of books")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("book count must be a positive integer, got %q", args[0])
	}
	return n, nil
}

func parseAddUser(args []string) (repository.UserCreateParams, error) {
	fs := flag.NewFlagSet("add-user", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "login email")
	username := fs.String("username", "", "unique username")
	password := fs.String("password", "", "plaintext password, hashed before storage")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	roleFlag := fs.String("role", string(domain.RoleClient), "admin or client")
	inactive := fs.Bool("inactive", false, "create the account disabled")
	if err := fs.Parse(args); err != nil {
		return repository.UserCreateParams{}, err
	}

	if *email == "" || *username == "" || *password == "" {
		return repository.UserCreateParams{}, errors.New("--email, --username and --password are required")
	}
	role, err := domain.ParseRole(*roleFlag)
	if err != nil {
		return repository.UserCreateParams{}, err
	}
	hash, err := auth.HashPassword(*password)
	if err != nil {
		return repository.UserCreateParams{}, err
	}

	return repository.UserCreateParams{
		Email:        *email,
		Username:     *username,
		FirstName:    *firstName,
		LastName:     *lastName,
		Role:         role,
		IsActive:     !*inactive,
		PasswordHash: hash,
	}, nil
}

func parseID(name string, args []string) (int64, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Int64("id", 0, "row identifier")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *id <= 0 {
		return 0, errors.New("the --id flag must be a positive integer")
	}
	return *id, nil
}

func parseSetActive(args []string) (int64, bool, error) {
	fs := flag.NewFlagSet("set-active", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Int64("id", 0, "user id")
	active := fs.Bool("active", true, "whether the account may use the API")
	if err := fs.Parse(args); err != nil {
		return 0, false, err
	}
	if *id <= 0 {
		return 0, false, errors.New("the --id flag must be a positive integer")
	}
	return *id, *active, nil
}

func notFoundOr(err error, kind string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("no %s with id %d", kind, id)
	}
	return fmt.Errorf("%s %d: %w", kind, id, err)
}

// fakeBook builds a book published within the ten years before now.
func fakeBook(f *gofakeit.Faker, now time.Time) repository.BookCreateParams {
	published := f.DateRange(now.AddDate(-10, 0, 0), now)
	return repository.BookCreateParams{
		Title:         strings.TrimSuffix(f.LoremIpsumSentence(5), "."),
		Author:        f.Name(),
		Description:   truncate(f.LoremIpsumParagraph(1, 4, 12, " "), maxDescriptionLen),
		Content:       truncate(f.LoremIpsumParagraph(4, 6, 12, "\n\n"), maxContentLen),
		PublishedDate: time.Date(published.Year(), published.Month(), published.Day(), 0, 0, 0, 0, time.UTC),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
