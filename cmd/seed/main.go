// Package main provides a tool to seed the database with catalog and demo
// reading data.
//
// This imports a catalog JSON file and optionally creates demo users with
// randomized reading lists to exercise the feed and recommendation routing.
//
// Usage:
//
//	DB_PATH=~/myfi/db go run ./cmd/seed --catalog data/books.json
//	DB_PATH=~/myfi/db go run ./cmd/seed --catalog data/books.json --demo-users 3
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/JovelRamos/myfi-server/internal/catalog"
	"github.com/JovelRamos/myfi-server/internal/domain"
	"github.com/JovelRamos/myfi-server/internal/id"
	"github.com/JovelRamos/myfi-server/internal/store"
)

var (
	catalogFile = flag.String("catalog", "", "Catalog JSON file to import")
	demoUsers   = flag.Int("demo-users", 0, "Number of demo users to create")
)

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/myfi/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := store.New(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *catalogFile != "" {
		importer := catalog.NewImporter(s, nil, logger)
		count, err := importer.ImportFile(ctx, *catalogFile)
		if err != nil {
			log.Fatalf("Failed to import catalog: %v", err)
		}
		fmt.Printf("Imported %d books from %s\n", count, *catalogFile)
	}

	if *demoUsers > 0 {
		books, err := s.ListBooks(ctx)
		if err != nil {
			log.Fatalf("Failed to list books: %v", err)
		}
		if len(books) == 0 {
			log.Fatal("No books in catalog. Import one with --catalog first.")
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		for n := 0; n < *demoUsers; n++ {
			seedDemoUser(ctx, s, books, rng)
		}
	}

	fmt.Println("Done.")
}

// seedDemoUser creates one user with a randomized spread across the three
// lists. Roughly half the finished books carry ratings so some users land
// on either side of the collaborative routing threshold.
func seedDemoUser(ctx context.Context, s *store.Store, books []domain.Book, rng *rand.Rand) {
	userID := id.MustGenerate("user")
	profile := domain.NewReadingProfile(userID)

	perm := rng.Perm(len(books))
	take := func(n int) []string {
		if n > len(perm) {
			n = len(perm)
		}
		ids := make([]string, n)
		for i := 0; i < n; i++ {
			ids[i] = books[perm[i]].ID
		}
		perm = perm[n:]
		return ids
	}

	for _, bookID := range take(rng.Intn(5)) {
		profile.AddWantToRead(bookID)
	}
	for _, bookID := range take(1 + rng.Intn(3)) {
		profile.StartReading(bookID)
	}
	for _, bookID := range take(rng.Intn(15)) {
		var rating *int
		if rng.Intn(2) == 0 {
			r := 1 + rng.Intn(5)
			rating = &r
		}
		profile.FinishBook(bookID, rating)
	}

	if err := s.PutProfile(ctx, profile); err != nil {
		log.Printf("Failed to save profile %s: %v", userID, err)
		return
	}

	fmt.Printf("Created demo user %s: %d want-to-read, %d reading, %d finished\n",
		userID, len(profile.WantToRead), len(profile.CurrentlyReading), len(profile.Finished))
}
