// Package main prints a summary of the prompts in a PromptHub Badger database.
//
// Usage:
//
//	DB_PATH=~/PromptHub/data/db go run ./cmd/dbinspect
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/prompthub/prompthub-server/internal/domain"
	"github.com/prompthub/prompthub-server/internal/query"
)

const (
	promptPrefix = "prompt:"
	indexPrefix  = "prompt:idx:"
)

// summary accumulates what the inspection found.
type summary struct {
	prompts       []*domain.Prompt
	indexKeys     int
	unreadable    int
	anonymous     int
	categories    map[string]int
	textTags      int
	isoTimestamps int
}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/PromptHub/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	sum := summary{categories: make(map[string]int)}

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(promptPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			if strings.HasPrefix(key, indexPrefix) {
				sum.indexKeys++
				continue
			}

			err := item.Value(func(val []byte) error {
				var p domain.Prompt
				if err := json.Unmarshal(val, &p); err != nil {
					return err
				}
				sum.add(&p)
				return nil
			})
			if err != nil {
				sum.unreadable++
				log.Printf("Error reading %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	sum.print()
}

func (s *summary) add(p *domain.Prompt) {
	s.prompts = append(s.prompts, p)
	s.categories[p.Category]++
	if p.IsAnonymous {
		s.anonymous++
	}
	if p.Tags.IsText() {
		s.textTags++
	}
	if p.CreatedAt.IsISO() {
		s.isoTimestamps++
	}
}

func (s *summary) print() {
	latest := slices.Clone(s.prompts)
	query.Sort(latest, query.SortLatest)
	for i, p := range latest {
		if i == 5 {
			break
		}
		fmt.Printf("Prompt: %s\n", p.Title)
		fmt.Printf("  ID: %s\n", p.ID)
		fmt.Printf("  Author: %s\n", p.Author)
		fmt.Printf("  Category: %s\n", p.Category)
		fmt.Printf("  Tags: %s\n", strings.Join(p.Tags.Values(), ", "))
		fmt.Printf("  Likes/Copies: %d/%d\n", p.Likes, p.Copies)
		fmt.Printf("  Created: %s\n", p.CreatedAt.Effective().Format("2006-01-02 15:04:05"))
		fmt.Println()
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total prompts: %d\n", len(s.prompts))
	fmt.Printf("Anonymous prompts: %d\n", s.anonymous)
	fmt.Printf("Prompts with text tags: %d\n", s.textTags)
	fmt.Printf("Prompts with ISO timestamps: %d\n", s.isoTimestamps)
	fmt.Printf("Index keys: %d\n", s.indexKeys)
	if s.unreadable > 0 {
		fmt.Printf("Unreadable documents: %d\n", s.unreadable)
	}

	fmt.Println("Categories:")
	for _, c := range slices.Sorted(maps.Keys(s.categories)) {
		fmt.Printf("  %-12s %d\n", c, s.categories[c])
	}
	fmt.Printf("Top tags: %s\n", strings.Join(query.TopTags(s.prompts), ", "))
}
