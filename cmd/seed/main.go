// Package main seeds a PromptHub store with prompts from a YAML fixture file.
//
// Usage:
//
//	go run ./cmd/seed                                  # built-in fixtures into ~/PromptHub/data
//	go run ./cmd/seed --file prompts.yaml --reset      # replace all prompts
//	go run ./cmd/seed --driver sqlite --data /tmp/ph   # seed the SQLite store
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prompthub/prompthub-server/internal/config"
	"github.com/prompthub/prompthub-server/internal/domain"
	"github.com/prompthub/prompthub-server/internal/id"
	"github.com/prompthub/prompthub-server/internal/store"
	"github.com/prompthub/prompthub-server/internal/store/sqlite"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

var (
	dataPath = flag.String("data", "", "Data directory (default $DATA_PATH or ~/PromptHub/data)")
	driver   = flag.String("driver", config.StoreBadger, "Store driver: badger or sqlite")
	file     = flag.String("file", "", "YAML fixture file (default: built-in fixtures)")
	reset    = flag.Bool("reset", false, "Delete all prompts before seeding")
)

// fixtureFile is the YAML document layout.
type fixtureFile struct {
	Prompts []fixture `yaml:"prompts"`
}

// fixture is one prompt in the YAML file. Prompts without an author are anonymous.
type fixture struct {
	Title            string   `yaml:"title"`
	Content          string   `yaml:"content"`
	Description      string   `yaml:"description"`
	Example          string   `yaml:"example"`
	Tips             string   `yaml:"tips"`
	ExpectedResponse string   `yaml:"expectedResponse"`
	Model            string   `yaml:"model"`
	PromptType       string   `yaml:"promptType"`
	ComplexityLevel  string   `yaml:"complexityLevel"`
	ContextLength    string   `yaml:"contextLength"`
	Category         string   `yaml:"category"`
	UseCases         []string `yaml:"useCases"`
	Tags             []string `yaml:"tags"`
	TagText          string   `yaml:"tagText"`
	Author           *author  `yaml:"author"`
	Likes            int      `yaml:"likes"`
	Copies           int      `yaml:"copies"`
	AgeHours         int      `yaml:"ageHours"`
	ISOTimestamps    bool     `yaml:"isoTimestamps"`
}

type author struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

func main() {
	flag.Parse()

	base := *dataPath
	if base == "" {
		base = os.Getenv("DATA_PATH")
	}
	if base == "" {
		base = os.ExpandEnv("$HOME/PromptHub/data")
	}

	raw := defaultFixtures
	if *file != "" {
		var err error
		raw, err = os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read fixtures: %v", err)
		}
	}

	prompts, err := parseFixtures(raw, time.Now())
	if err != nil {
		log.Fatalf("Failed to parse fixtures: %v", err)
	}

	data := config.DataConfig{BasePath: base, Driver: *driver}
	if err := os.MkdirAll(filepath.Dir(data.StorePath()), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	fmt.Printf("Opening %s store at: %s\n", data.Driver, data.StorePath())

	s, err := openStore(data)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *reset {
		n, err := s.DeleteAllPrompts(ctx)
		if err != nil {
			log.Fatalf("Failed to reset prompts: %v", err)
		}
		fmt.Printf("Deleted %d existing prompts\n", n)
	}

	if err := s.PutPrompts(ctx, prompts); err != nil {
		log.Fatalf("Failed to write prompts: %v", err)
	}

	total, err := s.CountPrompts(ctx)
	if err != nil {
		log.Fatalf("Failed to count prompts: %v", err)
	}

	fmt.Printf("Seeded %d prompts (%d total)\n", len(prompts), total)
}

func openStore(data config.DataConfig) (store.PromptStore, error) {
	switch data.Driver {
	case config.StoreSQLite:
		return sqlite.Open(data.StorePath(), nil)
	case config.StoreBadger:
		return store.New(data.StorePath(), nil)
	default:
		return nil, fmt.Errorf("unknown driver %q", data.Driver)
	}
}

// parseFixtures turns the YAML document into prompts created relative to now.
func parseFixtures(raw []byte, now time.Time) ([]*domain.Prompt, error) {
	var doc fixtureFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	prompts := make([]*domain.Prompt, 0, len(doc.Prompts))
	for i, f := range doc.Prompts {
		if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Content) == "" {
			return nil, fmt.Errorf("prompt %d: title and content are required", i+1)
		}

		p, err := f.toPrompt(now)
		if err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i+1, err)
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

func (f fixture) toPrompt(now time.Time) (*domain.Prompt, error) {
	created := now.Add(-time.Duration(f.AgeHours) * time.Hour)
	stamp := domain.NewTimestamp(created)
	if f.ISOTimestamps {
		stamp = domain.ISOTimestamp(created)
	}

	tags := domain.TagList(f.Tags...)
	if f.TagText != "" {
		tags = domain.TagString(f.TagText)
	}

	category := f.Category
	if category == "" {
		category = domain.DefaultCategory
	}

	p := &domain.Prompt{
		ID:               id.NewPromptID(),
		Title:            strings.TrimSpace(f.Title),
		Content:          strings.TrimSpace(f.Content),
		Description:      f.Description,
		Example:          f.Example,
		Tips:             f.Tips,
		ExpectedResponse: f.ExpectedResponse,
		Model:            f.Model,
		PromptType:       f.PromptType,
		ComplexityLevel:  f.ComplexityLevel,
		ContextLength:    f.ContextLength,
		Category:         category,
		UseCases:         f.UseCases,
		Tags:             tags,
		Likes:            f.Likes,
		Copies:           f.Copies,
		CreatedAt:        stamp,
		UpdatedAt:        stamp,
	}

	if f.Author != nil && f.Author.Email != "" {
		who := domain.Identity{Email: f.Author.Email, Name: f.Author.Name, Image: f.Author.Image}
		p.Claim(who)
		return p, nil
	}

	session, err := id.NewAnonymousSession()
	if err != nil {
		return nil, err
	}
	p.UserID = session
	p.Author = domain.AnonymousAuthor
	p.IsAnonymous = true
	return p, nil
}
