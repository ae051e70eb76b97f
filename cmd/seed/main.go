// Package main loads reference data into the foodgram database.
//
// Ingredients come from a CSV of "name,measurement_unit" rows and tags from
// "name[,color[,slug]]" rows; a missing color is derived from the name. Rows already present are skipped, so the tool can
// be rerun after editing the files.
//
// Usage:
//
//	go run ./cmd/seed -ingredients data/ingredients.csv -tags data/tags.csv
//	go run ./cmd/seed -promote admin@example.com
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/foodgramapp/foodgram-server/internal/color"
	"github.com/foodgramapp/foodgram-server/internal/config"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/store"
	"github.com/foodgramapp/foodgram-server/internal/store/sqlite"
	"github.com/foodgramapp/foodgram-server/internal/util"
)

func main() {
	dataPath := flag.String("data-path", "", "Directory holding the database (defaults to server config)")
	ingredientsFile := flag.String("ingredients", "", "CSV file of ingredients: name,measurement_unit")
	tagsFile := flag.String("tags", "", "CSV file of tags: name[,color[,slug]]")
	promote := flag.String("promote", "", "Email of a user to grant staff rights")
	flag.Parse()

	var args []string
	if *dataPath != "" {
		args = append(args, "-data-path", *dataPath)
	}
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	st, err := sqlite.Open(cfg.Data.DatabasePath(), log.Logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database", "path", cfg.Data.DatabasePath())
	}
	defer st.Close()

	ctx := context.Background()

	if *ingredientsFile != "" {
		added, skipped, err := seedIngredients(ctx, st, *ingredientsFile)
		if err != nil {
			log.WithError(err).Fatal("Failed to load ingredients", "file", *ingredientsFile)
		}
		log.Info("Ingredients loaded", "added", added, "skipped", skipped)
	}

	if *tagsFile != "" {
		added, skipped, err := seedTags(ctx, st, *tagsFile)
		if err != nil {
			log.WithError(err).Fatal("Failed to load tags", "file", *tagsFile)
		}
		log.Info("Tags loaded", "added", added, "skipped", skipped)
	}

	if *promote != "" {
		if err := st.SetStaff(ctx, *promote, true); err != nil {
			log.WithError(err).Fatal("Failed to promote user", "email", *promote)
		}
		log.Info("User promoted to staff", "email", *promote)
	}
}

// readRows returns the CSV records of path. A leading header row is skipped
// when its first cell is literally "name".
func readRows(path string, minFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}
		if len(rec) < minFields {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, minFields, len(rec))
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func seedIngredients(ctx context.Context, st store.IngredientRepository, path string) (added, skipped int, err error) {
	rows, err := readRows(path, 2)
	if err != nil {
		return 0, 0, err
	}
	for _, rec := range rows {
		ing := &domain.Ingredient{
			Name:            strings.TrimSpace(rec[0]),
			MeasurementUnit: strings.TrimSpace(rec[1]),
		}
		switch err := st.CreateIngredient(ctx, ing); {
		case errors.Is(err, store.ErrAlreadyExists):
			skipped++
		case err != nil:
			return added, skipped, fmt.Errorf("ingredient %q: %w", ing.Name, err)
		default:
			added++
		}
	}
	return added, skipped, nil
}

func seedTags(ctx context.Context, st store.TagRepository, path string) (added, skipped int, err error) {
	rows, err := readRows(path, 1)
	if err != nil {
		return 0, 0, err
	}
	for _, rec := range rows {
		tag := &domain.Tag{Name: strings.TrimSpace(rec[0])}
		tag.Color = color.ForTag(tag.Name)
		if len(rec) > 1 && strings.TrimSpace(rec[1]) != "" {
			c, ok := color.Normalize(rec[1])
			if !ok {
				return added, skipped, fmt.Errorf("tag %q: invalid color %q", tag.Name, rec[1])
			}
			tag.Color = c
		}
		if len(rec) > 2 {
			tag.Slug = strings.TrimSpace(rec[2])
		}
		if tag.Slug == "" {
			tag.Slug = util.Slugify(tag.Name)
		}
		if !util.ValidSlug(tag.Slug) {
			return added, skipped, fmt.Errorf("tag %q: no usable slug, add one in the third column", tag.Name)
		}
		switch err := st.CreateTag(ctx, tag); {
		case errors.Is(err, store.ErrAlreadyExists):
			skipped++
		case err != nil:
			return added, skipped, fmt.Errorf("tag %q: %w", tag.Name, err)
		default:
			added++
		}
	}
	return added, skipped, nil
}
