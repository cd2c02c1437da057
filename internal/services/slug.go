package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"gorm.io/gorm"
)

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeSlug lowercases name and collapses every run of characters outside
// [a-z0-9] into a single dash. Leading and trailing dashes are kept.
func NormalizeSlug(name string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(name), "-")
}

// slugTable names a table and column holding unique area slugs
type slugTable struct {
	model  interface{}
	column string
}

var (
	areaInfoSlugs = slugTable{model: &models.AreaInfoMetadata{}, column: "slug"}
	areaMetaSlugs = slugTable{model: &models.AreaMetadata{}, column: "url_name"}
)

// assignSlug returns the slug areaID should hold in table. The base slug wins when
// it is free or already held by areaID; otherwise -1, -2, ... are tried in order.
// A name with no usable characters falls back to the area id.
func assignSlug(db *gorm.DB, table slugTable, areaID, name string) (string, error) {
	base := NormalizeSlug(name)
	if strings.Trim(base, "-") == "" {
		base = NormalizeSlug(areaID)
	}

	candidate := base
	for n := 1; ; n++ {
		var owners []string
		if err := quiet(db).Model(table.model).
			Where(table.column+" = ?", candidate).
			Limit(1).
			Pluck("id", &owners).Error; err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if len(owners) == 0 || owners[0] == areaID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// FindAreaIDBySlug resolves a human typed area name to an area id.
// AreaInfoMetadata is consulted before AreaMetadata.
func FindAreaIDBySlug(db *gorm.DB, areaURLName string) (string, error) {
	slug := NormalizeSlug(areaURLName)
	for _, table := range []slugTable{areaInfoSlugs, areaMetaSlugs} {
		var ids []string
		err := quiet(db).Model(table.model).
			Where(table.column+" = ?", slug).
			Limit(1).
			Pluck("id", &ids).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		if len(ids) > 0 {
			return ids[0], nil
		}
	}
	return "", ErrNotFound
}
