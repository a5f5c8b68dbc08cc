package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"referearn_backend/internal/feature/course/domain/entity"
)

// maxAmount is the exclusive upper bound of a decimal(12,2) column.
var maxAmount = decimal.New(1, 10)

type catalogFile struct {
	Courses []catalogEntry `yaml:"courses"`
}

type catalogEntry struct {
	Slug          string `yaml:"slug"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	Price         string `yaml:"price"`
	ReferralBonus string `yaml:"referral_bonus"`
	SortKey       int    `yaml:"sort_key"`
	Active        *bool  `yaml:"active"`
}

// SeedUsecase loads the course catalog from a YAML file.
type SeedUsecase struct {
	repo CourseRepository
}

// NewSeedUsecase creates a SeedUsecase writing through repo.
func NewSeedUsecase(repo CourseRepository) *SeedUsecase {
	return &SeedUsecase{repo: repo}
}

// SeedFromFile upserts every course in path by slug and returns how many were written.
func (u *SeedUsecase) SeedFromFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}
	courses, err := ParseCatalog(raw)
	if err != nil {
		return 0, err
	}
	if err := u.repo.UpsertBatch(ctx, courses); err != nil {
		return 0, err
	}
	zap.L().Info("course catalog seeded", zap.String("path", path), zap.Int("courses", len(courses)))
	return len(courses), nil
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(raw []byte) ([]entity.Course, error) {
	var file catalogFile
	if err := yaml.UnmarshalStrict(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	seen := make(map[string]int, len(file.Courses))
	out := make([]entity.Course, 0, len(file.Courses))
	for i, e := range file.Courses {
		c, err := e.toCourse()
		if err != nil {
			return nil, fmt.Errorf("%w: course #%d: %w", ErrInvalidCatalog, i+1, err)
		}
		if prev, dup := seen[c.Slug]; dup {
			return nil, fmt.Errorf("%w: course #%d repeats slug %q of course #%d", ErrInvalidCatalog, i+1, c.Slug, prev)
		}
		seen[c.Slug] = i + 1
		out = append(out, c)
	}
	return out, nil
}

func (e catalogEntry) toCourse() (entity.Course, error) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return entity.Course{}, fmt.Errorf("title is required")
	}
	s := e.Slug
	if s == "" {
		s = title
	}
	s = slug.Make(s)
	if s == "" {
		return entity.Course{}, fmt.Errorf("title %q yields an empty slug", title)
	}

	price, err := parseAmount("price", e.Price)
	if err != nil {
		return entity.Course{}, err
	}
	bonus, err := parseAmount("referral_bonus", e.ReferralBonus)
	if err != nil {
		return entity.Course{}, err
	}
	if bonus.GreaterThan(price) {
		return entity.Course{}, fmt.Errorf("referral_bonus %s exceeds price %s", bonus, price)
	}

	active := true
	if e.Active != nil {
		active = *e.Active
	}
	return entity.Course{
		Slug:          s,
		Title:         title,
		Description:   strings.TrimSpace(e.Description),
		Price:         price,
		ReferralBonus: bonus,
		IsActive:      active,
		SortKey:       e.SortKey,
	}, nil
}

func parseAmount(field, v string) (decimal.Decimal, error) {
	if strings.TrimSpace(v) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a number", field, v)
	}
	if d.IsNegative() || !d.Equal(d.Round(2)) || d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("%s: %s is not a non-negative amount with at most 2 decimals", field, v)
	}
	return d.Round(2), nil
}
