package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/askdb/askdb/internal/model"
)

// Seeding bounds. Each of the 90 days ending today receives between 5 and 15
// sales with amounts in [100.00, 5000.00].
const (
	seedDays      = 90
	seedMinPerDay = 5
	seedMaxPerDay = 15
	seedMinAmount = 100.00
	seedMaxAmount = 5000.00
)

//go:embed seed.yaml
var seedYAML []byte

type seedFixture struct {
	SalesPeople       []model.SalesPerson `yaml:"sales_people"`
	ProductCategories []string            `yaml:"product_categories"`
	CustomerNames     []string            `yaml:"customer_names"`
}

func loadSeedFixture() (*seedFixture, error) {
	var f seedFixture
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixture: %w", err)
	}
	if len(f.SalesPeople) == 0 || len(f.ProductCategories) == 0 || len(f.CustomerNames) == 0 {
		return nil, errors.New("seed fixture is incomplete")
	}
	return &f, nil
}

type seedOptions struct {
	rng *rand.Rand
	now func() time.Time
}

// SeedOption customizes SeedIfEmpty. Tests use these to pin the random
// source and the clock.
type SeedOption func(*seedOptions)

// WithRand replaces the default random source.
func WithRand(r *rand.Rand) SeedOption {
	return func(o *seedOptions) { o.rng = r }
}

// WithNow replaces the clock used to anchor the 90-day sales window.
func WithNow(now func() time.Time) SeedOption {
	return func(o *seedOptions) { o.now = now }
}

// SeedIfEmpty populates an empty database with the demo roster and three
// months of generated sales. The gate is the sales_people table alone: any
// existing row means the database is considered populated and nothing is
// written. All inserts happen in a single transaction, so a partially seeded
// database is never visible. Returns the number of sale rows inserted.
func (s *Store) SeedIfEmpty(ctx context.Context, opts ...SeedOption) (int, error) {
	o := seedOptions{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var people int64
	if err := s.db.GetContext(ctx, &people, "SELECT COUNT(*) FROM sales_people"); err != nil {
		return 0, fmt.Errorf("count sales_people: %w", err)
	}
	if people > 0 {
		return 0, nil
	}

	fixture, err := loadSeedFixture()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert the roster and collect the assigned ids; every generated sale
	// references one of them.
	ids := make([]int64, 0, len(fixture.SalesPeople))
	for _, p := range fixture.SalesPeople {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sales_people (name, email, region, hire_date, quota)
			 VALUES (?, ?, ?, ?, ?)`,
			p.Name, p.Email, p.Region, p.HireDate, p.Quota)
		if err != nil {
			return 0, fmt.Errorf("insert sales person %s: %w", p.Email, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("read sales person id: %w", err)
		}
		ids = append(ids, id)
	}

	inserted := 0
	today := o.now()
	for offset := 0; offset < seedDays; offset++ {
		day := today.AddDate(0, 0, -offset).Format("2006-01-02")
		n := seedMinPerDay + o.rng.IntN(seedMaxPerDay-seedMinPerDay+1)
		for i := 0; i < n; i++ {
			sale := model.Sale{
				SalesPersonID:   ids[o.rng.IntN(len(ids))],
				SaleDate:        day,
				Amount:          math.Round((seedMinAmount+o.rng.Float64()*(seedMaxAmount-seedMinAmount))*100) / 100,
				ProductCategory: fixture.ProductCategories[o.rng.IntN(len(fixture.ProductCategories))],
				CustomerName:    fixture.CustomerNames[o.rng.IntN(len(fixture.CustomerNames))],
			}
			_, err := tx.NamedExecContext(ctx,
				`INSERT INTO sales (sales_person_id, sale_date, amount, product_category, customer_name)
				 VALUES (:sales_person_id, :sale_date, :amount, :product_category, :customer_name)`,
				sale)
			if err != nil {
				return 0, fmt.Errorf("insert sale for %s: %w", day, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}
	return inserted, nil
}
