package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/osse101/CaseVault_Go/internal/config"
	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/validation"
)

// Seeder writes catalog and account fixtures. Implementations skip entries that already exist.
type Seeder interface {
	SeedCase(ctx context.Context, c domain.CatalogCase) (id int64, created bool, err error)
	SeedAccount(ctx context.Context, acc domain.Account) (created bool, err error)
}

// DemoCatalog is the fixture file format
type DemoCatalog struct {
	Cases    []DemoCase    `yaml:"cases"`
	Accounts []DemoAccount `yaml:"accounts"`
}

type DemoCase struct {
	Name   string        `yaml:"name"`
	Price  config.Amount `yaml:"price"`
	Prizes []DemoPrize   `yaml:"prizes"`
}

type DemoPrize struct {
	Name     string        `yaml:"name"`
	Value    config.Amount `yaml:"value"`
	Category string        `yaml:"category"`
	SKU      string        `yaml:"sku"`
	Weight   float64       `yaml:"weight"`
	// DisplayOnly marks a showcase prize that is never drawn
	DisplayOnly bool `yaml:"display_only"`
}

type DemoAccount struct {
	ID      uuid.UUID     `yaml:"id"`
	Balance config.Amount `yaml:"balance"`
	Demo    bool          `yaml:"demo"`
}

// LoadDemoCatalog reads and validates the fixture file
func LoadDemoCatalog(path string) (*DemoCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadDemoCatalog, err)
	}
	if err := validation.NewSchemaValidator().ValidateYAML(data, config.ConfigPathDemoCatalogSchema); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidDemoCatalog, err)
	}
	var cat DemoCatalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadDemoCatalog, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidDemoCatalog, err)
	}
	return &cat, nil
}

// Validate rejects fixtures the catalog would refuse to draw from
func (c *DemoCatalog) Validate() error {
	var errs []error
	for _, dc := range c.Cases {
		if dc.Name == "" || dc.Price <= 0 {
			errs = append(errs, fmt.Errorf("case %q: name and a positive price are required", dc.Name))
		}
		drawable := false
		for _, p := range dc.Prizes {
			if p.Value < 0 || p.Weight < 0 {
				errs = append(errs, fmt.Errorf("case %q prize %q: value and weight must not be negative", dc.Name, p.Name))
			}
			if !p.DisplayOnly && p.Weight > 0 {
				drawable = true
			}
		}
		if !drawable {
			errs = append(errs, fmt.Errorf("case %q: %w", dc.Name, domain.ErrCaseNoEligiblePrizes))
		}
	}
	for _, a := range c.Accounts {
		if a.ID == uuid.Nil || a.Balance < 0 {
			errs = append(errs, fmt.Errorf("account %s: id and a non-negative balance are required", a.ID))
		}
	}
	return errors.Join(errs...)
}

// SyncDemoCatalog loads path and writes its cases and accounts through seeder.
// Entries that already exist are left unchanged, so repeated runs are harmless.
func SyncDemoCatalog(ctx context.Context, seeder Seeder, path string) error {
	slog.Info(LogMsgSyncingDemoCatalog, "path", path)
	cat, err := LoadDemoCatalog(path)
	if err != nil {
		return err
	}

	casesCreated, accountsCreated := 0, 0
	for _, dc := range cat.Cases {
		id, created, err := seeder.SeedCase(ctx, dc.toCatalogCase())
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedSyncDemoCatalog, err)
		}
		if !created {
			slog.Debug(LogMsgDemoCaseSkipped, "case_id", id, "name", dc.Name)
			continue
		}
		casesCreated++
	}
	for _, da := range cat.Accounts {
		created, err := seeder.SeedAccount(ctx, domain.Account{
			ID:      da.ID,
			Active:  true,
			Demo:    da.Demo,
			Balance: da.Balance.Money(),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedSyncDemoCatalog, err)
		}
		if created {
			accountsCreated++
		}
	}

	slog.Info(LogMsgDemoCatalogSynced, "cases_created", casesCreated, "accounts_created", accountsCreated)
	return nil
}

func (dc DemoCase) toCatalogCase() domain.CatalogCase {
	c := domain.CatalogCase{Name: dc.Name, Price: dc.Price.Money(), Active: true}
	for _, p := range dc.Prizes {
		category := p.Category
		if category == "" {
			category = string(domain.PrizeCategoryMonetary)
		}
		if p.DisplayOnly {
			category = string(domain.PrizeCategoryDisplayOnly)
		}
		c.Prizes = append(c.Prizes, domain.CatalogPrize{
			Name:         p.Name,
			Value:        p.Value.Money(),
			Category:     category,
			SKU:          p.SKU,
			Weight:       p.Weight,
			DrawEligible: !p.DisplayOnly,
			Active:       true,
		})
	}
	return c
}
