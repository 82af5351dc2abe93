// Package store persists budgets and settings with gorm, implementing the
// budget.Store boundary for the HTTP server and for embedded use.
package store

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pbaptista/orcamentos/internal/budget"
	"github.com/pbaptista/orcamentos/internal/models"
)

type Gorm struct {
	DB *gorm.DB
}

var _ budget.Store = (*Gorm)(nil)

func NewGorm(db *gorm.DB) *Gorm { return &Gorm{DB: db} }

// Save creates or updates a budget in one transaction. On create the status
// is PENDING; on update the stored status is kept and the item set is
// replaced wholesale. Line totals and the grand total are re-derived before
// writing; caller-supplied totals are never trusted.
func (s *Gorm) Save(ctx context.Context, b *models.Budget) error {
	normalizeTotals(b)
	items := b.Items
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if b.ID == 0 {
			b.Status = models.StatusPending
			header := *b
			header.Items = nil
			if err := tx.Create(&header).Error; err != nil {
				return err
			}
			b.ID = header.ID
		} else {
			var existing models.Budget
			if err := tx.Select("id", "status").First(&existing, b.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return budget.ErrNotFound
				}
				return err
			}
			b.Status = existing.Status
			updates := map[string]any{
				"client_name":  b.ClientName,
				"phone":        b.Phone,
				"email":        b.Email,
				"address":      b.Address,
				"grand_total":  b.GrandTotal,
				"created_date": b.CreatedDate,
			}
			if err := tx.Model(&models.Budget{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
				return err
			}
			if err := tx.Where("budget_id = ?", b.ID).Delete(&models.BudgetItem{}).Error; err != nil {
				return err
			}
		}
		for i := range items {
			items[i].ID = 0
			items[i].BudgetID = b.ID
			items[i].Position = i
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.audit(ctx, "Budget", b.ID, "save")
	return nil
}

// Get loads the full record, items in display order.
func (s *Gorm) Get(ctx context.Context, id uint) (*models.Budget, error) {
	var b models.Budget
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, budget.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns history summaries, newest first.
func (s *Gorm) List(ctx context.Context) ([]models.BudgetSummary, error) {
	var budgets []models.Budget
	if err := s.DB.WithContext(ctx).Preload("Items").Order("id desc").Find(&budgets).Error; err != nil {
		return nil, err
	}
	out := make([]models.BudgetSummary, 0, len(budgets))
	for i := range budgets {
		st := budgets[i].Status
		if st == "" {
			st = models.StatusPending
		}
		out = append(out, models.BudgetSummary{
			ID:         budgets[i].ID,
			ClientName: budgets[i].ClientName,
			Date:       budgets[i].CreatedDate,
			ItemsCount: len(budgets[i].Items),
			Total:      budgets[i].GrandTotal,
			Status:     st,
		})
	}
	return out, nil
}

// SetStatus updates the status of one budget. Re-setting the current status
// is a no-op that still succeeds.
func (s *Gorm) SetStatus(ctx context.Context, id uint, status string) error {
	if err := s.DB.WithContext(ctx).Model(&models.Budget{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return err
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Budget{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return budget.ErrNotFound
	}
	s.audit(ctx, "Budget", id, "status:"+status)
	return nil
}

// Delete removes a budget and its items. Deleting an absent id succeeds.
func (s *Gorm) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", id).Delete(&models.BudgetItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Budget{}, id).Error
	})
	if err != nil {
		return err
	}
	s.audit(ctx, "Budget", id, "delete")
	return nil
}

// All returns the full collection for stats aggregation.
func (s *Gorm) All(ctx context.Context) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("id asc").Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// GetSettings returns the single settings row, or zero-value defaults when
// none has been saved yet.
func (s *Gorm) GetSettings(ctx context.Context) (*models.Settings, error) {
	var cfg models.Settings
	err := s.DB.WithContext(ctx).Where("id = ?", 1).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveSettings upserts the single settings row.
func (s *Gorm) SaveSettings(ctx context.Context, cfg *models.Settings) error {
	cfg.ID = 1
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Settings{}).Where("id = ?", 1).Count(&count).Error; err != nil {
		return err
	}
	var err error
	if count == 0 {
		err = s.DB.WithContext(ctx).Create(cfg).Error
	} else {
		err = s.DB.WithContext(ctx).Save(cfg).Error
	}
	if err != nil {
		return err
	}
	s.audit(ctx, "Settings", 1, "save")
	return nil
}

// audit records a best-effort trail row; a failed audit write never fails
// the operation it describes.
func (s *Gorm) audit(ctx context.Context, entity string, id uint, action string) {
	_ = s.DB.WithContext(ctx).Create(&models.AuditLog{EntityType: entity, EntityID: id, Action: action}).Error
}

// normalizeTotals re-derives every line total and the grand total.
func normalizeTotals(b *models.Budget) {
	sum := decimal.Zero
	for i := range b.Items {
		lt := decimal.NewFromFloat(finite(b.Items[i].Quantity)).Mul(decimal.NewFromFloat(finite(b.Items[i].UnitPrice)))
		b.Items[i].LineTotal = lt.InexactFloat64()
		sum = sum.Add(lt)
	}
	b.GrandTotal = sum.InexactFloat64()
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
