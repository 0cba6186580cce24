package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfolio-tracker/ledger"
	"portfolio-tracker/models"
)

// Directory is the gorm-backed account store. Save replaces the whole
// position list and appends the trade log entry in one transaction,
// guarded by an optimistic version check on the user row.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).
		Preload("Positions", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot ASC")
		}).
		First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Directory) Save(ctx context.Context, user *models.User, trade *models.TradeLog) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND version = ?", user.ID, user.Version).
			Updates(map[string]interface{}{
				"realized_profit": user.RealizedProfit,
				"version":         user.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ledger.ErrConflict
		}
		user.Version++

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Position{}).Error; err != nil {
			return err
		}
		for i := range user.Positions {
			user.Positions[i].ID = 0
			user.Positions[i].UserID = user.ID
		}
		if len(user.Positions) > 0 {
			if err := tx.Create(&user.Positions).Error; err != nil {
				return err
			}
		}

		if trade != nil {
			if err := tx.Create(trade).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Create registers a new account; duplicate emails surface as gorm's
// unique constraint error from the driver.
func (d *Directory) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return d.db.WithContext(ctx).Create(user).Error
}

// UpdatePassword rewrites only the credential hash.
func (d *Directory) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := d.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

// Delete removes the account and cascades its positions and trade log.
func (d *Directory) Delete(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Position{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TradeLog{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ledger.ErrAccountNotFound
		}
		return nil
	})
}

// ListIDs returns every account id; the revaluation job iterates these.
func (d *Directory) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := d.db.WithContext(ctx).Model(&models.User{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list account ids: %w", err)
	}
	return ids, nil
}
