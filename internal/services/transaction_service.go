package services

import (
	"gorm.io/gorm"
	"gorm.io/hints"

	"github.com/truexpanse/mat-data-service/internal/models"
)

// ListTransactions returns the transaction ledger, optionally scoped to one
// user. Managers pass an empty userID for the team ledger.
func ListTransactions(db *gorm.DB, userID string) ([]models.Transaction, error) {
	q := db.Clauses(hints.CommentBefore("select", "mat:revenue-rollup"))
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var txs []models.Transaction
	if err := q.Order("date").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateTransaction records a revenue event.
func CreateTransaction(db *gorm.DB, tx *models.Transaction) error {
	return db.Create(tx).Error
}
