// day_service.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/truexpanse/mat-data-service/internal/daydata"
	"github.com/truexpanse/mat-data-service/internal/models"
	"github.com/truexpanse/mat-data-service/internal/store"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// GormRemote is the gorm-backed remote store for day records: bulk reads,
// whole-document replace on (user_id, date).
type GormRemote struct {
	DB *gorm.DB
}

var _ store.RemoteStore = (*GormRemote)(nil)

// FetchAll returns every stored day row, optionally scoped to one user.
// Manager sessions pass an empty userID and get the whole team's rows.
func (g *GormRemote) FetchAll(ctx context.Context, userID string) ([]store.Row, error) {
	q := g.DB.WithContext(ctx).Clauses(hints.CommentBefore("select", "mat:day-fetch-all"))
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var rows []models.DayRow
	if err := q.Order("user_id, date").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]store.Row, 0, len(rows))
	for _, row := range rows {
		var rec daydata.DayRecord
		if len(row.Data.JSON) > 0 {
			if err := json.Unmarshal(row.Data.JSON, &rec); err != nil {
				// A row we cannot decode must not poison the whole load.
				log.Printf("day_data row %d for user %s undecodable: %v", row.ID, row.UserID, err)
				continue
			}
		}
		out = append(out, store.Row{
			UserID:  row.UserID,
			DateKey: row.Date,
			Record:  rec.Normalized(),
		})
	}
	return out, nil
}

// Upsert replaces the whole stored document for (userID, dateKey),
// creating the row on first write. Conflict target is the unique
// (user_id, date) index, so concurrent writers overwrite rather than error;
// last remote write wins by arrival order.
func (g *GormRemote) Upsert(ctx context.Context, userID, dateKey string, rec daydata.DayRecord) error {
	if userID == "" {
		return fmt.Errorf("missing user id for day upsert")
	}

	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	row := models.DayRow{
		UserID: userID,
		Date:   dateKey,
		Data:   models.JSON{JSON: datatypes.JSON(buf)},
	}
	return g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}
