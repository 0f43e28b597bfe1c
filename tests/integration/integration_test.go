// integration_test.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

package integration_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/truexpanse/mat-data-service/internal/config"
	"github.com/truexpanse/mat-data-service/internal/database"
	"github.com/truexpanse/mat-data-service/internal/daydata"
	"github.com/truexpanse/mat-data-service/internal/models"
	"github.com/truexpanse/mat-data-service/internal/services"
	"github.com/truexpanse/mat-data-service/internal/store"
	"github.com/truexpanse/mat-data-service/internal/types"
	"gorm.io/gorm"
)

// TestWithMariaDB tests the service with a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	dbImage := os.Getenv("DB_IMAGE")
	if dbImage == "" {
		dbImage = "mariadb:11"
	}

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	// Get container host and port
	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("DayRecordRoundTrip", func(t *testing.T) {
		testDayRecordRoundTrip(t, db)
	})

	t.Run("UpsertOverwritesOnConflict", func(t *testing.T) {
		testUpsertOverwritesOnConflict(t, db)
	})

	t.Run("ManagerFetchAll", func(t *testing.T) {
		testManagerFetchAll(t, db)
	})

	t.Run("SessionStoreAgainstRealDB", func(t *testing.T) {
		testSessionStoreAgainstRealDB(t, db)
	})
}

func testDayRecordRoundTrip(t *testing.T, db *gorm.DB) {
	remote := &services.GormRemote{DB: db}
	ctx := context.Background()
	userID := uuid.NewString()

	rec := daydata.New()
	rec.WinsToday = types.FlexList[string]{"signed ACME"}
	rec.EODSubmitted = true

	if err := remote.Upsert(ctx, userID, "2024-03-15", rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	rows, err := remote.FetchAll(ctx, userID)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got.UserID != userID || got.DateKey != "2024-03-15" {
		t.Errorf("Wrong key: %s/%s", got.UserID, got.DateKey)
	}
	if len(got.Record.WinsToday) != 1 || got.Record.WinsToday[0] != "signed ACME" {
		t.Errorf("Wins lost in round trip: %+v", got.Record.WinsToday)
	}
	if !got.Record.EODSubmitted {
		t.Error("EOD flag lost in round trip")
	}
	if len(got.Record.TopTargets) != daydata.TopTargetSlots {
		t.Errorf("Record not normalized on read: %d slots", len(got.Record.TopTargets))
	}
}

func testUpsertOverwritesOnConflict(t *testing.T, db *gorm.DB) {
	remote := &services.GormRemote{DB: db}
	ctx := context.Background()
	userID := uuid.NewString()

	first := daydata.New()
	first.WinsToday = types.FlexList[string]{"first"}
	if err := remote.Upsert(ctx, userID, "2024-03-15", first); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	second := daydata.New()
	second.WinsToday = types.FlexList[string]{"second"}
	if err := remote.Upsert(ctx, userID, "2024-03-15", second); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	var count int64
	db.Model(&models.DayRow{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Errorf("Conflict created a duplicate row: %d rows", count)
	}

	var row models.DayRow
	if err := db.Where("user_id = ?", userID).First(&row).Error; err != nil {
		t.Fatalf("Row not found: %v", err)
	}
	var stored daydata.DayRecord
	if err := json.Unmarshal(row.Data.JSON, &stored); err != nil {
		t.Fatalf("Stored document undecodable: %v", err)
	}
	if len(stored.WinsToday) != 1 || stored.WinsToday[0] != "second" {
		t.Errorf("Last write did not win: %+v", stored.WinsToday)
	}
}

func testManagerFetchAll(t *testing.T, db *gorm.DB) {
	remote := &services.GormRemote{DB: db}
	ctx := context.Background()
	user1 := uuid.NewString()
	user2 := uuid.NewString()

	if err := remote.Upsert(ctx, user1, "2024-04-01", daydata.New()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := remote.Upsert(ctx, user2, "2024-04-01", daydata.New()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	all, err := remote.FetchAll(ctx, "")
	if err != nil {
		t.Fatalf("Unscoped FetchAll failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, row := range all {
		seen[row.UserID] = true
	}
	if !seen[user1] || !seen[user2] {
		t.Error("Unscoped fetch missing a user's rows")
	}

	scoped, err := remote.FetchAll(ctx, user1)
	if err != nil {
		t.Fatalf("Scoped FetchAll failed: %v", err)
	}
	for _, row := range scoped {
		if row.UserID != user1 {
			t.Errorf("Scoped fetch leaked another user's row: %s", row.UserID)
		}
	}
}

func testSessionStoreAgainstRealDB(t *testing.T, db *gorm.DB) {
	remote := &services.GormRemote{DB: db}
	ctx := context.Background()
	userID := uuid.NewString()

	s := store.New(userID, remote)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	goals := []daydata.Goal{{ID: "g1", Text: "Close 3 deals"}}
	if err := s.UpsertRecord(ctx, "2024-03-15", daydata.Patch{MassiveGoals: &goals}); err != nil {
		t.Fatalf("UpsertRecord failed: %v", err)
	}
	if keys := s.PendingKeys(); len(keys) != 0 {
		t.Errorf("Write not confirmed: %v", keys)
	}

	// A fresh session sees the stored record
	fresh := store.New(userID, remote)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	rec := fresh.GetRecord("2024-03-15")
	if len(rec.MassiveGoals) != 1 || rec.MassiveGoals[0].Text != "Close 3 deals" {
		t.Errorf("Stored record not visible to a fresh session: %+v", rec.MassiveGoals)
	}
}
