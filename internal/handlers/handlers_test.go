package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/truexpanse/mat-data-service/internal/daydata"
	"github.com/truexpanse/mat-data-service/internal/handlers"
	"github.com/truexpanse/mat-data-service/internal/models"
	"github.com/truexpanse/mat-data-service/internal/services"
	"github.com/truexpanse/mat-data-service/internal/store"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.DayRow{},
		&models.Transaction{},
		&models.HotLead{},
		&models.Client{},
		&models.Quote{},
		&models.User{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// fixedSuggester returns a fixed list or a fixed error.
type fixedSuggester struct {
	suggestions []string
	err         error
}

func (f *fixedSuggester) Suggestions(context.Context) ([]string, error) {
	return f.suggestions, f.err
}

// newTestApp wires the API routes with a stub auth layer that trusts the
// X-Test-User header instead of an Authorizer session.
func newTestApp(db *gorm.DB, suggest store.Suggester) *fiber.App {
	registry := store.NewRegistry(&services.GormRemote{DB: db}, suggest, nil, 0)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if uid := c.Get("X-Test-User"); uid != "" {
			c.Locals("userID", uid)
		}
		return c.Next()
	})

	dayHandler := &handlers.DayDataHandler{DB: db, Registry: registry}
	revenueHandler := &handlers.RevenueHandler{DB: db, WeekStart: 0}
	eodHandler := &handlers.EODHandler{DB: db, Registry: registry}
	leadsHandler := &handlers.LeadsHandler{DB: db}
	txHandler := &handlers.TransactionsHandler{DB: db}
	clientsHandler := &handlers.ClientsHandler{DB: db}
	quotesHandler := &handlers.QuotesHandler{DB: db}
	usersHandler := &handlers.UsersHandler{DB: db}
	sessionHandler := &handlers.SessionHandler{Registry: registry}

	api := app.Group("/api")
	day := api.Group("/data/day")
	day.Get("/pending", dayHandler.GetPending)
	day.Get("/", dayHandler.GetAllDays)
	day.Get("/:date", dayHandler.GetDay)
	day.Post("/:date", dayHandler.UpsertDay)
	day.Post("/:date/wins", dayHandler.RecordWin)
	day.Post("/:date/goals/completion", dayHandler.SetGoalCompletion)
	day.Post("/:date/challenges/accept", dayHandler.AcceptChallenges)
	api.Get("/leads", leadsHandler.ListLeads)
	api.Post("/leads", leadsHandler.CreateLead)
	api.Put("/leads/:id", leadsHandler.UpdateLead)
	api.Delete("/leads/:id", leadsHandler.DeleteLead)
	api.Get("/transactions", txHandler.ListTransactions)
	api.Post("/transactions", txHandler.CreateTransaction)
	api.Get("/clients", clientsHandler.ListClients)
	api.Post("/clients", clientsHandler.CreateClient)
	api.Get("/quotes", quotesHandler.ListQuotes)
	api.Post("/quotes", quotesHandler.SaveQuote)
	api.Delete("/quotes/:id", quotesHandler.DeleteQuote)
	api.Get("/revenue/rollup", revenueHandler.GetRollup)
	api.Get("/eod/index", eodHandler.GetSubmissionIndex)
	api.Get("/users", usersHandler.ListUsers)
	api.Delete("/session", sessionHandler.EndSession)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url, userID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func TestGetDayDefaultsWhenAbsent(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)
	uid := uuid.NewString()

	code, rec := doJSON(t, app, "GET", "/api/data/day/2024-03-15", uid, nil)
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}

	targets, ok := rec["topTargets"].([]interface{})
	if !ok || len(targets) != daydata.TopTargetSlots {
		t.Errorf("Expected %d default slots, got %v", daydata.TopTargetSlots, rec["topTargets"])
	}
	if rec["eodSubmitted"] != false {
		t.Error("Default record must not be EOD-submitted")
	}
}

func TestUpsertDayMergesAndPersists(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)
	uid := uuid.NewString()

	code, _ := doJSON(t, app, "POST", "/api/data/day/2024-03-15", uid, map[string]interface{}{
		"massiveGoals": []map[string]interface{}{{"id": "g1", "text": "Close 3 deals"}},
	})
	if code != 200 {
		t.Fatalf("First upsert: expected 200, got %d", code)
	}

	code, rec := doJSON(t, app, "POST", "/api/data/day/2024-03-15", uid, map[string]interface{}{
		"eodSubmitted": true,
	})
	if code != 200 {
		t.Fatalf("Second upsert: expected 200, got %d", code)
	}

	// Field-level merge: the first patch survives the second
	goals, _ := rec["massiveGoals"].([]interface{})
	if len(goals) != 1 {
		t.Errorf("First patch lost: %v", rec["massiveGoals"])
	}
	if rec["eodSubmitted"] != true {
		t.Error("Second patch not applied")
	}

	// The row is durably stored
	var count int64
	db.Model(&models.DayRow{}).Where("user_id = ? AND date = ?", uid, "2024-03-15").Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 stored row, got %d", count)
	}
}

func TestUpsertDayRejectsBadDate(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)

	code, body := doJSON(t, app, "POST", "/api/data/day/03-15-2024", uuid.NewString(), map[string]interface{}{})
	if code != 400 {
		t.Fatalf("Expected status 400, got %d", code)
	}
	if body["type"] != "data.validation.input" {
		t.Errorf("Wrong error type: %v", body["type"])
	}
}

func TestDayRoutesRequireIdentity(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)

	code, _ := doJSON(t, app, "GET", "/api/data/day/2024-03-15", "", nil)
	if code != 403 {
		t.Errorf("Expected status 403 without identity, got %d", code)
	}
}

func TestSetGoalCompletionRecordsWin(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)
	uid := uuid.NewString()

	doJSON(t, app, "POST", "/api/data/day/2024-03-15", uid, map[string]interface{}{
		"massiveGoals": []map[string]interface{}{{"id": "g1", "text": "Book 5 appointments"}},
	})

	code, rec := doJSON(t, app, "POST", "/api/data/day/2024-03-15/goals/completion", uid, map[string]interface{}{
		"list":      "massiveGoals",
		"goalId":    "g1",
		"completed": true,
	})
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}

	wins, _ := rec["winsToday"].([]interface{})
	if len(wins) != 1 || wins[0] != "Target Completed: Book 5 appointments" {
		t.Errorf("Completion win not recorded: %v", rec["winsToday"])
	}
}

func TestSetGoalCompletionRejectsUnknownList(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)

	code, _ := doJSON(t, app, "POST", "/api/data/day/2024-03-15/goals/completion", uuid.NewString(), map[string]interface{}{
		"list":      "notAList",
		"goalId":    "g1",
		"completed": true,
	})
	if code != 400 {
		t.Errorf("Expected status 400, got %d", code)
	}
}

func TestAcceptChallengesFillsEmptySlots(t *testing.T) {
	suggest := &fixedSuggester{suggestions: []string{"Cold call 10 prospects", "Ask for 2 referrals"}}
	app := newTestApp(setupTestDB(t), suggest)
	uid := uuid.NewString()

	code, rec := doJSON(t, app, "POST", "/api/data/day/2024-03-15/challenges/accept", uid, nil)
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}

	targets, _ := rec["topTargets"].([]interface{})
	if len(targets) != daydata.TopTargetSlots {
		t.Fatalf("Expected %d slots, got %d", daydata.TopTargetSlots, len(targets))
	}
	first, _ := targets[0].(map[string]interface{})
	if first["text"] != "Cold call 10 prospects" {
		t.Errorf("First slot not filled: %v", first)
	}

	ai, _ := rec["aiChallenge"].(map[string]interface{})
	if ai["challengesAccepted"] != true {
		t.Error("Challenges not marked accepted")
	}
}

func TestAcceptChallengesSuggestionFailure(t *testing.T) {
	suggest := &fixedSuggester{err: errors.New("gateway down")}
	app := newTestApp(setupTestDB(t), suggest)

	code, body := doJSON(t, app, "POST", "/api/data/day/2024-03-15/challenges/accept", uuid.NewString(), nil)
	if code != 502 {
		t.Fatalf("Expected status 502, got %d", code)
	}
	if body["type"] != "ai.suggestion" {
		t.Errorf("Wrong error type: %v", body["type"])
	}
}

func TestGetPending(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)

	code, body := doJSON(t, app, "GET", "/api/data/day/pending", uuid.NewString(), nil)
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if pending, ok := body["pending"].([]interface{}); !ok || len(pending) != 0 {
		t.Errorf("Expected no pending keys, got %v", body["pending"])
	}
}

func TestGetAllDaysManagerSeesTeam(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)

	rep := seedUser(t, db, "Rep One", models.RoleSales)
	mgr := seedUser(t, db, "The Manager", models.RoleManager)

	doJSON(t, app, "POST", "/api/data/day/2024-03-15", rep, map[string]interface{}{"eodSubmitted": true})

	code, _ := doJSON(t, app, "GET", "/api/data/day/", mgr, nil)
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}

	req := httptest.NewRequest("GET", "/api/data/day/", nil)
	req.Header.Set("X-Test-User", mgr)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	var rows []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(rows) != 1 || rows[0]["userId"] != rep {
		t.Errorf("Manager superset wrong: %v", rows)
	}
}

func TestRevenueRollupHandler(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)
	uid := uuid.NewString()

	seedTransaction(t, db, uid, "2024-03-01", 100, true)
	seedTransaction(t, db, uid, "2024-03-15", 50, false)
	seedTransaction(t, db, uid, "2023-12-31", 9999, false)

	code, body := doJSON(t, app, "GET", "/api/revenue/rollup?asOf=2024-03-15", uid, nil)
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}

	want := map[string]float64{"today": 50, "month": 150, "ytd": 150, "mcv": 100, "acv": 1200}
	for k, v := range want {
		if got, _ := body[k].(float64); got != v {
			t.Errorf("Rollup %s: expected %v, got %v", k, v, body[k])
		}
	}
}

func TestRevenueRollupTeamScopeRequiresManager(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)
	rep := seedUser(t, db, "Rep One", models.RoleSales)

	code, _ := doJSON(t, app, "GET", "/api/revenue/rollup?scope=team", rep, nil)
	if code != 403 {
		t.Errorf("Expected status 403, got %d", code)
	}
}

func TestRevenueRollupRejectsBadAsOf(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)

	code, _ := doJSON(t, app, "GET", "/api/revenue/rollup?asOf=bogus", uuid.NewString(), nil)
	if code != 400 {
		t.Errorf("Expected status 400, got %d", code)
	}
}

func TestEODSubmissionIndexHandler(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)

	rep1 := seedUser(t, db, "Rep One", models.RoleSales)
	rep2 := seedUser(t, db, "Rep Two", models.RoleSales)
	mgr := seedUser(t, db, "The Manager", models.RoleManager)

	doJSON(t, app, "POST", "/api/data/day/2024-01-01", rep1, map[string]interface{}{"eodSubmitted": true})
	doJSON(t, app, "POST", "/api/data/day/2024-01-02", rep1, map[string]interface{}{"eodSubmitted": false})
	doJSON(t, app, "POST", "/api/data/day/2024-01-01", rep2, map[string]interface{}{"eodSubmitted": true})

	code, index := doJSON(t, app, "GET", "/api/eod/index", mgr, nil)
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}

	days1, _ := index[rep1].(map[string]interface{})
	if len(days1) != 1 || days1["2024-01-01"] != true {
		t.Errorf("Wrong index for %s: %v", rep1, index[rep1])
	}
	days2, _ := index[rep2].(map[string]interface{})
	if len(days2) != 1 || days2["2024-01-01"] != true {
		t.Errorf("Wrong index for %s: %v", rep2, index[rep2])
	}
}

func TestLeadLifecycle(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)
	uid := uuid.NewString()

	code, created := doJSON(t, app, "POST", "/api/leads", uid, map[string]interface{}{
		"name":          "Jordan Blake",
		"company":       "ACME",
		"interestLevel": "hot",
		"dateAdded":     "2024-03-15",
	})
	if code != 200 {
		t.Fatalf("Create: expected 200, got %d", code)
	}
	leadID, _ := created["id"].(string)
	if leadID == "" {
		t.Fatal("Created lead has no id")
	}

	code, _ = doJSON(t, app, "PUT", "/api/leads/"+leadID, uid, map[string]interface{}{
		"name":               "Jordan Blake",
		"completedFollowUps": 2,
	})
	if code != 200 {
		t.Fatalf("Update: expected 200, got %d", code)
	}

	var lead models.HotLead
	if err := db.First(&lead, "id = ?", leadID).Error; err != nil {
		t.Fatalf("Lead not stored: %v", err)
	}
	if lead.CompletedFollowUps != 2 {
		t.Errorf("Update not applied: %+v", lead)
	}

	// Another user cannot touch it
	code, _ = doJSON(t, app, "PUT", "/api/leads/"+leadID, uuid.NewString(), map[string]interface{}{"name": "X"})
	if code != 404 {
		t.Errorf("Cross-user update: expected 404, got %d", code)
	}

	code, _ = doJSON(t, app, "DELETE", "/api/leads/"+leadID, uid, nil)
	if code != 200 {
		t.Fatalf("Delete: expected 200, got %d", code)
	}

	code, _ = doJSON(t, app, "DELETE", "/api/leads/"+leadID, uid, nil)
	if code != 404 {
		t.Errorf("Delete of missing lead: expected 404, got %d", code)
	}
}

func TestCreateTransactionAcceptsStringAmount(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)
	uid := uuid.NewString()

	code, created := doJSON(t, app, "POST", "/api/transactions", uid, map[string]interface{}{
		"date":        "2024-03-15",
		"amountCents": "2500",
		"isRecurring": true,
		"clientName":  "ACME",
	})
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if got, _ := created["amountCents"].(float64); got != 2500 {
		t.Errorf("String amount not accepted: %v", created["amountCents"])
	}
}

func TestCreateTransactionRejectsBadDate(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)

	code, _ := doJSON(t, app, "POST", "/api/transactions", uuid.NewString(), map[string]interface{}{
		"date":        "15/03/2024",
		"amountCents": 100,
	})
	if code != 400 {
		t.Errorf("Expected status 400, got %d", code)
	}
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)
	seedUser(t, db, "Rep One", models.RoleSales)
	mgr := seedUser(t, db, "The Manager", models.RoleManager)

	req := httptest.NewRequest("GET", "/api/users", nil)
	req.Header.Set("X-Test-User", mgr)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	var users []models.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users, got %d", len(users))
	}
}

func TestEndSessionEvicts(t *testing.T) {
	app := newTestApp(setupTestDB(t), nil)
	uid := uuid.NewString()

	doJSON(t, app, "POST", "/api/data/day/2024-03-15", uid, map[string]interface{}{"eodSubmitted": true})

	code, _ := doJSON(t, app, "DELETE", "/api/session", uid, nil)
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}

	// The next request reloads from the database; the submitted record is back
	code, rec := doJSON(t, app, "GET", "/api/data/day/2024-03-15", uid, nil)
	if code != 200 {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if rec["eodSubmitted"] != true {
		t.Error("Reloaded session lost the stored record")
	}
}

func TestCreateClientAndManagerListScope(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)
	rep := seedUser(t, db, "Rep One", models.RoleSales)
	other := seedUser(t, db, "Rep Two", models.RoleSales)
	mgr := seedUser(t, db, "The Manager", models.RoleManager)

	code, created := doJSON(t, app, "POST", "/api/clients", rep, map[string]interface{}{
		"name":                   "ACME Holdings",
		"monthlyContractCents":   "250000",
		"initialCollectedCents":  100000,
		"closeDate":              "2024-03-15",
		"salesProcessLengthDays": 21,
	})
	if code != 200 {
		t.Fatalf("Create: expected 200, got %d", code)
	}
	if got, _ := created["monthlyContractCents"].(float64); got != 250000 {
		t.Errorf("String amount not accepted: %v", created["monthlyContractCents"])
	}
	if created["userId"] != rep {
		t.Errorf("Client not owned by creator: %v", created["userId"])
	}

	code, _ = doJSON(t, app, "POST", "/api/clients", rep, map[string]interface{}{
		"name":      "Bad Date Inc",
		"closeDate": "03/15/2024",
	})
	if code != 400 {
		t.Errorf("Bad close date: expected 400, got %d", code)
	}

	listClients := func(asUser string) []models.Client {
		t.Helper()
		req := httptest.NewRequest("GET", "/api/clients", nil)
		req.Header.Set("X-Test-User", asUser)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		defer resp.Body.Close()
		var clients []models.Client
		if err := json.NewDecoder(resp.Body).Decode(&clients); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		return clients
	}

	if got := listClients(rep); len(got) != 1 {
		t.Errorf("Owner list: expected 1 client, got %d", len(got))
	}
	if got := listClients(other); len(got) != 0 {
		t.Errorf("Another rep sees %d clients, expected none", len(got))
	}
	if got := listClients(mgr); len(got) != 1 {
		t.Errorf("Manager list: expected the team's 1 client, got %d", len(got))
	}
}

func TestQuoteSaveListDelete(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(db, nil)
	uid := uuid.NewString()

	code, saved := doJSON(t, app, "POST", "/api/quotes", uid, map[string]interface{}{
		"content": map[string]interface{}{"text": "Price is what you pay.", "author": "Buffett"},
	})
	if code != 200 {
		t.Fatalf("Save: expected 200, got %d", code)
	}
	id, _ := saved["id"].(float64)
	if id == 0 {
		t.Fatal("Saved quote has no id")
	}
	if ts, _ := saved["savedAt"].(string); ts == "" {
		t.Error("Saved quote has no save time")
	}

	code, _ = doJSON(t, app, "POST", "/api/quotes", uid, map[string]interface{}{})
	if code != 400 {
		t.Errorf("Empty document: expected 400, got %d", code)
	}

	req := httptest.NewRequest("GET", "/api/quotes", nil)
	req.Header.Set("X-Test-User", uid)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()
	var quotes []models.Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(quotes) != 1 || !bytes.Contains(quotes[0].Content.JSON, []byte("Buffett")) {
		t.Errorf("Stored document not returned intact: %+v", quotes)
	}

	url := fmt.Sprintf("/api/quotes/%d", uint64(id))
	code, _ = doJSON(t, app, "DELETE", url, uuid.NewString(), nil)
	if code != 404 {
		t.Errorf("Cross-user delete: expected 404, got %d", code)
	}
	code, _ = doJSON(t, app, "DELETE", url, uid, nil)
	if code != 200 {
		t.Fatalf("Delete: expected 200, got %d", code)
	}
	code, _ = doJSON(t, app, "DELETE", url, uid, nil)
	if code != 404 {
		t.Errorf("Delete of missing quote: expected 404, got %d", code)
	}
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) string {
	t.Helper()
	user := models.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  fmt.Sprintf("%s@truexpanse.test", uuid.NewString()),
		Role:   role,
		Status: models.StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.ID
}

func seedTransaction(t *testing.T, db *gorm.DB, userID, date string, amountCents int64, recurring bool) {
	t.Helper()
	tx := models.Transaction{UserID: userID, Date: date, AmountCents: amountCents, IsRecurring: recurring}
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}
}
