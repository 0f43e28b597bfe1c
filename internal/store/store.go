// store.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

// Package store implements the day-record store: a local cache of calendar
// day-keyed activity records mediating optimistic mutation against a remote
// persistence layer, plus the derived aggregates (revenue rollups, EOD
// submission index) computed over the historical collections.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/truexpanse/mat-data-service/internal/daydata"
	"github.com/truexpanse/mat-data-service/internal/types"
)

// Row is one persisted day record with its owner key.
type Row struct {
	UserID  string
	DateKey string
	Record  daydata.DayRecord
}

// RemoteStore is the durable persistence collaborator. FetchAll with an
// empty userID returns every user's rows (manager scope). Upsert is a
// whole-record replace keyed (userID, dateKey); a second call for the same
// key overwrites rather than erroring.
type RemoteStore interface {
	FetchAll(ctx context.Context, userID string) ([]Row, error)
	Upsert(ctx context.Context, userID, dateKey string, rec daydata.DayRecord) error
}

// Suggester is the AI suggestion collaborator. It returns a finite ordered
// list of challenge texts; prompt construction is its concern, not ours.
type Suggester interface {
	Suggestions(ctx context.Context) ([]string, error)
}

// WinFunc receives fire-and-forget win notifications. It must not be relied
// on for persistence; its absence is never an error.
type WinFunc func(dateKey, message string)

// ListKind names one of the two fixed-purpose goal lists.
type ListKind string

const (
	ListTopTargets   ListKind = "topTargets"
	ListMassiveGoals ListKind = "massiveGoals"
)

// DayRecordStore owns the dateKey -> DayRecord mapping for one
// authenticated user (or a read-only multi-user superset for managers).
// Local mutations are applied before the remote write confirms; a failed
// remote write retains the optimistic value and marks the key pending.
type DayRecordStore struct {
	mu      sync.Mutex
	userID  string
	scope   string // FetchAll filter; empty loads all users (manager)
	remote  RemoteStore
	suggest Suggester
	onWin   WinFunc
	timeout time.Duration
	records map[string]daydata.DayRecord // key: userID + "\x00" + dateKey
	pending map[string]struct{}          // dateKeys with unconfirmed writes
	gen     map[string]uint64            // per-dateKey write generation
}

// Option configures a DayRecordStore.
type Option func(*DayRecordStore)

// WithSuggester wires the AI suggestion collaborator.
func WithSuggester(s Suggester) Option {
	return func(d *DayRecordStore) { d.suggest = s }
}

// WithWinFunc wires the win notification sink.
func WithWinFunc(f WinFunc) Option {
	return func(d *DayRecordStore) { d.onWin = f }
}

// WithRemoteTimeout bounds each remote write. Zero means no bound beyond
// the caller's context.
func WithRemoteTimeout(t time.Duration) Option {
	return func(d *DayRecordStore) { d.timeout = t }
}

// New returns a store scoped to one user's records.
func New(userID string, remote RemoteStore, opts ...Option) *DayRecordStore {
	s := &DayRecordStore{
		userID:  userID,
		scope:   userID,
		remote:  remote,
		records: make(map[string]daydata.DayRecord),
		pending: make(map[string]struct{}),
		gen:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewManager returns a store holding the all-users superset for read-only
// team views. Writes still go to the manager's own records only.
func NewManager(managerID string, remote RemoteStore, opts ...Option) *DayRecordStore {
	s := New(managerID, remote, opts...)
	s.scope = ""
	return s
}

func key(userID, dateKey string) string {
	return userID + "\x00" + dateKey
}

// Load bulk-fetches the scoped rows from the remote store into the local
// cache. Pending optimistic values survive a reload; the remote row may be
// stale for those keys.
func (s *DayRecordStore) Load(ctx context.Context) error {
	rows, err := s.remote.FetchAll(ctx, s.scope)
	if err != nil {
		return &PersistenceError{Op: "fetch", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		k := key(row.UserID, row.DateKey)
		if row.UserID == s.userID {
			if _, dirty := s.pending[row.DateKey]; dirty {
				continue
			}
		}
		s.records[k] = row.Record.Clone()
	}
	return nil
}

// GetRecord returns the bound user's record for dateKey, or the canonical
// default empty record if absent. Never fails; never mutates store state.
func (s *DayRecordStore) GetRecord(dateKey string) daydata.DayRecord {
	return s.RecordFor(s.userID, dateKey)
}

// RecordFor returns any cached user's record for dateKey, defaulting like
// GetRecord. Used by manager superset views.
func (s *DayRecordStore) RecordFor(userID, dateKey string) daydata.DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[key(userID, dateKey)]; ok {
		return rec.Clone()
	}
	return daydata.New()
}

// Rows returns a snapshot of every cached row, ordered by user then date.
func (s *DayRecordStore) Rows() []Row {
	s.mu.Lock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Row, 0, len(keys))
	for _, k := range keys {
		rec := s.records[k]
		sep := 0
		for i := 0; i < len(k); i++ {
			if k[i] == 0 {
				sep = i
				break
			}
		}
		out = append(out, Row{UserID: k[:sep], DateKey: k[sep+1:], Record: rec.Clone()})
	}
	s.mu.Unlock()
	return out
}

// PendingKeys returns the dateKeys whose optimistic local value has not
// been confirmed by the remote store, sorted.
func (s *DayRecordStore) PendingKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.pending))
	for k := range s.pending {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// UpsertRecord merges patch over the bound user's record for dateKey,
// applies the result to local state immediately, then issues a whole-record
// replace to the remote store. On remote failure the optimistic local value
// is NOT rolled back: the caller gets a *PersistenceError and the key stays
// pending. Responsiveness is chosen over strict consistency here on
// purpose; reconciliation is the caller's decision, never silent.
func (s *DayRecordStore) UpsertRecord(ctx context.Context, dateKey string, patch daydata.Patch) error {
	if err := daydata.ValidateDateKey(dateKey); err != nil {
		return err
	}

	k := key(s.userID, dateKey)
	s.mu.Lock()
	base, ok := s.records[k]
	if !ok {
		base = daydata.New()
	}
	merged := patch.Apply(base)
	s.records[k] = merged
	s.pending[dateKey] = struct{}{}
	s.gen[dateKey]++
	myGen := s.gen[dateKey]
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.remote.Upsert(ctx, s.userID, dateKey, merged); err != nil {
		// A later write to this key merges over our optimistic value, so
		// its outcome supersedes ours; only the newest write settles the
		// pending marker either way.
		s.mu.Lock()
		if s.gen[dateKey] == myGen {
			s.pending[dateKey] = struct{}{}
		}
		s.mu.Unlock()
		return &PersistenceError{Op: "upsert", Key: dateKey, Err: err}
	}

	s.mu.Lock()
	if s.gen[dateKey] == myGen {
		delete(s.pending, dateKey)
	}
	s.mu.Unlock()
	return nil
}

// RecordWin appends message to the day's wins and signals the win sink.
// The notification is fire-and-forget; it cannot block or fail the upsert.
func (s *DayRecordStore) RecordWin(ctx context.Context, dateKey, message string) error {
	rec := s.GetRecord(dateKey)
	wins := append(rec.WinsToday, message)
	err := s.UpsertRecord(ctx, dateKey, daydata.Patch{WinsToday: &wins})
	if s.onWin != nil {
		go s.onWin(dateKey, message)
	}
	return err
}

// SetGoalCompletion locates a goal by id within the named list and replaces
// its completed flag. For top targets only, a normalized-text match is
// accepted as a legacy fallback: AI-suggested text inserted into an empty
// slot predates stable ids in old rows. A goal that matches nothing is a
// benign no-op, not an error. A false -> true transition on a goal with
// non-empty text records the win "Target Completed: {text}".
func (s *DayRecordStore) SetGoalCompletion(ctx context.Context, dateKey string, kind ListKind, goalID string, completed bool) error {
	rec := s.GetRecord(dateKey)

	var list []daydata.Goal
	switch kind {
	case ListTopTargets:
		list = rec.TopTargets
	case ListMassiveGoals:
		list = rec.MassiveGoals
	default:
		return nil
	}

	idx := -1
	for i := range list {
		if list[i].ID == goalID {
			idx = i
			break
		}
	}
	if idx < 0 && kind == ListTopTargets {
		want := daydata.NormalizeGoalText(goalID)
		if want != "" {
			for i := range list {
				if daydata.NormalizeGoalText(list[i].Text) == want {
					idx = i
					break
				}
			}
		}
	}
	if idx < 0 {
		return nil
	}

	wasCompleted := list[idx].Completed
	list[idx].Completed = completed

	var patch daydata.Patch
	if kind == ListTopTargets {
		patch.TopTargets = &list
	} else {
		patch.MassiveGoals = &list
	}
	if err := s.UpsertRecord(ctx, dateKey, patch); err != nil {
		return err
	}

	if !wasCompleted && completed && list[idx].Text != "" {
		return s.RecordWin(ctx, dateKey, "Target Completed: "+list[idx].Text)
	}
	return nil
}

// FillEmptyTopTargets fetches suggestions and assigns them, in slot order,
// to the empty top-target slots, stopping when slots or suggestions run
// out. Filled goals get fresh ids before they are ever displayed, and the
// AI challenge sub-record is marked accepted. All-or-nothing relative to
// this call: a failed or empty fetch leaves every slot exactly as it was
// and returns a *SuggestionError.
func (s *DayRecordStore) FillEmptyTopTargets(ctx context.Context, dateKey string) error {
	if s.suggest == nil {
		return &SuggestionError{Err: ErrNoSuggestions}
	}
	suggestions, err := s.suggest.Suggestions(ctx)
	if err != nil {
		return &SuggestionError{Err: err}
	}
	if len(suggestions) == 0 {
		return &SuggestionError{Err: ErrNoSuggestions}
	}

	rec := s.GetRecord(dateKey)
	targets := rec.TopTargets
	for len(targets) < daydata.TopTargetSlots {
		targets = append(targets, daydata.Goal{ID: uuid.NewString()})
	}

	next := 0
	for i := range targets {
		if next >= len(suggestions) {
			break
		}
		if daydata.NormalizeGoalText(targets[i].Text) != "" {
			continue
		}
		targets[i] = daydata.Goal{ID: uuid.NewString(), Text: suggestions[next]}
		next++
	}

	ai := rec.AIChallenge
	ai.ChallengesAccepted = true
	ai.Challenges = types.FlexList[string](suggestions)

	return s.UpsertRecord(ctx, dateKey, daydata.Patch{
		TopTargets:  &targets,
		AIChallenge: &ai,
	})
}
