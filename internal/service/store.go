// Package service holds the Store: the single owner of users, projects and
// applications. Every mutation is validated against the current session,
// applied to a copy of the document, written through the BlobStore and only
// then made visible in memory.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atinyakov/ImpactMatch/internal/models"
	"github.com/atinyakov/ImpactMatch/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Storage keys of the persisted document and the session pointer.
const (
	DataKey    = "impactMatchData"
	SessionKey = "currentUser"
)

// Recorder counts store operations by outcome.
type Recorder interface {
	RecordOperation(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string) {}

// Store is the data store. The zero value is not usable; construct with NewStore.
type Store struct {
	mu sync.Mutex

	blobs     storage.BlobStore
	log       *zap.Logger
	notifiers []Notifier
	notify    Notifier
	metrics   Recorder
	now       func() time.Time
	newID     func() string
	hashCost  int

	data models.AppData
	// current is the id of the session user, "" when logged out.
	current string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithNotifier adds a notifier next to the built-in log notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifiers = append(s.notifiers, n) }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.metrics = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the uuid generator used for new records.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithPasswordCost sets the bcrypt cost for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

// NewStore returns a Store persisting through blobs. Call Initialize before use.
func NewStore(blobs storage.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:    blobs,
		log:      zap.NewNop(),
		metrics:  nopRecorder{},
		now:      time.Now,
		newID:    uuid.NewString,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.notify = append(fanout{NewLogNotifier(s.log)}, s.notifiers...)
	return s
}

// Initialize loads the persisted document, seeding demo data on first run,
// and restores the remembered session if its user still exists.
// Any storage fault is returned and should be treated as fatal.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadData(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		data, err = s.seedData()
		if err != nil {
			return err
		}
		if err := s.saveData(ctx, data); err != nil {
			return fmt.Errorf("persist seed data: %w", err)
		}
		s.log.Info("seeded demo data",
			zap.Int("users", len(data.Users)),
			zap.Int("projects", len(data.Projects)),
		)
	case err != nil:
		return fmt.Errorf("load data: %w", err)
	}
	s.data = data

	id, err := s.loadSessionID(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if id != "" && s.userIndex(id) >= 0 {
		s.current = id
		s.log.Info("session restored", zap.String("user_id", id))
	}
	return nil
}

// Refresh reloads the document from storage, replacing the in-memory copy.
// A missing document leaves the state untouched. The session is dropped if
// its user is no longer present.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadData(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.observe("refresh", err)
		return fmt.Errorf("refresh: %w", err)
	}
	s.data = data
	if s.current != "" && s.userIndex(s.current) < 0 {
		s.log.Warn("session user vanished on refresh", zap.String("user_id", s.current))
		s.current = ""
	}
	s.observe("refresh", nil)
	return nil
}

func (s *Store) loadData(ctx context.Context) (models.AppData, error) {
	raw, err := s.blobs.Get(ctx, DataKey)
	if err != nil {
		return models.AppData{}, err
	}
	var data models.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.AppData{}, fmt.Errorf("decode %s: %w", DataKey, err)
	}
	normalize(&data)
	return data, nil
}

func (s *Store) saveData(ctx context.Context, data models.AppData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", DataKey, err)
	}
	if err := s.blobs.Set(ctx, DataKey, raw); err != nil {
		return fmt.Errorf("save %s: %w", DataKey, err)
	}
	return nil
}

// loadSessionID returns the id held by the session pointer, or "" when absent or unreadable.
func (s *Store) loadSessionID(ctx context.Context) (string, error) {
	raw, err := s.blobs.Get(ctx, SessionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.Warn("ignoring unreadable session", zap.Error(err))
		return "", nil
	}
	return u.ID, nil
}

func (s *Store) saveSession(ctx context.Context, u models.User) error {
	raw, err := json.Marshal(redact(u))
	if err != nil {
		return fmt.Errorf("encode %s: %w", SessionKey, err)
	}
	if err := s.blobs.Set(ctx, SessionKey, raw); err != nil {
		return fmt.Errorf("save %s: %w", SessionKey, err)
	}
	return nil
}

func (s *Store) clearSession(ctx context.Context) error {
	if err := s.blobs.Delete(ctx, SessionKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", SessionKey, err)
	}
	return nil
}

// normalize replaces missing collections with empty ones so the document
// always serializes the same way.
func normalize(d *models.AppData) {
	if d.Users == nil {
		d.Users = []models.User{}
	}
	if d.Projects == nil {
		d.Projects = []models.Project{}
	}
	if d.Applications == nil {
		d.Applications = []models.Application{}
	}
	for i := range d.Users {
		if d.Users[i].AppliedProjectIDs == nil {
			d.Users[i].AppliedProjectIDs = []string{}
		}
	}
	for i := range d.Projects {
		if d.Projects[i].RequiredSkills == nil {
			d.Projects[i].RequiredSkills = []string{}
		}
		if d.Projects[i].ApplicantIDs == nil {
			d.Projects[i].ApplicantIDs = []string{}
		}
	}
}

func (s *Store) seedData() (models.AppData, error) {
	hash, err := hashPassword("demo123", s.hashCost)
	if err != nil {
		return models.AppData{}, err
	}
	created := s.now().UTC()
	return models.AppData{
		Users: []models.User{
			{
				ID:                "demo-volunteer",
				Username:          "volunteer_demo",
				Password:          hash,
				Role:              models.RoleVolunteer,
				DisplayName:       "Sarah Chen",
				Skills:            []string{"Web Development", "UI/UX Design"},
				AppliedProjectIDs: []string{},
			},
			{
				ID:                "demo-ngo",
				Username:          "greenearth_ngo",
				Password:          hash,
				Role:              models.RoleNGO,
				DisplayName:       "Green Earth Foundation",
				AppliedProjectIDs: []string{},
			},
		},
		Projects: []models.Project{
			{
				ID:             "project-1",
				OwnerID:        "demo-ngo",
				OwnerName:      "Green Earth Foundation",
				Title:          "Website Redesign for Environmental Campaign",
				Description:    "We need a skilled web developer to redesign our website to better showcase our environmental initiatives and make it more engaging for donors and volunteers.",
				RequiredSkills: []string{"Web Development", "UI/UX Design", "Graphic Design"},
				ApplicantIDs:   []string{},
				CreatedAt:      created,
				Location:       "Remote",
				Duration:       "2-3 months",
			},
			{
				ID:             "project-2",
				OwnerID:        "demo-ngo",
				OwnerName:      "Green Earth Foundation",
				Title:          "Social Media Content Creation",
				Description:    "Help us create compelling social media content to raise awareness about climate change and promote our upcoming tree planting events.",
				RequiredSkills: []string{"Digital Marketing", "Content Writing", "Graphic Design"},
				ApplicantIDs:   []string{},
				CreatedAt:      created,
				Location:       "Remote",
				Duration:       "1-2 months",
			},
		},
		Applications: []models.Application{},
	}, nil
}

// sessionUser returns the index of the session user or ErrNotAuthenticated.
func (s *Store) sessionUser() (int, error) {
	if s.current == "" {
		return -1, ErrNotAuthenticated
	}
	i := s.userIndex(s.current)
	if i < 0 {
		return -1, ErrNotAuthenticated
	}
	return i, nil
}

func (s *Store) userIndex(id string) int {
	for i, u := range s.data.Users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) projectIndex(data models.AppData, id string) int {
	for i, p := range data.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// observe records the outcome of op: "ok", "rejected" for domain errors, "error" otherwise.
func (s *Store) observe(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsDomainError(err):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	s.metrics.RecordOperation(op, outcome)
}

// redact returns u without its credential.
func redact(u models.User) models.User {
	u = u.Clone()
	u.Password = ""
	return u
}
