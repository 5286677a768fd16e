package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/clinicbook/internal/client/models"
	"github.com/dmitrijs2005/clinicbook/internal/client/repositories/kv"
	"github.com/dmitrijs2005/clinicbook/internal/common"
	"github.com/dmitrijs2005/clinicbook/internal/logging"
)

const defaultWriteTimeout = 5 * time.Second

// ErrClosed is reported by writes of mutations made after Close.
var ErrClosed = errors.New("appointment store closed")

type Option func(*Store)

// WithClock replaces time.Now as the source of new appointment ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithWriteTimeout bounds each slot write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

type Store struct {
	repo         kv.Repository
	logger       logging.Logger
	now          func() time.Time
	writeTimeout time.Duration

	mu     sync.Mutex
	userID string
	items  []models.Appointment
	lastID int64
	seq    uint64
	closed bool

	// writeMu serializes slot writes; attempted holds the newest sequence
	// number written (or tried) per key.
	writeMu   sync.Mutex
	attempted map[string]uint64
	inflight  sync.WaitGroup
}

func NewStore(repo kv.Repository, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		repo:         repo,
		logger:       logger.With("component", "appointments"),
		now:          time.Now,
		writeTimeout: defaultWriteTimeout,
		attempted:    make(map[string]uint64),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// UserID returns the student the collection currently belongs to.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// SetUser switches the store to userID and loads that student's slot.
// Pending writes are flushed first. An empty userID (signed out) leaves
// the store empty. Read or decode failures yield an empty collection.
func (s *Store) SetUser(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight.Wait()

	s.userID = userID
	s.items = nil
	if userID == "" {
		return
	}

	s.items = s.load(ctx, userID)
	for _, a := range s.items {
		s.lastID = max(s.lastID, a.ID)
	}
}

func (s *Store) load(ctx context.Context, userID string) []models.Appointment {
	key := common.AppointmentsKey(userID)

	data, err := s.repo.Get(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "appointments load failed, starting empty", "key", key, "err", err)
		return nil
	}
	if data == nil {
		return nil
	}

	var items []models.Appointment
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn(ctx, "appointments slot unreadable, starting empty", "key", key, "err", err)
		return nil
	}
	s.logger.Debug(ctx, "appointments loaded", "key", key, "count", len(items))
	return items
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the appointment with the given id.
func (s *Store) Get(id int64) (models.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return models.Appointment{}, false
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.items, func(a models.Appointment) bool { return a.ID == id })
}

// Add books a new upcoming appointment. When oldID is given the record with
// that id is removed first (rebook); a missing oldID removes nothing.
// Field contents are not validated.
func (s *Store) Add(ctx context.Context, n models.NewAppointment, oldID *int64) (models.Appointment, *Write) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oldID != nil {
		s.items = slices.DeleteFunc(s.items, func(a models.Appointment) bool { return a.ID == *oldID })
	}

	a := models.Appointment{
		ID:        s.nextID(),
		Doctor:    n.Doctor,
		Specialty: n.Specialty,
		Date:      n.Date,
		Time:      n.Time,
		Status:    models.StatusUpcoming,
	}
	s.items = append(s.items, a)

	return a, s.persistLocked(ctx)
}

// Cancel marks the appointment cancelled. Unknown ids are a no-op.
func (s *Store) Cancel(ctx context.Context, id int64) *Write {
	return s.setStatus(ctx, id, models.StatusCancelled)
}

// Complete marks the appointment complete, whatever its current status.
// Unknown ids are a no-op.
func (s *Store) Complete(ctx context.Context, id int64) *Write {
	return s.setStatus(ctx, id, models.StatusComplete)
}

func (s *Store) setStatus(ctx context.Context, id int64, st models.Status) *Write {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(id); i >= 0 {
		s.items[i].Status = st
	}
	return s.persistLocked(ctx)
}

// nextID derives an id from the clock in milliseconds, bumped past every id
// issued or loaded so far.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// persistLocked snapshots the collection and writes it in the background.
// s.mu must be held.
func (s *Store) persistLocked(ctx context.Context) *Write {
	if s.closed {
		w := newWrite()
		w.finish(ErrClosed)
		return w
	}
	if s.userID == "" {
		return resolvedWrite()
	}

	key := common.AppointmentsKey(s.userID)
	snapshot := s.items
	if snapshot == nil {
		snapshot = []models.Appointment{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		w := newWrite()
		w.finish(fmt.Errorf("encode appointments: %w", err))
		return w
	}

	s.seq++
	seq := s.seq
	w := newWrite()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		w.finish(s.write(context.WithoutCancel(ctx), key, seq, data))
	}()
	return w
}

func (s *Store) write(ctx context.Context, key string, seq uint64, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if seq <= s.attempted[key] {
		s.logger.Debug(ctx, "appointments snapshot superseded", "key", key, "seq", seq)
		return nil
	}
	s.attempted[key] = seq

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	if err := s.repo.Set(ctx, key, data); err != nil {
		s.logger.Error(ctx, "appointments persist failed", "key", key, "seq", seq, "err", err)
		return err
	}
	return nil
}

// Close stops persistence and waits for pending writes or for ctx to end.
// Mutations after Close still change memory; their Write fails with ErrClosed.
func (s *Store) Close(ctx context.Context) error {
	// new writes are only started under s.mu while !closed
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
