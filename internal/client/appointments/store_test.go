package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/clinicbook/internal/client/models"
	"github.com/dmitrijs2005/clinicbook/internal/client/repositories/kv"
	"github.com/dmitrijs2005/clinicbook/internal/common"
	"github.com/dmitrijs2005/clinicbook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRepo wraps a MemoryRepository and injects errors.
type failingRepo struct {
	*kv.MemoryRepository
	getErr error
	setErr error
}

func (r *failingRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.MemoryRepository.Get(ctx, key)
}

func (r *failingRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.setErr != nil {
		return r.setErr
	}
	return r.MemoryRepository.Set(ctx, key, value)
}

// fixedClock always returns the same instant, forcing the id bump path.
func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newTestStore(t *testing.T, repo kv.Repository, opts ...Option) *Store {
	t.Helper()
	s := NewStore(repo, logging.Discard(), opts...)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func waitOK(t *testing.T, w *Write) {
	t.Helper()
	require.NoError(t, w.Wait(context.Background()))
}

func slot(t *testing.T, repo kv.Repository, uid string) []models.Appointment {
	t.Helper()
	data, err := repo.Get(context.Background(), common.AppointmentsKey(uid))
	require.NoError(t, err)
	require.NotNil(t, data)
	var out []models.Appointment
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func drA(date string) models.NewAppointment {
	return models.NewAppointment{Doctor: "Dr. A", Specialty: "Dentist", Date: date, Time: "10:30am - 11:30am"}
}

func TestAdd_AssignsUniqueIDsAndUpcoming(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryRepository(), WithClock(fixedClock(1000)))
	s.SetUser(ctx, "u1")

	seen := map[int64]bool{}
	for i := 0; i < 20; i++ {
		a, w := s.Add(ctx, drA("01/01/2025"), nil)
		waitOK(t, w)
		assert.Equal(t, models.StatusUpcoming, a.Status)
		assert.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
	}
	assert.Len(t, s.List(), 20)
}

func TestAdd_IDFromClockMillis(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryRepository(), WithClock(fixedClock(1700000000123)))
	s.SetUser(ctx, "u1")

	a, w := s.Add(ctx, drA("01/01/2025"), nil)
	waitOK(t, w)
	assert.Equal(t, int64(1700000000123), a.ID)
}

func TestAdd_IDBumpedPastLoadedIDs(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	existing := []models.Appointment{{ID: 5000, Doctor: "Dr. A", Status: models.StatusUpcoming}}
	data, _ := json.Marshal(existing)
	require.NoError(t, repo.Set(ctx, common.AppointmentsKey("u1"), data))

	s := newTestStore(t, repo, WithClock(fixedClock(1000)))
	s.SetUser(ctx, "u1")

	a, w := s.Add(ctx, drA("01/01/2025"), nil)
	waitOK(t, w)
	assert.Equal(t, int64(5001), a.ID)
}

func TestAdd_AcceptsEmptyFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryRepository())
	s.SetUser(ctx, "u1")

	a, w := s.Add(ctx, models.NewAppointment{}, nil)
	waitOK(t, w)
	assert.Equal(t, models.StatusUpcoming, a.Status)
	assert.Equal(t, []models.Appointment{a}, s.List())
}

func TestAdd_RebookRemovesOld(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryRepository())
	s.SetUser(ctx, "u1")

	old, _ := s.Add(ctx, drA("01/01/2025"), nil)
	other, _ := s.Add(ctx, drA("02/01/2025"), nil)
	waitOK(t, s.Cancel(ctx, old.ID))

	oldID := old.ID
	fresh, w := s.Add(ctx, drA("03/01/2025"), &oldID)
	waitOK(t, w)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, other.ID, list[0].ID)
	assert.Equal(t, fresh.ID, list[1].ID)
	assert.NotEqual(t, old.ID, fresh.ID)
	assert.Equal(t, models.StatusUpcoming, fresh.Status)

	_, found := s.Get(old.ID)
	assert.False(t, found)
}

func TestAdd_RebookMissingOldIDJustAdds(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryRepository())
	s.SetUser(ctx, "u1")

	first, _ := s.Add(ctx, drA("01/01/2025"), nil)
	missing := int64(42)
	_, w := s.Add(ctx, drA("02/01/2025"), &missing)
	waitOK(t, w)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestCancel_FiltersOutOfUpcoming(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryRepository())
	s.SetUser(ctx, "u1")

	a, _ := s.Add(ctx, drA("01/01/2025"), nil)
	b, _ := s.Add(ctx, drA("02/01/2025"), nil)
	waitOK(t, s.Cancel(ctx, a.ID))

	up := models.FilterByStatus(s.List(), models.StatusUpcoming)
	require.Len(t, up, 1)
	assert.Equal(t, b.ID, up[0].ID)

	cancelled := models.FilterByStatus(s.List(), models.StatusCancelled)
	require.Len(t, cancelled, 1)
	assert.Equal(t, a.ID, cancelled[0].ID)
}

func TestComplete_OverridesCancelled(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryRepository())
	s.SetUser(ctx, "u1")

	a, _ := s.Add(ctx, drA("01/01/2025"), nil)
	s.Cancel(ctx, a.ID)
	waitOK(t, s.Complete(ctx, a.ID))

	got, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusComplete, got.Status)
}

func TestUnknownID_NoOpButPersists(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	s := newTestStore(t, repo)
	s.SetUser(ctx, "u1")

	a, _ := s.Add(ctx, drA("01/01/2025"), nil)
	before := s.List()

	require.NoError(t, repo.Delete(ctx, common.AppointmentsKey("u1")))
	waitOK(t, s.Cancel(ctx, 999))
	waitOK(t, s.Complete(ctx, 998))

	assert.Equal(t, before, s.List())
	assert.Equal(t, []models.Appointment{{
		ID: a.ID, Doctor: "Dr. A", Specialty: "Dentist", Date: "01/01/2025",
		Time: "10:30am - 11:30am", Status: models.StatusUpcoming,
	}}, slot(t, repo, "u1"))
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()

	s1 := NewStore(repo, logging.Discard())
	s1.SetUser(ctx, "u1")
	a, _ := s1.Add(ctx, drA("01/01/2025"), nil)
	b, _ := s1.Add(ctx, drA("02/01/2025"), nil)
	s1.Cancel(ctx, a.ID)
	s1.Complete(ctx, b.ID)
	require.NoError(t, s1.Close(ctx))

	s2 := newTestStore(t, repo)
	s2.SetUser(ctx, "u1")
	assert.Equal(t, s1.List(), s2.List())
}

func TestScenario_BookCancelRebook(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	s := newTestStore(t, repo)
	s.SetUser(ctx, "u1")

	a, _ := s.Add(ctx, drA("01/01/2025"), nil)
	s.Cancel(ctx, a.ID)
	oldID := a.ID
	b, w := s.Add(ctx, drA("02/01/2025"), &oldID)
	waitOK(t, w)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, "02/01/2025", list[0].Date)
	assert.Equal(t, models.StatusUpcoming, list[0].Status)
	assert.Equal(t, list, slot(t, repo, "u1"))
}

func TestSetUser_IsolatesUsers(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	s := newTestStore(t, repo)

	s.SetUser(ctx, "u1")
	a, _ := s.Add(ctx, drA("01/01/2025"), nil)

	s.SetUser(ctx, "u2")
	assert.Empty(t, s.List())
	assert.Equal(t, "u2", s.UserID())
	b, _ := s.Add(ctx, drA("05/05/2025"), nil)

	s.SetUser(ctx, "u1")
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	s.SetUser(ctx, "u2")
	list = s.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestSetUser_EmptyMeansSignedOut(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	s := newTestStore(t, repo)

	s.SetUser(ctx, "u1")
	s.Add(ctx, drA("01/01/2025"), nil)
	s.SetUser(ctx, "")
	assert.Empty(t, s.List())

	_, w := s.Add(ctx, drA("02/01/2025"), nil)
	select {
	case <-w.Done():
	default:
		t.Fatal("write without a user should resolve immediately")
	}
	assert.NoError(t, w.Err())

	keys, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestSetUser_LoadFailureYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{MemoryRepository: kv.NewMemoryRepository(), getErr: errors.New("disk gone")}

	var buf bytes.Buffer
	s := NewStore(repo, logging.NewTextLogger(&buf, "debug"))
	t.Cleanup(func() { _ = s.Close(ctx) })

	s.SetUser(ctx, "u1")
	assert.Empty(t, s.List())
	assert.Contains(t, buf.String(), "appointments load failed")
}

func TestSetUser_GarbageYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	require.NoError(t, repo.Set(ctx, common.AppointmentsKey("u1"), []byte("{not json")))

	s := newTestStore(t, repo)
	s.SetUser(ctx, "u1")
	assert.Empty(t, s.List())
}

func TestWriteFailure_SwallowedAndReported(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("write refused")
	repo := &failingRepo{MemoryRepository: kv.NewMemoryRepository(), setErr: boom}

	var buf bytes.Buffer
	s := NewStore(repo, logging.NewTextLogger(&buf, "info"))
	t.Cleanup(func() { _ = s.Close(ctx) })
	s.SetUser(ctx, "u1")

	a, w := s.Add(ctx, drA("01/01/2025"), nil)
	assert.ErrorIs(t, w.Wait(ctx), boom)
	assert.ErrorIs(t, w.Err(), boom)

	got, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusUpcoming, got.Status)
	assert.Contains(t, buf.String(), "appointments persist failed")
}

func TestWrite_WaitHonoursContext(t *testing.T) {
	w := newWrite()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Wait(ctx), context.Canceled)
	assert.NoError(t, w.Err())
}

func TestLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	s := NewStore(repo, logging.Discard())
	s.SetUser(ctx, "u1")

	var ids []int64
	for i := 0; i < 30; i++ {
		a, _ := s.Add(ctx, drA("01/01/2025"), nil)
		ids = append(ids, a.ID)
	}
	for i, id := range ids {
		if i%2 == 0 {
			s.Cancel(ctx, id)
		} else {
			s.Complete(ctx, id)
		}
	}
	require.NoError(t, s.Close(ctx))

	assert.Equal(t, s.List(), slot(t, repo, "u1"))
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	s := NewStore(repo, logging.Discard(), WithClock(fixedClock(1)))
	s.SetUser(ctx, "u1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				a, _ := s.Add(ctx, drA("01/01/2025"), nil)
				s.Complete(ctx, a.ID)
			}
		}()
	}
	wg.Wait()
	require.NoError(t, s.Close(ctx))

	list := s.List()
	assert.Len(t, list, 80)
	seen := map[int64]bool{}
	for _, a := range list {
		assert.False(t, seen[a.ID])
		seen[a.ID] = true
		assert.Equal(t, models.StatusComplete, a.Status)
	}
	assert.Equal(t, list, slot(t, repo, "u1"))
}

func TestClose_StopsPersistence(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	s := NewStore(repo, logging.Discard())
	s.SetUser(ctx, "u1")

	first, _ := s.Add(ctx, drA("01/01/2025"), nil)
	require.NoError(t, s.Close(ctx))

	_, w := s.Add(ctx, drA("02/01/2025"), nil)
	assert.ErrorIs(t, w.Wait(ctx), ErrClosed)
	assert.ErrorIs(t, s.Cancel(ctx, first.ID).Wait(ctx), ErrClosed)

	assert.Len(t, s.List(), 2)
	stored := slot(t, repo, "u1")
	require.Len(t, stored, 1)
	assert.Equal(t, first.ID, stored[0].ID)
	assert.Equal(t, models.StatusUpcoming, stored[0].Status)
}

func TestClose_DuringMutations(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemoryRepository(), logging.Discard())
	s.SetUser(ctx, "u1")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, w := s.Add(ctx, drA("01/01/2025"), nil)
				if err := w.Wait(ctx); err != nil {
					assert.ErrorIs(t, err, ErrClosed)
				}
			}
		}()
	}
	require.NoError(t, s.Close(ctx))
	wg.Wait()

	require.NoError(t, s.Close(ctx))
	assert.Len(t, s.List(), 100)
}

func TestClose_HonoursContext(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	repo := &blockingRepo{MemoryRepository: kv.NewMemoryRepository(), release: release}
	s := NewStore(repo, logging.Discard())
	s.SetUser(ctx, "u1")
	_, w := s.Add(ctx, drA("01/01/2025"), nil)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Close(short), context.DeadlineExceeded)

	close(release)
	require.NoError(t, w.Wait(ctx))
	require.NoError(t, s.Close(ctx))
}

func TestWriteTimeout(t *testing.T) {
	ctx := context.Background()
	repo := &blockingRepo{MemoryRepository: kv.NewMemoryRepository(), release: make(chan struct{})}
	s := NewStore(repo, logging.Discard(), WithWriteTimeout(10*time.Millisecond))
	s.SetUser(ctx, "u1")

	_, w := s.Add(ctx, drA("01/01/2025"), nil)
	assert.ErrorIs(t, w.Wait(ctx), context.DeadlineExceeded)
	require.NoError(t, s.Close(ctx))
}

// blockingRepo holds every Set until release is closed or ctx ends.
type blockingRepo struct {
	*kv.MemoryRepository
	release chan struct{}
}

func (r *blockingRepo) Set(ctx context.Context, key string, value []byte) error {
	select {
	case <-r.release:
		return r.MemoryRepository.Set(ctx, key, value)
	case <-ctx.Done():
		return ctx.Err()
	}
}
