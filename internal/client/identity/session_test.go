package identity

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/clinicbook/internal/client/models"
	"github.com/dmitrijs2005/clinicbook/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_IssueAndParse(t *testing.T) {
	t.Parallel()

	m := NewSessions("super-secret", time.Hour)
	tok, err := m.Issue(models.Student{ID: 42, Name: "Ada"})
	require.NoError(t, err)

	c, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.StudentID)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "42", c.Subject)
	assert.NotEmpty(t, c.ID)
}

func TestSessions_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	m := NewSessions("k", time.Hour)
	a, err := m.Issue(models.Student{ID: 1})
	require.NoError(t, err)
	b, err := m.Issue(models.Student{ID: 1})
	require.NoError(t, err)

	ca, err := m.Parse(a)
	require.NoError(t, err)
	cb, err := m.Parse(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestSessions_Expired(t *testing.T) {
	t.Parallel()

	m := NewSessions("k", time.Hour)
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }
	tok, err := m.Issue(models.Student{ID: 1})
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestSessions_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSessions("right", time.Hour).Issue(models.Student{ID: 1})
	require.NoError(t, err)

	_, err = NewSessions("wrong", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSessions_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewSessions("k", time.Hour).Parse("not.a.jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSessions_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		StudentID:        1,
	})
	raw, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewSessions("k", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSessions_RequiresExpiry(t *testing.T) {
	t.Parallel()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{StudentID: 1}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewSessions("k", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
