package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), repository.ErrNotFound)

	dup := &pq.Error{Code: "23505", Constraint: "visits_pkey"}
	err := mapError(fmt.Errorf("exec: %w", dup))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Contains(t, err.Error(), "visits_pkey")

	other := &pq.Error{Code: "23514"}
	assert.Equal(t, other, mapError(other))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%doe%`, likePattern("doe"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestScopeClause(t *testing.T) {
	assert.Equal(t, "($2 = '' OR doctor_id = $2)", scopeClause(2))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db", DSN(config.DatabaseConfig{URL: "postgres://u@h/db", Host: "ignored"}))
	assert.Equal(t,
		"host=localhost port=5432 user=app password=secret dbname=hospital sslmode=disable",
		DSN(config.DatabaseConfig{Host: "localhost", Port: 5432, User: "app", Password: "secret", Name: "hospital", SSLMode: "disable"}),
	)
}
