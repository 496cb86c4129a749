package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	exclusion := fmt.Errorf("insert: %w", &pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
	unique := &pq.Error{Code: "23505", Constraint: "game_participants_pkey"}

	assert.True(t, IsExclusionViolation(exclusion))
	assert.False(t, IsUniqueViolation(exclusion))
	assert.Equal(t, "bookings_no_overlap", Constraint(exclusion))

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))

	assert.Equal(t, "", Code(errors.New("plain")))
	assert.Equal(t, "", Constraint(nil))
}
