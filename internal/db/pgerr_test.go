package db

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	foreignKey := &pq.Error{Code: "23503"}
	notNull := &pq.Error{Code: "23502"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(foreignKey))

	assert.True(t, IsForeignKeyViolation(foreignKey))
	assert.False(t, IsForeignKeyViolation(notNull))

	assert.True(t, IsNotNullViolation(notNull))
	assert.False(t, IsNotNullViolation(unique))
}

func TestPgErrorClassification_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("error inserting user: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsUniqueViolation(wrapped))
}

func TestPgErrorClassification_OtherErrors(t *testing.T) {
	assert.False(t, IsUniqueViolation(assert.AnError))
	assert.False(t, IsForeignKeyViolation(nil))
}
