package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorUsesJSONNamesAndFrenchMessages(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	err := v.Struct(CreateSessionInput{
		ClassroomID: "c1",
		TrainerID:   "t1",
		Title:       "Module",
		Date:        "09/02/2026",
		StartTime:   "9h",
		EndTime:     "10:00",
		Color:       "violet",
	})
	require.NotNil(t, err)

	assert.Equal(t, "date doit être une date au format AAAA-MM-JJ", err.FieldErrors["date"])
	assert.Equal(t, "startTime doit être une heure au format HH:MM", err.FieldErrors["startTime"])
	assert.Equal(t, "color doit être une couleur hexadécimale", err.FieldErrors["color"])
	assert.NotContains(t, err.FieldErrors, "endTime")
}

func TestValidatorAcceptsWellFormedInput(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	assert.Nil(t, v.Struct(CreateSessionInput{
		ClassroomID: "c1",
		TrainerID:   "t1",
		Title:       "Module",
		Date:        "2026-02-09",
		StartTime:   "09:00",
		EndTime:     "23:59",
		Color:       "#2563eb",
	}))

	err := v.Struct(AccountInput{Email: "nope", FirstName: "A", LastName: "B", Role: "root", Password: "short"})
	require.NotNil(t, err)
	assert.Contains(t, err.FieldErrors, "email")
	assert.Contains(t, err.FieldErrors, "role")
	assert.Contains(t, err.FieldErrors, "password")
}

func TestNotBlank(t *testing.T) {
	t.Parallel()

	assert.True(t, notBlank("a", "b"))
	assert.True(t, notBlank())
	assert.False(t, notBlank("a", " \t"))
}
