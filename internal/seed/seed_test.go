package seed_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/seed"
	"github.com/humia/planning/internal/store"
	"github.com/humia/planning/internal/testfixtures"
)

const ownerEmail = "direction@ecole-sud.fr"

type seedStack struct {
	seeder    *seed.Seeder
	set       store.Set
	principal application.Principal
	planning  *application.PlanningService
}

func newSeedStack(t *testing.T) seedStack {
	t.Helper()
	harness := testfixtures.NewSQLiteHarness(t)
	owner := testfixtures.NewUserFixture(testfixtures.WithUserEmail(ownerEmail))
	require.NoError(t, harness.Users.CreateUser(context.Background(), owner.Persistence()))

	set := store.FromStorage(harness.Storage)
	ids := testfixtures.NewIDGenerator("seed")
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	planning := application.NewPlanningServiceWithLogger(set.Planning, set.Registry, set.Registry, ids.NextFunc(), clock.NowFunc(), nil)

	seeder := seed.NewSeeder(seed.Services{
		Owners:     set.Accounts,
		Schools:    application.NewSchoolServiceWithLogger(set.Registry, ids.NextFunc(), clock.NowFunc(), nil),
		Classrooms: application.NewClassroomServiceWithLogger(set.Registry, ids.NextFunc(), clock.NowFunc(), nil),
		Trainers:   application.NewTrainerServiceWithLogger(set.Registry, ids.NextFunc(), clock.NowFunc(), nil),
		Planning:   planning,
	}, nil)
	return seedStack{seeder: seeder, set: set, principal: owner.Principal(), planning: planning}
}

func TestLoadAndApply(t *testing.T) {
	t.Parallel()
	stack := newSeedStack(t)
	ctx := context.Background()

	doc, err := seed.Load("testdata/school.yaml")
	require.NoError(t, err)
	require.Len(t, doc.Schools, 1)
	assert.Equal(t, "Marie Curie", doc.Schools[0].Trainers[0].FullName())

	result, err := stack.seeder.Apply(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Schools: 1, Classrooms: 2, Trainers: 2, Sessions: 2}, result)

	sessions, err := stack.planning.ListSessions(ctx, stack.principal, application.PlanningRange{Start: "2026-02-01", End: "2026-03-01", EndExclusive: true})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "Module 1", sessions[0].Title)
	assert.Equal(t, "BTS SIO 1", sessions[0].ClassroomName)
	assert.Equal(t, "Salle 3", *sessions[0].Location)
	assert.Equal(t, application.DefaultSessionColor, sessions[0].Color)
	assert.Equal(t, "#16a34a", sessions[1].Color)
	assert.Equal(t, "École Sud", sessions[1].SchoolName)

	classrooms, err := stack.set.Registry.ListClassrooms(ctx, stack.principal.OwnerID)
	require.NoError(t, err)
	require.Len(t, classrooms, 2)
	assert.Equal(t, application.DefaultSessionColor, classrooms[1].Color, "classroom colour defaults")

	active, err := stack.set.Registry.ListTrainers(ctx, stack.principal.OwnerID, application.TrainerActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		yaml string
		want string
	}{
		"empty":             {yaml: "", want: "empty document"},
		"unknown key":       {yaml: "owner: a@b.fr\ninstructors: []\n", want: "instructors"},
		"missing owner":     {yaml: "schools: []\n", want: "owner is required"},
		"unknown classroom": {yaml: "owner: a@b.fr\nsessions:\n  - classroom: Ghost\n    trainer: Nobody\n", want: `unknown classroom "Ghost"`},
		"duplicate classroom": {
			yaml: "owner: a@b.fr\nschools:\n  - name: A\n    classrooms: [{name: X}]\n  - name: B\n    classrooms: [{name: X}]\n",
			want: `classroom "X" is declared 2 times`,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := seed.Parse(strings.NewReader(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestApplyStopsAtFirstInvalidSession(t *testing.T) {
	t.Parallel()
	stack := newSeedStack(t)

	doc, err := seed.Parse(strings.NewReader(`
owner: direction@ecole-sud.fr
schools:
  - name: École Nord
    classrooms: [{name: CAP 1}]
    trainers: [{firstName: Ada, lastName: Lovelace}]
sessions:
  - {classroom: CAP 1, trainer: Ada Lovelace, title: Tôt, date: "2026-02-09", start: "06:00", end: "08:00"}
`))
	require.NoError(t, err)

	result, err := stack.seeder.Apply(context.Background(), doc)
	var vErr *application.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "Les horaires doivent être entre 07:00 et 22:00", vErr.Message)
	assert.Equal(t, seed.Result{Schools: 1, Classrooms: 1, Trainers: 1}, result)
}

func TestApplyRequiresKnownOwner(t *testing.T) {
	t.Parallel()
	stack := newSeedStack(t)

	_, err := stack.seeder.Apply(context.Background(), seed.Document{Owner: "inconnu@example.com"})
	assert.ErrorIs(t, err, application.ErrNotFound)
}
