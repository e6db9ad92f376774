package application

import (
	"context"
	"sort"
	"sync"
	"time"
)

type credentialStoreStub struct {
	credentials UserCredentials
	users       map[string]User
	err         error
}

func (s *credentialStoreStub) GetUserCredentialsByEmail(_ context.Context, email string) (UserCredentials, error) {
	if s.err != nil {
		return UserCredentials{}, s.err
	}
	if s.credentials.User.Email != email {
		return UserCredentials{}, ErrNotFound
	}
	return s.credentials, nil
}

func (s *credentialStoreStub) GetUser(_ context.Context, id string) (User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	if s.credentials.User.ID == id {
		return s.credentials.User, nil
	}
	return User{}, ErrNotFound
}

type sessionRepositoryStub struct {
	mu          sync.Mutex
	sessions    map[string]Session
	createErr   error
	deleteErr   error
	deleteCalls []time.Time
}

func newSessionRepositoryStub() *sessionRepositoryStub {
	return &sessionRepositoryStub{sessions: make(map[string]Session)}
}

func (s *sessionRepositoryStub) CreateSession(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.sessions[session.TokenHash] = session
	return nil
}

func (s *sessionRepositoryStub) GetSessionByTokenHash(_ context.Context, tokenHash string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[tokenHash]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *sessionRepositoryStub) RevokeSession(_ context.Context, tokenHash string, revokedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[tokenHash]
	if !ok {
		return ErrNotFound
	}
	if session.RevokedAt == nil {
		session.RevokedAt = &revokedAt
	}
	s.sessions[tokenHash] = session
	return nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(_ context.Context, reference time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls = append(s.deleteCalls, reference)
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	var removed int64
	for hash, session := range s.sessions {
		if !session.ExpiresAt.After(reference) {
			delete(s.sessions, hash)
			removed++
		}
	}
	return removed, nil
}

type accountRepositoryStub struct {
	byEmail   map[string]UserCredentials
	lookupErr error
	createErr error
}

func newAccountRepositoryStub() *accountRepositoryStub {
	return &accountRepositoryStub{byEmail: make(map[string]UserCredentials)}
}

func (s *accountRepositoryStub) CreateUser(_ context.Context, creds UserCredentials) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.byEmail[creds.User.Email] = creds
	return nil
}

func (s *accountRepositoryStub) GetUserCredentialsByEmail(_ context.Context, email string) (UserCredentials, error) {
	if s.lookupErr != nil {
		return UserCredentials{}, s.lookupErr
	}
	creds, ok := s.byEmail[email]
	if !ok {
		return UserCredentials{}, ErrNotFound
	}
	return creds, nil
}

// registryStub keeps schools, classrooms and trainers keyed by owner.
type registryStub struct {
	schools    []School
	classrooms []Classroom
	trainers   []Trainer
	err        error
}

func (s *registryStub) CreateSchool(_ context.Context, school School) error {
	if s.err != nil {
		return s.err
	}
	for _, existing := range s.schools {
		if existing.OwnerID == school.OwnerID && existing.Name == school.Name {
			return ErrAlreadyExists
		}
	}
	s.schools = append(s.schools, school)
	return nil
}

func (s *registryStub) ListSchools(_ context.Context, ownerID string) ([]School, error) {
	var out []School
	for _, school := range s.schools {
		if school.OwnerID == ownerID {
			out = append(out, school)
		}
	}
	return out, s.err
}

func (s *registryStub) school(ownerID, id string) (School, bool) {
	for _, school := range s.schools {
		if school.OwnerID == ownerID && school.ID == id {
			return school, true
		}
	}
	return School{}, false
}

func (s *registryStub) CreateClassroom(_ context.Context, classroom Classroom) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.school(classroom.OwnerID, classroom.SchoolID); !ok {
		return ErrNotFound
	}
	s.classrooms = append(s.classrooms, classroom)
	return nil
}

func (s *registryStub) GetClassroom(_ context.Context, ownerID, id string) (Classroom, error) {
	if s.err != nil {
		return Classroom{}, s.err
	}
	for _, classroom := range s.classrooms {
		if classroom.OwnerID == ownerID && classroom.ID == id {
			school, _ := s.school(ownerID, classroom.SchoolID)
			classroom.SchoolName = school.Name
			return classroom, nil
		}
	}
	return Classroom{}, ErrNotFound
}

func (s *registryStub) ListClassrooms(_ context.Context, ownerID string) ([]Classroom, error) {
	var out []Classroom
	for _, classroom := range s.classrooms {
		if classroom.OwnerID == ownerID {
			out = append(out, classroom)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, s.err
}

func (s *registryStub) CreateTrainer(_ context.Context, trainer Trainer) error {
	if s.err != nil {
		return s.err
	}
	if trainer.SchoolID != nil {
		if _, ok := s.school(trainer.OwnerID, *trainer.SchoolID); !ok {
			return ErrNotFound
		}
	}
	s.trainers = append(s.trainers, trainer)
	return nil
}

func (s *registryStub) GetTrainer(_ context.Context, ownerID, id string) (Trainer, error) {
	if s.err != nil {
		return Trainer{}, s.err
	}
	for _, trainer := range s.trainers {
		if trainer.OwnerID == ownerID && trainer.ID == id {
			return trainer, nil
		}
	}
	return Trainer{}, ErrNotFound
}

func (s *registryStub) ListTrainers(_ context.Context, ownerID, status string) ([]Trainer, error) {
	var out []Trainer
	for _, trainer := range s.trainers {
		if trainer.OwnerID == ownerID && (status == "" || trainer.Status == status) {
			out = append(out, trainer)
		}
	}
	return out, s.err
}

type planningRepositoryStub struct {
	sessions  []PlanningSession
	ranges    []PlanningRange
	createErr error
	listErr   error
	deleteErr error
}

func (s *planningRepositoryStub) CreatePlanningSession(_ context.Context, session PlanningSession) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.sessions = append(s.sessions, session)
	return nil
}

func (s *planningRepositoryStub) ListPlanningSessions(_ context.Context, ownerID string, r PlanningRange) ([]PlanningSession, error) {
	s.ranges = append(s.ranges, r)
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []PlanningSession
	for _, session := range s.sessions {
		if session.OwnerID != ownerID {
			continue
		}
		if r.Start != "" && session.Date < r.Start {
			continue
		}
		if r.End != "" && (session.Date > r.End || (r.EndExclusive && session.Date == r.End)) {
			continue
		}
		out = append(out, session)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *planningRepositoryStub) DeletePlanningSession(_ context.Context, ownerID, id string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	for i, session := range s.sessions {
		if session.OwnerID == ownerID && session.ID == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func sequence(values ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		if i >= len(values) {
			return "fallback"
		}
		v := values[i]
		i++
		return v
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
