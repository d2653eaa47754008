package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/garnizeh/feedback/internal/models"
	"github.com/garnizeh/feedback/pkg/repository"
)

// Store is an in-memory repository.Store used by tests.
// Transactions hold the store lock for their whole duration and restore a
// snapshot when the callback fails.
type Store struct {
	mu sync.Mutex
	st *state

	// Err, when set, is returned by every operation.
	Err error
	// Commits counts successful WithTx calls.
	Commits int
	// Writes counts CreateFeedback, UpdateFeedback and AcknowledgeFeedback calls.
	Writes int
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{st: newState()}
}

type state struct {
	users    map[int64]models.User
	teams    map[int64]models.Team
	feedback map[int64]models.Feedback
	nextID   int64
	owner    *Store
}

func newState() *state {
	return &state{
		users:    make(map[int64]models.User),
		teams:    make(map[int64]models.Team),
		feedback: make(map[int64]models.Feedback),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.teams {
		c.teams[k] = v
	}
	for k, v := range s.feedback {
		c.feedback[k] = v
	}
	c.nextID = s.nextID
	c.owner = s.owner
	return c
}

func (m *Store) locked() *state {
	m.st.owner = m
	return m.st
}

func (m *Store) WithTx(ctx context.Context, fn func(q repository.Queries) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	snapshot := m.locked().clone()
	if err := fn(m.st); err != nil {
		m.st = snapshot
		return err
	}
	m.Commits++
	return nil
}

func (m *Store) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *Store) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().CreateUser(ctx, u)
}

func (m *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().GetUserByID(ctx, id)
}

func (m *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().GetUserByUsername(ctx, username)
}

func (m *Store) SetUserTeam(ctx context.Context, userID int64, teamID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().SetUserTeam(ctx, userID, teamID)
}

func (m *Store) ListTeamEmployees(ctx context.Context, teamID int64) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().ListTeamEmployees(ctx, teamID)
}

func (m *Store) CreateTeam(ctx context.Context, t *models.Team) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().CreateTeam(ctx, t)
}

func (m *Store) GetTeamByID(ctx context.Context, id int64) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().GetTeamByID(ctx, id)
}

func (m *Store) GetTeamByManager(ctx context.Context, managerID int64) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().GetTeamByManager(ctx, managerID)
}

func (m *Store) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().CreateFeedback(ctx, f)
}

func (m *Store) GetFeedback(ctx context.Context, id int64) (*models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().GetFeedback(ctx, id)
}

func (m *Store) UpdateFeedback(ctx context.Context, f *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().UpdateFeedback(ctx, f)
}

func (m *Store) AcknowledgeFeedback(ctx context.Context, f *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().AcknowledgeFeedback(ctx, f)
}

func (m *Store) ListFeedbackByRecipient(ctx context.Context, recipientID int64) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().ListFeedbackByRecipient(ctx, recipientID)
}

func (m *Store) CountSentiments(ctx context.Context, recipientIDs []int64) (map[models.Sentiment]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked().CountSentiments(ctx, recipientIDs)
}

// state methods assume the owning Store lock is held.

func (s *state) err() error {
	if s.owner != nil {
		return s.owner.Err
	}
	return nil
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *state) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if err := s.err(); err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return 0, fmt.Errorf("username %q already exists", u.Username)
		}
	}
	stored := *u
	stored.ID = s.id()
	s.users[stored.ID] = stored
	return stored.ID, nil
}

func (s *state) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *state) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *state) SetUserTeam(ctx context.Context, userID int64, teamID *int64) error {
	if err := s.err(); err != nil {
		return err
	}
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	u.TeamID = teamID
	s.users[userID] = u
	return nil
}

func (s *state) ListTeamEmployees(ctx context.Context, teamID int64) ([]models.User, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	var out []models.User
	for _, u := range s.users {
		if u.Role == models.RoleEmployee && u.InTeam(teamID) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *state) CreateTeam(ctx context.Context, t *models.Team) (int64, error) {
	if err := s.err(); err != nil {
		return 0, err
	}
	if t == nil {
		return 0, fmt.Errorf("team is nil")
	}
	for _, existing := range s.teams {
		if existing.ManagerID == t.ManagerID {
			return 0, fmt.Errorf("manager %d already manages a team", t.ManagerID)
		}
	}
	stored := *t
	stored.ID = s.id()
	s.teams[stored.ID] = stored
	return stored.ID, nil
}

func (s *state) GetTeamByID(ctx context.Context, id int64) (*models.Team, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	t, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *state) GetTeamByManager(ctx context.Context, managerID int64) (*models.Team, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	for _, t := range s.teams {
		if t.ManagerID == managerID {
			return &t, nil
		}
	}
	return nil, nil
}

func (s *state) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	if err := s.err(); err != nil {
		return 0, err
	}
	if f == nil {
		return 0, fmt.Errorf("feedback is nil")
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	f.ID = s.id()
	f.UpdatedAt = f.CreatedAt
	s.feedback[f.ID] = *f
	if s.owner != nil {
		s.owner.Writes++
	}
	return f.ID, nil
}

func (s *state) GetFeedback(ctx context.Context, id int64) (*models.Feedback, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	f, ok := s.feedback[id]
	if !ok {
		return nil, nil
	}
	s.withNames(&f)
	return &f, nil
}

func (s *state) UpdateFeedback(ctx context.Context, f *models.Feedback) error {
	if err := s.err(); err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("feedback is nil")
	}
	stored, ok := s.feedback[f.ID]
	if !ok {
		return fmt.Errorf("feedback %d: %w", f.ID, models.ErrNotFound)
	}
	stored.Strengths = f.Strengths
	stored.AreasToImprove = f.AreasToImprove
	stored.Sentiment = f.Sentiment
	stored.UpdatedAt = time.Now().UTC()
	s.feedback[f.ID] = stored
	f.UpdatedAt = stored.UpdatedAt
	if s.owner != nil {
		s.owner.Writes++
	}
	return nil
}

func (s *state) AcknowledgeFeedback(ctx context.Context, f *models.Feedback) error {
	if err := s.err(); err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("feedback is nil")
	}
	stored, ok := s.feedback[f.ID]
	if !ok {
		return fmt.Errorf("feedback %d: %w", f.ID, models.ErrNotFound)
	}
	stored.Acknowledged = true
	stored.UpdatedAt = time.Now().UTC()
	s.feedback[f.ID] = stored
	f.Acknowledged = true
	f.UpdatedAt = stored.UpdatedAt
	if s.owner != nil {
		s.owner.Writes++
	}
	return nil
}

func (s *state) ListFeedbackByRecipient(ctx context.Context, recipientID int64) ([]models.Feedback, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	var out []models.Feedback
	for _, f := range s.feedback {
		if f.RecipientID == recipientID {
			s.withNames(&f)
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *state) CountSentiments(ctx context.Context, recipientIDs []int64) (map[models.Sentiment]int64, error) {
	if err := s.err(); err != nil {
		return nil, err
	}
	wanted := make(map[int64]bool, len(recipientIDs))
	for _, id := range recipientIDs {
		wanted[id] = true
	}
	out := make(map[models.Sentiment]int64)
	for _, f := range s.feedback {
		if wanted[f.RecipientID] {
			out[f.Sentiment]++
		}
	}
	return out, nil
}

func (s *state) withNames(f *models.Feedback) {
	if a, ok := s.users[f.AuthorID]; ok {
		f.AuthorName = a.FullName
	}
	if r, ok := s.users[f.RecipientID]; ok {
		f.RecipientName = r.FullName
	}
}
