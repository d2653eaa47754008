// Package seed loads demo users, teams and feedback from a YAML fixture.
package seed

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	. "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/garnizeh/feedback/internal/models"
	"github.com/garnizeh/feedback/pkg/repository"
)

type Fixture struct {
	Password string     `yaml:"password"`
	Teams    []Team     `yaml:"teams"`
	Feedback []Feedback `yaml:"feedback"`
}

type Person struct {
	Username string `yaml:"username"`
	FullName string `yaml:"full_name"`
}

type Team struct {
	Name      string   `yaml:"name"`
	Manager   Person   `yaml:"manager"`
	Employees []Person `yaml:"employees"`
}

type Feedback struct {
	Author         string           `yaml:"author"`
	Recipient      string           `yaml:"recipient"`
	Strengths      string           `yaml:"strengths"`
	AreasToImprove string           `yaml:"areas_to_improve"`
	Sentiment      models.Sentiment `yaml:"sentiment"`
	Acknowledged   bool             `yaml:"acknowledged"`
}

func (p Person) Validate() error {
	return ValidateStruct(&p,
		Field(&p.Username, Required, Length(1, 64)),
		Field(&p.FullName, Required),
	)
}

func (t Team) Validate() error {
	return ValidateStruct(&t,
		Field(&t.Name, Required),
		Field(&t.Manager),
		Field(&t.Employees),
	)
}

func (f Feedback) Validate() error {
	return ValidateStruct(&f,
		Field(&f.Author, Required),
		Field(&f.Recipient, Required),
		Field(&f.Strengths, Required),
		Field(&f.AreasToImprove, Required),
		Field(&f.Sentiment, Required, In(models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative)),
	)
}

func (fx *Fixture) Validate() error {
	return ValidateStruct(fx,
		Field(&fx.Password, Required),
		Field(&fx.Teams, Required),
		Field(&fx.Feedback),
	)
}

// Load decodes and validates a fixture.
func Load(r io.Reader) (*Fixture, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &fx, nil
}

func LoadFS(fsys fs.FS, name string) (*Fixture, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open fixture %s: %w", name, err)
	}
	defer f.Close()
	return Load(f)
}

type Seeder struct {
	store  repository.Store
	logger *slog.Logger

	// Cost is the bcrypt cost used for the shared password.
	Cost int
}

func New(store repository.Store, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, logger: logger.With("component", "seed"), Cost: bcrypt.DefaultCost}
}

// Apply writes fx in a single transaction. It does nothing when any fixture
// user already exists.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(fx.Password), s.Cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var skipped bool
	err = s.store.WithTx(ctx, func(q repository.Queries) error {
		for _, t := range fx.Teams {
			for _, p := range append([]Person{t.Manager}, t.Employees...) {
				u, err := q.GetUserByUsername(ctx, p.Username)
				if err != nil {
					return fmt.Errorf("lookup %s: %w", p.Username, err)
				}
				if u != nil {
					skipped = true
					return nil
				}
			}
		}

		ids := make(map[string]int64)
		for _, t := range fx.Teams {
			manager := &models.User{Username: t.Manager.Username, FullName: t.Manager.FullName, PasswordHash: string(hash), Role: models.RoleManager}
			managerID, err := q.CreateUser(ctx, manager)
			if err != nil {
				return fmt.Errorf("create manager %s: %w", manager.Username, err)
			}
			ids[manager.Username] = managerID

			teamID, err := q.CreateTeam(ctx, &models.Team{Name: t.Name, ManagerID: managerID})
			if err != nil {
				return fmt.Errorf("create team %s: %w", t.Name, err)
			}

			for _, e := range t.Employees {
				tid := teamID
				emp := &models.User{Username: e.Username, FullName: e.FullName, PasswordHash: string(hash), Role: models.RoleEmployee, TeamID: &tid}
				id, err := q.CreateUser(ctx, emp)
				if err != nil {
					return fmt.Errorf("create employee %s: %w", emp.Username, err)
				}
				ids[emp.Username] = id
			}
		}

		for i, f := range fx.Feedback {
			authorID, ok := ids[f.Author]
			if !ok {
				return fmt.Errorf("feedback %d: unknown author %q", i, f.Author)
			}
			recipientID, ok := ids[f.Recipient]
			if !ok {
				return fmt.Errorf("feedback %d: unknown recipient %q", i, f.Recipient)
			}
			_, err := q.CreateFeedback(ctx, &models.Feedback{
				AuthorID:       authorID,
				RecipientID:    recipientID,
				Strengths:      f.Strengths,
				AreasToImprove: f.AreasToImprove,
				Sentiment:      f.Sentiment,
				Acknowledged:   f.Acknowledged,
			})
			if err != nil {
				return fmt.Errorf("create feedback %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if skipped {
		s.logger.Info("seed data already present, skipping")
		return nil
	}

	s.logger.Info("seed data applied", "teams", len(fx.Teams), "feedback", len(fx.Feedback))
	return nil
}
