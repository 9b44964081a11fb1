package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/grading"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	Config   *Config
	Store    store.Store
	Sessions SessionStore
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	sessions, err := NewSessionStore(config)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to init sessions: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    st,
		Sessions: sessions,
	}, nil
}

// EnsureAdminAccount seeds the configured admin user when it does not
// exist yet, so a fresh database can be logged into right away.
func (s *Service) EnsureAdminAccount() error {
	username := s.Config.Server.AdminUsername

	_, err := s.Store.GetUserByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Config.Server.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := s.Config.Server.AdminName
	if name == "" {
		name = username
	}

	account := &models.UserAccount{
		User:         models.User{Username: username, Name: name, Role: models.RoleAdmin},
		PasswordHash: string(hash),
	}
	if err := s.Store.CreateUser(account); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.Info.Printf("Seeded admin account %q", username)
	return nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	account, err := s.Store.GetUserByUsername(username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Sessions.Create(ctx, account.User)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.LoginResponse{Token: token, User: account.User}, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	return s.Sessions.Lookup(ctx, token)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.Sessions.Revoke(ctx, token)
}

// Summary assembles the dashboard aggregates from real store queries.
func (s *Service) Summary() (*models.StatsSummary, error) {
	counts, err := s.Store.FetchEntityCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity counts: %w", err)
	}

	dist, err := s.Store.FetchGradeDistribution()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grade distribution: %w", err)
	}

	limit := s.Config.Stats.RecentActivityLimit
	if limit <= 0 {
		limit = 8
	}
	recent, err := s.Store.FetchRecentActivity(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent activity: %w", err)
	}

	return &models.StatsSummary{
		Students:          counts.Students,
		Courses:           counts.Courses,
		Registrations:     counts.Registrations,
		Results:           counts.Results,
		GradeAverage:      grading.Average(dist),
		GradeDistribution: dist,
		RecentActivity:    recent,
	}, nil
}

// RecordActivity appends to the dashboard feed. The mutation already
// succeeded, so failures only get logged.
func (s *Service) RecordActivity(entity, action, label string) {
	entry := models.ActivityEntry{
		Entity:    entity,
		Action:    action,
		Label:     label,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.Store.InsertActivity(entry); err != nil {
		logger.Error.Printf("Failed to record %s %s activity: %v", entity, action, err)
	}
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("sessions: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
