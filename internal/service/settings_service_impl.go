package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexanderramin/timebox/internal/db"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/repository"
)

// SettingsDeps wires a SettingsService.
type SettingsDeps struct {
	DB  *sql.DB
	UoW db.UnitOfWork
	// Repo builds the store over a connection or transaction. Defaults to
	// the SQLite store.
	Repo func(db.DBTX) repository.SettingsRepo
}

type settingsService struct {
	repo     repository.SettingsRepo
	newRepo  func(db.DBTX) repository.SettingsRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewSettingsService creates a SettingsService. Save writes every key in
// one transaction.
func NewSettingsService(deps SettingsDeps, observers ...UseCaseObserver) SettingsService {
	s := &settingsService{
		newRepo:  deps.Repo,
		uow:      deps.UoW,
		observer: useCaseObserverOrNoop(observers),
	}
	if s.newRepo == nil {
		s.newRepo = func(conn db.DBTX) repository.SettingsRepo { return repository.NewSQLiteSettingsRepo(conn) }
	}
	if s.uow == nil {
		s.uow = db.NewTxUnitOfWork(deps.DB)
	}
	s.repo = s.newRepo(deps.DB)
	return s
}

func (s *settingsService) Load(ctx context.Context) (domain.Settings, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	settings, err := domain.MapToSettings(all)
	if err != nil {
		return domain.Settings{}, err
	}
	settings.Normalize()
	return settings, nil
}

func (s *settingsService) Save(ctx context.Context, settings domain.Settings) (out domain.Settings, err error) {
	defer observe(ctx, s.observer, "save-settings", nil, &err)()

	settings.Normalize()
	values := domain.SettingsToMap(settings)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.newRepo(tx)
		for _, key := range domain.SettingKeys() {
			v, ok := values[key]
			if !ok {
				if err := repo.Remove(ctx, key); err != nil {
					return err
				}
				continue
			}
			if err := repo.Set(ctx, key, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *settingsService) Set(ctx context.Context, key, value string) (domain.Settings, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Apply(key, value); err != nil {
		return domain.Settings{}, err
	}
	return s.Save(ctx, settings)
}

func (s *settingsService) Unset(ctx context.Context, key string) (domain.Settings, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Clear(key); err != nil {
		return domain.Settings{}, err
	}
	return s.Save(ctx, settings)
}

// isNotFound reports whether err is a missing-row error.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
