package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/timebox/internal/db"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/intelligence"
	"github.com/alexanderramin/timebox/internal/ratelimit"
	"github.com/alexanderramin/timebox/internal/repository"
	"github.com/alexanderramin/timebox/internal/scheduler"
)

// ErrStaleGeneration is returned when a newer generation for the same day
// started while this one was in flight. The newer one wins.
var ErrStaleGeneration = errors.New("a newer generation superseded this one")

// Rate-limit action names.
const (
	ActionTopGoals = "top-goals"
	ActionSchedule = "schedule"
)

// PlannerDeps wires a PlannerService.
type PlannerDeps struct {
	DB       *sql.DB
	UoW      db.UnitOfWork
	Settings SettingsService
	Goals    intelligence.GoalService
	Schedule intelligence.ScheduleService
	Classify intelligence.ClassifyService
	Gate     ratelimit.Gate
	Options  []scheduler.Option
}

type plannerService struct {
	plans    repository.DayPlanRepo
	uow      db.UnitOfWork
	settings SettingsService
	goals    intelligence.GoalService
	schedule intelligence.ScheduleService
	classify intelligence.ClassifyService
	gate     ratelimit.Gate
	opts     []scheduler.Option
	observer UseCaseObserver
}

// NewPlannerService creates a PlannerService. A nil Gate allows every
// request and a nil Classify falls back to keyword matching.
func NewPlannerService(deps PlannerDeps, observers ...UseCaseObserver) PlannerService {
	s := &plannerService{
		plans:    repository.NewSQLiteDayPlanRepo(deps.DB),
		uow:      deps.UoW,
		settings: deps.Settings,
		goals:    deps.Goals,
		schedule: deps.Schedule,
		classify: deps.Classify,
		gate:     deps.Gate,
		opts:     deps.Options,
		observer: useCaseObserverOrNoop(observers),
	}
	if s.uow == nil {
		s.uow = db.NewTxUnitOfWork(deps.DB)
	}
	if s.gate == nil {
		s.gate = ratelimit.Noop{}
	}
	if s.classify == nil {
		s.classify = intelligence.KeywordClassifier{}
	}
	return s
}

func loadPlan(ctx context.Context, repo repository.DayPlanRepo, date string) (*domain.DayPlan, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}
	plan, err := repo.Get(ctx, date)
	if isNotFound(err) {
		return domain.NewDayPlan(date), nil
	}
	return plan, err
}

func (s *plannerService) Day(ctx context.Context, date string) (*domain.DayPlan, error) {
	return loadPlan(ctx, s.plans, date)
}

func (s *plannerService) Days(ctx context.Context, limit int) ([]*domain.DayPlan, error) {
	dates, err := s.plans.Dates(ctx, limit)
	if err != nil {
		return nil, err
	}
	plans := make([]*domain.DayPlan, 0, len(dates))
	for _, date := range dates {
		plan, err := s.plans.Get(ctx, date)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// update loads the day inside a transaction, applies fn and saves when fn
// returns true.
func (s *plannerService) update(ctx context.Context, date string, fn func(*domain.DayPlan) (bool, error)) (*domain.DayPlan, bool, error) {
	var (
		plan    *domain.DayPlan
		changed bool
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteDayPlanRepo(tx)
		var err error
		if plan, err = loadPlan(ctx, repo, date); err != nil {
			return err
		}
		if changed, err = fn(plan); err != nil || !changed {
			return err
		}
		return repo.Save(ctx, plan)
	})
	if err != nil {
		return nil, false, err
	}
	return plan, changed, nil
}

func (s *plannerService) SetBrainDump(ctx context.Context, date, text string) error {
	_, _, err := s.update(ctx, date, func(p *domain.DayPlan) (bool, error) {
		p.BrainDump = text
		return true, nil
	})
	return err
}

func (s *plannerService) SetTopGoals(ctx context.Context, date string, goals []string) error {
	_, _, err := s.update(ctx, date, func(p *domain.DayPlan) (bool, error) {
		p.TopGoals = domain.CleanGoals(goals)
		return true, nil
	})
	return err
}

func (s *plannerService) window(ctx context.Context) (domain.DayWindow, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return domain.DayWindow{}, fmt.Errorf("loading settings: %w", err)
	}
	return settings.DayDuration, nil
}

func (s *plannerService) Edit(ctx context.Context, date string, fn EditFunc) (*domain.DayPlan, bool, error) {
	window, err := s.window(ctx)
	if err != nil {
		return nil, false, err
	}
	return s.update(ctx, date, func(p *domain.DayPlan) (bool, error) {
		engine := scheduler.NewEngine(window, p.Items, s.opts...)
		if !fn(engine) {
			return false, nil
		}
		p.Items = engine.Items()
		return true, nil
	})
}

func (s *plannerService) ReconcileWindow(ctx context.Context, date string) (n int, err error) {
	defer observe(ctx, s.observer, "reconcile-window", map[string]any{"date": date}, &err)()

	_, _, err = s.Edit(ctx, date, func(e *scheduler.Engine) bool {
		n = e.ReconcileWindow(e.Window())
		return n > 0
	})
	return n, err
}

func (s *plannerService) Import(ctx context.Context, in *domain.DayPlan) (plan *domain.DayPlan, err error) {
	defer observe(ctx, s.observer, "import-day", map[string]any{"date": in.Date, "items": len(in.Items)}, &err)()

	window, err := s.window(ctx)
	if err != nil {
		return nil, err
	}
	plan, _, err = s.update(ctx, in.Date, func(p *domain.DayPlan) (bool, error) {
		engine := scheduler.NewEngine(window, nil, s.opts...)
		if err := engine.Replace(in.Items); err != nil {
			return false, err
		}
		if conflicts := scheduler.FindOverlaps(engine.Items()); len(conflicts) > 0 {
			c := conflicts[0]
			return false, domain.Invalid("schedule", "items %s and %s overlap inside the day window %s", c.A, c.B, window)
		}
		p.BrainDump = in.BrainDump
		p.TopGoals = domain.CleanGoals(in.TopGoals)
		p.Items = engine.Items()
		return true, nil
	})
	return plan, err
}

func (s *plannerService) admit(ctx context.Context, identity, action string) error {
	res, err := s.gate.Check(ctx, identity, action)
	if err != nil {
		return err
	}
	if !res.Allowed {
		return ratelimit.ErrRateLimited
	}
	return nil
}

func (s *plannerService) GenerateTopGoals(ctx context.Context, date, identity string) (goals []string, err error) {
	defer observe(ctx, s.observer, "generate-top-goals", map[string]any{"date": date}, &err)()

	if s.goals == nil {
		return nil, fmt.Errorf("%w: no model configured", intelligence.ErrGenerationFailed)
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.Day(ctx, date)
	if err != nil {
		return nil, err
	}
	req := intelligence.TopGoalsRequest{
		NorthStar: settings.NorthStar,
		BrainDump: plan.BrainDump,
		Profile:   settings.Profile,
		Hobbies:   settings.Hobbies,
	}
	if err = req.Validate(); err != nil {
		return nil, err
	}
	if err = s.admit(ctx, identity, ActionTopGoals); err != nil {
		return nil, err
	}

	res, err := s.goals.TopGoals(ctx, req)
	if err != nil {
		return nil, err
	}
	if err = s.SetTopGoals(ctx, date, res.TopGoals); err != nil {
		return nil, err
	}
	return res.TopGoals, nil
}

func (s *plannerService) GenerateSchedule(ctx context.Context, date, identity string) (plan *domain.DayPlan, err error) {
	fields := map[string]any{"date": date}
	defer observe(ctx, s.observer, "generate-schedule", fields, &err)()

	if s.schedule == nil {
		return nil, fmt.Errorf("%w: no model configured", intelligence.ErrGenerationFailed)
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.Day(ctx, date)
	if err != nil {
		return nil, err
	}
	req := intelligence.ScheduleRequestFromSettings(settings, current)
	if err = req.Validate(); err != nil {
		return nil, err
	}
	if err = s.admit(ctx, identity, ActionSchedule); err != nil {
		return nil, err
	}

	seq, err := s.plans.BumpGenerationSeq(ctx, date)
	if err != nil {
		return nil, err
	}
	fields["seq"] = seq

	res, err := s.schedule.Schedule(ctx, req)
	if err != nil {
		return nil, err
	}

	plan, _, err = s.update(ctx, date, func(p *domain.DayPlan) (bool, error) {
		if p.GenerationSeq > seq {
			return false, ErrStaleGeneration
		}
		engine := scheduler.NewEngine(settings.DayDuration, nil, s.opts...)
		if err := engine.Replace(res.Schedule); err != nil {
			return false, fmt.Errorf("%w: %w", intelligence.ErrGenerationFailed, err)
		}
		if conflicts := scheduler.FindOverlaps(engine.Items()); len(conflicts) > 0 {
			c := conflicts[0]
			return false, fmt.Errorf("%w: items %s and %s overlap", intelligence.ErrGenerationFailed, c.A, c.B)
		}
		p.Items = engine.Items()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	fields["items"] = len(plan.Items)
	return plan, nil
}

func (s *plannerService) Classify(ctx context.Context, date, id string) (t domain.ActivityType, err error) {
	defer observe(ctx, s.observer, "classify", map[string]any{"date": date, "item": id}, &err)()

	plan, err := s.Day(ctx, date)
	if err != nil {
		return "", err
	}
	var activity string
	found := false
	for _, it := range plan.Items {
		if it.ID == id {
			activity, found = it.Activity, true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("schedule item %s: %w", id, repository.ErrNotFound)
	}

	res, err := s.classify.Classify(ctx, intelligence.ClassifyRequest{Activity: activity, TopGoals: plan.TopGoals})
	if err != nil {
		return "", err
	}
	_, _, err = s.Edit(ctx, date, func(e *scheduler.Engine) bool {
		return e.Recategorize(id, res.Category)
	})
	if err != nil {
		return "", err
	}
	return res.Category, nil
}
