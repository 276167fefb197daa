package intelligence

import (
	"context"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/llm"
)

// GoalService proposes the day's top goals.
type GoalService interface {
	TopGoals(ctx context.Context, req TopGoalsRequest) (*TopGoalsResult, error)
}

// ScheduleService generates a complete day schedule.
type ScheduleService interface {
	Schedule(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error)
}

// ClassifyService assigns an activity to one category of the closed set.
type ClassifyService interface {
	Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error)
}

type goalService struct {
	client llm.LLMClient
}

// NewGoalService creates a GoalService backed by an LLM client.
func NewGoalService(client llm.LLMClient) GoalService {
	return &goalService{client: client}
}

func (s *goalService) TopGoals(ctx context.Context, req TopGoalsRequest) (*TopGoalsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskTopGoals,
		SystemPrompt: plannerSystemPrompt,
		UserPrompt:   topGoalsPrompt(req),
		Schema:       topGoalsSchema,
		SchemaName:   "topDailyGoals",
	})
	if err != nil {
		return nil, generationFailed(err)
	}
	out, err := llm.Decode(resp.Text, validateGoals)
	if err != nil {
		return nil, generationFailed(err)
	}
	return &TopGoalsResult{TopGoals: domain.CleanGoals(out.TopGoals)}, nil
}

type scheduleService struct {
	client llm.LLMClient
}

// NewScheduleService creates a ScheduleService backed by an LLM client.
func NewScheduleService(client llm.LLMClient) ScheduleService {
	return &scheduleService{client: client}
}

func (s *scheduleService) Schedule(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSchedule,
		SystemPrompt: plannerSystemPrompt,
		UserPrompt:   schedulePrompt(req),
		Schema:       scheduleSchema,
		SchemaName:   "dailySchedule",
	})
	if err != nil {
		return nil, generationFailed(err)
	}
	wire, err := llm.Decode[wireSchedule](resp.Text, nil)
	if err != nil {
		return nil, generationFailed(err)
	}
	items, err := wire.toItems()
	if err != nil {
		return nil, generationFailed(err)
	}
	return &ScheduleResult{Schedule: items}, nil
}

type classifyService struct {
	client llm.LLMClient
}

// NewClassifyService creates a ClassifyService backed by an LLM client.
func NewClassifyService(client llm.LLMClient) ClassifyService {
	return &classifyService{client: client}
}

func (s *classifyService) Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskClassify,
		SystemPrompt: plannerSystemPrompt,
		UserPrompt:   classifyPrompt(req),
		Schema:       classifySchema,
		SchemaName:   "activityCategory",
	})
	if err != nil {
		return nil, generationFailed(err)
	}
	out, err := llm.Decode(resp.Text, validateCategory)
	if err != nil {
		return nil, generationFailed(err)
	}
	return &ClassifyResult{Category: domain.ActivityType(out.Category)}, nil
}
