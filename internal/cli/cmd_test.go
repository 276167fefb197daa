package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/gcal"
	"github.com/alexanderramin/timebox/internal/intelligence"
	"github.com/alexanderramin/timebox/internal/keyring"
	"github.com/alexanderramin/timebox/internal/scheduler"
	"github.com/alexanderramin/timebox/internal/service"
	"github.com/alexanderramin/timebox/internal/testutil"
)

const testDay = "2026-03-01"

type fakeExporter struct {
	date  string
	items []domain.ScheduleItem
	err   error
}

func (f *fakeExporter) Export(_ context.Context, date string, items []domain.ScheduleItem, _ *time.Location) (gcal.ExportResult, error) {
	if f.err != nil {
		return gcal.ExportResult{}, f.err
	}
	f.date = date
	f.items = items
	return gcal.ExportResult{Created: len(items)}, nil
}

type fakeSecrets struct {
	values map[string]string
}

func (f *fakeSecrets) Set(name, value string) error {
	f.values[name] = value
	return nil
}

func (f *fakeSecrets) Delete(name string) error {
	if _, ok := f.values[name]; !ok {
		return keyring.ErrNotFound
	}
	delete(f.values, name)
	return nil
}

type fakeScheduler struct {
	items []domain.ScheduleItem
	err   error
	calls int
}

func (f *fakeScheduler) Schedule(context.Context, intelligence.ScheduleRequest) (*intelligence.ScheduleResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &intelligence.ScheduleResult{Schedule: domain.CloneItems(f.items)}, nil
}

type fakeGoaler struct{ goals []string }

func (f fakeGoaler) TopGoals(context.Context, intelligence.TopGoalsRequest) (*intelligence.TopGoalsResult, error) {
	return &intelligence.TopGoalsResult{TopGoals: f.goals}, nil
}

type testEnv struct {
	app       *App
	exporter  *fakeExporter
	secrets   *fakeSecrets
	scheduler *fakeScheduler
	stdin     io.Reader
}

// sequentialIDs makes created item ids predictable: item-1, item-2, ...
func sequentialIDs() scheduler.Option {
	n := 0
	return scheduler.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	settings := service.NewSettingsService(service.SettingsDeps{DB: database})
	_, err := settings.Save(context.Background(), testutil.PlanningSettings())
	require.NoError(t, err)

	sched := &fakeScheduler{}
	planner := service.NewPlannerService(service.PlannerDeps{
		DB:       database,
		Settings: settings,
		Goals:    fakeGoaler{goals: []string{"Draft chapter 3", "Run 5k"}},
		Schedule: sched,
		Options:  []scheduler.Option{sequentialIDs()},
	})

	env := &testEnv{
		exporter:  &fakeExporter{},
		secrets:   &fakeSecrets{values: map[string]string{}},
		scheduler: sched,
	}
	env.app = &App{
		Settings: settings,
		Planner:  planner,
		Calendar: func(context.Context) (CalendarExporter, error) { return env.exporter, nil },
		Secrets:  env.secrets,
		Identity: "test",
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) },
	}
	return env
}

// run executes the root command against testDay and returns combined output.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(e.app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if e.stdin != nil {
		cmd.SetIn(e.stdin)
		e.stdin = nil
	}
	cmd.SetArgs(append([]string{"--date", testDay}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "timebox %s", strings.Join(args, " "))
	return out
}

func (e *testEnv) plan(t *testing.T) *domain.DayPlan {
	t.Helper()
	plan, err := e.app.Planner.Day(context.Background(), testDay)
	require.NoError(t, err)
	return plan
}

func (e *testEnv) item(t *testing.T, id string) domain.ScheduleItem {
	t.Helper()
	for _, it := range e.plan(t).Items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s not found", id)
	return domain.ScheduleItem{}
}

func TestRoot_ShowsDayWhenNotInteractive(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t)
	assert.Contains(t, out, testDay)
	assert.Contains(t, out, "05:00–21:00")
	assert.Contains(t, out, "No top goals yet.")
	assert.Contains(t, out, "No schedule items.")
}

func TestRoot_RejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	cmd := NewRootCmd(env.app)
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--date", "2026-02-30", "schedule"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRoot_DefaultsDateToToday(t *testing.T) {
	env := newTestEnv(t)
	cmd := NewRootCmd(env.app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"dump"})
	require.NoError(t, cmd.Execute())

	_, err := env.run(t, "dump", "set", "today's notes")
	require.NoError(t, err)

	out.Reset()
	cmd = NewRootCmd(env.app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"dump"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "today's notes")
}

func TestSettings_SetAndShow(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "settings", "set", "name", "Robin")
	assert.Contains(t, out, "Set name.")

	out = env.mustRun(t, "settings", "show")
	assert.Contains(t, out, "Robin")
	assert.Contains(t, out, "north_star")

	_, err := env.run(t, "settings", "set", "working_duration", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSettings_UnsetResetsDefault(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "settings", "set", "day_duration", "08:00-18:00")

	out := env.mustRun(t, "settings", "unset", "day_duration")
	assert.Contains(t, out, "Unset day_duration.")

	s, err := env.app.Settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDayWindow(), s.DayDuration)
}

func TestSettings_ShrinkingWindowReconcilesSelectedDay(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "schedule", "add", "6", "--for", "2", "--label", "Early run")
	env.mustRun(t, "schedule", "add", "17", "--for", "2", "--label", "Late read")

	out := env.mustRun(t, "settings", "set", "day_duration", "08:00-18:00")
	assert.Contains(t, out, "Adjusted 2 item(s)")

	early := env.item(t, "item-1")
	assert.Equal(t, 8.0, early.StartTime)
	assert.Equal(t, 2.0, early.Duration)
	late := env.item(t, "item-2")
	assert.Equal(t, 17.0, late.StartTime)
	assert.Equal(t, 1.0, late.Duration)
}

func TestDumpAndGoals(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "dump", "set", "finish", "taxes,", "call", "mum")
	assert.Contains(t, out, "Brain dump saved")
	assert.Equal(t, "finish taxes, call mum", env.plan(t).BrainDump)

	env.stdin = strings.NewReader("line one\nline two\n")
	env.mustRun(t, "dump", "set", "-")
	assert.Equal(t, "line one\nline two", env.plan(t).BrainDump)

	out = env.mustRun(t, "goals", "set", "Ship the draft", "  ", "Lift")
	assert.Contains(t, out, "Ship the draft")
	assert.Equal(t, []string{"Ship the draft", "Lift"}, env.plan(t).TopGoals)

	out = env.mustRun(t, "goals", "generate")
	assert.Contains(t, out, "Draft chapter 3")
	assert.Equal(t, []string{"Draft chapter 3", "Run 5k"}, env.plan(t).TopGoals)
}

func TestSchedule_AddMoveResizeLabelDelete(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "schedule", "add", "9:30", "--for", "90m", "--type", "top-goal", "--label", "Write")
	assert.Contains(t, out, "Write")
	it := env.item(t, "item-1")
	assert.Equal(t, 9.5, it.StartTime)
	assert.Equal(t, 1.5, it.Duration)
	assert.Equal(t, domain.ActivityTopGoal, it.ActivityType)

	env.mustRun(t, "schedule", "move", "item-1", "14")
	it = env.item(t, "item-1")
	assert.Equal(t, 14.0, it.StartTime)
	assert.Equal(t, 1.5, it.Duration)

	env.mustRun(t, "schedule", "resize", "item-1", "1h")
	assert.Equal(t, 1.0, env.item(t, "item-1").Duration)

	env.mustRun(t, "schedule", "label", "item-1", "Edit", "chapter", "3")
	assert.Equal(t, "Edit chapter 3", env.item(t, "item-1").Activity)

	env.mustRun(t, "schedule", "category", "item-1", "leisure")
	assert.Equal(t, domain.ActivityLeisure, env.item(t, "item-1").ActivityType)

	env.mustRun(t, "schedule", "rm", "item-1")
	assert.Empty(t, env.plan(t).Items)
}

func TestSchedule_ResolvesIDPrefix(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "schedule", "add", "9")
	env.mustRun(t, "schedule", "add", "11")

	_, err := env.run(t, "schedule", "rm", "item-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = env.run(t, "schedule", "rm", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schedule item matches")

	env.mustRun(t, "schedule", "rm", "item-2")
	require.Len(t, env.plan(t).Items, 1)
}

func TestSchedule_RejectedEditIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "schedule", "add", "9", "--for", "2", "--label", "Deep work")
	env.mustRun(t, "schedule", "add", "12")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"overlap", []string{"schedule", "move", "item-2", "10"}, "overlaps \"Deep work\""},
		{"outside window", []string{"schedule", "move", "item-2", "20.5"}, "outside the day window"},
		{"off grid", []string{"schedule", "add", "13:15"}, "off the half-hour grid"},
		{"too short", []string{"schedule", "resize", "item-2", "0"}, "at least 0.5 hours"},
		{"unknown item", []string{"schedule", "label", "item-9", "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			if tt.want == "" {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "No change: ")
			assert.Contains(t, out, tt.want)
		})
	}

	plan := env.plan(t)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, 12.0, env.item(t, "item-2").StartTime)
}

func TestSchedule_CategoryAutoClassifies(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "schedule", "add", "7", "--label", "Morning run")

	out := env.mustRun(t, "schedule", "category", "item-1", "--auto")
	assert.Contains(t, out, "Physical")
	assert.Equal(t, domain.ActivityPhysical, env.item(t, "item-1").ActivityType)

	_, err := env.run(t, "schedule", "category", "item-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--auto")
}

func TestSchedule_Generate(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "goals", "set", "Draft chapter 3")
	env.scheduler.items = []domain.ScheduleItem{
		testutil.NewItem(9, 2, testutil.WithID("g1"), testutil.WithActivity("Draft chapter 3"), testutil.WithType(domain.ActivityTopGoal)),
		testutil.NewItem(12, 1, testutil.WithID("g2"), testutil.WithActivity("Lunch walk"), testutil.WithType(domain.ActivityPhysical)),
	}

	out := env.mustRun(t, "schedule", "generate")
	assert.Contains(t, out, "Lunch walk")
	require.Len(t, env.plan(t).Items, 2)

	env.scheduler.err = errors.New("model unavailable")
	_, err := env.run(t, "schedule", "generate")
	require.Error(t, err)
	assert.Len(t, env.plan(t).Items, 2, "failed generation keeps the old schedule")
}

func TestSchedule_Reconcile(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "schedule", "add", "19", "--for", "2")

	out := env.mustRun(t, "schedule", "reconcile")
	assert.Contains(t, out, "Everything already fits")

	_, err := env.app.Settings.Set(context.Background(), domain.SettingDayDuration, "08:00-20:00")
	require.NoError(t, err)

	out = env.mustRun(t, "schedule", "reconcile")
	assert.Contains(t, out, "Adjusted 1 item(s).")
	it := env.item(t, "item-1")
	assert.Equal(t, 19.0, it.StartTime)
	assert.Equal(t, 1.0, it.Duration)
}

func TestSchedule_Export(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "schedule", "add", "9")
	env.mustRun(t, "schedule", "add", "10")

	out := env.mustRun(t, "schedule", "export")
	assert.Contains(t, out, "2 created")
	assert.Equal(t, testDay, env.exporter.date)
	assert.Len(t, env.exporter.items, 2)

	env.exporter.err = gcal.ErrNotAuthorized
	_, err := env.run(t, "schedule", "export")
	assert.ErrorIs(t, err, gcal.ErrNotAuthorized)

	env.app.Calendar = nil
	_, err = env.run(t, "schedule", "export")
	require.Error(t, err)
}

func TestAuth_Key(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "auth", "key", "set", "sk-test")
	assert.Contains(t, out, "stored")
	assert.Equal(t, "sk-test", env.secrets.values[keyring.LLMAPIKey])

	env.stdin = strings.NewReader("  sk-from-stdin  \n")
	env.mustRun(t, "auth", "key", "set")
	assert.Equal(t, "sk-from-stdin", env.secrets.values[keyring.LLMAPIKey])

	env.mustRun(t, "auth", "key", "delete")
	assert.Empty(t, env.secrets.values)

	_, err := env.run(t, "auth", "key", "delete")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestAuth_Google(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "auth", "google")
	require.Error(t, err)

	called := false
	env.app.Authorize = func(_ context.Context, out io.Writer) error {
		called = true
		fmt.Fprintln(out, "open https://accounts.example/consent")
		return nil
	}
	out := env.mustRun(t, "auth", "google")
	assert.True(t, called)
	assert.Contains(t, out, "consent")
	assert.Contains(t, out, "Google Calendar authorized.")
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1", 1, false},
		{"1.5", 1.5, false},
		{"90m", 1.5, false},
		{"1h30m", 1.5, false},
		{"2h", 2, false},
		{"30m", 0.5, false},
		{"h", 0, true},
		{"1h30", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDay_ExportThenImport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "goals", "set", "Draft chapter 3")
	env.mustRun(t, "schedule", "add", "9", "--for", "2", "--label", "Draft")

	exported := env.mustRun(t, "day", "export")
	assert.Contains(t, exported, `"date": "2026-03-01"`)
	assert.Contains(t, exported, `"start": "09:00"`)

	env.mustRun(t, "schedule", "rm", "item-1")
	require.Empty(t, env.plan(t).Items)

	env.stdin = strings.NewReader(exported)
	out := env.mustRun(t, "day", "import", "-")
	assert.Contains(t, out, "Imported 2026-03-01 with 1 timeboxes.")
	it := env.item(t, "item-1")
	assert.Equal(t, "Draft", it.Activity)
	assert.Equal(t, 2.0, it.Duration)
}

func TestDay_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "day", "list")
	assert.Contains(t, out, "No saved days.")

	env.mustRun(t, "schedule", "add", "9", "--for", "2")
	require.NoError(t, env.app.Planner.SetTopGoals(context.Background(), "2026-03-02", []string{"Run"}))

	out = env.mustRun(t, "day", "list")
	first := strings.Index(out, "2026-03-02")
	second := strings.Index(out, "2026-03-01")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Contains(t, out, "2h")

	out = env.mustRun(t, "day", "list", "-n", "1")
	assert.Contains(t, out, "2026-03-02")
	assert.NotContains(t, out, "2026-03-01")
}

func TestDay_ImportReportsEveryProblem(t *testing.T) {
	env := newTestEnv(t)
	env.stdin = strings.NewReader(`{"date": "2026-03-01", "schedule": [
		{"start": "09:15", "duration": 1},
		{"start": "10:00", "duration": 0.25}
	]}`)

	_, err := env.run(t, "day", "import", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule[0].start")
	assert.Contains(t, err.Error(), "schedule[1].duration")
	assert.Empty(t, env.plan(t).Items)
}
