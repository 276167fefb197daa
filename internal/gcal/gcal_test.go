package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/testutil"
)

const eventsPath = "/calendar/v3/calendars/primary/events"

// fakeCalendar is an in-memory stand-in for the Events endpoints.
type fakeCalendar struct {
	mu     sync.Mutex
	events map[string]*calendar.Event
	next   int
	calls  []string
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{events: map[string]*calendar.Event{}}
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !strings.HasPrefix(r.URL.Path, eventsPath) {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, eventsPath), "/")
	f.calls = append(f.calls, r.Method)

	switch {
	case r.Method == http.MethodGet && id == "":
		filter := r.URL.Query().Get("privateExtendedProperty")
		key, value, _ := strings.Cut(filter, "=")
		var items []*calendar.Event
		for _, ev := range f.events {
			if ev.ExtendedProperties != nil && ev.ExtendedProperties.Private[key] == value {
				items = append(items, ev)
			}
		}
		_ = json.NewEncoder(w).Encode(calendar.Events{Items: items})
	case r.Method == http.MethodPost && id == "":
		ev := &calendar.Event{}
		_ = json.NewDecoder(r.Body).Decode(ev)
		f.next++
		ev.Id = fmt.Sprintf("ev%d", f.next)
		f.events[ev.Id] = ev
		_ = json.NewEncoder(w).Encode(ev)
	case r.Method == http.MethodPut:
		ev := &calendar.Event{}
		_ = json.NewDecoder(r.Body).Decode(ev)
		ev.Id = id
		f.events[id] = ev
		_ = json.NewEncoder(w).Encode(ev)
	case r.Method == http.MethodDelete:
		delete(f.events, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func (f *fakeCalendar) byItem(id string) *calendar.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.ExtendedProperties.Private[PropItemID] == id {
			return ev
		}
	}
	return nil
}

func newExporter(t *testing.T, fake *fakeCalendar) *Exporter {
	t.Helper()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	srv, err := calendar.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/calendar/v3/"),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)
	return NewExporter(srv, "")
}

func TestItemToEvent(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	item := testutil.NewItem(9.5, 1.5, testutil.WithID("a"), testutil.WithType(domain.ActivityPhysical))

	ev, err := ItemToEvent(item, "2026-03-01", loc)

	require.NoError(t, err)
	assert.Equal(t, "Focus block", ev.Summary)
	assert.Equal(t, "10", ev.ColorId)
	assert.Equal(t, "2026-03-01T09:30:00+01:00", ev.Start.DateTime)
	assert.Equal(t, "2026-03-01T11:00:00+01:00", ev.End.DateTime)
	assert.Equal(t, "a", ev.ExtendedProperties.Private[PropItemID])
	assert.Equal(t, "2026-03-01", ev.ExtendedProperties.Private[PropDate])
}

func TestItemToEvent_UntitledAndMidnight(t *testing.T) {
	item := testutil.NewItem(23, 1, testutil.WithActivity(""))

	ev, err := ItemToEvent(item, "2026-03-01", time.UTC)

	require.NoError(t, err)
	assert.Equal(t, "Untitled", ev.Summary)
	assert.Equal(t, "2026-03-02T00:00:00Z", ev.End.DateTime)
}

func TestItemToEvent_DSTDays(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	item := testutil.NewItem(9, 2)

	ev, err := ItemToEvent(item, "2026-03-08", loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08T09:00:00-04:00", ev.Start.DateTime)
	assert.Equal(t, "2026-03-08T11:00:00-04:00", ev.End.DateTime)

	ev, err = ItemToEvent(item, "2026-11-01", loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01T09:00:00-05:00", ev.Start.DateTime)
	assert.Equal(t, "2026-11-01T11:00:00-05:00", ev.End.DateTime)
}

func TestItemToEvent_BadDate(t *testing.T) {
	_, err := ItemToEvent(testutil.NewItem(9, 1), "01/03/2026", time.UTC)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExport_CreatesUpdatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCalendar()
	exp := newExporter(t, fake)
	date := "2026-03-01"

	first := []domain.ScheduleItem{
		testutil.NewItem(9, 2, testutil.WithID("a"), testutil.WithActivity("Write")),
		testutil.NewItem(12, 1, testutil.WithID("b"), testutil.WithActivity("Lunch")),
	}
	res, err := exp.Export(ctx, date, first, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ExportResult{Created: 2}, res)

	second := []domain.ScheduleItem{
		testutil.NewItem(10, 2, testutil.WithID("a"), testutil.WithActivity("Write")),
		testutil.NewItem(14, 1, testutil.WithID("c"), testutil.WithActivity("Gym")),
	}
	res, err = exp.Export(ctx, date, second, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ExportResult{Created: 1, Updated: 1, Deleted: 1}, res)

	assert.Nil(t, fake.byItem("b"))
	moved := fake.byItem("a")
	require.NotNil(t, moved)
	assert.Equal(t, "2026-03-01T10:00:00Z", moved.Start.DateTime)

	res, err = exp.Export(ctx, date, second, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ExportResult{Unchanged: 2}, res)
}

func TestExport_LeavesOtherDaysAlone(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCalendar()
	exp := newExporter(t, fake)

	_, err := exp.Export(ctx, "2026-03-01", []domain.ScheduleItem{testutil.NewItem(9, 1, testutil.WithID("a"))}, time.UTC)
	require.NoError(t, err)

	res, err := exp.Export(ctx, "2026-03-02", nil, time.UTC)
	require.NoError(t, err)
	assert.Zero(t, res.Deleted)
	assert.NotNil(t, fake.byItem("a"))
}

func TestTokenFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadToken(dir)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}
	require.NoError(t, SaveToken(dir, tok))

	info, err := os.Stat(filepath.Join(dir, TokenFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadToken(dir)
	require.NoError(t, err)
	assert.Equal(t, "refresh", got.RefreshToken)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(dir)
	assert.ErrorIs(t, err, ErrNoCredentials)

	secret := `{"installed":{"client_id":"cid","client_secret":"shh","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientSecretsFile), []byte(secret), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "cid", cfg.ClientID)
	assert.Equal(t, Scopes, cfg.Scopes)
}

func TestNewService_RequiresToken(t *testing.T) {
	dir := t.TempDir()
	secret := `{"installed":{"client_id":"cid","client_secret":"shh","auth_uri":"https://a.example/auth","token_uri":"https://a.example/token","redirect_uris":["http://localhost"]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientSecretsFile), []byte(secret), 0o600))

	_, err := NewService(context.Background(), dir)

	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAuthorizer_ExchangesCode(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "the-code" {
			http.Error(w, "bad code", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenServer.Close()

	a := &Authorizer{
		Config: &oauth2.Config{
			ClientID: "cid",
			Endpoint: oauth2.Endpoint{AuthURL: "https://auth.example/auth", TokenURL: tokenServer.URL},
		},
		Addr:    "127.0.0.1:0",
		Timeout: 5 * time.Second,
		OnURL: func(authURL string) {
			u, err := url.Parse(authURL)
			if err != nil {
				return
			}
			q := u.Query()
			redirect := q.Get("redirect_uri") + "?code=the-code&state=" + url.QueryEscape(q.Get("state"))
			go func() {
				resp, err := http.Get(redirect)
				if err == nil {
					resp.Body.Close()
				}
			}()
		},
	}

	tok, err := a.Authorize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Equal(t, "rt", tok.RefreshToken)
}

func TestAuthorizer_RejectsWrongState(t *testing.T) {
	a := &Authorizer{
		Config:  &oauth2.Config{Endpoint: oauth2.Endpoint{AuthURL: "https://auth.example/auth", TokenURL: "https://auth.example/token"}},
		Addr:    "127.0.0.1:0",
		Timeout: 5 * time.Second,
		OnURL: func(authURL string) {
			u, _ := url.Parse(authURL)
			go func() {
				resp, err := http.Get(u.Query().Get("redirect_uri") + "?code=x&state=forged")
				if err == nil {
					resp.Body.Close()
				}
			}()
		},
	}

	_, err := a.Authorize(context.Background())

	assert.ErrorContains(t, err, "state mismatch")
}
