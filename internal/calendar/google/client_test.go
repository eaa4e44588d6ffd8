package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"teachassist/internal/calendar"
	"teachassist/internal/errs"
	"teachassist/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gcal.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return NewClientWithService(svc, "primary")
}

func TestChanges_JoinsPagesBeforeReturning(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("pageToken") {
		case "":
			require.Equal(t, "tok-1", r.URL.Query().Get("syncToken"))
			require.Equal(t, "true", r.URL.Query().Get("showDeleted"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{
					"id":      "evt-1",
					"summary": "Physics 101 - Forces",
					"status":  "confirmed",
					"start":   map[string]any{"dateTime": "2024-03-01T09:00:00Z"},
					"end":     map[string]any{"dateTime": "2024-03-01T09:50:00Z"},
				}},
				"nextPageToken": "page-2",
			})
		case "page-2":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{
					"id":     "evt-2",
					"status": "cancelled",
				}},
				"nextSyncToken": "tok-2",
			})
		default:
			t.Errorf("unexpected pageToken %q", r.URL.Query().Get("pageToken"))
		}
	}))

	set, err := c.Changes(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, "tok-2", set.NextSyncToken)
	require.Len(t, set.Events, 2)
	require.Equal(t, "evt-1", set.Events[0].ID)
	require.Equal(t, "Physics 101 - Forces", set.Events[0].Summary)
	require.False(t, set.Events[0].Cancelled())
	require.True(t, set.Events[1].Cancelled())

	want := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.True(t, set.Events[0].Start.DateTime.Equal(want))
}

func TestChanges_GoneMapsToSyncTokenExpired(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusGone)
		_, _ = w.Write([]byte(`{"error":{"code":410,"message":"Sync token is no longer valid"}}`))
	}))

	_, err := c.Changes(context.Background(), "stale")
	require.ErrorIs(t, err, errs.ErrSyncTokenExpired)
}

func TestAcquireSyncToken_FollowsPagesToToken(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items":         []map[string]any{{"id": "ignored"}},
				"nextPageToken": "p2",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"nextSyncToken": "fresh"})
	}))

	tok, err := c.AcquireSyncToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", tok)
	require.Equal(t, 2, calls)
}

func TestCreateEvent_SendsReminderOverrides(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "evt-new"})
	}))

	id, err := c.CreateEvent(context.Background(), calendar.EventInput{
		Summary:  "Physics 101 - Forces",
		Start:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 3, 1, 9, 50, 0, 0, time.UTC),
		TimeZone: "UTC",
		ReminderOverrides: []model.ReminderOverride{
			{Method: "email", Minutes: 10},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "evt-new", id)

	rem, ok := body["reminders"].(map[string]any)
	require.True(t, ok, "reminders missing from payload: %v", body)
	require.Equal(t, false, rem["useDefault"])
	overrides, ok := rem["overrides"].([]any)
	require.True(t, ok)
	require.Len(t, overrides, 1)
	entry := overrides[0].(map[string]any)
	require.Equal(t, "email", entry["method"])
	require.Equal(t, float64(10), entry["minutes"])
}

func TestToAPIEvent_OmitsUnsetOptionals(t *testing.T) {
	ev := toAPIEvent(calendar.EventInput{
		Summary:             "x",
		Start:               time.Now(),
		End:                 time.Now(),
		UseDefaultReminders: true,
	})
	require.Nil(t, ev.Reminders)
	require.Empty(t, ev.ColorId)
	require.Empty(t, ev.Visibility)
	require.Nil(t, ev.Attendees)
	require.Nil(t, ev.Recurrence)
}

func TestFromAPIEvent_DefensiveDefaults(t *testing.T) {
	out := fromAPIEvent(&gcal.Event{Id: "e"})
	require.Equal(t, "e", out.ID)
	require.Empty(t, out.Creator)
	require.Empty(t, out.Organizer)
	require.True(t, out.Created.IsZero())
	require.False(t, out.Start.AllDay())
	require.True(t, out.Start.DateTime.IsZero())

	allDay := fromAPIEvent(&gcal.Event{
		Id:    "d",
		Start: &gcal.EventDateTime{Date: "2024-03-01"},
		End:   &gcal.EventDateTime{Date: "2024-03-02"},
	})
	require.True(t, allDay.Start.AllDay())
	require.Equal(t, "2024-03-01", allDay.Start.Date)
}
