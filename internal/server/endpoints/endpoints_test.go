package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/home"
	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/session"
	"github.com/jackzampolin/timetable/internal/svcctx"
	"github.com/jackzampolin/timetable/internal/testutil"
	"github.com/jackzampolin/timetable/internal/types"
)

// testEnv serves every endpoint with fresh services.
type testEnv struct {
	handler  http.Handler
	services *svcctx.Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sessions, err := session.NewStore(session.Config{})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}

	services := &svcctx.Services{
		Sessions: sessions,
		Profiles: schedule.NewRegistry(schedule.DefaultSettings()),
		Logger:   testutil.Logger(),
		Home:     h,
	}

	reg := api.NewRegistry()
	for _, ep := range All(Config{}) {
		if err := reg.Register(ep); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	mux := http.NewServeMux()
	reg.RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc { return next })

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), services)))
	})
	return &testEnv{handler: handler, services: services}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func inlineRequest(batch string, enrolled ...string) TimetableRequest {
	return TimetableRequest{
		Campus:               "62",
		Year:                 "1",
		Batch:                batch,
		EnrolledSubjectCodes: enrolled,
		TimeTable:            json.RawMessage(testutil.Timetable62),
		Subjects:             json.RawMessage(testutil.Subjects62),
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode[HealthResponse](t, rec); got.Status != "ok" {
		t.Errorf("Status = %q, want ok", got.Status)
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.services.Sessions.Create("62", "1", nil, nil)

	rec := env.do(t, "GET", "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[StatusResponse](t, rec)
	if got.Server != "running" {
		t.Errorf("Server = %q, want running", got.Server)
	}
	if got.Profiles != 6 {
		t.Errorf("Profiles = %d, want 6", got.Profiles)
	}
	if got.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", got.Sessions)
	}
}

func TestListProfilesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/api/profiles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	got := decode[ProfilesResponse](t, rec)
	byKey := map[string]ProfileResponse{}
	for _, p := range got.Profiles {
		byKey[p.Key] = p
	}
	if len(byKey) != 6 {
		t.Fatalf("profiles = %d, want 6", len(byKey))
	}
	if got := strings.Join(byKey["62/1"].DefaultBatches, ","); got != "A,B,C,D,G,H" {
		t.Errorf("62/1 defaults = %q", got)
	}
	if got := strings.Join(byKey["128/upper"].Aliases, ","); got != "ALL,MINOR" {
		t.Errorf("128/upper aliases = %q", got)
	}
	if byKey["bca/1"].DefaultBatches == nil {
		t.Error("bca/1 defaults should be an empty list, not null")
	}
	if byKey["62/1"].Inclusion != "elective" {
		t.Errorf("62/1 inclusion = %q, want elective", byKey["62/1"].Inclusion)
	}
}

func TestTimetableEndpoint(t *testing.T) {
	t.Run("inline timetable with elective enrollment", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "POST", "/api/timetable", inlineRequest("A6", "HS434"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		got := decode[types.PersonalizedTimetable](t, rec)
		want := types.PersonalizedTimetable{
			"Monday": {
				"10:00-12:00": {SubjectName: "Physics Lab", Type: types.SessionPractical, Location: "LAB1"},
				"14:00-15:00": {SubjectName: "Econometrics", Type: types.SessionLecture, Location: "G8"},
			},
			"Tuesday": {
				"11:00-12:00": {SubjectName: "Mathematics", Type: types.SessionTutorial, Location: "TS1"},
			},
		}
		assertTimetable(t, got, want)
	})

	t.Run("elective skipped without enrollment", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "POST", "/api/timetable", inlineRequest("A6"))
		got := decode[types.PersonalizedTimetable](t, rec)
		if _, ok := got["Monday"]["14:00-15:00"]; ok {
			t.Error("elective should not be placed without enrollment")
		}
		if len(got["Monday"]) != 1 {
			t.Errorf("Monday = %v, want only the practical", got["Monday"])
		}
	})

	t.Run("all caps names are title cased", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "POST", "/api/timetable", inlineRequest("A2"))
		got := decode[types.PersonalizedTimetable](t, rec)
		class, ok := got["Monday"]["09:00-10:00"]
		if !ok {
			t.Fatalf("Monday = %v, want 09:00-10:00", got["Monday"])
		}
		if class.SubjectName != "Software Development Fundamentals" {
			t.Errorf("SubjectName = %q", class.SubjectName)
		}
	})

	t.Run("uploaded session", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "POST", "/api/sessions", CreateSessionRequest{
			Campus:    "62",
			Year:      "1",
			TimeTable: json.RawMessage(testutil.Timetable62),
			Subjects:  json.RawMessage(testutil.Subjects62),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
		}
		created := decode[CreateSessionResponse](t, rec)

		rec = env.do(t, "POST", "/api/timetable", TimetableRequest{
			SessionID:            created.SessionID,
			Batch:                "A6",
			EnrolledSubjectCodes: []string{"HS434"},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		got := decode[types.PersonalizedTimetable](t, rec)
		if got.Classes() != 3 {
			t.Errorf("Classes() = %d, want 3", got.Classes())
		}
	})

	t.Run("campus data file", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.WriteFile(t, env.services.Home.DataPath(), "62.json", testutil.Sections62)

		rec := env.do(t, "POST", "/api/timetable", TimetableRequest{Campus: "62", Year: "1", Batch: "A6"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		got := decode[types.PersonalizedTimetable](t, rec)
		if got.Classes() != 2 {
			t.Errorf("Classes() = %d, want 2", got.Classes())
		}
	})

	t.Run("malformed entries degrade instead of failing", func(t *testing.T) {
		env := newTestEnv(t)
		req := inlineRequest("A6")
		req.TimeTable = json.RawMessage(`{"MON": {"morning": ["LA6(X1)-R1/P"], "9-10": [null, 3, ""]}, "TUE": "closed"}`)
		rec := env.do(t, "POST", "/api/timetable", req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		got := decode[types.PersonalizedTimetable](t, rec)
		if _, ok := got["Monday"]["00:00-00:00"]; !ok {
			t.Errorf("Monday = %v, want degraded 00:00-00:00 slot", got["Monday"])
		}
	})

	errorCases := []struct {
		name string
		body any
		want int
	}{
		{"missing batch", TimetableRequest{Campus: "62", Year: "1"}, http.StatusBadRequest},
		{"unknown campus", TimetableRequest{Campus: "99", Year: "1", Batch: "A1", TimeTable: json.RawMessage(`{}`)}, http.StatusBadRequest},
		{"unknown session", TimetableRequest{SessionID: "nope", Batch: "A1"}, http.StatusNotFound},
		{"no source", TimetableRequest{Campus: "62", Year: "1", Batch: "A1"}, http.StatusBadRequest},
		{"malformed json", `{"batch": `, http.StatusBadRequest},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, "POST", "/api/timetable", tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
			if decode[ErrorResponse](t, rec).Error == "" {
				t.Error("error response should carry a message")
			}
		})
	}
}

func TestCompareEndpoints(t *testing.T) {
	t.Run("compare two students", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "POST", "/api/compare", CompareRequest{
			First:  inlineRequest("A6", "HS434"),
			Second: inlineRequest("A2"),
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		got := decode[CompareResponse](t, rec)

		if got.Timetable1.Classes() != 3 || got.Timetable2.Classes() != 1 {
			t.Errorf("classes = %d/%d, want 3/1", got.Timetable1.Classes(), got.Timetable2.Classes())
		}
		wantMonday := "08:00-09:00,12:00-13:00,13:00-14:00,15:00-16:00,16:00-17:00"
		if free := strings.Join(got.Comparison.CommonFreeSlots["Monday"], ","); free != wantMonday {
			t.Errorf("Monday free = %q, want %q", free, wantMonday)
		}
		if len(got.Comparison.CommonFreeSlots["Tuesday"]) != 8 {
			t.Errorf("Tuesday free = %v, want 8 slots", got.Comparison.CommonFreeSlots["Tuesday"])
		}
		if len(got.Comparison.ClassesTogether) != 0 {
			t.Errorf("ClassesTogether = %v, want none", got.Comparison.ClassesTogether)
		}
	})

	t.Run("second request error is labelled", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "POST", "/api/compare", CompareRequest{
			First:  inlineRequest("A6"),
			Second: TimetableRequest{Campus: "62", Year: "1"},
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if msg := decode[ErrorResponse](t, rec).Error; !strings.HasPrefix(msg, "second: ") {
			t.Errorf("error = %q, want second: prefix", msg)
		}
	})

	t.Run("compare assembled timetables", func(t *testing.T) {
		env := newTestEnv(t)
		shared := types.ClassInfo{SubjectName: "Maths", Type: types.SessionLecture, Location: "G1"}
		rec := env.do(t, "POST", "/api/compare/timetables", CompareTimetablesRequest{
			Timetable1: types.PersonalizedTimetable{"Friday": {"09:00-10:00": shared}},
			Timetable2: types.PersonalizedTimetable{"Friday": {"09:00-10:00": shared}},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		got := decode[types.Comparison](t, rec)
		if got.ClassesTogether["Friday"]["09:00-10:00"] != shared {
			t.Errorf("ClassesTogether = %v", got.ClassesTogether)
		}
		if len(got.CommonFreeSlots["Friday"]) != 8 {
			t.Errorf("Friday free = %v, want 8 slots", got.CommonFreeSlots["Friday"])
		}
	})
}

func TestSessionEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/sessions", CreateSessionRequest{
		Campus:    "62",
		Year:      "1",
		TimeTable: json.RawMessage(testutil.Timetable62),
		Subjects:  json.RawMessage(`[{"Code": "CI111", "Full Code": "15B11CI111", "Subject": "SDF"}, {"Subject": "no code"}]`),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	created := decode[CreateSessionResponse](t, rec)
	if created.SessionID == "" {
		t.Fatal("SessionID is empty")
	}
	if created.Entries != 5 || created.Subjects != 1 {
		t.Errorf("entries/subjects = %d/%d, want 5/1", created.Entries, created.Subjects)
	}
	if created.Report.Dropped != 1 {
		t.Errorf("Report.Dropped = %d, want 1", created.Report.Dropped)
	}

	t.Run("get", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/sessions/"+created.SessionID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		got := decode[SessionResponse](t, rec)
		if got.Campus != "62" || got.Days != 2 || got.Entries != 5 {
			t.Errorf("session = %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(t, "DELETE", "/api/sessions/"+created.SessionID, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		rec = env.do(t, "GET", "/api/sessions/"+created.SessionID, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status after delete = %d, want 404", rec.Code)
		}
		rec = env.do(t, "DELETE", "/api/sessions/"+created.SessionID, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("second delete = %d, want 404", rec.Code)
		}
	})

	t.Run("unknown campus rejected", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/sessions", CreateSessionRequest{Campus: "mars", Year: "1", TimeTable: json.RawMessage(`{}`)})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestICSEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("calendar", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/timetable/ics", ICSRequest{
			TimetableRequest: inlineRequest("A6", "HS434"),
			Start:            "2026-01-05",
			End:              "2026-04-30",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
			t.Errorf("Content-Type = %q", ct)
		}
		if rec.Header().Get("X-Timetable-Events") != "3" {
			t.Errorf("X-Timetable-Events = %q, want 3", rec.Header().Get("X-Timetable-Events"))
		}
		body := rec.Body.String()
		if !strings.Contains(body, "BEGIN:VCALENDAR") || strings.Count(body, "BEGIN:VEVENT") != 3 {
			t.Errorf("unexpected calendar:\n%s", body)
		}
	})

	t.Run("bad dates", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/timetable/ics", ICSRequest{
			TimetableRequest: inlineRequest("A6"),
			Start:            "05/01/2026",
			End:              "2026-04-30",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/timetable/ics", ICSRequest{
			TimetableRequest: inlineRequest("A6"),
			Start:            "2026-04-30",
			End:              "2026-01-05",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func assertTimetable(t *testing.T, got, want types.PersonalizedTimetable) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("days = %v, want %v", got, want)
	}
	for day, slots := range want {
		if len(got[day]) != len(slots) {
			t.Errorf("%s = %v, want %v", day, got[day], slots)
			continue
		}
		for key, info := range slots {
			if got[day][key] != info {
				t.Errorf("%s %s = %+v, want %+v", day, key, got[day][key], info)
			}
		}
	}
}
