package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"example.com/topform/internal/auth"
	"example.com/topform/internal/catalog"
	"example.com/topform/internal/domain"
	"example.com/topform/internal/generator"
	"example.com/topform/internal/persistence/memory"
	"example.com/topform/internal/workoutlog"
)

var testNow = time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)

var testAuth = auth.Config{Secret: "test-secret", Issuer: "topform.test", TTL: time.Hour}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func newTestHandler(store domain.Store, opts ...Option) *Handler {
	parser := workoutlog.NewParser(catalog.Default(), workoutlog.WithLogger(quietLogger()))
	service := domain.NewService(store, parser,
		domain.WithClock(func() time.Time { return testNow }),
		domain.WithLogger(quietLogger()),
		domain.WithTokenIssuer(auth.NewIssuer(testAuth)),
		domain.WithPasswordCost(bcrypt.MinCost),
	)
	return NewHandler(service, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r, auth.NewMiddleware(testAuth, nil).Wrap)
	return r
}

func withUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{
		Subject:   "tester",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
}

func ptr[T any](v T) *T { return &v }

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// seedLifter stores a user with one bench press session on testNow's date.
func seedLifter(store *memory.Store) domain.User {
	user := store.AddUser(domain.User{Username: "lifter", Email: "lifter@example.com"})
	workout := store.AddWorkout(domain.Workout{
		Data: ptr(`[{"workoutDetails":{"exerciseName":"Bench press","weights":[60],"reps":[8],"sets":[3]}}]`),
		Date: time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
	})
	rank := store.AddRank(domain.Rank{RankName: "Beginner", Points: 480})
	store.AddLink(domain.ActivityLink{UserID: user.ID, WorkoutID: ptr(workout.ID), RankID: ptr(rank.ID)})
	return user
}

func TestWorkoutsByDateTagsMuscleGroups(t *testing.T) {
	store := memory.NewStore()
	user := seedLifter(store)
	handler := newTestHandler(store)

	req := withUser(httptest.NewRequest(http.MethodGet, "/workouts?date=2025-03-14", nil), user.ID)
	rr := httptest.NewRecorder()
	handler.workoutsByDate(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp []WorkoutDayView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, "2025-03-14", resp[0].WorkoutDate)
	require.Len(t, resp[0].WorkoutDetails, 1)
	require.Equal(t, "Bench press", resp[0].WorkoutDetails[0].ExerciseName)
	require.Equal(t, []string{"chest"}, resp[0].WorkoutDetails[0].MuscleGroups)
}

func TestWorkoutsByDateNotFoundCases(t *testing.T) {
	store := memory.NewStore()
	lifter := seedLifter(store)
	idle := store.AddUser(domain.User{Username: "idle"})
	handler := newTestHandler(store)

	cases := []struct {
		name   string
		userID int64
		date   string
		code   string
	}{
		{name: "no activity at all", userID: idle.ID, date: "2025-03-14", code: "no_activity"},
		{name: "nothing on that day", userID: lifter.ID, date: "2025-03-15", code: "no_workout_for_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := withUser(httptest.NewRequest(http.MethodGet, "/workouts?date="+tc.date, nil), tc.userID)
			rr := httptest.NewRecorder()
			handler.workoutsByDate(rr, req)

			require.Equal(t, http.StatusNotFound, rr.Code)
			require.Equal(t, tc.code, decodeError(t, rr)["type"])
		})
	}
}

func TestWorkoutsByDateValidation(t *testing.T) {
	store := memory.NewStore()
	user := seedLifter(store)
	handler := newTestHandler(store)

	rr := httptest.NewRecorder()
	handler.workoutsByDate(rr, httptest.NewRequest(http.MethodGet, "/workouts?date=2025-03-14", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	handler.workoutsByDate(rr, withUser(httptest.NewRequest(http.MethodGet, "/workouts?date=14/03/2025", nil), user.ID))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid_date", decodeError(t, rr)["type"])
}

func TestWorkoutsRouteRequiresBearerToken(t *testing.T) {
	store := memory.NewStore()
	user := seedLifter(store)
	router := newRouter(newTestHandler(store))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/workouts?date=2025-03-14", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := auth.NewIssuer(testAuth).Issue(user.ID, user.Username)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/workouts?date=2025-03-14", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestRecordWorkoutThenReadBack(t *testing.T) {
	store := memory.NewStore()
	user := store.AddUser(domain.User{Username: "fresh"})
	store.AddLink(domain.ActivityLink{UserID: user.ID})
	handler := newTestHandler(store)

	body := `{"workoutNames":["Squat"],"weightsKg":["100","100"],"reps":["5","5"],"sets":["2"]}`
	rr := httptest.NewRecorder()
	handler.recordWorkout(rr, withUser(httptest.NewRequest(http.MethodPost, "/workouts", strings.NewReader(body)), user.ID))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.workoutsByDate(rr, withUser(httptest.NewRequest(http.MethodGet, "/workouts?date=2025-03-14", nil), user.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp []WorkoutDayView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, []int{100, 100}, resp[0].WorkoutDetails[0].Weights)
	require.Equal(t, []string{"thigh"}, resp[0].WorkoutDetails[0].MuscleGroups)

	ranks, err := store.FindRanks(context.Background())
	require.NoError(t, err)
	require.Len(t, ranks, 1)
	require.Equal(t, 1000, ranks[0].Points)
}

func TestRecordWorkoutRejectsBadNumbers(t *testing.T) {
	store := memory.NewStore()
	user := store.AddUser(domain.User{Username: "fresh"})
	handler := newTestHandler(store)

	cases := map[string]string{
		"not a number":      `{"workoutNames":["Squat"],"weightsKg":["heavy"],"reps":["5"],"sets":["1"]}`,
		"negative weight":   `{"workoutNames":["Squat"],"weightsKg":["-100"],"reps":["10"],"sets":["1"]}`,
		"weight too large":  `{"workoutNames":["Squat"],"weightsKg":["3000000000"],"reps":["1"],"sets":["1"]}`,
		"set count too big": `{"workoutNames":["Squat","Bench press"],"weightsKg":["80","85","40","45","50"],"reps":["5","5","10","8","6"],"sets":["2","9223372036854775807"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.recordWorkout(rr, withUser(httptest.NewRequest(http.MethodPost, "/workouts", strings.NewReader(body)), user.ID))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, "validation_failed", decodeError(t, rr)["type"])
		})
	}

	ranks, err := store.FindRanks(context.Background())
	require.NoError(t, err)
	require.Empty(t, ranks)
}

func TestDietRoundTrip(t *testing.T) {
	store := memory.NewStore()
	user := store.AddUser(domain.User{Username: "eater"})
	handler := newTestHandler(store)

	rr := httptest.NewRecorder()
	handler.dietsByDate(rr, withUser(httptest.NewRequest(http.MethodGet, "/diet?date=2025-03-14", nil), user.ID))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "no_activity", decodeError(t, rr)["type"])

	body := `{"breakfast":[{"name":"Oats","portion":"80g","calories":300}]}`
	rr = httptest.NewRecorder()
	handler.recordDiet(rr, withUser(httptest.NewRequest(http.MethodPost, "/diet", strings.NewReader(body)), user.ID))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.dietsByDate(rr, withUser(httptest.NewRequest(http.MethodGet, "/diet?date=2025-03-14", nil), user.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp []DietDayView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, []domain.FoodItem{{Name: "Oats", Portion: "80g", Calories: 300}}, resp[0].Breakfast)
	require.Nil(t, resp[0].Lunch)

	rr = httptest.NewRecorder()
	handler.dietsByDate(rr, withUser(httptest.NewRequest(http.MethodGet, "/diet?date=2025-03-13", nil), user.ID))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "no_diet_for_date", decodeError(t, rr)["type"])
}

func TestLeaderboard(t *testing.T) {
	store := memory.NewStore()
	seedLifter(store)
	store.AddUser(domain.User{Username: "pictured", ProfilePicture: []byte{0xff, 0xd8}})
	router := newRouter(newTestHandler(store))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Leaderboard []map[string]json.RawMessage `json:"Leaderboard"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Leaderboard, 2)

	lifter := resp.Leaderboard[0]
	require.JSONEq(t, `null`, string(lifter["profilPic"]))
	require.JSONEq(t, `null`, string(lifter["muscleGroup"]))
	require.Contains(t, string(lifter["rank"]), `"rankName":"Beginner"`)
	require.Contains(t, string(lifter["workouts"]), `"date":"2025-03-14"`)

	pictured := resp.Leaderboard[1]
	require.JSONEq(t, `"/9g="`, string(pictured["profilPic"]))
	require.JSONEq(t, `[]`, string(pictured["workouts"]))
}

func TestRecordMuscleGroupsFeedsLeaderboardAndDelete(t *testing.T) {
	store := memory.NewStore()
	user := seedLifter(store)
	handler := newTestHandler(store)
	router := newRouter(handler)

	body := `{"men":1,"muscleGroups":[{"name":"chest","kg":100},{"name":"thigh","kg":140}]}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/muscle-groups", strings.NewReader(body)))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	handler.recordMuscleGroups(rr, withUser(httptest.NewRequest(http.MethodPost, "/muscle-groups", strings.NewReader(body)), user.ID))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var group MuscleGroupView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &group))
	require.Equal(t, "chest", group.Name1)
	require.Equal(t, 140, group.Kg2)
	require.Equal(t, "2025-03-14", *group.Date)

	stored, err := store.FindUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, uint8(1), stored.Men)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var board LeaderboardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	require.Len(t, board.Leaderboard, 1)
	require.NotNil(t, board.Leaderboard[0].MuscleGroup)
	require.Equal(t, "thigh", board.Leaderboard[0].MuscleGroup.Name2)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/"+itoa(user.ID), nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var deleted DeleteUserResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &deleted))
	require.Equal(t, DeletedCounts{Workouts: 1, Ranks: 1, MuscleGroups: 1, Links: 1}, deleted.Deleted)
}

func TestRecordMuscleGroupsValidation(t *testing.T) {
	store := memory.NewStore()
	user := seedLifter(store)
	handler := newTestHandler(store)

	cases := map[string]string{
		"no groups":   `{"men":0,"muscleGroups":[]}`,
		"negative kg": `{"muscleGroups":[{"name":"arm","kg":-1}]}`,
		"five groups": `{"muscleGroups":[{"name":"a","kg":1},{"name":"b","kg":1},{"name":"c","kg":1},{"name":"d","kg":1},{"name":"e","kg":1}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.recordMuscleGroups(rr, withUser(httptest.NewRequest(http.MethodPost, "/muscle-groups", strings.NewReader(body)), user.ID))
			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, "validation_failed", decodeError(t, rr)["type"])
		})
	}

	rr := httptest.NewRecorder()
	handler.recordMuscleGroups(rr, withUser(httptest.NewRequest(http.MethodPost, "/muscle-groups",
		strings.NewReader(`{"muscleGroups":[{"name":"arm","kg":10}]}`)), 999))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "user_not_found", decodeError(t, rr)["type"])
}

func TestDumpTable(t *testing.T) {
	store := memory.NewStore()
	seedLifter(store)
	router := newRouter(newTestHandler(store))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/userActivity", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var links []ActivityLinkView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &links))
	require.Len(t, links, 1)
	require.NotNil(t, links[0].WorkoutID)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/Users", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "password")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/Secrets", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "unknown_table", decodeError(t, rr)["type"])
}

type failingDeleteStore struct {
	*memory.Store
}

func (s failingDeleteStore) DeleteUserCascade(ctx context.Context, id int64) (domain.DeleteSummary, error) {
	return domain.DeleteSummary{}, errors.New("connection reset")
}

func TestDeleteUser(t *testing.T) {
	store := memory.NewStore()
	user := seedLifter(store)
	router := newRouter(newTestHandler(store))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/999", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "user_not_found", decodeError(t, rr)["type"])

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/abc", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/"+itoa(user.ID), nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp DeleteUserResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, DeletedCounts{Workouts: 1, Ranks: 1, Links: 1}, resp.Deleted)

	users, err := store.FindUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestDeleteUserFailureReportsError(t *testing.T) {
	store := memory.NewStore()
	user := seedLifter(store)
	router := newRouter(newTestHandler(failingDeleteStore{Store: store}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/"+itoa(user.ID), nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, "server_error", body["type"])
	require.Contains(t, body["error"], "connection reset")
}

func TestUpdateUser(t *testing.T) {
	store := memory.NewStore()
	user := seedLifter(store)
	store.AddUser(domain.User{Username: "taken"})
	router := newRouter(newTestHandler(store))

	put := func(id int64, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/users/"+itoa(id), strings.NewReader(body)))
		return rr
	}

	rr := put(user.ID, `{"username":"lifter2","email":"new@example.com","name":"Lift Er","men":1}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var view UserView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	require.Equal(t, "lifter2", view.Username)
	require.Equal(t, "new@example.com", view.Email)
	require.Equal(t, uint8(1), view.Men)

	rr = put(999, `{"username":"ghost"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = put(999, `{"username":""}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "user_not_found", decodeError(t, rr)["type"])

	rr = put(user.ID, `{"username":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = put(user.ID, `{"username":"taken"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "username_taken", decodeError(t, rr)["type"])
}

func TestRegisterAndLogin(t *testing.T) {
	store := memory.NewStore()
	router := newRouter(newTestHandler(store))

	post := func(path, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return rr
	}

	rr := post("/auth/register", `{"username":"newbie","email":"n@example.com","password":"s3cret","name":"New","birthDate":"1999-04-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var registered RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.Token)
	require.Equal(t, ptr("1999-04-01"), registered.User.BirthDate)

	claims, err := auth.Parse(registered.Token, testAuth)
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, claims.UserID)

	rr = post("/auth/register", `{"username":"newbie","password":"x","birthDate":"1999-04-01"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "username_taken", decodeError(t, rr)["type"])

	rr = post("/auth/register", `{"username":"other","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "validation_failed", decodeError(t, rr)["type"])

	rr = post("/auth/login", `{"username":"newbie","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var login TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rr = post("/auth/login", `{"username":"newbie","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = post("/auth/login", `{"username":"nobody","password":"wrong"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

type stubGenerator struct {
	resp *generator.Response
	err  error
}

func (s stubGenerator) Generate(ctx context.Context, inputText string) (*generator.Response, error) {
	return s.resp, s.err
}

func (s stubGenerator) Check(ctx context.Context) generator.Status {
	return generator.Status{Status: "online", StatusCode: http.StatusOK, LastChecked: testNow}
}

func TestGenerate(t *testing.T) {
	cases := []struct {
		name       string
		gen        stubGenerator
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "json passes through",
			gen:        stubGenerator{resp: &generator.Response{StatusCode: 200, Body: []byte(`{"plan":"5x5"}`)}},
			body:       `{"inputText":"strength"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"plan":"5x5"}`,
		},
		{
			name:       "text is wrapped",
			gen:        stubGenerator{resp: &generator.Response{StatusCode: 200, Body: []byte("Do squats.")}},
			body:       `{"inputText":"strength"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"generatedText":"Do squats."}`,
		},
		{
			name:       "failure forwarded",
			gen:        stubGenerator{resp: &generator.Response{StatusCode: 502, ContentType: "application/json", Body: []byte(`{"error":"model crashed"}`)}},
			body:       `{"inputText":"strength"}`,
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"model crashed"}`,
		},
		{
			name:       "unreachable",
			gen:        stubGenerator{err: generator.ErrUnavailable},
			body:       `{"inputText":"strength"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "empty prompt",
			body:       `{"inputText":"  "}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestHandler(memory.NewStore(), WithGenerator(tc.gen))
			rr := httptest.NewRecorder()
			handler.generate(rr, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(tc.body)))

			require.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantBody != "" {
				require.JSONEq(t, tc.wantBody, rr.Body.String())
			}
		})
	}
}

func TestGeneratorStatus(t *testing.T) {
	handler := newTestHandler(memory.NewStore(), WithGenerator(stubGenerator{}))
	rr := httptest.NewRecorder()
	handler.generatorStatus(rr, httptest.NewRequest(http.MethodGet, "/generate/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"status":"online"`)

	rr = httptest.NewRecorder()
	newTestHandler(memory.NewStore()).generatorStatus(rr, httptest.NewRequest(http.MethodGet, "/generate/status", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(newTestHandler(memory.NewStore())).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
