package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/places-api/internal/api"
	authhttp "github.com/AlibekovAA/places-api/internal/auth/http"
	authservice "github.com/AlibekovAA/places-api/internal/auth/service"
	"github.com/AlibekovAA/places-api/internal/common/clock"
	"github.com/AlibekovAA/places-api/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/places-api/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/places-api/internal/common/http"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	placehttp "github.com/AlibekovAA/places-api/internal/place/http"
	"github.com/AlibekovAA/places-api/internal/place/repository/repotest"
	placeservice "github.com/AlibekovAA/places-api/internal/place/service"
	"github.com/AlibekovAA/places-api/internal/upload"
	userhttp "github.com/AlibekovAA/places-api/internal/user/http"
	userservice "github.com/AlibekovAA/places-api/internal/user/service"
)

const jwtSecret = "0123456789abcdef0123456789abcdef"

var pngImage = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R', 0, 0, 0, 1}

type testAPI struct {
	handler http.Handler
	db      *repotest.DB
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()

	log := logger.NewWriter(io.Discard, "test", "critical")
	db := repotest.NewDB()

	store, err := upload.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ids := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()
	uploader := upload.NewUploader(store, ids, constants.DefaultMaxImageSize, log)
	validator := commonhttp.NewValidator()
	maxFormSize := int64(constants.DefaultMaxImageSize + constants.DefaultMaxRequestSize)

	issuer := authservice.NewTokenIssuer(jwtSecret, ids, time.Hour, clk)
	authSvc := authservice.NewAuthService(db.Users(), commoncrypto.NewBcryptHasher(bcrypt.MinCost), ids, issuer, uploader, clk, log)
	userSvc := userservice.NewUserService(db.Users(), log)
	placeSvc := placeservice.NewPlaceService(
		db.Places(),
		db.Users(),
		repotest.NewTxManager(db),
		placeservice.NewFixedGeocoder(),
		uploader,
		ids,
		clk,
		log,
	)

	handler := api.NewRouter(api.Deps{
		Auth:  authhttp.NewHandler(authSvc, uploader, validator, maxFormSize, log),
		Users: userhttp.NewHandler(userSvc, log),
		Places: placehttp.NewHandler(placeSvc, uploader, validator, placehttp.Config{
			JWTSecret:      jwtSecret,
			RequestTimeout: 5 * time.Second,
			MaxFormSize:    maxFormSize,
		}, log),
		UploadDir: store.Dir(),
		Log:       log,
	})

	return testAPI{handler: handler, db: db}
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (a testAPI) do(t *testing.T, method, path string, body io.Reader, contentType, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func (a testAPI) signup(t *testing.T, name, email string) (string, string) {
	t.Helper()
	body, ct := multipartBody(t, map[string]string{"name": name, "email": email, "password": "secret1"}, pngImage)
	rec, resp := a.do(t, http.MethodPost, "/users/signup", body, ct, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return resp["userId"].(string), resp["token"].(string)
}

func (a testAPI) createPlace(t *testing.T, token string, extra map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	fields := map[string]string{
		"title":       "Empire State Building",
		"description": "One of the most famous sky scrapers in the world!",
		"address":     "20 W 34th St, New York, NY 10001",
	}
	for k, v := range extra {
		fields[k] = v
	}
	body, ct := multipartBody(t, fields, pngImage)
	return a.do(t, http.MethodPost, "/places", body, ct, token)
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestSignupAndLogin(t *testing.T) {
	a := newTestAPI(t)

	body, ct := multipartBody(t, map[string]string{"name": "Max", "email": " Max@Example.com ", "password": "secret1"}, pngImage)
	rec, resp := a.do(t, http.MethodPost, "/users/signup", body, ct, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "max@example.com", resp["email"])
	assert.NotEmpty(t, resp["userId"])
	assert.NotEmpty(t, resp["token"])

	body, ct = multipartBody(t, map[string]string{"name": "Max", "email": "max@example.com", "password": "secret1"}, pngImage)
	rec, resp = a.do(t, http.MethodPost, "/users/signup", body, ct, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "User exists already, please login instead.", resp["message"])

	rec, resp = a.do(t, http.MethodPost, "/users/login", jsonBody(t, map[string]string{"email": "max@example.com", "password": "wrong-pass"}), "application/json", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials, could not log you in.", resp["message"])

	rec, resp = a.do(t, http.MethodPost, "/users/login", jsonBody(t, map[string]string{"email": "MAX@example.com", "password": "secret1"}), "application/json", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "max@example.com", resp["email"])
	assert.NotEmpty(t, resp["token"])
}

func TestSignup_Validation(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name   string
		fields map[string]string
		image  []byte
	}{
		{name: "blank name", fields: map[string]string{"name": " ", "email": "a@example.com", "password": "secret1"}, image: pngImage},
		{name: "bad email", fields: map[string]string{"name": "A", "email": "nope", "password": "secret1"}, image: pngImage},
		{name: "short password", fields: map[string]string{"name": "A", "email": "a@example.com", "password": "12345"}, image: pngImage},
		{name: "missing image", fields: map[string]string{"name": "A", "email": "a@example.com", "password": "secret1"}},
		{name: "not an image", fields: map[string]string{"name": "A", "email": "a@example.com", "password": "secret1"}, image: []byte("plain text file")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.fields, tt.image)
			rec, _ := a.do(t, http.MethodPost, "/users/signup", body, ct, "")
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		})
	}

	rec, resp := a.do(t, http.MethodGet, "/users", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp["users"])
}

func TestUsersListing(t *testing.T) {
	a := newTestAPI(t)
	userID, _ := a.signup(t, "Max", "max@example.com")

	rec, resp := a.do(t, http.MethodGet, "/users", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	users := resp["users"].([]any)
	require.Len(t, users, 1)
	u := users[0].(map[string]any)
	assert.Equal(t, userID, u["id"])
	assert.Equal(t, "Max", u["name"])
	assert.Equal(t, []any{}, u["places"])
	assert.NotContains(t, u, "password")

	image := u["image"].(string)
	require.True(t, strings.HasPrefix(image, upload.PublicPrefix+"/"), image)
	assert.True(t, strings.HasSuffix(image, ".png"), image)

	imgRec, _ := a.do(t, http.MethodGet, "/"+image, nil, "", "")
	assert.Equal(t, http.StatusOK, imgRec.Code)
	assert.Equal(t, pngImage, imgRec.Body.Bytes())
}

func TestPlaceLifecycle(t *testing.T) {
	a := newTestAPI(t)
	aliceID, aliceToken := a.signup(t, "Alice", "alice@example.com")
	_, bobToken := a.signup(t, "Bob", "bob@example.com")

	rec, _ := a.createPlace(t, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = a.createPlace(t, "not-a-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := a.createPlace(t, aliceToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	place := resp["place"].(map[string]any)
	placeID := place["id"].(string)
	assert.Equal(t, aliceID, place["creator"])
	assert.Equal(t, map[string]any{"lat": constants.DefaultPlaceLatitude, "lng": constants.DefaultPlaceLongitude}, place["location"])

	u, _ := a.db.User(aliceID)
	assert.Equal(t, []string{placeID}, u.PlaceIDs)

	rec, resp = a.do(t, http.MethodGet, "/places/"+placeID, nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Empire State Building", resp["place"].(map[string]any)["title"])

	rec, resp = a.do(t, http.MethodGet, "/places/user/"+aliceID, nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["places"], 1)

	update := map[string]string{"title": "Hijacked", "description": "Bob was here"}
	rec, resp = a.do(t, http.MethodPatch, "/places/"+placeID, jsonBody(t, update), "application/json", bobToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "You are not allowed to edit this place.", resp["message"])

	rec, _ = a.do(t, http.MethodPatch, "/places/"+placeID, jsonBody(t, map[string]string{"title": "x", "description": "abc"}), "application/json", aliceToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	update = map[string]string{"title": "Empire State", "description": "Still very tall"}
	rec, resp = a.do(t, http.MethodPatch, "/places/"+placeID, jsonBody(t, update), "application/json", aliceToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := resp["place"].(map[string]any)
	assert.Equal(t, "Empire State", updated["title"])
	assert.Equal(t, "Still very tall", updated["description"])
	assert.Equal(t, place["address"], updated["address"])

	rec, resp = a.do(t, http.MethodDelete, "/places/"+placeID, nil, "", bobToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "You are not allowed to delete this place.", resp["message"])

	rec, resp = a.do(t, http.MethodDelete, "/places/"+placeID, nil, "", aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted place.", resp["message"])

	rec, _ = a.do(t, http.MethodGet, "/places/"+placeID, nil, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = a.do(t, http.MethodGet, "/places/user/"+aliceID, nil, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Could not find places for the provided user id.", resp["message"])

	u, _ = a.db.User(aliceID)
	assert.Empty(t, u.PlaceIDs)

	imgRec, _ := a.do(t, http.MethodGet, "/"+place["image"].(string), nil, "", "")
	assert.Equal(t, http.StatusNotFound, imgRec.Code)
}

func TestCreatePlace_CreatorMustMatchCaller(t *testing.T) {
	a := newTestAPI(t)
	_, aliceToken := a.signup(t, "Alice", "alice@example.com")
	bobID, _ := a.signup(t, "Bob", "bob@example.com")

	rec, resp := a.createPlace(t, aliceToken, map[string]string{"creator": bobID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "You are not allowed to create a place for another user.", resp["message"])
	assert.Zero(t, a.db.PlaceCount())
}

func TestCreatePlace_Coordinates(t *testing.T) {
	a := newTestAPI(t)
	uid, token := a.signup(t, "Alice", "alice@example.com")

	rec, resp := a.createPlace(t, token, map[string]string{"lat": "48.8584", "lng": "2.2945"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{"lat": 48.8584, "lng": 2.2945}, resp["place"].(map[string]any)["location"])

	rec, _ = a.createPlace(t, token, map[string]string{"lat": "200", "lng": "2"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = a.createPlace(t, token, map[string]string{"lat": "48.8"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	for _, coords := range []map[string]string{
		{"lat": "NaN", "lng": "0"},
		{"lat": "0", "lng": "nan"},
		{"lat": "Inf", "lng": "0"},
		{"lat": "0", "lng": "-Inf"},
	} {
		rec, resp = a.createPlace(t, token, coords)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "%v", coords)
		assert.Contains(t, resp["details"], firstKey(coords), "%v", coords)
	}
	assert.Equal(t, 1, a.db.PlaceCount())

	rec, resp = a.do(t, http.MethodGet, "/places/user/"+uid, nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, resp["places"], 1)
}

// firstKey names the coordinate expected to fail in the rows above.
func firstKey(coords map[string]string) string {
	if coords["lat"] != "0" {
		return "lat"
	}
	return "lng"
}

func TestCreatePlace_Validation(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.signup(t, "Alice", "alice@example.com")

	rec, resp := a.createPlace(t, token, map[string]string{"title": "", "description": "abc"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details := resp["details"].(map[string]any)
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "description")
	assert.Zero(t, a.db.PlaceCount())
}

func TestLookupsOfUnknownIDs(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		path    string
		message string
	}{
		{path: "/places/p1", message: "Could not find place for this id."},
		{path: "/places/11111111-1111-4111-8111-111111111111", message: "Could not find place for this id."},
		{path: "/places/user/u1", message: "Could not find places for the provided user id."},
		{path: "/nowhere", message: "Could not find this route."},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, resp := a.do(t, http.MethodGet, tt.path, nil, "", "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, tt.message, resp["message"])
		})
	}
}

func TestPreflightAndHealth(t *testing.T) {
	a := newTestAPI(t)

	rec, _ := a.do(t, http.MethodOptions, "/places", nil, "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec, _ = a.do(t, http.MethodGet, "/health", nil, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_MalformedBody(t *testing.T) {
	a := newTestAPI(t)

	rec, resp := a.do(t, http.MethodPost, "/users/login", strings.NewReader(`{"email":`), "application/json", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid inputs passed, please check your data.", resp["message"])

	rec, _ = a.do(t, http.MethodPost, "/users/login", jsonBody(t, map[string]string{"email": "nobody@example.com", "password": "secret1"}), "application/json", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
