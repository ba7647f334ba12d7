package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bossppp/cozy-hotel-bookings/cache"
	"github.com/Bossppp/cozy-hotel-bookings/config"
	"github.com/Bossppp/cozy-hotel-bookings/controllers"
	"github.com/Bossppp/cozy-hotel-bookings/models"
	"github.com/Bossppp/cozy-hotel-bookings/services"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// a second pooled connection would see its own empty in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := cache.NewMemoryStore()
	authSvc := services.NewAuthService(db, time.Hour)
	hotelSvc := services.NewHotelService(db, store)
	bookingSvc := services.NewBookingService(db, store)
	exportSvc := services.NewExportService(bookingSvc)

	router := SetupRouter(
		controllers.NewAuthController(authSvc),
		controllers.NewHotelController(hotelSvc),
		controllers.NewBookingController(bookingSvc, exportSvc),
		authSvc,
	)
	return router, db
}

func seedAdmin(t *testing.T, db *gorm.DB) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := models.User{
		Name: "Admin User", Tel: "099-888-7777",
		Email: "admin@example.com", Password: string(hash), Role: models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func seedHotel(t *testing.T, db *gorm.DB) models.Hotel {
	t.Helper()
	hotel := models.Hotel{
		Name: "Grand Bangkok Hotel",
		Address: models.Address{
			BuildingNumber: "123", Street: "Sukhumvit Road",
			District: "Watthana", Province: "Bangkok", PostalCode: "10110",
		},
		Tel: "02-123-4567",
	}
	if err := db.Create(&hotel).Error; err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	return hotel
}

type envelope struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if ct := w.Header().Get("Content-Type"); w.Body.Len() > 0 && strings.Contains(ct, "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope from %s %s (%d): %v", method, path, w.Code, err)
		}
	}
	return w, env
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, email string) string {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "tel": "080-123-4567", "email": email, "password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("register response missing token: %s", w.Body.String())
	}
	return data.Token
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	router, db := newTestServer(t)
	seedAdmin(t, db)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "admin@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if env.Success || env.Error == "" {
		t.Errorf("error envelope = %+v", env)
	}

	var sessions int64
	db.Model(&models.Session{}).Count(&sessions)
	if sessions != 0 {
		t.Errorf("failed login persisted %d sessions", sessions)
	}
}

func TestAuthMeFlow(t *testing.T) {
	router, _ := newTestServer(t)
	token := registerAndLogin(t, router, "John Doe", "john@example.com")

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status %d", w.Code)
	}
	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "john@example.com" || user.Role != models.RoleUser {
		t.Errorf("me = %+v", user)
	}

	// password hash never leaks through the envelope
	if bytes.Contains(env.Data, []byte("password")) {
		t.Errorf("me response leaks password field: %s", env.Data)
	}

	if w, _ := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me: status %d, want 401", w.Code)
	}

	// logout revokes the token
	if w, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: status %d", w.Code)
	}
	if w, _ := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: status %d, want 401", w.Code)
	}
}

func TestHotelAdminGuards(t *testing.T) {
	router, db := newTestServer(t)
	seedAdmin(t, db)
	userToken := registerAndLogin(t, router, "John Doe", "john@example.com")

	payload := gin.H{
		"name": "Silom Suites",
		"address": gin.H{
			"building_number": "456", "street": "Silom Road",
			"district": "Bang Rak", "province": "Bangkok", "postalcode": "10500",
		},
		"tel": "02-987-6543",
	}

	// anonymous and plain users cannot create hotels
	if w, _ := doJSON(t, router, http.MethodPost, "/api/v1/hotels", "", payload); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create: status %d, want 401", w.Code)
	}
	if w, _ := doJSON(t, router, http.MethodPost, "/api/v1/hotels", userToken, payload); w.Code != http.StatusForbidden {
		t.Errorf("user create: status %d, want 403", w.Code)
	}

	_, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "admin@example.com", "password": "admin123",
	})
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &login); err != nil || login.Token == "" {
		t.Fatalf("admin login failed: %+v", env)
	}

	if w, _ := doJSON(t, router, http.MethodPost, "/api/v1/hotels", login.Token, payload); w.Code != http.StatusCreated {
		t.Errorf("admin create: status %d, want 201", w.Code)
	}

	// invalid postal code rejected with a message
	bad := gin.H{
		"name": "Broken Hotel",
		"address": gin.H{
			"building_number": "1", "street": "x",
			"district": "y", "province": "z", "postalcode": "1234",
		},
		"tel": "02-987-6543",
	}
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/hotels", login.Token, bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad postal create: status %d, want 400", w.Code)
	}
	if env.Error != "postal code must be exactly 5 characters" {
		t.Errorf("error = %q", env.Error)
	}

	// public listing carries the count field
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/hotels", "", nil)
	if w.Code != http.StatusOK || env.Count != 1 {
		t.Errorf("list: status %d count %d", w.Code, env.Count)
	}
}

func TestBookingEndToEnd(t *testing.T) {
	router, db := newTestServer(t)
	hotel := seedHotel(t, db)
	token := registerAndLogin(t, router, "John Doe", "john@example.com")

	start := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	payload := gin.H{
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.AddDate(0, 0, 2).Format(time.RFC3339),
		"hotel":      hotel.ID,
	}

	// unauthenticated booking attempts are rejected outright
	if w, _ := doJSON(t, router, http.MethodPost, "/api/v1/bookings", "", payload); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create: status %d, want 401", w.Code)
	}

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/bookings", token, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID     uint `json:"id"`
		Nights int  `json:"nights"`
		Hotel  uint `json:"hotel"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Nights != 2 || created.Hotel != hotel.ID {
		t.Errorf("create response = %+v", created)
	}

	// the list shows the booking exactly once, hotel expanded
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/bookings", token, nil)
	if w.Code != http.StatusOK || env.Count != 1 {
		t.Fatalf("list: status %d count %d", w.Code, env.Count)
	}
	var listed []struct {
		ID    uint `json:"id"`
		Hotel struct {
			Name string `json:"name"`
		} `json:"hotel"`
	}
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed[0].Hotel.Name != hotel.Name {
		t.Errorf("listed hotel = %+v", listed[0].Hotel)
	}

	// a four-night stay is rejected before any write
	long := gin.H{
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.AddDate(0, 0, 4).Format(time.RFC3339),
		"hotel":      hotel.ID,
	}
	w, env = doJSON(t, router, http.MethodPost, "/api/v1/bookings", token, long)
	if w.Code != http.StatusBadRequest {
		t.Errorf("long stay: status %d, want 400", w.Code)
	}
	if env.Error != "maximum booking duration is 3 nights" {
		t.Errorf("long stay error = %q", env.Error)
	}

	// cancel, then the list is empty and a repeat cancel is a 404
	path := fmt.Sprintf("/api/v1/bookings/%d", created.ID)
	if w, _ := doJSON(t, router, http.MethodDelete, path, token, nil); w.Code != http.StatusOK {
		t.Fatalf("cancel: status %d", w.Code)
	}
	if _, env := doJSON(t, router, http.MethodGet, "/api/v1/bookings", token, nil); env.Count != 0 {
		t.Errorf("list after cancel count = %d", env.Count)
	}
	if w, _ := doJSON(t, router, http.MethodDelete, path, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("repeat cancel: status %d, want 404", w.Code)
	}
}

func TestBookingExportRequiresAdmin(t *testing.T) {
	router, db := newTestServer(t)
	seedAdmin(t, db)
	userToken := registerAndLogin(t, router, "John Doe", "john@example.com")

	if w, _ := doJSON(t, router, http.MethodGet, "/api/v1/bookings/export", userToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("user export: status %d, want 403", w.Code)
	}

	_, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "admin@example.com", "password": "admin123",
	})
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &login); err != nil || login.Token == "" {
		t.Fatalf("admin login failed")
	}

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/bookings/export", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin export: status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("export content type = %q", ct)
	}
}

func TestHealthAndNotFound(t *testing.T) {
	router, _ := newTestServer(t)

	w, _ := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health: status %d", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route: status %d", w.Code)
	}
}
