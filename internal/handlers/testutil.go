package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"tangled.org/arabica.social/brewjournal/internal/database"
	"tangled.org/arabica.social/brewjournal/internal/journal"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

// TestFixtures contains sample data for testing
type TestFixtures struct {
	Bean    *models.CreateBeanRequest
	Brew    *models.CreateBrewRequest
	Preset  *models.CreatePresetRequest
	CafeLog *models.CreateCafeLogRequest
}

// NewTestFixtures creates a set of sample requests. The brew is missing its
// bean id, which only exists once the bean is stored.
func NewTestFixtures() *TestFixtures {
	return &TestFixtures{
		Bean: &models.CreateBeanRequest{
			Country:      "Ethiopia",
			Region:       "Guji",
			Farm:         "Hambela",
			Variety:      "Heirloom",
			Process:      "Natural",
			Altitude:     "2100m",
			Roaster:      "Onyx",
			Weight:       250,
			Price:        22.5,
			PurchaseDate: "2025-03-01",
			FlavorNotes:  []string{"Berry", "Floral"},
		},
		Brew: &models.CreateBrewRequest{
			Date:       "2025-03-02",
			RecipeName: "Morning V60",
			Grinder:    "Comandante",
			Clicks:     24,
			Dripper:    "V60",
			FilterType: "Paper",
			WaterTemp:  93,
			Dose:       15,
			PourSteps: models.PourSequence{
				{Time: "0:00", Amount: 50},
				{Time: "0:45", Amount: 200},
			},
			TotalTime:   "3:00",
			TasteReview: "Juicy",
		},
		Preset: &models.CreatePresetRequest{
			RecipeName: "Hoffmann V60",
			Grinder:    "Comandante",
			Clicks:     22,
			Dripper:    "V60",
			Temp:       95,
			PourSteps: models.PourSequence{
				{Time: "0:00", Amount: 60},
				{Time: "0:45", Amount: 240},
			},
		},
		CafeLog: &models.CreateCafeLogRequest{
			Date:        "2025-03-03",
			CafeName:    "Prufrock",
			BeanName:    "Kenya AA",
			Price:       4.2,
			Review:      "Bright",
			FlavorNotes: []string{"Citrus"},
		},
	}
}

// TestContext contains test dependencies
type TestContext struct {
	Handler  *Handler
	Service  *journal.Service
	Fixtures *TestFixtures
}

// testClock ticks one minute per call so records get distinct timestamps.
func testClock() func() time.Time {
	t := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

// NewTestContext creates a handler backed by an in-memory journal.
func NewTestContext(opts ...journal.Option) *TestContext {
	store := database.NewRecordStore(database.NewMemoryDocuments(), database.WithClock(testClock()))
	opts = append([]journal.Option{
		journal.WithClock(func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }),
	}, opts...)
	svc := journal.NewService(store, opts...)
	return &TestContext{
		Handler:  NewHandler(svc),
		Service:  svc,
		Fixtures: NewTestFixtures(),
	}
}

// NewMockTestContext creates a handler over a mock store, for failure paths.
func NewMockTestContext(store *database.MockStore) *TestContext {
	svc := journal.NewService(store)
	return &TestContext{
		Handler:  NewHandler(svc),
		Service:  svc,
		Fixtures: NewTestFixtures(),
	}
}

// NewJSONRequest creates a request with body encoded as JSON. A string body is
// sent as-is.
func NewJSONRequest(method, path string, body interface{}) *http.Request {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// Serve runs h against req and returns the recorded response. A non-empty id
// is set as the {id} path value.
func Serve(h http.HandlerFunc, req *http.Request, id string) *httptest.ResponseRecorder {
	if id != "" {
		req.SetPathValue("id", id)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// AssertResponseCode checks if the response has the expected status code
func AssertResponseCode(t interface {
	Errorf(format string, args ...interface{})
}, rec *httptest.ResponseRecorder, expected int) {
	if rec.Code != expected {
		t.Errorf("Expected status code %d, got %d. Body: %s", expected, rec.Code, rec.Body.String())
	}
}
