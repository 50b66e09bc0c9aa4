package reservation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/maruizc/arrienda-host/internal/api"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAggregator(t *testing.T, body string) *Aggregator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservas/lugar/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewAggregator(api.NewClient(srv.URL, time.Second, discardLogger()), discardLogger())
}

func TestNightCount(t *testing.T) {
	tests := []struct {
		name      string
		arrival   any
		departure any
		want      int
	}{
		{"three nights", "2024-03-01", "2024-03-04", 3},
		{"one night", "2024-03-01", "2024-03-02", 1},
		{"same day", "2024-03-01", "2024-03-01", 0},
		{"inverted pair", "2024-03-04", "2024-03-01", 0},
		{"missing arrival", nil, "2024-03-04", 0},
		{"missing departure", "2024-03-01", nil, 0},
		{"unparseable arrival", "not a date", "2024-03-04", 0},
		{"rfc3339 timestamps", "2024-03-01T14:00:00Z", "2024-03-04T10:00:00Z", 3},
		{"partial night rounds up", "2024-03-01T22:00:00Z", "2024-03-02T08:00:00Z", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nightCount(tt.arrival, tt.departure); got != tt.want {
				t.Errorf("nightCount(%v, %v) = %d, want %d", tt.arrival, tt.departure, got, tt.want)
			}
		})
	}
}

func TestFirstPresent(t *testing.T) {
	rec := map[string]any{
		"fecha_llegada": "2024-03-01",
		"fechaFin":      "",
		"fecha_salida":  "2024-03-04",
		"usuario":       map[string]any{"nombre_completo": "Ana Quispe"},
		"total":         nil,
		"precioTotal":   "360",
	}

	if v, ok := firstPresent(rec, arrivalFields); !ok || v != "2024-03-01" {
		t.Errorf("arrival chain resolved %v", v)
	}
	// Empty strings don't count as present.
	if v, ok := firstPresent(rec, departureFields); !ok || v != "2024-03-04" {
		t.Errorf("departure chain resolved %v", v)
	}
	if v, ok := firstPresent(rec, guestFields); !ok || v != "Ana Quispe" {
		t.Errorf("guest chain resolved %v", v)
	}
	// Nulls don't count either.
	if v, ok := firstPresent(rec, totalFields); !ok || v != "360" {
		t.Errorf("total chain resolved %v", v)
	}
	if _, ok := firstPresent(rec, []string{"no", "such.field"}); ok {
		t.Error("absent fields must not resolve")
	}
}

func TestListForPlaceBareArray(t *testing.T) {
	agg := newTestAggregator(t, `[
		{
			"id": 11,
			"fechaInicio": "2024-03-01",
			"fechaFin": "2024-03-04",
			"precioTotal": "360",
			"cliente": {"nombrecompleto": "Ana Quispe"},
			"lugar": {"nombre": "Casa Sol", "fotos": [{"url": "https://cdn.example.com/a.jpg"}]}
		}
	]`)

	got, err := agg.ListForPlace(context.Background(), 7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := []Reservation{{
		ID:        11,
		Guest:     "Ana Quispe",
		Arrival:   "2024-03-01",
		Departure: "2024-03-04",
		Nights:    3,
		Total:     "360",
		PlaceName: "Casa Sol",
		Photo:     "https://cdn.example.com/a.jpg",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestListForPlaceWrappedObject(t *testing.T) {
	agg := newTestAggregator(t, `{"reservas":[{"id":1,"fechaInicio":"2024-03-01","fechaFin":"2024-03-02"}]}`)

	got, err := agg.ListForPlace(context.Background(), 7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 || got[0].Nights != 1 {
		t.Errorf("wrapped shape not accepted: %+v", got)
	}
}

func TestListForPlaceUnknownShape(t *testing.T) {
	for _, body := range []string{`{"data":[1,2]}`, `"just a string"`, `42`} {
		agg := newTestAggregator(t, body)
		got, err := agg.ListForPlace(context.Background(), 7)
		if err != nil {
			t.Fatalf("shape mismatch must not error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty result for %s, got %+v", body, got)
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	// A record missing everything still renders, with explicit fallbacks.
	got := normalize(map[string]any{"id": float64(5)})

	want := Reservation{
		ID:        5,
		Guest:     UnknownGuest,
		Arrival:   UnavailableDate,
		Departure: UnavailableDate,
		Nights:    0,
		Total:     "0",
		PlaceName: "",
		Photo:     PlaceholderPhoto,
	}
	if got != want {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestNormalizeLegacyFieldNames(t *testing.T) {
	got := normalize(map[string]any{
		"id":            float64(2),
		"fecha_llegada": "2024-06-10",
		"fecha_salida":  "2024-06-12",
		"usuario":       map[string]any{"nombre_completo": "Luis Mamani"},
		"total":         float64(240),
	})

	if got.Arrival != "2024-06-10" || got.Departure != "2024-06-12" {
		t.Errorf("legacy date fields not resolved: %+v", got)
	}
	if got.Nights != 2 {
		t.Errorf("nights = %d, want 2", got.Nights)
	}
	if got.Guest != "Luis Mamani" {
		t.Errorf("guest = %q", got.Guest)
	}
	if got.Total != "240" {
		t.Errorf("total = %q, want 240", got.Total)
	}
}

func TestRepeatedCallsAreIdentical(t *testing.T) {
	agg := newTestAggregator(t, `[{"id":1,"fechaInicio":"2024-03-01","fechaFin":"2024-03-03","precioTotal":"200"}]`)

	first, err := agg.ListForPlace(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	second, err := agg.ListForPlace(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("unchanged server state must yield identical results")
	}
}
