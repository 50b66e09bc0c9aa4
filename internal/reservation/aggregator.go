// Package reservation fetches guest bookings for a listing and
// normalizes the server's inconsistent record shapes into a
// display-ready view model.
package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/maruizc/arrienda-host/internal/api"
)

// Fallbacks rendered when a field is absent under every known name.
const (
	UnavailableDate  = "unavailable"
	UnknownGuest     = "unknown"
	PlaceholderPhoto = "https://via.placeholder.com/300x200?text=No+Image"
)

// Reservation is the normalized view of one booking. It is recomputed on
// every fetch and never persisted.
type Reservation struct {
	ID        int
	Guest     string
	Arrival   string
	Departure string
	Nights    int
	Total     string
	PlaceName string
	Photo     string
}

// The server has gone through several schema revisions, so each logical
// attribute resolves from an ordered list of candidate field names.
// First present, non-empty value wins. Dotted names descend into nested
// objects.
var (
	arrivalFields   = []string{"fechaInicio", "fecha_llegada", "created_at"}
	departureFields = []string{"fechaFin", "fecha_salida", "updated_at"}
	guestFields     = []string{"usuario.nombre_completo", "cliente.nombrecompleto"}
	totalFields     = []string{"total", "precioTotal"}
	placeNameFields = []string{"lugar.nombre"}
)

type Aggregator struct {
	api    *api.Client
	logger *slog.Logger
}

func NewAggregator(client *api.Client, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		api:    client,
		logger: logger.With("component", "reservation"),
	}
}

// ListForPlace fetches and normalizes the bookings of one listing. The
// backend answers either with a bare array or with an object wrapping it
// under "reservas"; both are accepted. Any other 2xx shape degrades to an
// empty result with a warning, never an error.
func (a *Aggregator) ListForPlace(ctx context.Context, placeID int) ([]Reservation, error) {
	body, err := a.api.Get(ctx, fmt.Sprintf("/reservas/lugar/%d", placeID))
	if err != nil {
		return nil, err
	}

	records, ok := extractRecords(body)
	if !ok {
		a.logger.Warn("reservations payload has an unexpected shape, treating as empty", "place_id", placeID)
		return []Reservation{}, nil
	}

	out := make([]Reservation, 0, len(records))
	for _, rec := range records {
		out = append(out, normalize(rec))
	}
	return out, nil
}

func extractRecords(body []byte) ([]map[string]any, bool) {
	var bare []map[string]any
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, true
	}

	var wrapped struct {
		Reservations []map[string]any `json:"reservas"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Reservations != nil {
		return wrapped.Reservations, true
	}

	return nil, false
}

func normalize(rec map[string]any) Reservation {
	arrivalRaw, _ := firstPresent(rec, arrivalFields)
	departureRaw, _ := firstPresent(rec, departureFields)

	guest := UnknownGuest
	if v, ok := firstPresent(rec, guestFields); ok {
		guest = asString(v)
	}

	total := "0"
	if v, ok := firstPresent(rec, totalFields); ok {
		total = asString(v)
	}

	placeName := ""
	if v, ok := firstPresent(rec, placeNameFields); ok {
		placeName = asString(v)
	}

	return Reservation{
		ID:        asInt(rec["id"]),
		Guest:     guest,
		Arrival:   displayDate(arrivalRaw),
		Departure: displayDate(departureRaw),
		Nights:    nightCount(arrivalRaw, departureRaw),
		Total:     total,
		PlaceName: placeName,
		Photo:     firstPhoto(rec),
	}
}

// firstPresent resolves the first candidate name holding a non-nil,
// non-empty value. Names containing dots walk nested objects.
func firstPresent(rec map[string]any, names []string) (any, bool) {
	for _, name := range names {
		v, ok := lookup(rec, name)
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func lookup(rec map[string]any, name string) (any, bool) {
	parts := strings.Split(name, ".")
	var cur any = rec
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// firstPhoto picks the listing's primary photo url out of lugar.fotos.
func firstPhoto(rec map[string]any) string {
	fotos, ok := lookup(rec, "lugar.fotos")
	if !ok {
		return PlaceholderPhoto
	}
	list, ok := fotos.([]any)
	if !ok || len(list) == 0 {
		return PlaceholderPhoto
	}
	entry, ok := list[0].(map[string]any)
	if !ok {
		return PlaceholderPhoto
	}
	if url := asString(entry["url"]); url != "" {
		return url
	}
	return PlaceholderPhoto
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
}

func parseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func displayDate(v any) string {
	t, ok := parseDate(v)
	if !ok {
		return UnavailableDate
	}
	return t.Format("2006-01-02")
}

// nightCount is the whole-night span between arrival and departure,
// clamped to zero. Inverted or unparseable date pairs count as zero
// nights instead of failing the record.
func nightCount(arrival, departure any) int {
	from, ok := parseDate(arrival)
	if !ok {
		return 0
	}
	to, ok := parseDate(departure)
	if !ok {
		return 0
	}
	nights := int(math.Ceil(to.Sub(from).Hours() / 24))
	if nights < 0 {
		return 0
	}
	return nights
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(t)
		return n
	default:
		return 0
	}
}
