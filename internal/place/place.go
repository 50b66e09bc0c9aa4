// Package place implements the listing repository: CRUD against the
// remote listings API plus the local/remote photo reconciliation that
// runs after a create or update.
package place

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maruizc/arrienda-host/internal/models"
)

// PhotoKind tags a photo reference as already persisted on the server or
// still living on the local device. The tag is assigned where the
// reference is created, never inferred from the string itself.
type PhotoKind int

const (
	Remote PhotoKind = iota
	Local
)

type PhotoRef struct {
	Kind    PhotoKind
	URL     string // set when Kind == Remote
	FileRef string // set when Kind == Local; opaque picker reference
}

func RemotePhoto(url string) PhotoRef {
	return PhotoRef{Kind: Remote, URL: url}
}

func LocalPhoto(fileRef string) PhotoRef {
	return PhotoRef{Kind: Local, FileRef: fileRef}
}

// Draft carries form state on its way to the repository. Counts stay as
// the text the host typed; they are parsed at submit time with a 0
// fallback. Prices and coordinates are decimal-as-text end to end.
type Draft struct {
	Name         string `validate:"required"`
	Description  string
	NightlyPrice string `validate:"required"`
	City         string `validate:"required"`
	Guests       string
	Rooms        string
	Beds         string
	Bathrooms    string
	Wifi         bool
	ParkingSpots string
	CleaningFee  string
	Latitude     string `validate:"required"`
	Longitude    string `validate:"required"`
	Photos       []PhotoRef
	HostID       int
}

// Listing is a hydrated place. ID 0 means the listing has never been
// persisted remotely.
type Listing struct {
	ID           int
	Name         string
	Description  string
	NightlyPrice string
	City         string
	Guests       int
	Rooms        int
	Beds         int
	Bathrooms    int
	Wifi         bool
	ParkingSpots int
	CleaningFee  string
	Latitude     string
	Longitude    string
	Photos       []PhotoRef
	HostID       int
}

// ValidationError names every required field found empty. It is raised
// before any network call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

var validate = validator.New()

var draftFieldNames = map[string]string{
	"Name":         "name",
	"NightlyPrice": "price",
	"City":         "city",
	"Latitude":     "latitude",
	"Longitude":    "longitude",
}

func (d Draft) check() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	verr := &ValidationError{}
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			name := draftFieldNames[fe.StructField()]
			if name == "" {
				name = strings.ToLower(fe.StructField())
			}
			verr.Missing = append(verr.Missing, name)
		}
	}
	return verr
}

// wire flattens the draft into the server's field set. Counts that fail
// to parse become 0; prices and coordinates go out as typed.
func (d Draft) wire() models.PlaceWire {
	wifi := 0
	if d.Wifi {
		wifi = 1
	}
	return models.PlaceWire{
		Name:         strings.TrimSpace(d.Name),
		Description:  strings.TrimSpace(d.Description),
		NightlyPrice: strings.TrimSpace(d.NightlyPrice),
		City:         strings.TrimSpace(d.City),
		Guests:       atoiOrZero(d.Guests),
		Rooms:        atoiOrZero(d.Rooms),
		Beds:         atoiOrZero(d.Beds),
		Bathrooms:    atoiOrZero(d.Bathrooms),
		Wifi:         wifi,
		ParkingSpots: atoiOrZero(d.ParkingSpots),
		CleaningFee:  strings.TrimSpace(d.CleaningFee),
		Latitude:     strings.TrimSpace(d.Latitude),
		Longitude:    strings.TrimSpace(d.Longitude),
		HostID:       d.HostID,
	}
}

// Draft turns a hydrated listing back into editable form state, so an
// unchanged edit round-trips to an identical listing.
func (l Listing) Draft() Draft {
	photos := make([]PhotoRef, len(l.Photos))
	copy(photos, l.Photos)
	return Draft{
		Name:         l.Name,
		Description:  l.Description,
		NightlyPrice: l.NightlyPrice,
		City:         l.City,
		Guests:       strconv.Itoa(l.Guests),
		Rooms:        strconv.Itoa(l.Rooms),
		Beds:         strconv.Itoa(l.Beds),
		Bathrooms:    strconv.Itoa(l.Bathrooms),
		Wifi:         l.Wifi,
		ParkingSpots: strconv.Itoa(l.ParkingSpots),
		CleaningFee:  l.CleaningFee,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		Photos:       photos,
		HostID:       l.HostID,
	}
}

func fromWire(w models.PlaceWire) Listing {
	photos := make([]PhotoRef, 0, len(w.Photos))
	for _, p := range w.Photos {
		photos = append(photos, RemotePhoto(p.URL))
	}
	return Listing{
		ID:           w.ID,
		Name:         w.Name,
		Description:  w.Description,
		NightlyPrice: w.NightlyPrice,
		City:         w.City,
		Guests:       w.Guests,
		Rooms:        w.Rooms,
		Beds:         w.Beds,
		Bathrooms:    w.Bathrooms,
		Wifi:         w.Wifi == 1,
		ParkingSpots: w.ParkingSpots,
		CleaningFee:  w.CleaningFee,
		Latitude:     w.Latitude,
		Longitude:    w.Longitude,
		Photos:       photos,
		HostID:       w.HostID,
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
