// Package models holds the wire types of the arrienda REST API.
// Field names are fixed by the server contract and stay in Spanish;
// everything above this boundary uses the normalized domain types.
package models

// Auth structs

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName string `json:"nombrecompleto"`
	Email    string `json:"email"`
	Phone    string `json:"telefono"`
	Password string `json:"password"`
}

// SessionPayload is the body returned by both login and register.
type SessionPayload struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"nombrecompleto"`
	Token    string `json:"token"`
}

// Place structs

type PhotoWire struct {
	URL string `json:"url"`
}

type PlaceWire struct {
	ID           int         `json:"id,omitempty"`
	Name         string      `json:"nombre"`
	Description  string      `json:"descripcion"`
	NightlyPrice string      `json:"precioNoche"`
	City         string      `json:"ciudad"`
	Guests       int         `json:"cantPersonas"`
	Rooms        int         `json:"cantHabitaciones"`
	Beds         int         `json:"cantCamas"`
	Bathrooms    int         `json:"cantBanios"`
	Wifi         int         `json:"tieneWifi"`
	ParkingSpots int         `json:"cantVehiculosParqueo"`
	CleaningFee  string      `json:"costoLimpieza"`
	Latitude     string      `json:"latitud"`
	Longitude    string      `json:"longitud"`
	Photos       []PhotoWire `json:"fotos,omitempty"`
	HostID       int         `json:"arrendatario_id"`
}
