package tz

import (
	"log"
	"time"
)

// Resolve loads the named IANA location for displaying event times.
// An empty or unknown name falls back to the host's local timezone.
func Resolve(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("⚠️ Fuseau horaire inconnu %q, utilisation du fuseau local: %v", name, err)
		return time.Local
	}
	return loc
}
