package naming

import (
	"fmt"
	"log/slog"
)

// UniqueIdentifier sanitizes desired and resolves it against current without
// mutating it. If the sanitized name is already in current, or is a reserved
// word, numeric suffixes "_2", "_3", … are tried until an unused name is
// found. The caller is responsible for inserting the returned name into
// current before requesting the next one.
func UniqueIdentifier(desired string, current map[string]struct{}) string {
	name := Sanitize(desired)
	_, taken := current[name]
	if !taken && !IsReserved(name) {
		return name
	}
	for i := 2; ; i++ {
		suffixed := fmt.Sprintf("%s_%d", name, i)
		if _, ok := current[suffixed]; !ok {
			return suffixed
		}
	}
}

// Reservations tracks identifiers handed out during a single generation run.
// Insertion is strictly sequential; suffix numbering is deterministic for a
// fixed reservation order.
type Reservations struct {
	used   map[string]struct{}
	logger *slog.Logger
}

// NewReservations creates an empty reservation set.
func NewReservations(logger *slog.Logger) *Reservations {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reservations{
		used:   make(map[string]struct{}),
		logger: logger,
	}
}

// Seed marks names as taken without sanitizing them. Used to pre-load
// identifiers owned by an earlier stage, such as compiled schema types.
func (r *Reservations) Seed(names ...string) {
	for _, name := range names {
		r.used[name] = struct{}{}
	}
}

// Reserve resolves desired to a unique identifier, records it as taken, and
// returns it. Collisions are logged so surprising suffixes are traceable.
func (r *Reservations) Reserve(desired string) string {
	name := UniqueIdentifier(desired, r.used)
	if sanitized := Sanitize(desired); name != sanitized {
		r.logger.Debug("identifier collision resolved with suffix",
			slog.String("desired", desired),
			slog.String("assigned", name),
		)
	}
	r.used[name] = struct{}{}
	return name
}

// Has reports whether name has already been reserved or seeded.
func (r *Reservations) Has(name string) bool {
	_, ok := r.used[name]
	return ok
}
