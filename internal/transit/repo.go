// ============================================================================
// TRANSIT REPOSITORY - STATIC DATASET LOOKUPS
// ============================================================================
// Read-only access to the imported LTA dataset: stops, service directions and
// ordered routes. Stops are loaded into memory at startup so the nearest-stop
// search can enumerate them without touching the database per query.
// ============================================================================

package transit

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/yourorg/sgbusbot/internal/cache"
	"github.com/yourorg/sgbusbot/internal/models"
)

// Repo serves static dataset lookups.
type Repo struct {
	db         *sql.DB
	stops      []models.StopRecord
	stopByCode map[string]models.StopRecord
}

// NewRepo creates a repository over the given database.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{
		db:         db,
		stopByCode: make(map[string]models.StopRecord),
	}
}

// NewMemoryRepo creates a repository over an in-memory stop list, used by
// tests. Directions and routes require a database and return not-found.
func NewMemoryRepo(stops []models.StopRecord) *Repo {
	r := &Repo{stopByCode: make(map[string]models.StopRecord)}
	r.setStops(stops)
	return r
}

func (r *Repo) setStops(stops []models.StopRecord) {
	r.stops = stops
	for _, s := range stops {
		r.stopByCode[s.Code] = s
	}
}

// LoadStops reads the full stop dataset into memory.
func (r *Repo) LoadStops() error {
	rows, err := r.db.Query(`SELECT code, description, road_name, latitude, longitude FROM bus_stops`)
	if err != nil {
		return fmt.Errorf("query bus stops: %w", err)
	}
	defer rows.Close()

	var stops []models.StopRecord
	for rows.Next() {
		var s models.StopRecord
		if err := rows.Scan(&s.Code, &s.Description, &s.RoadName, &s.Latitude, &s.Longitude); err != nil {
			return fmt.Errorf("scan bus stop: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate bus stops: %w", err)
	}

	r.setStops(stops)
	log.Printf("🚏 Loaded %d bus stops into memory", len(stops))
	return nil
}

// AllStops returns the full stop dataset in original import order.
func (r *Repo) AllStops() []models.StopRecord {
	return r.stops
}

// StopByCode looks up one stop. Fails with ErrNoStopsFound for unknown codes.
func (r *Repo) StopByCode(code string) (models.StopRecord, error) {
	if s, ok := r.stopByCode[code]; ok {
		return s, nil
	}
	return models.StopRecord{}, models.ErrNoStopsFound
}

// SearchStopsByDescription resolves a search phrase to stops. An exact
// description match (case-insensitive) wins; otherwise every description
// containing the phrase matches. Fails with ErrNoStopsFound when empty.
func (r *Repo) SearchStopsByDescription(query string) ([]models.StopRecord, error) {
	phrase := strings.ToLower(strings.TrimSpace(query))
	if phrase == "" {
		return nil, models.ErrNoStopsFound
	}

	var exact []models.StopRecord
	var partial []models.StopRecord
	for _, s := range r.stops {
		desc := strings.ToLower(s.Description)
		if desc == phrase {
			exact = append(exact, s)
		} else if strings.Contains(desc, phrase) {
			partial = append(partial, s)
		}
	}

	if len(exact) > 0 {
		return exact, nil
	}
	if len(partial) > 0 {
		return partial, nil
	}
	return nil, models.ErrNoStopsFound
}

// Directions returns every directional variant of a service, matched
// case-insensitively. Fails with ErrNoSearchResults for unknown services.
func (r *Repo) Directions(serviceNo string) ([]models.ServiceDirection, error) {
	if r.db == nil {
		return nil, models.ErrNoSearchResults
	}

	key := "directions:" + strings.ToLower(serviceNo)
	if cached, found := cache.DirectionsCache.Get(key); found {
		return cached.([]models.ServiceDirection), nil
	}

	rows, err := r.db.Query(`
		SELECT service_no, direction, category, origin_code, destination_code,
		       am_peak_freq, am_offpeak_freq, pm_peak_freq, pm_offpeak_freq
		FROM bus_service_directions
		WHERE LOWER(service_no) = LOWER(?)
		ORDER BY direction`, serviceNo)
	if err != nil {
		return nil, fmt.Errorf("query service directions: %w", err)
	}
	defer rows.Close()

	var dirs []models.ServiceDirection
	for rows.Next() {
		var d models.ServiceDirection
		if err := rows.Scan(&d.ServiceNo, &d.Direction, &d.Category, &d.OriginCode, &d.DestinationCode,
			&d.AMPeakFreq, &d.AMOffpeakFreq, &d.PMPeakFreq, &d.PMOffpeakFreq); err != nil {
			return nil, fmt.Errorf("scan service direction: %w", err)
		}
		dirs = append(dirs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service directions: %w", err)
	}

	if len(dirs) == 0 {
		return nil, models.ErrNoSearchResults
	}

	cache.DirectionsCache.Set(key, dirs)
	return dirs, nil
}

// Route returns the ordered stop codes of one service direction.
// Fails with ErrNoSearchResults for unknown service or direction.
func (r *Repo) Route(serviceNo string, direction int) ([]string, error) {
	if r.db == nil {
		return nil, models.ErrNoSearchResults
	}

	key := fmt.Sprintf("route:%s:%d", strings.ToLower(serviceNo), direction)
	if cached, found := cache.RoutesCache.Get(key); found {
		return cached.([]string), nil
	}

	rows, err := r.db.Query(`
		SELECT stop_code
		FROM bus_route_stops
		WHERE LOWER(service_no) = LOWER(?) AND direction = ?
		ORDER BY stop_sequence`, serviceNo, direction)
	if err != nil {
		return nil, fmt.Errorf("query route stops: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan route stop: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate route stops: %w", err)
	}

	if len(codes) == 0 {
		return nil, models.ErrNoSearchResults
	}

	cache.RoutesCache.Set(key, codes)
	return codes, nil
}
