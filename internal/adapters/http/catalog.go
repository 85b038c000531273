package http

import (
	"net/http"
	"strconv"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// PlanetResponse adds the host star's name to a planet.
type PlanetResponse struct {
	domain.Planet
	HostStar string `json:"host_star,omitempty"`
}

func planetResponse(p domain.Planet) PlanetResponse {
	out := PlanetResponse{Planet: p}
	if p.HostStar != nil {
		out.HostStar = p.HostStar.Name
	}
	return out
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return id, nil
}

func (s *Server) handleGetPlanet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	planet, err := s.catalog.Planet(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, planetResponse(planet))
}

func (s *Server) handleGetStar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	star, err := s.catalog.Star(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, star)
}

func (s *Server) handleGetStarSystem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	system, err := s.catalog.StarSystem(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, system)
}

func (s *Server) handleListStars(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	stars, err := s.catalog.ListStars(r.Context(), page)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	if stars == nil {
		stars = []domain.Star{}
	}
	writeJSON(w, http.StatusOK, stars)
}

func (s *Server) handleListStarSystems(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	systems, err := s.catalog.ListStarSystems(r.Context(), page)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	if systems == nil {
		systems = []domain.StarSystem{}
	}
	writeJSON(w, http.StatusOK, systems)
}

func (s *Server) handleListPlanets(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePlanetFilter(r)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	planets, err := s.catalog.ListPlanets(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	out := make([]PlanetResponse, 0, len(planets))
	for _, p := range planets {
		out = append(out, planetResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func parsePlanetFilter(r *http.Request) (domain.PlanetFilter, error) {
	q := r.URL.Query()
	f := domain.PlanetFilter{
		HostStarType: q.Get("host_star_type"),
		Ordering:     q.Get("ordering"),
	}
	if _, _, err := domain.ParseOrdering(f.Ordering); err != nil {
		return f, err
	}

	var err error
	if f.Page, err = parsePage(r); err != nil {
		return f, err
	}
	ints := []struct {
		name string
		dst  **int
	}{
		{"habitability_score_min", &f.HabitabilityMin},
		{"habitability_score_max", &f.HabitabilityMax},
	}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return f, domain.Invalid(p.name, "must be an integer")
			}
			*p.dst = &n
		}
	}
	floats := []struct {
		name string
		dst  **float64
	}{
		{"radius_earth_min", &f.RadiusMin},
		{"radius_earth_max", &f.RadiusMax},
		{"mass_earth_min", &f.MassMin},
		{"mass_earth_max", &f.MassMax},
	}
	for _, p := range floats {
		if v := q.Get(p.name); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return f, domain.Invalid(p.name, "must be a number")
			}
			*p.dst = &x
		}
	}
	return f, nil
}
