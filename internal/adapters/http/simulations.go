package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/codenameuriel/exo-intel/pkg/dispatch"
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/go-chi/chi/v5"
)

var simulationRoutes = []struct {
	path string
	kind domain.Kind
}{
	{"travel-time", domain.KindTravelTime},
	{"seasonal-temps", domain.KindSeasonalTemps},
	{"tidal-locking", domain.KindTidalLocking},
	{"star-lifetime", domain.KindStarLifetime},
}

// TaskAccepted is the 202 body of a simulation submission.
type TaskAccepted struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

func (s *Server) handleSubmit(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())

		var params domain.Parameters
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, CodeValidation, msgInvalidInput, fieldError("", "Malformed JSON body."))
			return
		}
		if err := dispatch.Validate(kind, params); err != nil {
			writeDomainError(w, r, s.logger, err)
			return
		}

		taskID, err := s.tasks.Submit(r.Context(), user.ID, kind, params)
		if err != nil {
			writeDomainError(w, r, s.logger, err)
			return
		}
		if s.metrics != nil {
			s.metrics.TaskSubmitted(kind)
		}
		s.logger.InfoContext(r.Context(), "simulation submitted", "task_id", taskID, "kind", kind, "user_id", user.ID)
		writeJSON(w, http.StatusAccepted, TaskAccepted{Message: "Simulation task has been started.", TaskID: taskID})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	page, err := parsePage(r)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	runs, err := s.history.ListByUser(r.Context(), user.ID, page)
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	if runs == nil {
		runs = []domain.SimulationRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.tasks.Status(r.Context(), chi.URLParam(r, "task_id"))
	if err != nil {
		writeDomainError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		TaskID string           `json:"task_id"`
		Status domain.RunStatus `json:"status"`
		Result domain.Result    `json:"result"`
	}{status.TaskID, status.Status, status.Result})
}

func parsePage(r *http.Request) (domain.Page, error) {
	var page domain.Page
	var err error
	if page.Limit, err = queryInt(r, "limit"); err != nil {
		return page, err
	}
	if page.Offset, err = queryInt(r, "offset"); err != nil {
		return page, err
	}
	return page, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.Invalid(name, "must be an integer")
	}
	return n, nil
}
