package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/competition-engine/models"
	"github.com/Dosada05/competition-engine/repositories"
	"github.com/Dosada05/competition-engine/services"
)

const defaultListLimit = 20

type RunHandler struct {
	runService services.RunService
}

func NewRunHandler(rs services.RunService) *RunHandler {
	return &RunHandler{runService: rs}
}

// versionInput is embedded in every command body. Version 0 skips the
// optimistic check.
type versionInput struct {
	Version int `json:"version"`
}

type winnerInput struct {
	versionInput
	PlayerID int `json:"player_id"`
}

type resultInput struct {
	versionInput
	Winner *int `json:"winner"`
}

type advanceInput struct {
	versionInput
	AdvanceCount int `json:"advance_count"`
}

func (h *RunHandler) create(start func(context.Context, services.CreateRunInput) (*models.Tournament, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.CreateRunInput
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		run, err := start(r.Context(), input)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusCreated, jsonResponse{"run": run}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	}
}

// BuildBracket godoc
// @Summary Build a single-elimination bracket
// @Tags runs
// @Accept json
// @Produce json
// @Param body body services.CreateRunInput true "Run name, roster and seeding"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "Unknown player"
// @Failure 422 {object} map[string]string "Too few players"
// @Security BearerAuth
// @Router /runs/bracket [post]
func (h *RunHandler) BuildBracket(w http.ResponseWriter, r *http.Request) {
	h.create(h.runService.BuildBracket)(w, r)
}

// StartSwiss godoc
// @Summary Start a Swiss run and pair round one
// @Tags runs
// @Accept json
// @Produce json
// @Param body body services.CreateRunInput true "Run name, roster and seeding"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /runs/swiss [post]
func (h *RunHandler) StartSwiss(w http.ResponseWriter, r *http.Request) {
	h.create(h.runService.StartSwiss)(w, r)
}

// StartHybrid godoc
// @Summary Start hybrid preliminaries
// @Tags runs
// @Accept json
// @Produce json
// @Param body body services.CreateRunInput true "Run name, roster, seeding and group_count"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /runs/hybrid [post]
func (h *RunHandler) StartHybrid(w http.ResponseWriter, r *http.Request) {
	h.create(h.runService.StartHybrid)(w, r)
}

// GetRun godoc
// @Summary Get a run with its full format state
// @Tags runs
// @Produce json
// @Param runID path int true "Run ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /runs/{runID} [get]
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "runID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	run, err := h.runService.GetRun(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"run": run}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListRuns godoc
// @Summary List runs
// @Tags runs
// @Produce json
// @Param format query string false "bracket, swiss or hybrid"
// @Param status query string false "not_started, in_progress or finished"
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Router /runs [get]
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListRunsFilter
	query := r.URL.Query()

	if raw := query.Get("format"); raw != "" {
		format := models.FormatKind(raw)
		if !format.Valid() {
			badRequestResponse(w, r, errors.New("invalid format query parameter"))
			return
		}
		filter.Format = &format
	}
	if raw := query.Get("status"); raw != "" {
		status := models.Status(raw)
		switch status {
		case models.StatusNotStarted, models.StatusInProgress, models.StatusFinished:
			filter.Status = &status
		default:
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
	}

	var err error
	if filter.Limit, err = queryInt(r, "limit", defaultListLimit, 1); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0, 0); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	runs, err := h.runService.ListRuns(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"runs": runs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FinalStandings godoc
// @Summary Final standings of a run
// @Tags runs
// @Produce json
// @Param runID path int true "Run ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Run cannot be ranked yet"
// @Router /runs/{runID}/standings [get]
func (h *RunHandler) FinalStandings(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "runID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	standings, err := h.runService.FinalStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupStandings godoc
// @Summary Preliminary group standings of a hybrid run
// @Tags runs
// @Produce json
// @Param runID path int true "Run ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Not a hybrid run"
// @Router /runs/{runID}/groups/standings [get]
func (h *RunHandler) GroupStandings(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "runID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groups, err := h.runService.GroupStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// command decodes the body into dst (which must embed versionInput), then
// runs do with the run reference and writes the updated run.
func (h *RunHandler) command(w http.ResponseWriter, r *http.Request, dst interface{ ref(int) services.RunRef }, optionalBody bool, do func(services.RunRef) (*models.Tournament, error)) {
	id, err := getIDFromURL(r, "runID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	read := readJSON
	if optionalBody {
		read = readOptionalJSON
	}
	if err := read(w, r, dst); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	run, err := do(dst.ref(id))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"run": run}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (v *versionInput) ref(id int) services.RunRef {
	return services.RunRef{ID: id, Version: v.Version}
}

// SetBracketWinner godoc
// @Summary Set or clear a bracket match winner
// @Description Naming the current winner again clears the result and every later round.
// @Tags runs
// @Accept json
// @Produce json
// @Param runID path int true "Run ID"
// @Param matchID path string true "Match ID, e.g. R1M2"
// @Param body body winnerInput true "Winner and expected version"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Version conflict"
// @Security BearerAuth
// @Router /runs/{runID}/bracket/matches/{matchID}/winner [put]
func (h *RunHandler) SetBracketWinner(w http.ResponseWriter, r *http.Request) {
	var input winnerInput
	h.command(w, r, &input, false, func(ref services.RunRef) (*models.Tournament, error) {
		return h.runService.SetBracketWinner(r.Context(), ref, chi.URLParam(r, "matchID"), input.PlayerID)
	})
}

func (h *RunHandler) ResetBracket(w http.ResponseWriter, r *http.Request) {
	var input versionInput
	h.command(w, r, &input, true, func(ref services.RunRef) (*models.Tournament, error) {
		return h.runService.ResetBracket(r.Context(), ref)
	})
}

// SetSwissResult godoc
// @Summary Set or clear a result in the latest Swiss round
// @Tags runs
// @Accept json
// @Produce json
// @Param runID path int true "Run ID"
// @Param matchID path string true "Match ID"
// @Param body body resultInput true "Winner (null clears) and expected version"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /runs/{runID}/swiss/matches/{matchID}/result [put]
func (h *RunHandler) SetSwissResult(w http.ResponseWriter, r *http.Request) {
	var input resultInput
	h.command(w, r, &input, false, func(ref services.RunRef) (*models.Tournament, error) {
		return h.runService.SetSwissResult(r.Context(), ref, chi.URLParam(r, "matchID"), input.Winner)
	})
}

func (h *RunHandler) NextSwissRound(w http.ResponseWriter, r *http.Request) {
	var input versionInput
	h.command(w, r, &input, true, func(ref services.RunRef) (*models.Tournament, error) {
		return h.runService.NextSwissRound(r.Context(), ref)
	})
}

func (h *RunHandler) CancelLastSwissRound(w http.ResponseWriter, r *http.Request) {
	var input versionInput
	h.command(w, r, &input, true, func(ref services.RunRef) (*models.Tournament, error) {
		return h.runService.CancelLastSwissRound(r.Context(), ref)
	})
}

func (h *RunHandler) ReshuffleLastSwissRound(w http.ResponseWriter, r *http.Request) {
	var input versionInput
	h.command(w, r, &input, true, func(ref services.RunRef) (*models.Tournament, error) {
		return h.runService.ReshuffleLastSwissRound(r.Context(), ref)
	})
}

func (h *RunHandler) SetPreliminaryResult(w http.ResponseWriter, r *http.Request) {
	var input resultInput
	h.command(w, r, &input, false, func(ref services.RunRef) (*models.Tournament, error) {
		return h.runService.SetPreliminaryResult(r.Context(), ref, chi.URLParam(r, "matchID"), input.Winner)
	})
}

// AdvanceToBracket godoc
// @Summary Advance hybrid group leaders into the finals bracket
// @Tags runs
// @Accept json
// @Produce json
// @Param runID path int true "Run ID"
// @Param body body advanceInput true "Number of players to advance and expected version"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Preliminaries unresolved"
// @Security BearerAuth
// @Router /runs/{runID}/hybrid/advance [post]
func (h *RunHandler) AdvanceToBracket(w http.ResponseWriter, r *http.Request) {
	var input advanceInput
	h.command(w, r, &input, false, func(ref services.RunRef) (*models.Tournament, error) {
		return h.runService.AdvanceToBracket(r.Context(), ref, input.AdvanceCount)
	})
}
