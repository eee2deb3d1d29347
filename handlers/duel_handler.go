package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/competition-engine/services"
)

type DuelHandler struct {
	duelService services.DuelService
}

func NewDuelHandler(ds services.DuelService) *DuelHandler {
	return &DuelHandler{duelService: ds}
}

type registerRatedInput struct {
	PlayerID      int  `json:"player_id"`
	InitialRating *int `json:"initial_rating"`
}

// RegisterPlayer godoc
// @Summary Enter a roster player into the rated pool
// @Tags ratings
// @Accept json
// @Produce json
// @Param body body registerRatedInput true "Player and optional starting rating"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Player already rated"
// @Security BearerAuth
// @Router /ratings/players [post]
func (h *DuelHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var input registerRatedInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	player, err := h.duelService.RegisterPlayer(r.Context(), input.PlayerID, input.InitialRating)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordDuel godoc
// @Summary Record a duel and update both ratings
// @Tags ratings
// @Accept json
// @Produce json
// @Param body body services.RecordDuelInput true "Players and outcome (a_win, b_win, draw)"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "Player not rated"
// @Security BearerAuth
// @Router /ratings/duels [post]
func (h *DuelHandler) RecordDuel(w http.ResponseWriter, r *http.Request) {
	var input services.RecordDuelInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	record, err := h.duelService.RecordDuel(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"record": record}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelDuel godoc
// @Summary Cancel a duel and replay the later history
// @Tags ratings
// @Produce json
// @Param duelID path string true "Duel record ID"
// @Success 200 {object} map[string]interface{} "Cancelled record followed by every changed later record"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /ratings/duels/{duelID}/cancel [post]
func (h *DuelHandler) CancelDuel(w http.ResponseWriter, r *http.Request) {
	duelID := chi.URLParam(r, "duelID")
	if duelID == "" {
		badRequestResponse(w, r, errors.New("missing duelID in URL path"))
		return
	}
	changed, err := h.duelService.CancelDuel(r.Context(), duelID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": changed}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DuelHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.duelService.Ratings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ratings": ratings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DuelHandler) Records(w http.ResponseWriter, r *http.Request) {
	records, err := h.duelService.Records(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
