// Package handler is the thin HTTP layer over the election service. It
// delegates to the service without embedding business logic so transport
// concerns remain isolated.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"matadan/internal/election/models"
	"matadan/internal/election/service"
	"matadan/internal/http/shared"
	"matadan/internal/platform/middleware"
)

// Service defines the interface for election operations.
type Service interface {
	CreateParticipant(ctx context.Context, in service.ParticipantInput) (*models.Participant, error)
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)
	UpdateParticipant(ctx context.Context, id string, in service.ParticipantInput) (*models.Participant, error)
	DeleteParticipant(ctx context.Context, id string) error

	CreateMember(ctx context.Context, in service.MemberInput) (*models.PartyMember, error)
	ListMembers(ctx context.Context, participantID string) ([]models.PartyMember, error)
	UpdateMember(ctx context.Context, id string, in service.MemberInput) (*models.PartyMember, error)
	DeleteMember(ctx context.Context, id string) error

	RegisterVoter(ctx context.Context, in service.VoterInput) (*models.Voter, error)
	CheckVoter(ctx context.Context, voterID string) (*service.VoterStatus, error)
	ListVoters(ctx context.Context) ([]models.Voter, error)

	CastBallot(ctx context.Context, voterID, partyID string, candidateIDs []string) (*service.BallotResult, error)
	Results(ctx context.Context) (*service.Results, error)
}

// Handler handles the election endpoints.
type Handler struct {
	service      Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the election routes. Mutation endpoints other than the
// ballot cast require an admin token; the ballot endpoint is public because
// voters do not authenticate.
func (h *Handler) Register(r chi.Router) {
	requireAuth := middleware.RequireAuth(h.jwtValidator, h.logger)

	r.Get("/api/participants", h.handleListParticipants)
	r.Get("/api/participants/{id}", h.handleGetParticipant)
	r.Get("/api/party-members/{participantId}", h.handleListMembers)
	r.Get("/api/voters/check/{voterId}", h.handleCheckVoter)
	r.Post("/api/vote", h.handleCastBallot)
	r.Get("/api/results", h.handleResults)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/api/participants", h.handleCreateParticipant)
		r.Put("/api/participants/{id}", h.handleUpdateParticipant)
		r.Delete("/api/participants/{id}", h.handleDeleteParticipant)
		r.Post("/api/party-members", h.handleCreateMember)
		r.Put("/api/party-members/{id}", h.handleUpdateMember)
		r.Delete("/api/party-members/{id}", h.handleDeleteMember)
		r.Post("/api/voters/register", h.handleRegisterVoter)
		r.Get("/api/voters", h.handleListVoters)
	})
}

func (h *Handler) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	participant, err := h.service.CreateParticipant(r.Context(), req.toInput())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":     "participant registered successfully",
		"participant": participant,
	})
}

func (h *Handler) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.service.ListParticipants(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, participants)
}

func (h *Handler) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	participant, err := h.service.GetParticipant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, participant)
}

func (h *Handler) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	participant, err := h.service.UpdateParticipant(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "participant updated successfully",
		"participant": participant,
	})
}

func (h *Handler) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteParticipant(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "participant deleted successfully",
	})
}

func (h *Handler) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	member, err := h.service.CreateMember(r.Context(), req.toInput())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "party member added successfully",
		"member":  member,
	})
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), chi.URLParam(r, "participantId"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, members)
}

func (h *Handler) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	member, err := h.service.UpdateMember(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "party member updated successfully",
		"member":  member,
	})
}

func (h *Handler) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "party member deleted successfully",
	})
}

func (h *Handler) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req voterRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	voter, err := h.service.RegisterVoter(r.Context(), service.VoterInput{
		VoterID:           req.VoterID,
		VoterName:         req.VoterName,
		CitizenshipNumber: req.CitizenshipNumber,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "voter registered successfully",
		"voter":   voter,
	})
}

func (h *Handler) handleCheckVoter(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.CheckVoter(r.Context(), chi.URLParam(r, "voterId"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleListVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := h.service.ListVoters(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, voters)
}

func (h *Handler) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	var req ballotRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	result, err := h.service.CastBallot(r.Context(), req.VoterID, req.ParticipantID, req.CandidateIDs)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "vote cast successfully",
		"voter":       result.Voter,
		"participant": result.Participant,
	})
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, results)
}
