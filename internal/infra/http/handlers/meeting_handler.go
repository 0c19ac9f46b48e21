package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const maxBodyBytes = 1 << 20

type MeetingHandler struct {
	AddUC        *usecase.AddMeetingUseCase
	ListUC       *usecase.ListMeetingsUseCase
	ViewUC       *usecase.ViewMeetingUseCase
	DeleteUC     *usecase.DeleteMeetingUseCase
	DeleteManyUC *usecase.DeleteManyMeetingsUseCase
}

func NewMeetingHandler(
	add *usecase.AddMeetingUseCase,
	list *usecase.ListMeetingsUseCase,
	view *usecase.ViewMeetingUseCase,
	del *usecase.DeleteMeetingUseCase,
	delMany *usecase.DeleteManyMeetingsUseCase,
) *MeetingHandler {
	return &MeetingHandler{
		AddUC:        add,
		ListUC:       list,
		ViewUC:       view,
		DeleteUC:     del,
		DeleteManyUC: delMany,
	}
}

// Register mounts the meeting routes. Authentication is applied by the caller.
func (h *MeetingHandler) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Post("/add", h.Add)
	r.Get("/view/{id}", h.View)
	r.Delete("/delete/{id}", h.Delete)
	r.Post("/deleteMany", h.DeleteMany)
}

// Add handles POST /meeting.
func (h *MeetingHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	var input usecase.AddMeetingInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	output, err := h.AddUC.Execute(r.Context(), input, userID)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	middleware.RecordMeetingCreated()
	writeJSON(w, http.StatusCreated, output)
}

// List handles GET /meeting.
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	output, err := h.ListUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// View handles GET /meeting/view/{id}.
func (h *MeetingHandler) View(w http.ResponseWriter, r *http.Request) {
	output, err := h.ViewUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// Delete handles DELETE /meeting/delete/{id}.
func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.DeleteUC.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	middleware.RecordMeetingsDeleted("single", 1)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Meeting marked as deleted."})
}

// DeleteMany handles POST /meeting/deleteMany with body {"ids": [...]}.
func (h *MeetingHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs json.RawMessage `json:"ids"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	var input usecase.DeleteManyInput
	if len(body.IDs) > 0 && string(body.IDs) != "null" {
		if err := json.Unmarshal(body.IDs, &input.IDs); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   usecase.CodeValidation,
				Message: "No IDs provided",
				Fields:  []usecase.ValidationError{{Field: "ids", Message: "must be an array of identifiers"}},
			})
			return
		}
	}

	output, err := h.DeleteManyUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	middleware.RecordMeetingsDeleted("bulk", output.Updated)
	writeJSON(w, http.StatusOK, output)
}
