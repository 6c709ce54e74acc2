package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// LedgerService defines the behavior needed by JournalHandler.
type LedgerService interface {
	RecordTransaction(ctx context.Context, input usecase.RecordTransactionInput) (*domain.JournalEntry, error)
	CreateDraft(ctx context.Context, input usecase.RecordTransactionInput) (*domain.JournalEntry, error)
	UpdateDraft(ctx context.Context, input usecase.UpdateDraftInput) (*domain.JournalEntry, error)
	PostDraft(ctx context.Context, actor domain.Actor, journalID string) (*domain.JournalEntry, error)
	VoidJournal(ctx context.Context, actor domain.Actor, journalID, reason string) (*domain.JournalEntry, error)
	ReverseJournal(ctx context.Context, actor domain.Actor, journalID string, date time.Time) (*domain.JournalEntry, error)
	GetJournal(ctx context.Context, companyID, id string) (*domain.JournalEntry, error)
	ListJournals(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error)
	CheckConsistency(ctx context.Context, companyID string) (*usecase.ConsistencyReport, error)
}

// JournalHandler handles journal entry HTTP requests.
type JournalHandler struct {
	ledgerUC LedgerService
	retrier  usecase.Retrier
}

// NewJournalHandler creates a new JournalHandler. retrier may be nil.
func NewJournalHandler(ledgerUC LedgerService, retrier usecase.Retrier) *JournalHandler {
	return &JournalHandler{ledgerUC: ledgerUC, retrier: retrier}
}

// Record posts a balanced journal entry.
func (h *JournalHandler) Record(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.ledgerUC.RecordTransaction, "failed to record journal")
}

// CreateDraft stores an editable draft entry.
func (h *JournalHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.ledgerUC.CreateDraft, "failed to create draft")
}

func (h *JournalHandler) create(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, usecase.RecordTransactionInput) (*domain.JournalEntry, error),
	message string,
) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.RecordJournalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	input := req.ToUseCaseInput(actor)

	var entry *domain.JournalEntry
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		entry, err = op(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalFromDomain(entry))
}

// UpdateDraft replaces the lines and header of a draft.
func (h *JournalHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.UpdateDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	input := req.ToUseCaseInput(actor, chi.URLParam(r, "id"))

	h.transition(w, r, "failed to update draft", func() (*domain.JournalEntry, error) {
		return h.ledgerUC.UpdateDraft(r.Context(), input)
	})
}

// Post moves a draft to POSTED.
func (h *JournalHandler) Post(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	h.transition(w, r, "failed to post journal", func() (*domain.JournalEntry, error) {
		return h.ledgerUC.PostDraft(r.Context(), actor, id)
	})
}

// Void marks an entry VOID. It does not post a reversal.
func (h *JournalHandler) Void(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.VoidJournalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	h.transition(w, r, "failed to void journal", func() (*domain.JournalEntry, error) {
		return h.ledgerUC.VoidJournal(r.Context(), actor, id, req.Reason)
	})
}

// Reverse posts a mirror entry of a posted journal.
func (h *JournalHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.ReverseJournalRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}
	date := req.Date.Time
	if date.IsZero() {
		date = today()
	}

	id := chi.URLParam(r, "id")
	var entry *domain.JournalEntry
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		entry, err = h.ledgerUC.ReverseJournal(r.Context(), actor, id, date)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to reverse journal", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalFromDomain(entry))
}

func (h *JournalHandler) transition(w http.ResponseWriter, r *http.Request, message string, op func() (*domain.JournalEntry, error)) {
	var entry *domain.JournalEntry
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		entry, err = op()
		return err
	})
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalFromDomain(entry))
}

// Get retrieves one journal entry with its lines.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	entry, err := h.ledgerUC.GetJournal(r.Context(), actor.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get journal", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalFromDomain(entry))
}

// List lists journal entries, newest first.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	from, err := optionalDateQuery(r, "from")
	if err != nil {
		writeDomainError(w, "invalid filter", err)
		return
	}
	to, err := optionalDateQuery(r, "to")
	if err != nil {
		writeDomainError(w, "invalid filter", err)
		return
	}

	entries, err := h.ledgerUC.ListJournals(r.Context(), domain.JournalFilter{
		CompanyID: actor.CompanyID,
		Status:    domain.JournalStatus(r.URL.Query().Get("status")),
		Source:    domain.JournalSource(r.URL.Query().Get("source")),
		From:      from,
		To:        to,
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list journals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListJournalsResponse{
		Journals: dto.JournalsFromDomain(entries),
		Total:    int64(len(entries)),
	})
}

// CheckConsistency reports whether posted debits equal posted credits.
func (h *JournalHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	report, err := h.ledgerUC.CheckConsistency(r.Context(), actor.CompanyID)
	if errors.Is(err, domain.ErrInconsistentLedger) && report != nil {
		writeJSON(w, http.StatusConflict, report)
		return
	}
	if err != nil {
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
