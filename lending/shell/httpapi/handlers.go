package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/engine"
	"github.com/AntonStoeckl/library-lending/lending/features/query/catalogsearch"
)

const (
	queryText      = "q"
	queryCategory  = "category"
	queryAsOf      = "asOf"
	queryStatus    = "status"
	queryAvailable = "available"

	statusActive = "active"
	statusAll    = "all"
)

/***** catalog *****/

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request, _ caller) {
	var req addBookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	var bookID uuid.UUID
	if req.BookID != "" {
		parsed, err := uuid.Parse(req.BookID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid bookId")
			return
		}

		bookID = parsed
	}

	bookID, err := s.engine.AddBook(r.Context(), engine.NewBook{
		BookID:      bookID,
		Details:     req.details(),
		TotalCopies: req.TotalCopies,
	})
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{BookID: bookID.String()})
}

func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request, _ caller) {
	params := r.URL.Query()

	var opts []catalogsearch.QueryOption
	if raw := params.Get(queryAvailable); raw != "" {
		availableOnly, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "available must be true or false")
			return
		}

		if availableOnly {
			opts = append(opts, catalogsearch.OnlyAvailable())
		}
	}

	result, err := s.engine.SearchCatalog(r.Context(), params.Get(queryText), params.Get(queryCategory), opts...)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(result))
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request, _ caller) {
	bookID, ok := pathUUID(w, r, "bookID")
	if !ok {
		return
	}

	book, err := s.engine.GetBook(r.Context(), bookID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(book))
}

func (s *Server) handleChangeCopies(w http.ResponseWriter, r *http.Request, _ caller) {
	bookID, ok := pathUUID(w, r, "bookID")
	if !ok {
		return
	}

	var req changeCopiesRequest
	if err := decodeJSON(w, r, &req); err != nil || req.TotalCopies == nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "totalCopies is required")
		return
	}

	if err := s.engine.ChangeTotalCopies(r.Context(), bookID, *req.TotalCopies); err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveBook(w http.ResponseWriter, r *http.Request, _ caller) {
	bookID, ok := pathUUID(w, r, "bookID")
	if !ok {
		return
	}

	if err := s.engine.RemoveBook(r.Context(), bookID); err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/***** lending *****/

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request, c caller) {
	bookID, ok := pathUUID(w, r, "bookID")
	if !ok {
		return
	}

	if !s.allowBorrow(w, r, c) {
		return
	}

	loanID, err := s.engine.Borrow(r.Context(), c.UserID, bookID, c.Role)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{BookID: bookID.String(), LoanID: loanID.String()})
}

// allowBorrow fails closed: a broken limiter denies the borrow.
func (s *Server) allowBorrow(w http.ResponseWriter, r *http.Request, c caller) bool {
	if s.limiter == nil {
		return true
	}

	decision, err := s.limiter.Allow(r.Context(), "borrow:"+c.UserID.String())
	if err != nil {
		s.logger.ErrorContext(r.Context(), LogMsgRateLimitError, LogAttrUserID, c.UserID.String(), LogAttrError, err.Error())
	}

	if decision.Allowed {
		return true
	}

	retryAfter := int(decision.RetryAfter.Round(time.Second) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeError(w, http.StatusTooManyRequests, codeRateLimited, "too many borrow requests")

	return false
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request, c caller) {
	loanID, ok := pathUUID(w, r, "loanID")
	if !ok {
		return
	}

	receipt, err := s.engine.Return(r.Context(), loanID, c.UserID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toReceiptResponse(receipt))
}

// handleFine serves the owner of the loan and admins.
func (s *Server) handleFine(w http.ResponseWriter, r *http.Request, c caller) {
	loanID, ok := pathUUID(w, r, "loanID")
	if !ok {
		return
	}

	asOf, ok := s.asOf(w, r)
	if !ok {
		return
	}

	fine, err := s.engine.LoanFine(r.Context(), loanID, asOf)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	if c.Role != core.RoleAdmin && fine.UserID != c.UserID.String() {
		s.writeEngineError(w, r, fmt.Errorf("%w: loan %s belongs to another user", core.ErrUnauthorized, loanID))
		return
	}

	writeJSON(w, http.StatusOK, toFineResponse(fine, asOf))
}

func (s *Server) handleMyLoans(w http.ResponseWriter, r *http.Request, c caller) {
	var listLoans = s.engine.ListActiveLoans

	switch r.URL.Query().Get(queryStatus) {
	case "", statusActive:
	case statusAll:
		listLoans = s.engine.ListAllLoans
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "status must be active or all")
		return
	}

	loans, err := listLoans(r.Context(), c.UserID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toLoansResponse(loans, s.engine.Now()))
}

func (s *Server) handleMyFines(w http.ResponseWriter, r *http.Request, c caller) {
	asOf, ok := s.asOf(w, r)
	if !ok {
		return
	}

	fines, err := s.engine.OutstandingFines(r.Context(), c.UserID, asOf)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFinesResponse(fines))
}

/***** reports *****/

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, _ caller) {
	asOf, ok := s.asOf(w, r)
	if !ok {
		return
	}

	stats, err := s.engine.LibraryStats(r.Context(), asOf)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}

func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request, _ caller) {
	asOf, ok := s.asOf(w, r)
	if !ok {
		return
	}

	overdue, err := s.engine.OverdueLoans(r.Context(), asOf)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOverdueResponse(overdue))
}

func (s *Server) handleStudentLoans(w http.ResponseWriter, r *http.Request, _ caller) {
	asOf, ok := s.asOf(w, r)
	if !ok {
		return
	}

	report, err := s.engine.StudentLoans(r.Context(), asOf)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStudentLoansResponse(report))
}

/***** recommendations *****/

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request, c caller) {
	var req recommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	var recommendationID uuid.UUID
	if req.RecommendationID != "" {
		parsed, err := uuid.Parse(req.RecommendationID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid recommendationId")
			return
		}

		recommendationID = parsed
	}

	recommendationID, err := s.engine.RecommendBook(r.Context(), engine.NewRecommendation{
		RecommendationID: recommendationID,
		UserID:           c.UserID,
		Title:            req.Title,
		Author:           req.Author,
		Reason:           req.Reason,
	})
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, recommendationIDResponse{RecommendationID: recommendationID.String()})
}

func (s *Server) handleMyRecommendations(w http.ResponseWriter, r *http.Request, c caller) {
	result, err := s.engine.RecommendationsOf(r.Context(), c.UserID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendationsResponse(result))
}

func (s *Server) handleAllRecommendations(w http.ResponseWriter, r *http.Request, _ caller) {
	result, err := s.engine.AllRecommendations(r.Context())
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendationsResponse(result))
}

func (s *Server) handleDecideRecommendation(w http.ResponseWriter, r *http.Request, _ caller) {
	recommendationID, ok := pathUUID(w, r, "recommendationID")
	if !ok {
		return
	}

	var req decideRecommendationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	status, err := core.ParseDecision(req.Status)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	if err = s.engine.DecideRecommendation(r.Context(), recommendationID, status); err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/***** helpers *****/

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid "+name)
		return uuid.Nil, false
	}

	return id, true
}

// asOf reads the optional RFC 3339 asOf parameter, the engine clock is the default.
func (s *Server) asOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get(queryAsOf)
	if raw == "" {
		return s.engine.Now().UTC(), true
	}

	asOf, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "asOf must be an RFC 3339 timestamp")
		return time.Time{}, false
	}

	return asOf.UTC(), true
}
