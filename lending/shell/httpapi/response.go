package httpapi

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	codeUnauthenticated        = "unauthenticated"
	codeForbidden              = "forbidden"
	codeBadRequest             = "bad_request"
	codeRateLimited            = "rate_limited"
	codeBookNotFound           = "book_not_found"
	codeLoanNotFound           = "loan_not_found"
	codeRecommendationNotFound = "recommendation_not_found"
	codeNotFound               = "not_found"
	codeOutOfStock             = "out_of_stock"
	codeAlreadyBorrowed        = "already_borrowed"
	codeAlreadyReturned        = "already_returned"
	codeBookInUse              = "book_in_use"
	codeDuplicateBook          = "duplicate_book"
	codeUnauthorized           = "unauthorized"
	codeInvalidCopies          = "invalid_copies"
	codeInvalidBook            = "invalid_book"
	codeUnknownRole            = "unknown_role"
	codeInvalidRecommendation  = "invalid_recommendation"
	codeContention             = "contention"
	codeTimeout                = "timeout"
	codeInternal               = "internal"
	contentionRetryAfter       = "1"
	internalErrorMessage       = "internal error"
	maxRequestBodyBytes        = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorMapping is checked in order, the specific not found errors before ErrNotFound.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{core.ErrBookNotFound, http.StatusNotFound, codeBookNotFound},
	{core.ErrLoanNotFound, http.StatusNotFound, codeLoanNotFound},
	{core.ErrRecommendationNotFound, http.StatusNotFound, codeRecommendationNotFound},
	{core.ErrNotFound, http.StatusNotFound, codeNotFound},
	{core.ErrOutOfStock, http.StatusConflict, codeOutOfStock},
	{core.ErrAlreadyBorrowed, http.StatusConflict, codeAlreadyBorrowed},
	{core.ErrAlreadyReturned, http.StatusConflict, codeAlreadyReturned},
	{core.ErrBookInUse, http.StatusConflict, codeBookInUse},
	{core.ErrDuplicateBook, http.StatusConflict, codeDuplicateBook},
	{core.ErrUnauthorized, http.StatusForbidden, codeUnauthorized},
	{core.ErrInvalidCopies, http.StatusBadRequest, codeInvalidCopies},
	{core.ErrInvalidBook, http.StatusBadRequest, codeInvalidBook},
	{core.ErrUnknownRole, http.StatusBadRequest, codeUnknownRole},
	{core.ErrInvalidRecommendation, http.StatusBadRequest, codeInvalidRecommendation},
	{core.ErrContention, http.StatusServiceUnavailable, codeContention},
	{core.ErrTimeout, http.StatusGatewayTimeout, codeTimeout},
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeEngineError maps engine errors to statuses. Invariant violations and unknown errors
// get a generic message, their details only go to the log.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMapping {
		if !errors.Is(err, m.target) {
			continue
		}

		if m.code == codeContention {
			w.Header().Set("Retry-After", contentionRetryAfter)
		}

		writeError(w, m.status, m.code, m.target.Error())

		return
	}

	s.logger.ErrorContext(r.Context(), LogMsgInternalError,
		LogAttrMethod, r.Method,
		LogAttrPath, r.URL.Path,
		LogAttrError, err.Error(),
	)
	writeError(w, http.StatusInternalServerError, codeInternal, internalErrorMessage)
}

// decodeJSON rejects unknown fields and bodies above 1 MiB.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	return decoder.Decode(target)
}
