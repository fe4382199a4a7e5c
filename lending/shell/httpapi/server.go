package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/engine"
	"github.com/AntonStoeckl/library-lending/lending/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending/lending/features/query/catalogsearch"
	"github.com/AntonStoeckl/library-lending/lending/features/query/librarystats"
	"github.com/AntonStoeckl/library-lending/lending/features/query/loanfine"
	"github.com/AntonStoeckl/library-lending/lending/features/query/outstandingfines"
	"github.com/AntonStoeckl/library-lending/lending/features/query/overdueloans"
	"github.com/AntonStoeckl/library-lending/lending/features/query/recommendations"
	"github.com/AntonStoeckl/library-lending/lending/features/query/studentloans"
	"github.com/AntonStoeckl/library-lending/lending/shell/ratelimit"
)

var ErrNilEngine = errors.New("httpapi: engine must not be nil")

// Lending is the engine surface the API serves, *engine.Engine implements it.
type Lending interface {
	Now() time.Time

	AddBook(ctx context.Context, book engine.NewBook) (uuid.UUID, error)
	ChangeTotalCopies(ctx context.Context, bookID uuid.UUID, totalCopies int) error
	RemoveBook(ctx context.Context, bookID uuid.UUID) error
	GetBook(ctx context.Context, bookID uuid.UUID) (bookdetails.BookDetails, error)
	SearchCatalog(
		ctx context.Context,
		text string,
		category string,
		opts ...catalogsearch.QueryOption,
	) (catalogsearch.SearchResult, error)

	Borrow(ctx context.Context, userID uuid.UUID, bookID uuid.UUID, role core.Role) (uuid.UUID, error)
	Return(ctx context.Context, loanID uuid.UUID, requestingUserID uuid.UUID) (engine.ReturnReceipt, error)
	LoanFine(ctx context.Context, loanID uuid.UUID, asOf time.Time) (loanfine.LoanFine, error)
	ListActiveLoans(ctx context.Context, userID uuid.UUID) ([]core.Loan, error)
	ListAllLoans(ctx context.Context, userID uuid.UUID) ([]core.Loan, error)

	LibraryStats(ctx context.Context, asOf time.Time) (librarystats.LibraryStats, error)
	OverdueLoans(ctx context.Context, asOf time.Time) (overdueloans.OverdueLoans, error)
	OutstandingFines(ctx context.Context, userID uuid.UUID, asOf time.Time) (outstandingfines.OutstandingFines, error)
	StudentLoans(ctx context.Context, asOf time.Time) (studentloans.StudentLoans, error)

	RecommendBook(ctx context.Context, recommendation engine.NewRecommendation) (uuid.UUID, error)
	DecideRecommendation(ctx context.Context, recommendationID uuid.UUID, status core.RecommendationStatus) error
	RecommendationsOf(ctx context.Context, userID uuid.UUID) (recommendations.Recommendations, error)
	AllRecommendations(ctx context.Context) (recommendations.Recommendations, error)
}

// BorrowLimiter caps borrow requests per user, *ratelimit.FixedWindowLimiter implements it.
type BorrowLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

type Config struct {
	Engine Lending

	// BorrowLimiter is optional, without it borrowing is not rate limited.
	BorrowLimiter BorrowLimiter

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type Server struct {
	engine  Lending
	limiter BorrowLimiter
	logger  *slog.Logger
	mux     *http.ServeMux
}

func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, ErrNilEngine
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine:  cfg.Engine,
		limiter: cfg.BorrowLimiter,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.routes()

	return s, nil
}

// Router returns the routes wrapped in the request log middleware.
func (s *Server) Router() http.Handler {
	return s.requestLog(s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// catalog
	s.mux.Handle("POST /books", s.adminOnly(s.handleAddBook))
	s.mux.Handle("GET /books", s.identified(s.handleSearchBooks))
	s.mux.Handle("GET /books/{bookID}", s.identified(s.handleGetBook))
	s.mux.Handle("PUT /books/{bookID}/copies", s.adminOnly(s.handleChangeCopies))
	s.mux.Handle("DELETE /books/{bookID}", s.adminOnly(s.handleRemoveBook))

	// lending
	s.mux.Handle("POST /books/{bookID}/borrow", s.identified(s.handleBorrow))
	s.mux.Handle("POST /loans/{loanID}/return", s.identified(s.handleReturn))
	s.mux.Handle("GET /loans/{loanID}/fine", s.identified(s.handleFine))
	s.mux.Handle("GET /me/loans", s.identified(s.handleMyLoans))
	s.mux.Handle("GET /me/fines", s.identified(s.handleMyFines))

	// recommendations
	s.mux.Handle("POST /recommendations", s.withRole(s.handleRecommend, core.RoleTeacher))
	s.mux.Handle("GET /me/recommendations", s.identified(s.handleMyRecommendations))
	s.mux.Handle("GET /admin/recommendations", s.adminOnly(s.handleAllRecommendations))
	s.mux.Handle("PUT /admin/recommendations/{recommendationID}/status", s.adminOnly(s.handleDecideRecommendation))

	// reports
	s.mux.Handle("GET /admin/stats", s.adminOnly(s.handleStats))
	s.mux.Handle("GET /admin/overdue", s.adminOnly(s.handleOverdue))
	s.mux.Handle("GET /reports/students", s.withRole(s.handleStudentLoans, core.RoleTeacher, core.RoleAdmin))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
