package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

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
)

// Money is serialized as a decimal string, times as RFC 3339 in UTC.

type addBookRequest struct {
	BookID      string `json:"bookId"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Year        int    `json:"year"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
	TotalCopies int    `json:"totalCopies"`
}

func (r addBookRequest) details() core.BookDetails {
	return core.BookDetails{
		ISBN:        r.ISBN,
		Title:       r.Title,
		Author:      r.Author,
		Publisher:   r.Publisher,
		Year:        r.Year,
		Category:    r.Category,
		Description: r.Description,
		Rating:      r.Rating,
	}
}

type changeCopiesRequest struct {
	TotalCopies *int `json:"totalCopies"`
}

type idResponse struct {
	BookID string `json:"bookId,omitempty"`
	LoanID string `json:"loanId,omitempty"`
}

type bookResponse struct {
	BookID          string    `json:"bookId"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Publisher       string    `json:"publisher"`
	Year            int       `json:"year"`
	Category        string    `json:"category"`
	Description     string    `json:"description,omitempty"`
	Rating          int       `json:"rating"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	ActiveLoans     int       `json:"activeLoans"`
	Removed         bool      `json:"removed"`
	AddedAt         time.Time `json:"addedAt"`
}

func toBookResponse(b bookdetails.BookDetails) bookResponse {
	return bookResponse{
		BookID:          b.BookID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		Year:            b.Year,
		Category:        b.Category,
		Description:     b.Description,
		Rating:          b.Rating,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		ActiveLoans:     b.ActiveLoans,
		Removed:         b.Removed,
		AddedAt:         b.AddedAt.UTC(),
	}
}

type bookSummary struct {
	BookID          string `json:"bookId"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	Year            int    `json:"year"`
	Rating          int    `json:"rating"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

type searchResponse struct {
	Books []bookSummary `json:"books"`
	Count int           `json:"count"`
}

func toSearchResponse(r catalogsearch.SearchResult) searchResponse {
	books := make([]bookSummary, 0, len(r.Books))
	for _, b := range r.Books {
		books = append(books, bookSummary(b))
	}

	return searchResponse{Books: books, Count: r.Count}
}

type loanResponse struct {
	LoanID        string          `json:"loanId"`
	BookID        string          `json:"bookId"`
	UserID        string          `json:"userId"`
	Role          string          `json:"role"`
	BorrowedAt    time.Time       `json:"borrowedAt"`
	DueAt         time.Time       `json:"dueAt"`
	DailyFineRate decimal.Decimal `json:"dailyFineRate"`
	Returned      bool            `json:"returned"`
	ReturnedAt    *time.Time      `json:"returnedAt,omitempty"`
	Fine          decimal.Decimal `json:"fine"`
}

type loansResponse struct {
	Loans []loanResponse `json:"loans"`
	Count int            `json:"count"`
}

// toLoansResponse reports the live fine for active loans and the frozen one for returned loans.
func toLoansResponse(loans []core.Loan, asOf time.Time) loansResponse {
	out := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		lr := loanResponse{
			LoanID:        l.LoanID,
			BookID:        l.BookID,
			UserID:        l.UserID,
			Role:          l.Role.String(),
			BorrowedAt:    l.BorrowedAt.UTC(),
			DueAt:         l.DueAt.UTC(),
			DailyFineRate: l.DailyFineRate,
			Returned:      l.Returned,
			Fine:          l.FineAsOf(asOf),
		}

		if l.Returned {
			returnedAt := l.ReturnedAt.UTC()
			lr.ReturnedAt = &returnedAt
		}

		out = append(out, lr)
	}

	return loansResponse{Loans: out, Count: len(out)}
}

type receiptResponse struct {
	LoanID     string          `json:"loanId"`
	BookID     string          `json:"bookId"`
	UserID     string          `json:"userId"`
	ReturnedAt time.Time       `json:"returnedAt"`
	Fine       decimal.Decimal `json:"fine"`
}

func toReceiptResponse(r engine.ReturnReceipt) receiptResponse {
	return receiptResponse{
		LoanID:     r.LoanID,
		BookID:     r.BookID,
		UserID:     r.UserID,
		ReturnedAt: r.ReturnedAt.UTC(),
		Fine:       r.Fine,
	}
}

type fineResponse struct {
	LoanID      string          `json:"loanId"`
	AsOf        time.Time       `json:"asOf"`
	DueAt       time.Time       `json:"dueAt"`
	Returned    bool            `json:"returned"`
	DaysOverdue int             `json:"daysOverdue"`
	Fine        decimal.Decimal `json:"fine"`
}

func toFineResponse(fine loanfine.LoanFine, asOf time.Time) fineResponse {
	return fineResponse{
		LoanID:      fine.LoanID,
		AsOf:        asOf,
		DueAt:       fine.DueAt,
		Returned:    fine.Returned,
		DaysOverdue: fine.DaysOverdue,
		Fine:        fine.Fine,
	}
}

type statsResponse struct {
	AsOf            time.Time `json:"asOf"`
	TotalBooks      int       `json:"totalBooks"`
	RemovedBooks    int       `json:"removedBooks"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	ActiveLoans     int       `json:"activeLoans"`
	OverdueLoans    int       `json:"overdueLoans"`
	ReturnedLoans   int       `json:"returnedLoans"`
}

func toStatsResponse(s librarystats.LibraryStats) statsResponse {
	return statsResponse{
		AsOf:            s.AsOf.UTC(),
		TotalBooks:      s.TotalBooks,
		RemovedBooks:    s.RemovedBooks,
		TotalCopies:     s.TotalCopies,
		AvailableCopies: s.AvailableCopies,
		ActiveLoans:     s.ActiveLoans,
		OverdueLoans:    s.OverdueLoans,
		ReturnedLoans:   s.ReturnedLoans,
	}
}

type overdueLoanResponse struct {
	LoanID      string          `json:"loanId"`
	BookID      string          `json:"bookId"`
	Title       string          `json:"title"`
	UserID      string          `json:"userId"`
	Role        string          `json:"role"`
	BorrowedAt  time.Time       `json:"borrowedAt"`
	DueAt       time.Time       `json:"dueAt"`
	DaysOverdue int             `json:"daysOverdue"`
	Fine        decimal.Decimal `json:"fine"`
}

type overdueResponse struct {
	AsOf       time.Time             `json:"asOf"`
	Loans      []overdueLoanResponse `json:"loans"`
	Count      int                   `json:"count"`
	TotalFines decimal.Decimal       `json:"totalFines"`
}

func toOverdueResponse(r overdueloans.OverdueLoans) overdueResponse {
	loans := make([]overdueLoanResponse, 0, len(r.Loans))
	for _, l := range r.Loans {
		loans = append(loans, overdueLoanResponse{
			LoanID:      l.LoanID,
			BookID:      l.BookID,
			Title:       l.Title,
			UserID:      l.UserID,
			Role:        l.Role.String(),
			BorrowedAt:  l.BorrowedAt.UTC(),
			DueAt:       l.DueAt.UTC(),
			DaysOverdue: l.DaysOverdue,
			Fine:        l.Fine,
		})
	}

	return overdueResponse{AsOf: r.AsOf.UTC(), Loans: loans, Count: r.Count, TotalFines: r.TotalFines}
}

type fineLineResponse struct {
	LoanID      string          `json:"loanId"`
	BookID      string          `json:"bookId"`
	DueAt       time.Time       `json:"dueAt"`
	Returned    bool            `json:"returned"`
	DaysOverdue int             `json:"daysOverdue"`
	Fine        decimal.Decimal `json:"fine"`
}

type finesResponse struct {
	UserID string             `json:"userId"`
	AsOf   time.Time          `json:"asOf"`
	Lines  []fineLineResponse `json:"lines"`
	Total  decimal.Decimal    `json:"total"`
}

func toFinesResponse(r outstandingfines.OutstandingFines) finesResponse {
	lines := make([]fineLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, fineLineResponse{
			LoanID:      l.LoanID,
			BookID:      l.BookID,
			DueAt:       l.DueAt.UTC(),
			Returned:    l.Returned,
			DaysOverdue: l.DaysOverdue,
			Fine:        l.Fine,
		})
	}

	return finesResponse{UserID: r.UserID, AsOf: r.AsOf.UTC(), Lines: lines, Total: r.Total}
}

type studentLoanResponse struct {
	LoanID     string          `json:"loanId"`
	BookID     string          `json:"bookId"`
	Title      string          `json:"title"`
	UserID     string          `json:"userId"`
	BorrowedAt time.Time       `json:"borrowedAt"`
	DueAt      time.Time       `json:"dueAt"`
	Returned   bool            `json:"returned"`
	ReturnedAt *time.Time      `json:"returnedAt,omitempty"`
	Overdue    bool            `json:"overdue"`
	Fine       decimal.Decimal `json:"fine"`
}

type studentLoansResponse struct {
	AsOf        time.Time             `json:"asOf"`
	Loans       []studentLoanResponse `json:"loans"`
	Count       int                   `json:"count"`
	ActiveCount int                   `json:"activeCount"`
}

func toStudentLoansResponse(r studentloans.StudentLoans) studentLoansResponse {
	loans := make([]studentLoanResponse, 0, len(r.Loans))
	for _, l := range r.Loans {
		lr := studentLoanResponse{
			LoanID:     l.LoanID,
			BookID:     l.BookID,
			Title:      l.Title,
			UserID:     l.UserID,
			BorrowedAt: l.BorrowedAt.UTC(),
			DueAt:      l.DueAt.UTC(),
			Returned:   l.Returned,
			Overdue:    l.Overdue,
			Fine:       l.Fine,
		}

		if l.Returned {
			returnedAt := l.ReturnedAt.UTC()
			lr.ReturnedAt = &returnedAt
		}

		loans = append(loans, lr)
	}

	return studentLoansResponse{AsOf: r.AsOf.UTC(), Loans: loans, Count: r.Count, ActiveCount: r.ActiveCount}
}

type recommendRequest struct {
	RecommendationID string `json:"recommendationId"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Reason           string `json:"reason"`
}

type decideRecommendationRequest struct {
	Status string `json:"status"`
}

type recommendationIDResponse struct {
	RecommendationID string `json:"recommendationId"`
}

type recommendationResponse struct {
	RecommendationID string     `json:"recommendationId"`
	UserID           string     `json:"userId"`
	Title            string     `json:"title"`
	Author           string     `json:"author"`
	Reason           string     `json:"reason"`
	Status           string     `json:"status"`
	SubmittedAt      time.Time  `json:"submittedAt"`
	DecidedAt        *time.Time `json:"decidedAt,omitempty"`
}

type recommendationsResponse struct {
	Recommendations []recommendationResponse `json:"recommendations"`
	Count           int                      `json:"count"`
	PendingCount    int                      `json:"pendingCount"`
}

func toRecommendationsResponse(r recommendations.Recommendations) recommendationsResponse {
	out := make([]recommendationResponse, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		rr := recommendationResponse{
			RecommendationID: rec.RecommendationID,
			UserID:           rec.UserID,
			Title:            rec.Title,
			Author:           rec.Author,
			Reason:           rec.Reason,
			Status:           rec.Status.String(),
			SubmittedAt:      rec.SubmittedAt.UTC(),
		}

		if !rec.DecidedAt.IsZero() {
			decidedAt := rec.DecidedAt.UTC()
			rr.DecidedAt = &decidedAt
		}

		out = append(out, rr)
	}

	return recommendationsResponse{Recommendations: out, Count: r.Count, PendingCount: r.PendingCount}
}
