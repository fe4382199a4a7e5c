package catalogsearch

import (
	"github.com/AntonStoeckl/library-lending/lending/core"
)

type BookInfo struct {
	BookID          core.BookIDString
	ISBN            core.ISBNString
	Title           string
	Author          string
	Category        string
	Year            int
	Rating          int
	TotalCopies     int
	AvailableCopies int
}

type SearchResult struct {
	Books          []BookInfo
	Count          int
	SequenceNumber uint
}

func (r SearchResult) GetSequenceNumber() uint {
	return r.SequenceNumber
}
