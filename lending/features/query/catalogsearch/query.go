package catalogsearch

const (
	queryType = "CatalogSearch"
)

type Query struct {
	Text          string
	Category      string
	AvailableOnly bool
}

type QueryOption func(*Query)

// OnlyAvailable drops books without an available copy from the result.
func OnlyAvailable() QueryOption {
	return func(q *Query) {
		q.AvailableOnly = true
	}
}

// BuildQuery with empty text and category lists the whole catalog.
func BuildQuery(text string, category string, opts ...QueryOption) Query {
	query := Query{Text: text, Category: category}

	for _, opt := range opts {
		opt(&query)
	}

	return query
}

func (q Query) QueryType() string {
	return queryType
}
