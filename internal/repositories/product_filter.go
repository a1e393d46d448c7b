package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PriceRange bounds are inclusive. Min > Max is allowed and matches nothing.
type PriceRange struct {
	Min float64
	Max float64
}

// ProductFilter is the predicate shared by every product list, count and
// existence query. The zero value matches all products.
type ProductFilter struct {
	CategoryIDs []uuid.UUID
	Price       *PriceRange
	Keyword     string
	ExcludeID   uuid.UUID
}

// Where renders the filter as a SQL WHERE clause with positional arguments.
// It returns an empty clause when nothing is filtered.
func (f ProductFilter) Where() (string, []any) {
	var (
		clauses []string
		args    []any
	)

	bind := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.CategoryIDs) > 0 {
		ids := make([]string, len(f.CategoryIDs))
		for i, id := range f.CategoryIDs {
			ids[i] = id.String()
		}
		clauses = append(clauses, "category_id = ANY("+bind(pq.Array(ids))+"::uuid[])")
	}

	if f.Price != nil {
		clauses = append(clauses, "price >= "+bind(f.Price.Min)+" AND price <= "+bind(f.Price.Max))
	}

	if keyword := strings.TrimSpace(f.Keyword); keyword != "" {
		pattern := bind("%" + escapeLike(keyword) + "%")
		clauses = append(clauses, "(name ILIKE "+pattern+" OR description ILIKE "+pattern+")")
	}

	if f.ExcludeID != uuid.Nil {
		clauses = append(clauses, "id <> "+bind(f.ExcludeID))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
