package orders

import (
	"strings"
)

// sortColumns whitelists the API sort keys and maps them to columns
var sortColumns = map[string]string{
	"orderDate":   "order_date",
	"totalAmount": "total_amount",
	"orderNumber": "order_number",
	"status":      "status",
}

type Sort struct {
	Column string
	Desc   bool
}

// Clause renders the sort for gorm's Order
func (s Sort) Clause() string {
	if s.Desc {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}

var DefaultSort = Sort{Column: "order_date", Desc: true}

// ParseSort reads "key[,direction]", e.g. "orderDate,desc". The direction defaults to desc.
func ParseSort(raw string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort, nil
	}

	key, dir, _ := strings.Cut(raw, ",")
	column, ok := sortColumns[strings.TrimSpace(key)]
	if !ok {
		return Sort{}, ErrInvalidSort
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "desc":
		return Sort{Column: column, Desc: true}, nil
	case "asc":
		return Sort{Column: column}, nil
	default:
		return Sort{}, ErrInvalidSort
	}
}
