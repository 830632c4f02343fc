package products

import (
	"slices"
	"sort"
	"strings"

	"mabletask/dashboard/models"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortKeys are the row fields the table can sort by.
var SortKeys = []string{"id", "title", "price", "sku"}

func IsSortKey(key string) bool {
	return slices.Contains(SortKeys, key)
}

// SortState is the single active sort column. The zero value means unsorted.
type SortState struct {
	Key       string    `json:"key,omitempty"`
	Direction Direction `json:"direction"`
}

// Select returns the state after clicking the key's column header: the same
// key flips direction, a new key starts ascending.
func (s SortState) Select(key string) SortState {
	if s.Key == key && s.Direction == Asc {
		return SortState{Key: key, Direction: Desc}
	}
	return SortState{Key: key, Direction: Asc}
}

func fieldValue(r models.ProductRow, key string) string {
	switch key {
	case "id":
		return r.ID
	case "title":
		return r.Title
	case "price":
		return r.Price
	case "sku":
		return r.SKU
	default:
		return ""
	}
}

// Apply returns a sorted copy of rows. Values compare as their stored
// strings; equal keys keep no particular order.
func (s SortState) Apply(rows []models.ProductRow) []models.ProductRow {
	out := slices.Clone(rows)
	if s.Key == "" {
		return out
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := fieldValue(out[i], s.Key), fieldValue(out[j], s.Key)
		if s.Direction == Desc {
			return a > b
		}
		return a < b
	})
	return out
}

// FilterByTitle keeps rows whose title contains query, ignoring case.
func FilterByTitle(rows []models.ProductRow, query string) []models.ProductRow {
	if query == "" {
		return slices.Clone(rows)
	}
	q := strings.ToLower(query)
	out := make([]models.ProductRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r)
		}
	}
	return out
}

// Remove drops the row with the given full id.
func Remove(rows []models.ProductRow, id string) []models.ProductRow {
	return slices.DeleteFunc(slices.Clone(rows), func(r models.ProductRow) bool {
		return r.ID == id
	})
}
