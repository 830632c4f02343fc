// Package products derives the flat product table from the catalog API's
// nested, paginated shape.
package products

import (
	"strings"

	"mabletask/dashboard/models"
)

// fieldRule describes one derived ProductRow field: where its value comes
// from and what it degrades to when the source is missing or empty.
type fieldRule struct {
	field   string
	def     string
	fromRaw func(n *models.RawProductNode) string
	fromNew func(f models.ProductForm) string
	assign  func(r *models.ProductRow, v string)
}

// rowDefaults is the single default-filling table shared by listing and
// creation projections.
var rowDefaults = []fieldRule{
	{
		field: "price",
		def:   "0",
		fromRaw: func(n *models.RawProductNode) string {
			if v, ok := n.Variants.First(); ok {
				return v.Price
			}
			return ""
		},
		fromNew: func(f models.ProductForm) string {
			if len(f.Variants) > 0 {
				return f.Variants[0].Price
			}
			return ""
		},
		assign: func(r *models.ProductRow, v string) { r.Price = v },
	},
	{
		field: "sku",
		def:   "",
		fromRaw: func(n *models.RawProductNode) string {
			if v, ok := n.Variants.First(); ok {
				return v.SKU
			}
			return ""
		},
		fromNew: func(f models.ProductForm) string {
			if len(f.Variants) > 0 {
				return f.Variants[0].SKU
			}
			return ""
		},
		assign: func(r *models.ProductRow, v string) { r.SKU = v },
	},
	{
		field: "imageUrl",
		def:   "",
		fromRaw: func(n *models.RawProductNode) string {
			if img, ok := n.Images.First(); ok {
				return img.Src
			}
			return ""
		},
		fromNew: func(f models.ProductForm) string {
			if len(f.Images) > 0 {
				return f.Images[0].Src
			}
			return ""
		},
		assign: func(r *models.ProductRow, v string) { r.ImageURL = v },
	},
}

func fill(row *models.ProductRow, value func(rule fieldRule) string) {
	for _, rule := range rowDefaults {
		v := value(rule)
		if v == "" {
			v = rule.def
		}
		rule.assign(row, v)
	}
}

func options(opts []models.Option) []models.Option {
	if opts == nil {
		return []models.Option{}
	}
	return opts
}

// Project flattens listing edges into rows, preserving order. It never fails:
// edges without a node yield an empty row with defaults.
func Project(edges []models.ProductEdge) []models.ProductRow {
	rows := make([]models.ProductRow, 0, len(edges))
	for _, edge := range edges {
		node := edge.Node
		if node == nil {
			node = &models.RawProductNode{}
		}
		row := models.ProductRow{
			ID:      node.ID,
			Title:   node.Title,
			Options: options(node.Options),
		}
		fill(&row, func(rule fieldRule) string { return rule.fromRaw(node) })
		rows = append(rows, row)
	}
	return rows
}

// ProjectCreated builds the row for a just-created product. The response does
// not echo variants or images, so price, sku and image come from the form.
func ProjectCreated(created models.CreatedProduct, form models.ProductForm) models.ProductRow {
	row := models.ProductRow{
		ID:      created.ID,
		Title:   created.Title,
		Options: options(created.Options),
	}
	if row.Title == "" {
		row.Title = form.Title
	}
	fill(&row, func(rule fieldRule) string { return rule.fromNew(form) })
	return row
}

// ServerID returns the identifier the API expects in DELETE paths: the last
// segment of a composite id such as gid://shop/Product/42.
func ServerID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
