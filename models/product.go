package models

// Connection is the paginated list wrapper used by the catalog API.
type Connection[T any] struct {
	Edges []Edge[T] `json:"edges"`
}

type Edge[T any] struct {
	Node *T `json:"node"`
}

// First returns the first node of the connection, if any.
func (c *Connection[T]) First() (*T, bool) {
	if c == nil || len(c.Edges) == 0 || c.Edges[0].Node == nil {
		return nil, false
	}
	return c.Edges[0].Node, true
}

type OptionValue struct {
	Name string `json:"name"`
}

type Option struct {
	Name         string        `json:"name"`
	OptionValues []OptionValue `json:"optionValues"`
}

type Variant struct {
	Price string `json:"price"`
	SKU   string `json:"sku"`
}

type Image struct {
	Src     string `json:"src"`
	AltText string `json:"altText,omitempty"`
}

// RawProductNode is a product as nested by GET /api/products. Every nested
// field may be missing.
type RawProductNode struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Options  []Option             `json:"options,omitempty"`
	Variants *Connection[Variant] `json:"variants,omitempty"`
	Images   *Connection[Image]   `json:"images,omitempty"`
}

type ProductEdge = Edge[RawProductNode]

type ProductList = Connection[RawProductNode]

// ProductForm is the create-product form, also the POST /api/products body.
type ProductForm struct {
	Title    string    `json:"title" binding:"required" validate:"required"`
	Variants []Variant `json:"variants"`
	Images   []Image   `json:"images"`
}

// CreatedProduct is the creation response. It does not echo variants or
// images.
type CreatedProduct struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Options []Option `json:"options,omitempty"`
}

// ProductRow is the flat view model behind the product table.
type ProductRow struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Options  []Option `json:"options"`
	Price    string   `json:"price"`
	SKU      string   `json:"sku"`
	ImageURL string   `json:"imageUrl"`
}
