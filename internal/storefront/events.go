package storefront

import (
	"fmt"
	"strings"

	"recommender/internal/recommender"
)

// Event is a storefront action the host has already extracted from its cart, catalog
// or order state.
type Event interface {
	Tag() recommender.Tag
	Shopper() string
	Payload() recommender.Payload
	Validate() error
}

type SearchEvent struct {
	UserID     ID                     `json:"stacc_id"`
	Query      string                 `json:"query"`
	Filters    []interface{}          `json:"filters"`
	Website    string                 `json:"website"`
	Properties map[string]interface{} `json:"properties"`
}

func (e *SearchEvent) Tag() recommender.Tag { return recommender.TagSearch }

func (e *SearchEvent) Shopper() string { return e.UserID.String() }

func (e *SearchEvent) Validate() error {
	if strings.TrimSpace(e.Query) == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}

func (e *SearchEvent) Payload() recommender.Payload {
	return recommender.Payload{
		"stacc_id":   e.UserID,
		"query":      e.Query,
		"filters":    nonNilList(e.Filters),
		"website":    e.Website,
		"properties": propertiesOrEmpty(e.Properties),
	}
}

// ProductEvent carries the fields shared by cart additions and product views.
type ProductEvent struct {
	UserID      ID     `json:"stacc_id"`
	ItemID      ID     `json:"item_id"`
	Website     string `json:"website"`
	Categories  string `json:"categories"`
	StockStatus string `json:"stock_status"`
}

func (e *ProductEvent) Shopper() string { return e.UserID.String() }

func (e *ProductEvent) Validate() error {
	if e.ItemID.IsZero() {
		return fmt.Errorf("item_id is required")
	}
	return nil
}

func (e *ProductEvent) Payload() recommender.Payload {
	return recommender.Payload{
		"item_id":  e.ItemID,
		"stacc_id": e.UserID,
		"website":  e.Website,
		"properties": map[string]interface{}{
			"categories":   e.Categories,
			"stock_status": e.StockStatus,
		},
	}
}

type CartEvent struct {
	ProductEvent
}

func (e *CartEvent) Tag() recommender.Tag { return recommender.TagAdd }

type ViewEvent struct {
	ProductEvent
}

func (e *ViewEvent) Tag() recommender.Tag { return recommender.TagView }

type LineItem struct {
	ItemID   ID      `json:"item_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type PurchaseEvent struct {
	UserID   ID         `json:"stacc_id"`
	Items    []LineItem `json:"item_list"`
	Website  string     `json:"website"`
	Currency string     `json:"currency"`
}

func (e *PurchaseEvent) Tag() recommender.Tag { return recommender.TagPurchase }

func (e *PurchaseEvent) Shopper() string { return e.UserID.String() }

func (e *PurchaseEvent) Validate() error {
	if len(e.Items) == 0 {
		return fmt.Errorf("item_list must not be empty")
	}
	for i, item := range e.Items {
		if item.ItemID.IsZero() {
			return fmt.Errorf("item_list[%d]: item_id is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item_list[%d]: quantity must be positive", i)
		}
	}
	if len(e.Currency) != 3 {
		return fmt.Errorf("currency must be an ISO 4217 code")
	}
	return nil
}

func (e *PurchaseEvent) Payload() recommender.Payload {
	items := make([]interface{}, 0, len(e.Items))
	for _, item := range e.Items {
		items = append(items, map[string]interface{}{
			"item_id":  item.ItemID,
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	}

	return recommender.Payload{
		"stacc_id":   e.UserID,
		"item_list":  items,
		"website":    e.Website,
		"currency":   strings.ToUpper(e.Currency),
		"properties": []interface{}{},
	}
}

func nonNilList(v []interface{}) []interface{} {
	if v == nil {
		return []interface{}{}
	}
	return v
}

func propertiesOrEmpty(p map[string]interface{}) interface{} {
	if len(p) == 0 {
		return []interface{}{}
	}
	return p
}
