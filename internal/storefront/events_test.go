package storefront

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommender/internal/recommender"
)

func roundTrip(t *testing.T, p recommender.Payload) map[string]interface{} {
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestSearchEvent_Payload(t *testing.T) {
	e := &SearchEvent{UserID: NumericID(42), Query: "shoes", Website: "http://shop.test"}

	assert.Equal(t, recommender.TagSearch, e.Tag())
	require.NoError(t, e.Validate())
	assert.Equal(t, map[string]interface{}{
		"stacc_id":   float64(42),
		"query":      "shoes",
		"filters":    []interface{}{},
		"website":    "http://shop.test",
		"properties": []interface{}{},
	}, roundTrip(t, e.Payload()))

	assert.Error(t, (&SearchEvent{UserID: NumericID(42), Query: "  "}).Validate())
}

func TestProductEvents_Payload(t *testing.T) {
	product := ProductEvent{
		UserID:      NumericID(42),
		ItemID:      StringID("sku-15"),
		Website:     "http://shop.test",
		Categories:  "Shoes, Sale",
		StockStatus: "instock",
	}
	expected := map[string]interface{}{
		"item_id":  "sku-15",
		"stacc_id": float64(42),
		"website":  "http://shop.test",
		"properties": map[string]interface{}{
			"categories":   "Shoes, Sale",
			"stock_status": "instock",
		},
	}

	cart := &CartEvent{ProductEvent: product}
	assert.Equal(t, recommender.TagAdd, cart.Tag())
	assert.Equal(t, expected, roundTrip(t, cart.Payload()))

	view := &ViewEvent{ProductEvent: product}
	assert.Equal(t, recommender.TagView, view.Tag())
	assert.Equal(t, expected, roundTrip(t, view.Payload()))

	assert.Error(t, (&ViewEvent{}).Validate())
}

func TestPurchaseEvent(t *testing.T) {
	e := &PurchaseEvent{
		UserID:   NumericID(42),
		Currency: "eur",
		Website:  "http://shop.test",
		Items: []LineItem{
			{ItemID: NumericID(15), Quantity: 2, Price: 9.5},
			{ItemID: NumericID(16), Quantity: 1, Price: 20},
		},
	}
	require.NoError(t, e.Validate())
	assert.Equal(t, recommender.TagPurchase, e.Tag())

	payload := roundTrip(t, e.Payload())
	assert.Equal(t, "EUR", payload["currency"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"item_id": float64(15), "quantity": float64(2), "price": 9.5},
		map[string]interface{}{"item_id": float64(16), "quantity": float64(1), "price": float64(20)},
	}, payload["item_list"])

	for _, invalid := range []*PurchaseEvent{
		{Currency: "EUR"},
		{Currency: "EUR", Items: []LineItem{{Quantity: 1}}},
		{Currency: "EUR", Items: []LineItem{{ItemID: NumericID(1)}}},
		{Currency: "euro", Items: []LineItem{{ItemID: NumericID(1), Quantity: 1}}},
	} {
		assert.Error(t, invalid.Validate())
	}
}

func TestNewEvent(t *testing.T) {
	for kind, tag := range map[string]recommender.Tag{
		"search":   recommender.TagSearch,
		"cart":     recommender.TagAdd,
		"add":      recommender.TagAdd,
		"view":     recommender.TagView,
		"purchase": recommender.TagPurchase,
	} {
		e, err := NewEvent(kind)
		require.NoError(t, err)
		assert.Equal(t, tag, e.Tag())
	}

	_, err := NewEvent("refund")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCartEvent_DecodesFlatJSON(t *testing.T) {
	var e CartEvent
	require.NoError(t, json.Unmarshal([]byte(`{"stacc_id":"9","item_id":"3","stock_status":"outofstock"}`), &e))

	assert.Equal(t, "9", e.Shopper())
	assert.Equal(t, StringID("3"), e.ItemID)
	assert.Equal(t, "outofstock", e.StockStatus)
}

func TestCartEvent_KeepsNumericIDs(t *testing.T) {
	var e CartEvent
	require.NoError(t, json.Unmarshal([]byte(`{"stacc_id":42,"item_id":17,"website":"http://shop.test"}`), &e))
	require.NoError(t, e.Validate())
	assert.Equal(t, "42", e.Shopper())

	b, err := json.Marshal(e.Payload())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"stacc_id":42`)
	assert.Contains(t, string(b), `"item_id":17`)
}

func TestID_JSON(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want ID
		out  string
	}{
		{in: `42`, want: NumericID(42), out: `42`},
		{in: `"42"`, want: StringID("42"), out: `"42"`},
		{in: `"sku-1"`, want: StringID("sku-1"), out: `"sku-1"`},
		{in: `9007199254740993`, want: ID{value: "9007199254740993", numeric: true}, out: `9007199254740993`},
		{in: `null`, want: ID{}, out: `""`},
	} {
		var id ID
		require.NoError(t, json.Unmarshal([]byte(tc.in), &id), tc.in)
		assert.Equal(t, tc.want, id, tc.in)

		b, err := json.Marshal(id)
		require.NoError(t, err)
		assert.Equal(t, tc.out, string(b), tc.in)
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &id))
	assert.True(t, ID{}.IsZero())
}
