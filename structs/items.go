package structs

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// An order's cart snapshot is persisted as a JSON object mapping an opaque
// line-item code ("id<productID>_<suffix>") to a fixed 6-tuple:
// [quantity, product_name, unit_price, color, size, image_url].
// The code embeds the numeric product id; the trending computation depends
// on recovering it.

// MaxItemsJSONLen bounds the serialized cart snapshot stored per order.
const MaxItemsJSONLen = 5000

var (
	ErrInvalidItems  = errors.New("invalid items format")
	ErrItemsTooLarge = errors.New("items snapshot exceeds size limit")
)

var itemCodeRe = regexp.MustCompile(`^id(\d+)`)

// OrderItem is the typed form of one line item.
type OrderItem struct {
	Code      string `json:"code"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
	Price     string `json:"price"` // decimal string snapshot, e.g. "20.00"
	Color     string `json:"color"`
	Size      string `json:"size"`
	ImageURL  string `json:"image_url"`
}

// ProductIDFromCode recovers the product id embedded in a line-item code.
func ProductIDFromCode(code string) (int64, error) {
	m := itemCodeRe.FindStringSubmatch(code)
	if m == nil {
		return 0, fmt.Errorf("%w: code %q", ErrInvalidItems, code)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: code %q", ErrInvalidItems, code)
	}
	return id, nil
}

// DecodeItemTuple decodes a single [qty, name, price, color, size, image_url]
// tuple. Callers that tolerate partial corruption (trending) skip entries for
// which this fails; strict callers treat any failure as ErrInvalidItems.
func DecodeItemTuple(code string, tuple []json.RawMessage) (OrderItem, error) {
	if len(tuple) != 6 {
		return OrderItem{}, fmt.Errorf("%w: entry %q has %d fields, want 6", ErrInvalidItems, code, len(tuple))
	}

	var qty int
	if err := json.Unmarshal(tuple[0], &qty); err != nil {
		// Some stored snapshots carry the quantity as a string.
		var qtyStr string
		if err := json.Unmarshal(tuple[0], &qtyStr); err != nil {
			return OrderItem{}, fmt.Errorf("%w: entry %q quantity", ErrInvalidItems, code)
		}
		parsed, err := strconv.Atoi(qtyStr)
		if err != nil {
			return OrderItem{}, fmt.Errorf("%w: entry %q quantity", ErrInvalidItems, code)
		}
		qty = parsed
	}

	strs := make([]string, 5)
	for i := range strs {
		if err := json.Unmarshal(tuple[i+1], &strs[i]); err != nil {
			return OrderItem{}, fmt.Errorf("%w: entry %q field %d", ErrInvalidItems, code, i+1)
		}
	}

	pid, err := ProductIDFromCode(code)
	if err != nil {
		return OrderItem{}, err
	}

	return OrderItem{
		Code:      code,
		ProductID: pid,
		Quantity:  qty,
		Name:      strs[0],
		Price:     strs[1],
		Color:     strs[2],
		Size:      strs[3],
		ImageURL:  strs[4],
	}, nil
}

// ParseOrderItems decodes the full snapshot strictly: the mapping must be
// non-empty and every entry must be a well-formed 6-tuple with a recoverable
// product id. Items come back in a deterministic order (ascending product id,
// then code) since JSON objects carry none.
func ParseOrderItems(raw string) ([]OrderItem, error) {
	var m map[string][]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, ErrInvalidItems
	}
	if len(m) == 0 {
		return nil, ErrInvalidItems
	}

	items := make([]OrderItem, 0, len(m))
	for code, tuple := range m {
		item, err := DecodeItemTuple(code, tuple)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].Code < items[j].Code
	})
	return items, nil
}

// EncodeOrderItems serializes items back to the wire shape, enforcing the
// snapshot size bound. Items without an explicit code get "id<pid>_<n>".
func EncodeOrderItems(items []OrderItem) (string, error) {
	if len(items) == 0 {
		return "", ErrInvalidItems
	}

	m := make(map[string][6]any, len(items))
	for i, item := range items {
		code := item.Code
		if code == "" {
			code = fmt.Sprintf("id%d_%d", item.ProductID, i)
		}
		m[code] = [6]any{item.Quantity, item.Name, item.Price, item.Color, item.Size, item.ImageURL}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	if len(out) > MaxItemsJSONLen {
		return "", ErrItemsTooLarge
	}
	return string(out), nil
}
