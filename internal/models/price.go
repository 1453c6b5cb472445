package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Price holds a listing price in the form it was stored: a number of any BSON
// numeric type, or a string. Numbers render as JSON numbers, strings as JSON
// strings, and an absent price as null.
type Price struct {
	text    string
	numeric bool
	valid   bool
}

// NumericPrice builds a numeric price from its decimal text.
func NumericPrice(text string) Price {
	return Price{text: text, numeric: true, valid: true}
}

// TextPrice builds a price stored as a string.
func TextPrice(text string) Price {
	return Price{text: text, valid: true}
}

// Valid reports whether the document carried a price at all.
func (p Price) Valid() bool {
	return p.valid
}

// IsNumeric reports whether the price was stored as a BSON number.
func (p Price) IsNumeric() bool {
	return p.numeric
}

// String returns the price as it should be displayed.
func (p Price) String() string {
	return p.text
}

func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*p = Price{}
	case bsontype.Int32:
		*p = NumericPrice(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*p = NumericPrice(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Double:
		*p = NumericPrice(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bsontype.Decimal128:
		*p = NumericPrice(raw.Decimal128().String())
	case bsontype.String:
		*p = TextPrice(raw.StringValue())
	default:
		return fmt.Errorf("price: unsupported BSON type %s", t)
	}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return []byte("null"), nil
	}
	// NaN and infinities have no JSON number form.
	if p.numeric && json.Valid([]byte(p.text)) {
		return []byte(p.text), nil
	}
	return json.Marshal(p.text)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*p = Price{}
	case json.Number:
		*p = NumericPrice(val.String())
	case string:
		*p = TextPrice(val)
	default:
		return fmt.Errorf("price: unsupported JSON value %s", string(data))
	}
	return nil
}
