package models

import (
	"encoding/json"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type priceHolder struct {
	Price Price `bson:"price"`
}

func decodePrice(t *testing.T, doc bson.D) Price {
	t.Helper()
	data, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	var h priceHolder
	if err := bson.Unmarshal(data, &h); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	return h.Price
}

func TestPrice_UnmarshalBSONValue(t *testing.T) {
	dec, err := primitive.ParseDecimal128("725.50")
	if err != nil {
		t.Fatalf("ParseDecimal128: %v", err)
	}

	tests := []struct {
		name        string
		value       interface{}
		wantJSON    string
		wantNumeric bool
	}{
		{"int32", int32(500), "500", true},
		{"int64", int64(1200), "1200", true},
		{"double", 650.5, "650.5", true},
		{"decimal128", dec, "725.50", true},
		{"string", "450", `"450"`, false},
		{"null", nil, "null", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := decodePrice(t, bson.D{{Key: "price", Value: tc.value}})
			got, err := json.Marshal(p)
			if err != nil {
				t.Fatalf("json.Marshal: %v", err)
			}
			if string(got) != tc.wantJSON {
				t.Errorf("json = %s, want %s", got, tc.wantJSON)
			}
			if p.IsNumeric() != tc.wantNumeric {
				t.Errorf("IsNumeric = %v, want %v", p.IsNumeric(), tc.wantNumeric)
			}
		})
	}
}

func TestPrice_Missing(t *testing.T) {
	p := decodePrice(t, bson.D{{Key: "title", Value: "Loft A"}})
	if p.Valid() {
		t.Fatal("expected absent price to be invalid")
	}
	got, _ := json.Marshal(p)
	if string(got) != "null" {
		t.Errorf("json = %s, want null", got)
	}
}

func TestPrice_UnsupportedType(t *testing.T) {
	data, _ := bson.Marshal(bson.D{{Key: "price", Value: bson.A{1, 2}}})
	var h priceHolder
	if err := bson.Unmarshal(data, &h); err == nil {
		t.Fatal("expected an error for an array price")
	}
}

func TestPrice_NonFiniteRendersAsString(t *testing.T) {
	p := decodePrice(t, bson.D{{Key: "price", Value: math.Inf(1)}})
	got, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(got) != `"+Inf"` {
		t.Errorf("json = %s, want \"+Inf\"", got)
	}
}

func TestPrice_JSONRoundTripKeepsForm(t *testing.T) {
	for _, in := range []string{`500`, `"500"`, `null`, `12.75`} {
		var p Price
		if err := json.Unmarshal([]byte(in), &p); err != nil {
			t.Fatalf("Unmarshal(%s): %v", in, err)
		}
		out, _ := json.Marshal(p)
		if string(out) != in {
			t.Errorf("round trip of %s gave %s", in, out)
		}
	}
}
