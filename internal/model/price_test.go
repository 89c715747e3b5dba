package model

import (
	"encoding/json"
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input   string
		want    Price
		wantErr bool
	}{
		{"12.99", 1299, false},
		{"12.9", 1290, false},
		{"12", 1200, false},
		{"0.05", 5, false},
		{".50", 50, false},
		{"0", 0, false},
		{"-3.25", -325, false},
		{"+3.25", 325, false},
		{"12.999", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"12.x9", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePrice(%q): expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrice(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePrice(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestPriceString(t *testing.T) {
	tests := []struct {
		price Price
		want  string
	}{
		{1299, "12.99"},
		{1290, "12.90"},
		{5, "0.05"},
		{0, "0.00"},
		{-325, "-3.25"},
	}

	for _, tt := range tests {
		if got := tt.price.String(); got != tt.want {
			t.Errorf("Price(%d).String() = %q, want %q", int64(tt.price), got, tt.want)
		}
	}
}

func TestPriceJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Price(1299))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "12.99" {
		t.Errorf("expected 12.99, got %s", data)
	}

	var p Price
	if err := json.Unmarshal([]byte("12.99"), &p); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if p != 1299 {
		t.Errorf("expected 1299, got %d", p)
	}

	// Clients sometimes send prices as strings
	if err := json.Unmarshal([]byte(`"8.50"`), &p); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if p != 850 {
		t.Errorf("expected 850, got %d", p)
	}
}

func TestPriceMarshalInsideBook(t *testing.T) {
	b := Book{ID: 1, Title: "Test", Author: "Author", Price: 1650}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if string(decoded["price"]) != "16.50" {
		t.Errorf("expected price 16.50, got %s", decoded["price"])
	}
}
