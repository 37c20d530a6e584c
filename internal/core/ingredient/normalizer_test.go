package ingredient

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
		want   []string
	}{
		{
			name:   "blank and whitespace only",
			inputs: []string{"", "   ", "\t", "\n"},
			want:   []string{},
		},
		{
			name:   "filipino translation",
			inputs: []string{"sibuyas", "kamatis", "egg"},
			want:   []string{"onion", "tomato", "egg"},
		},
		{
			name:   "brand words dropped and plural singularized",
			inputs: []string{"Knorr", "Magic Sarap", "chickens"},
			want:   []string{"chicken"},
		},
		{
			name:   "digit typos repaired before translation",
			inputs: []string{"t0mat0", "onions", "bawang"},
			want:   []string{"tomato", "onion", "garlic"},
		},
		{
			name:   "multi-word phrases keep their plural",
			inputs: []string{"sitaw", "kangkong", "seasoning", "pepper", "peppers"},
			want:   []string{"string beans", "water spinach", "pepper"},
		},
		{
			name:   "dedup preserves first occurrence order",
			inputs: []string{"onion", "tomato", "onion", "garlic", "tomato"},
			want:   []string{"onion", "tomato", "garlic"},
		},
		{
			name:   "punctuation stripped and whitespace collapsed",
			inputs: []string{"  Kamatis! ", "soy   sauce,"},
			want:   []string{"tomato", "soy sauce"},
		},
		{
			name:   "irregular plurals",
			inputs: []string{"tomatoes", "potatoes", "leaves", "cloves"},
			want:   []string{"tomato", "potato", "leaf", "clove"},
		},
		{
			name:   "short words keep trailing s",
			inputs: []string{"gas"},
			want:   []string{"gas"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.inputs, DefaultMax)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.inputs, got, tt.want)
			}
		})
	}
}

func TestNormalizeCap(t *testing.T) {
	inputs := []string{
		"onion", "garlic", "tomato", "potato", "eggplant",
		"chicken", "pork", "beef", "fish",
	}

	got := Normalize(inputs, 6)
	if len(got) != 6 {
		t.Fatalf("Normalize with 9 distinct inputs returned %d terms, want 6", len(got))
	}
	want := []string{"onion", "garlic", "tomato", "potato", "eggplant", "chicken"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize cap kept %v, want first six %v", got, want)
	}

	if got := Normalize(inputs[:3], 6); len(got) != 3 {
		t.Errorf("Normalize with 3 distinct inputs returned %d terms, want 3", len(got))
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"sibuyas", "t0mat0", "chickens", "sitaw"}

	once := Normalize(inputs, DefaultMax)
	twice := Normalize(once, DefaultMax)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize is not idempotent: first %v, second %v", once, twice)
	}
}

func TestNormalizeDefaultMax(t *testing.T) {
	inputs := []string{
		"onion", "garlic", "tomato", "potato", "eggplant",
		"chicken", "pork",
	}

	if got := Normalize(inputs, 0); len(got) != DefaultMax {
		t.Errorf("Normalize with max=0 returned %d terms, want %d", len(got), DefaultMax)
	}
	if got := NormalizeDefault(inputs); len(got) != DefaultMax {
		t.Errorf("NormalizeDefault returned %d terms, want %d", len(got), DefaultMax)
	}
}
