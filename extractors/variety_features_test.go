package extractors

import "testing"

func TestParseVarietyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want VarietyFeatures
	}{
		{
			name: "full form",
			in:   "Bitter Gourd C.v. DBGS-54",
			want: VarietyFeatures{CropName: "Bitter Gourd C", Prefix: "DBGS", NumericID: "54", Abbreviation: "C.v."},
		},
		{
			name: "prefix and id only",
			in:   "DBGS-61",
			want: VarietyFeatures{CropName: "DBGS", Prefix: "DBGS", NumericID: "61", Abbreviation: Unknown},
		},
		{
			name: "no numeric id",
			in:   "Sona Masuri",
			want: VarietyFeatures{CropName: "Sona Masuri", Prefix: Unknown, NumericID: Unknown, Abbreviation: Unknown},
		},
		{
			name: "var abbreviation",
			in:   "Tomato var. Arka Vikas 12",
			want: VarietyFeatures{CropName: "Tomato var", Prefix: Unknown, NumericID: "12", Abbreviation: "var."},
		},
		{
			name: "empty",
			in:   "",
			want: VarietyFeatures{CropName: Unknown, Prefix: Unknown, NumericID: Unknown, Abbreviation: Unknown},
		},
		{
			name: "whitespace only",
			in:   "   ",
			want: VarietyFeatures{CropName: Unknown, Prefix: Unknown, NumericID: Unknown, Abbreviation: Unknown},
		},
		{
			name: "digits only",
			in:   "1010",
			want: VarietyFeatures{CropName: Unknown, Prefix: Unknown, NumericID: "1010", Abbreviation: Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVarietyName(tt.in)
			if got != tt.want {
				t.Errorf("ParseVarietyName(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseVarietyNameFirstNumericRunWins(t *testing.T) {
	got := ParseVarietyName("IR-64 (2014 release)")
	if got.NumericID != "64" {
		t.Errorf("numeric id = %q, want first run 64", got.NumericID)
	}
	if got.Prefix != "IR" {
		t.Errorf("prefix = %q, want IR", got.Prefix)
	}
}

func TestGroupKey(t *testing.T) {
	a := ParseVarietyName("DBGS-54")
	b := ParseVarietyName("DBGS-54 ")
	c := ParseVarietyName("DBGS-61")

	if a.GroupKey() != b.GroupKey() {
		t.Errorf("whitespace variant changed group key: %q vs %q", a.GroupKey(), b.GroupKey())
	}
	if a.GroupKey() == c.GroupKey() {
		t.Error("distinct numeric ids must not share a group key")
	}
}
