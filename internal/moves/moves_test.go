package moves

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Sequence
		wantErr bool
	}{
		{
			name:  "single spaces",
			input: "Nh3 d5 g3 e5",
			want:  Sequence{"Nh3", "d5", "g3", "e5"},
		},
		{
			name:  "irregular whitespace",
			input: "  e4\te5  Nf3\n",
			want:  Sequence{"e4", "e5", "Nf3"},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrEmpty) {
					t.Errorf("Parse() error = %v, want ErrEmpty", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMovetext(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Sequence
		wantErr bool
	}{
		{
			name:  "spaced move numbers",
			input: "1. Nh3 d5 2. g3 e5 3. f4 Bxh3",
			want:  Sequence{"Nh3", "d5", "g3", "e5", "f4", "Bxh3"},
		},
		{
			name:  "attached move numbers",
			input: "1.e4 e5 2.Nf3 Nc6 3.Bb5",
			want:  Sequence{"e4", "e5", "Nf3", "Nc6", "Bb5"},
		},
		{
			name:  "black continuation and result",
			input: "12...O-O 13. Qd2 1-0",
			want:  Sequence{"O-O", "Qd2"},
		},
		{
			name:  "bare tokens pass through",
			input: "d4 Nf6 c4",
			want:  Sequence{"d4", "Nf6", "c4"},
		},
		{
			name:    "only numbers",
			input:   "1. 2. *",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMovetext(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMovetext() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMovetext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSequence_Prefix(t *testing.T) {
	seq := Sequence{"e4", "e5", "Nf3"}

	if got := seq.Prefix(2).String(); got != "e4 e5" {
		t.Errorf("Prefix(2) = %q, want %q", got, "e4 e5")
	}
	if got := len(seq.Prefix(10)); got != 3 {
		t.Errorf("len(Prefix(10)) = %d, want 3", got)
	}
	if got := len(seq.Prefix(-1)); got != 0 {
		t.Errorf("len(Prefix(-1)) = %d, want 0", got)
	}
}
