package table

import (
	"reflect"
	"testing"
)

func TestFormatPadsColumns(t *testing.T) {
	got := Format([][]string{
		{"game.prg", "1234", "PRG"},
		{"a", "7", "D64"},
	}, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"game.prg  1234  PRG",
		"a            7  D64",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatCountsDisplayWidth(t *testing.T) {
	got := Format([][]string{
		{"┌──┐", "box"},
		{"ab", "x"},
	}, nil)
	want := []string{
		"┌──┐  box",
		"ab    x",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatRaggedRows(t *testing.T) {
	got := Format([][]string{
		{"dir", "list"},
		{"shell"},
	}, nil)
	want := []string{
		"dir    list",
		"shell",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
