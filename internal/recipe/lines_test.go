package recipe

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/charmap"
)

func TestReadLines(t *testing.T) {
	input := "# recipes\n" +
		"{100}{}{PID_A@@@@A 1@@OUT 1@exp}\n" +
		"\n" +
		"PID_B@@@@B 1@@OUT 1@exp\r\n" +
		"{200}{aux}{}\n" +
		"{300}{}{text {with} braces}\n"

	got, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	want := []Line{
		{Index: 100, Text: "PID_A@@@@A 1@@OUT 1@exp"},
		{Index: 4, Text: "PID_B@@@@B 1@@OUT 1@exp"},
		{Index: 300, Text: "text {with} braces"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadLines_MixedShapes(t *testing.T) {
	input := strings.Join([]string{
		"# craft book",
		"{100}{}{" + zaplatkaRecord + "}",
		"",
		"{101}{}{}",
		meatJerkyNumeric,
		"{102}{sound}{N@{braces}@@@A 1@@B 1@exp}\r",
	}, "\n")

	lines, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	want := []Line{
		{Index: 100, Text: zaplatkaRecord},
		{Index: 5, Text: meatJerkyNumeric},
		{Index: 102, Text: "N@{braces}@@@A 1@@B 1@exp"},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("ReadLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadLines_MalformedMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unterminated", input: "{100}{}{text\n", want: "expected '}'"},
		{name: "missing part", input: "{100}text\n", want: "expected '{'"},
		{name: "missing text part", input: "{1}{}", want: "expected '{'"},
		{name: "bad index", input: "{x}{}{text}\n", want: "malformed message index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLines(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("ReadLines() error = %v, want containing %q", err, tt.want)
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Errorf("ReadLines() error = %v, want line number", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("{1}{}{Вяленое мясо}")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	r, err := Decode(strings.NewReader(encoded), "cp1251")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	text, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(text) != "{1}{}{Вяленое мясо}" {
		t.Errorf("Decode() = %q", text)
	}

	if _, err := Decode(strings.NewReader(""), "latin9"); err == nil {
		t.Error("Decode(latin9) error = nil, want error")
	}
}
