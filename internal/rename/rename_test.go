package rename

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llehouerou/tigertag/internal/catalogue"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accents", "Quejas de Bandoneón", "Quejas de Bandoneon"},
		{"unsafe characters", `A/B\C?D%E*F:G|H"I<J>K.L`, "A B C D E F G H I J K L"},
		{"collapse", "  a __ b\t\tc  ", "a b c"},
		{"dots", "Vol. 2...", "Vol 2"},
		{"hyphen kept", "Pugliese - La Yumba - 1946", "Pugliese - La Yumba - 1946"},
		{"empty", "", "untitled"},
		{"only unsafe", "?*.", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugify_Truncates(t *testing.T) {
	long := strings.Repeat("ñ", 200)
	got := Slugify(long)
	if n := len([]rune(got)); n != 120 {
		t.Errorf("len = %d runes, want 120", n)
	}

	// Truncation landing on a space is trimmed.
	spaced := strings.Repeat("a", 119) + " b"
	if got := Slugify(spaced); got != strings.Repeat("a", 119) {
		t.Errorf("Slugify() = %q", got)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(filepath.Base(path)), 0o644); err != nil {
		t.Fatal(err)
	}
}

var yumba = record(catalogue.Fields{
	Title:     "La Yumba",
	Orchestra: "Osvaldo Pugliese",
	Date:      "1946-00-00",
})

func TestApply_CollisionAppendsCounter(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "track01.mp3")
	touch(t, src)
	touch(t, filepath.Join(dir, "Pugliese - La Yumba - 1946.mp3"))

	rec, err := Apply(src, yumba, DefaultTemplate())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := Record{Old: "track01.mp3", New: "Pugliese - La Yumba - 1946 (1).mp3"}
	if rec != want {
		t.Errorf("Apply() = %+v, want %+v", rec, want)
	}
	if _, err := os.Stat(filepath.Join(dir, want.New)); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source still present: %v", err)
	}

	// The pre-existing file is untouched.
	data, err := os.ReadFile(filepath.Join(dir, "Pugliese - La Yumba - 1946.mp3"))
	if err != nil || string(data) != "Pugliese - La Yumba - 1946.mp3" {
		t.Errorf("existing file changed: %q, %v", data, err)
	}
}

func TestTarget_SkipsTakenCounters(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "track02.mp3")
	touch(t, src)
	touch(t, filepath.Join(dir, "Pugliese - La Yumba - 1946.mp3"))
	touch(t, filepath.Join(dir, "Pugliese - La Yumba - 1946 (1).mp3"))

	got, ok := Target(src, yumba, DefaultTemplate())
	if !ok {
		t.Fatal("Target() reported no rename")
	}
	if want := filepath.Join(dir, "Pugliese - La Yumba - 1946 (2).mp3"); got != want {
		t.Errorf("Target() = %q, want %q", got, want)
	}
}

func TestApply_Idempotent(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Pugliese - La Yumba - 1946.mp3"))
	src := filepath.Join(dir, "track01.MP3")
	touch(t, src)

	first, err := Apply(src, yumba, DefaultTemplate())
	if err != nil {
		t.Fatal(err)
	}
	if first.New != "Pugliese - La Yumba - 1946 (1).mp3" {
		t.Fatalf("first rename = %+v", first)
	}

	second, err := Apply(filepath.Join(dir, first.New), yumba, DefaultTemplate())
	if err != nil {
		t.Fatal(err)
	}
	if !second.IsZero() {
		t.Errorf("second Apply() = %+v, want zero Record", second)
	}
}

func TestTarget_AlreadyCanonical(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Pugliese - La Yumba - 1946.flac")
	touch(t, src)

	got, ok := Target(src, yumba, DefaultTemplate())
	if ok || got != src {
		t.Errorf("Target() = %q, %v; want %q, false", got, ok, src)
	}
}

func TestTarget_LowercasesExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "track01.FLAC")
	touch(t, src)

	got, ok := Target(src, yumba, DefaultTemplate())
	if !ok || filepath.Base(got) != "Pugliese - La Yumba - 1946.flac" {
		t.Errorf("Target() = %q, %v", got, ok)
	}
}
