package util

import (
	"regexp"
	"strings"
	"testing"
)

func TestTransliterateFilename_ThaiToLatin(t *testing.T) {
	got := TransliterateFilename("รายงาน ประจำวัน.jpg")

	if !strings.HasSuffix(got, ".jpg") {
		t.Errorf("extension lost: %q", got)
	}
	if ok, _ := regexp.MatchString(`^[a-z0-9\-_.]+$`, got); !ok {
		t.Errorf("result contains non storage-safe characters: %q", got)
	}
	if strings.ContainsAny(got, " ") {
		t.Errorf("spaces not replaced: %q", got)
	}
}

func TestTransliterateFilename_AppendsTimestamp(t *testing.T) {
	got := TransliterateFilename("photo.PNG")

	if ok, _ := regexp.MatchString(`^photo-\d+\.png$`, got); !ok {
		t.Errorf("TransliterateFilename(photo.PNG) = %q, want photo-<millis>.png", got)
	}
}

func TestTransliterateFilename_CollapsesDashes(t *testing.T) {
	got := TransliterateFilename("a  b--c.jpg")

	if strings.Contains(got, "--") {
		t.Errorf("consecutive dashes kept: %q", got)
	}
	if strings.HasPrefix(got, "-") {
		t.Errorf("leading dash kept: %q", got)
	}
}

func TestTransliterateFilename_StripsSpecialCharacters(t *testing.T) {
	got := TransliterateFilename("rep@ort(1)!.jpg")

	if strings.ContainsAny(got, "@()!") {
		t.Errorf("special characters kept: %q", got)
	}
}

func TestTransliterateFilename_Empty(t *testing.T) {
	if got := TransliterateFilename(""); got != "" {
		t.Errorf("TransliterateFilename(\"\") = %q, want \"\"", got)
	}
}
