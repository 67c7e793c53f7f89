package parser

import (
	"strings"
	"testing"

	"github.com/Belphemur/Addic7edSubtitles/internal/models"
	"github.com/Belphemur/Addic7edSubtitles/internal/testutil"
)

func TestShowListParser_ParseHtml(t *testing.T) {
	html := testutil.GenerateShowListHTML([]testutil.ShowRowOptions{
		{ShowID: "123", ShowName: "Example Show"},
		{ShowID: "7", ShowName: "Doctor Who"},
		{ShowID: "8", ShowName: "Doctor Who"},
		{ShowID: "42", ShowName: "Law &amp; Order"},
	})

	shows, err := NewShowListParser().ParseHtml(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseHtml failed: %v", err)
	}

	expected := []models.ShowHandle{
		{ID: "123", Name: "Example Show"},
		{ID: "7", Name: "Doctor Who"},
		{ID: "8", Name: "Doctor Who"},
		{ID: "42", Name: "Law & Order"},
	}
	if len(shows) != len(expected) {
		t.Fatalf("Expected %d shows, got %d: %v", len(expected), len(shows), shows)
	}
	for i := range expected {
		if shows[i] != expected[i] {
			t.Errorf("shows[%d] = %+v, want %+v", i, shows[i], expected[i])
		}
	}
}

func TestShowListParser_Empty(t *testing.T) {
	shows, err := NewShowListParser().ParseHtml(strings.NewReader(testutil.GenerateEmptyHTML()))
	if err != nil {
		t.Fatalf("ParseHtml failed: %v", err)
	}
	if len(shows) != 0 {
		t.Errorf("Expected no shows, got %v", shows)
	}
}

func TestShowIndex_FirstOccurrenceWins(t *testing.T) {
	index := ShowIndex([]models.ShowHandle{
		{ID: "7", Name: "Doctor Who"},
		{ID: "8", Name: "Doctor Who"},
		{ID: "9", Name: "Sherlock"},
	})

	if index["Doctor Who"] != "7" {
		t.Errorf("Doctor Who = %q, want 7", index["Doctor Who"])
	}
	if index["Sherlock"] != "9" {
		t.Errorf("Sherlock = %q, want 9", index["Sherlock"])
	}
	if len(index) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(index))
	}
}
