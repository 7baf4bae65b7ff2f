package gitsource

import (
	"path/filepath"
	"testing"
)

func TestIsGitURL(t *testing.T) {
	testCases := []struct {
		source   string
		expected bool
	}{
		{"https://github.com/user/cards.git", true},
		{"http://example.com/cards.git", true},
		{"git@github.com:user/cards.git", true},
		{"https://example.com/page", false},
		{"./local/dir", false},
		{"/abs/path", false},
		{"cards", false},
	}

	for _, tc := range testCases {
		if got := IsGitURL(tc.source); got != tc.expected {
			t.Errorf("IsGitURL(%q) = %v, expected %v", tc.source, got, tc.expected)
		}
	}
}

func TestLocalPathFor(t *testing.T) {
	testCases := []struct {
		name     string
		repoURL  string
		expected string
		wantErr  bool
	}{
		{
			name:     "https url",
			repoURL:  "https://github.com/user/cards.git",
			expected: filepath.Join("cache", "github.com", "user", "cards"),
		},
		{
			name:     "scp-like url",
			repoURL:  "git@github.com:user/cards.git",
			expected: filepath.Join("cache", "github.com", "user", "cards"),
		},
		{
			name:    "unparseable url",
			repoURL: "not a url",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := localPathFor("cache", tc.repoURL)
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("localPathFor() returned an unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
