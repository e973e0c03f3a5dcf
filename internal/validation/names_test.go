package validation

import (
	"errors"
	"testing"
)

func TestFolderName(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectValid bool
	}{
		{"simple", "Photos", true},
		{"with_spaces", "New Folder", true},
		{"with_dots", "v1.2..final", true},
		{"unicode", "Документы", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"slash", "a/b", false},
		{"dot", ".", false},
		{"dotdot", "..", false},
		{"null_byte", "a\x00b", false},
		{"newline", "a\nb", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := FolderName(tc.input)
			if tc.expectValid && err != nil {
				t.Errorf("Expected %q to be valid, got: %v", tc.input, err)
			}
			if !tc.expectValid && err == nil {
				t.Errorf("Expected %q to be rejected", tc.input)
			}
		})
	}
}

func TestFolderNameBlankIsErrEmptyName(t *testing.T) {
	if err := FolderName(" "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}
}

func TestRemotePath(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectValid bool
	}{
		{"root", "gdrive:", true},
		{"root_slash", "gdrive:/", true},
		{"nested", "s3:/bucket/dir/file.txt", true},
		{"dots_in_name", "s3:/a..b", true},
		{"no_remote", "/tmp/file", false},
		{"empty_remote", ":/x", false},
		{"empty", "", false},
		{"slash_in_remote", "a/b:/x", false},
		{"parent", "s3:/a/../b", false},
		{"null_byte", "s3:/a\x00", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := RemotePath(tc.input)
			if tc.expectValid && err != nil {
				t.Errorf("Expected %q to be valid, got: %v", tc.input, err)
			}
			if !tc.expectValid && err == nil {
				t.Errorf("Expected %q to be rejected", tc.input)
			}
		})
	}
}
