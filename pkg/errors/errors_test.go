package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidColor, "invalid color: %s", "#zz")
	if err.Code != ErrCodeInvalidColor {
		t.Errorf("code = %s", err.Code)
	}
	if got := err.Error(); got != "INVALID_COLOR: invalid color: #zz" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeRenderFailed, cause, "writing %s", "out.svg")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not found by errors.Is")
	}
	if got := err.Error(); !strings.Contains(got, "disk full") {
		t.Errorf("Error() = %q, cause missing", got)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeFileNotFound, "no such file")
	if !Is(err, ErrCodeFileNotFound) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeInvalidInput) {
		t.Error("Is() = true for different code")
	}
	if Is(stderrors.New("plain"), ErrCodeFileNotFound) {
		t.Error("Is() = true for a plain error")
	}

	// Matching works through fmt wrapping.
	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, ErrCodeFileNotFound) {
		t.Error("Is() = false through a wrapped chain")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInternal, "boom")); got != ErrCodeInternal {
		t.Errorf("GetCode = %s", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for plain error = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "bad input")); got != "bad input" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid", "out/render.svg", false},
		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"null byte", "out\x00.svg", true},
		{"too long", strings.Repeat("a", 501), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %v, want INVALID_PATH", err)
			}
		})
	}
}

func TestValidateElementID(t *testing.T) {
	if err := ValidateElementID("abc-123_XYZ"); err != nil {
		t.Errorf("valid id rejected: %v", err)
	}
	for _, id := range []string{"", strings.Repeat("x", 129), "a\nb"} {
		if err := ValidateElementID(id); !Is(err, ErrCodeInvalidDocument) {
			t.Errorf("id %q: error = %v, want INVALID_DOCUMENT", id, err)
		}
	}
}

func TestValidateDimensions(t *testing.T) {
	if err := ValidateDimensions(100, 50); err != nil {
		t.Errorf("valid dimensions rejected: %v", err)
	}
	if err := ValidateDimensions(-1, 50); err == nil {
		t.Error("negative width accepted")
	}
	nan := float64(0)
	nan /= nan
	if err := ValidateDimensions(nan, 50); err == nil {
		t.Error("NaN width accepted")
	}
}
