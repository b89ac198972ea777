package apperr_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/DjordjeVuckovic/iiw-bench/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("delta must be non-negative")

	if err.Error() != "delta must be non-negative" {
		t.Errorf("expected 'delta must be non-negative', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("unexpected end of JSON input")
	err := apperr.NewValidationWrap("invalid judgements", inner)

	if err.Error() != "invalid judgements: unexpected end of JSON input" {
		t.Errorf("expected 'invalid judgements: unexpected end of JSON input', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("unknown color space")

	wrapped := fmt.Errorf("load prediction: %w", original)
	doubleWrapped := fmt.Errorf("evaluate image 1234: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "unknown color space" {
		t.Errorf("expected 'unknown color space', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("decode png failed")
	wrapped := fmt.Errorf("prediction error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestNewNotFound(t *testing.T) {
	err := apperr.NewNotFound("method", "bell2014", nil)
	if err.Error() != "method bell2014 not found" {
		t.Errorf("unexpected message %q", err.Error())
	}

	wrapped := apperr.NewNotFound("image", "1234", fs.ErrNotExist)
	if !errors.Is(wrapped, fs.ErrNotExist) {
		t.Error("expected NotFoundError to unwrap to fs.ErrNotExist")
	}

	var nf *apperr.NotFoundError
	if !errors.As(fmt.Errorf("handler: %w", wrapped), &nf) {
		t.Fatal("errors.As should find NotFoundError")
	}
	if nf.Resource != "image" {
		t.Errorf("expected resource 'image', got %q", nf.Resource)
	}
}
