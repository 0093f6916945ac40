package errors

import (
	stderrors "errors"
	"testing"
)

func TestGetCode_AppError(t *testing.T) {
	err := UnknownFormat([]string{"foo"})
	if GetCode(err) != CodeUnknownFormat {
		t.Errorf("GetCode() = %q, want %q", GetCode(err), CodeUnknownFormat)
	}
}

func TestGetCode_PlainError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "UNKNOWN" {
		t.Errorf("GetCode() = %q, want UNKNOWN", got)
	}
}

func TestWrap_PreservesCode(t *testing.T) {
	original := BadDateTime("not-a-date")
	wrapped := Wrap(original, "normalising row 3")
	if GetCode(wrapped) != CodeBadDateTime {
		t.Errorf("GetCode(wrapped) = %q, want %q", GetCode(wrapped), CodeBadDateTime)
	}
	if stderrors.Unwrap(wrapped) != original {
		t.Error("Unwrap(wrapped) did not return original error")
	}
}

func TestWrap_NilIsNil(t *testing.T) {
	if Wrap(nil, "message") != nil {
		t.Error("Wrap(nil) did not return nil")
	}
}

func TestWrap_NonAppError(t *testing.T) {
	wrapped := Wrap(stderrors.New("boom"), "context")
	if GetCode(wrapped) != CodeInternalError {
		t.Errorf("GetCode(wrapped plain error) = %q, want %q", GetCode(wrapped), CodeInternalError)
	}
}

func TestPersistenceFailed_MessageIncludesTransmitter(t *testing.T) {
	err := PersistenceFailed("t1", stderrors.New("timeout"))
	if err.Code != CodePersistenceFailed {
		t.Errorf("Code = %q, want %q", err.Code, CodePersistenceFailed)
	}
	if err.Error() == "" {
		t.Error("Error() is empty")
	}
}
