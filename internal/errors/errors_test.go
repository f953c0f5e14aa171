package errors

import (
	"errors"
	"testing"
)

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "context"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := ErrIsDirectory
	err := Wrap(cause, "foo.txt")
	if !Is(err, ErrIsDirectory) {
		t.Error("expected the wrapped error to still match its cause via Is")
	}
	if err.Error() != "foo.txt: is a directory" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestWrapfNil(t *testing.T) {
	if err := Wrapf(nil, "%s", "context"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestWrapfFormatsMessage(t *testing.T) {
	err := Wrapf(ErrInvalidArgument, "flag %s", "-C")
	if err.Error() != "flag -C: invalid argument" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestIsDelegatesToStandardErrors(t *testing.T) {
	wrapped := errors.New("outer")
	if Is(wrapped, ErrIsDirectory) {
		t.Error("unrelated errors must not match")
	}
}
