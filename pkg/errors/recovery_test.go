package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		panic("test panic message")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}

	if panicErr.Operation != "TestOperation" {
		t.Errorf("Expected operation 'TestOperation', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}

	expectedMsg := "panic in TestOperation: test panic message"
	if panicErr.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, panicErr.Error())
	}
	if !strings.Contains(panicErr.String(), "Stack trace:") {
		t.Error("String() should include the stack trace")
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_KeepsExistingError(t *testing.T) {
	base := fmt.Errorf("original")
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		err = base
		panic("late panic")
	}

	err := testFunc()
	if !errors.Is(err, base) {
		t.Fatalf("expected original error in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "late panic") {
		t.Errorf("expected panic value in message, got %q", err.Error())
	}
}

func TestPanicErrorUnwrap(t *testing.T) {
	sentinel := fmt.Errorf("index out of range")
	err := SafeExecute("model function", func() error {
		panic(sentinel)
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected panic value to be unwrapped, got %v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	want := fmt.Errorf("plain failure")
	if err := SafeExecute("op", func() error { return want }); err != want {
		t.Errorf("SafeExecute() = %v, want %v", err, want)
	}
	if err := SafeExecute("op", func() error { return nil }); err != nil {
		t.Errorf("SafeExecute() = %v, want nil", err)
	}
}
