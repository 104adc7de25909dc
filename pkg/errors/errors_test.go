package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestVirtualErrorString(t *testing.T) {
	err := &VirtualError{
		Op:   "virtual.Content.Update",
		Kind: KindGeometry,
		Err:  ErrDetached,
	}
	want := "virtual.Content.Update [geometry]: item is detached"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestVirtualErrorWithItem(t *testing.T) {
	err := &VirtualError{
		Op:   "virtual.Content.Update",
		Kind: KindGeometry,
		Item: "p#intro",
		Err:  ErrNoLayout,
	}
	got := err.Error()
	if !strings.Contains(got, "item=p#intro") {
		t.Errorf("error string %q should contain item", got)
	}
}

func TestVirtualErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("measuring: %w", &VirtualError{Op: "op", Kind: KindGeometry, Err: ErrDetached})
	if !Is(err, ErrDetached) {
		t.Error("expected errors.Is to find ErrDetached through VirtualError")
	}
	var ve *VirtualError
	if !As(err, &ve) {
		t.Fatal("expected errors.As to find *VirtualError")
	}
	if ve.Kind != KindGeometry {
		t.Errorf("Kind = %v, want geometry", ve.Kind)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindGeometry, "geometry"},
		{KindStructure, "structure"},
		{KindConfig, "config"},
		{KindInit, "init"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Op = "virtual.Content.Update"
	if got, want := err.Error(), "panic in virtual.Content.Update: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *VirtualError
	handler := &testHandler{onError: func(err *VirtualError) { captured = err }}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&VirtualError{Op: "test.op", Kind: KindStructure, Err: ErrNoLayout})
	Report(nil)

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{onPanic: func(err *PanicError) { captured = err }}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.StackTrace == "" {
		t.Error("expected stack trace")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	oldHandler := DefaultHandler
	SetHandler(&testHandler{})
	defer SetHandler(oldHandler)

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()
	if got != 42 {
		t.Errorf("callback received %v, want 42", got)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandler(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := &LogHandler{Logger: zap.New(core), Verbose: true}

	h.HandleError(&VirtualError{
		Op:         "virtual.Content.Update",
		Kind:       KindGeometry,
		Item:       "div",
		Err:        ErrDetached,
		StackTrace: "stack",
	})
	h.HandlePanic(&PanicError{Op: "virtual.frame", Value: "boom"})
	h.HandleError(nil)
	h.HandlePanic(nil)

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", logs.Len())
	}
	warn := logs.All()[0]
	if warn.Level != zapcore.WarnLevel {
		t.Errorf("error entry level = %v, want warn", warn.Level)
	}
	fields := warn.ContextMap()
	if fields["kind"] != "geometry" || fields["item"] != "div" || fields["stack"] != "stack" {
		t.Errorf("unexpected fields %v", fields)
	}
	if logs.All()[1].Level != zapcore.ErrorLevel {
		t.Errorf("panic entry level = %v, want error", logs.All()[1].Level)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

type testHandler struct {
	onError func(*VirtualError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *VirtualError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
