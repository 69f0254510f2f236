package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/homeledger/pkg/ledgerrpc"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantText  []string
	}{
		{
			name:      "success",
			wantLevel: "level=INFO",
			wantText:  []string{"RPC ok", "house_id=h1", "duration_ms="},
		},
		{
			name:      "client error",
			err:       connect.NewError(connect.CodeInvalidArgument, errors.New("percentages must sum to 100")),
			wantLevel: "level=WARN",
			wantText:  []string{"code=invalid_argument", "percentages must sum to 100"},
		},
		{
			name:      "server error",
			err:       connect.NewError(connect.CodeInternal, errors.New("disk full")),
			wantLevel: "level=ERROR",
			wantText:  []string{"code=internal", "disk full"},
		},
		{
			name:      "plain error",
			err:       errors.New("boom"),
			wantLevel: "level=ERROR",
			wantText:  []string{"code=unknown", "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				return nil, tt.err
			}
			req := connect.NewRequest(&ledgerrpc.GetBalancesRequest{HouseID: "h1"})
			_, err := LoggingInterceptor()(next)(context.Background(), req)
			if !errors.Is(err, tt.err) {
				t.Errorf("interceptor changed the error: got %v, want %v", err, tt.err)
			}

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("expected %s in %q", tt.wantLevel, out)
			}
			for _, want := range tt.wantText {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in %q", want, out)
				}
			}
		})
	}
}

func TestLoggingInterceptor_NoHouseID(t *testing.T) {
	buf := captureLogs(t)

	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, nil
	}
	req := connect.NewRequest(&ledgerrpc.CreateHouseRequest{Name: "H"})
	if _, err := LoggingInterceptor()(next)(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "house_id") {
		t.Errorf("unexpected house_id in %q", buf.String())
	}
}
