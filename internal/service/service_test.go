package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/homeledger/internal/metrics"
	"github.com/mmynk/homeledger/internal/middleware"
	"github.com/mmynk/homeledger/internal/storage/sqlite"
	"github.com/mmynk/homeledger/pkg/ledgerrpc"
)

// testNow is the fixed clock every test server runs on (a Tuesday).
var testNow = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

type testClients struct {
	houses *ledgerrpc.HouseServiceClient
	ledger *ledgerrpc.LedgerServiceClient
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T, opts ...Option) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	opts = append([]Option{
		WithClock(func() time.Time { return testNow }),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	}, opts...)

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor())
	housePath, houseHandler := ledgerrpc.NewHouseServiceHandler(NewHouseService(store), interceptors)
	ledgerPath, ledgerHandler := ledgerrpc.NewLedgerServiceHandler(NewLedgerService(store, opts...), interceptors)

	mux := http.NewServeMux()
	mux.Handle(housePath, houseHandler)
	mux.Handle(ledgerPath, ledgerHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		houses: ledgerrpc.NewHouseServiceClient(http.DefaultClient, server.URL),
		ledger: ledgerrpc.NewLedgerServiceClient(http.DefaultClient, server.URL),
	}
}

// createHouse creates a house with the given members and returns the house ID
// and a display name -> member ID map.
func createHouse(t *testing.T, c testClients, names ...string) (string, map[string]string) {
	t.Helper()
	resp, err := c.houses.CreateHouse(context.Background(), connect.NewRequest(&ledgerrpc.CreateHouseRequest{
		Name:    "Test House",
		Members: names,
	}))
	if err != nil {
		t.Fatalf("CreateHouse failed: %v", err)
	}
	ids := make(map[string]string, len(names))
	for _, m := range resp.Msg.Members {
		ids[m.DisplayName] = m.ID
	}
	return resp.Msg.House.ID, ids
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected %v, got %v (%v)", want, got, err)
	}
}
