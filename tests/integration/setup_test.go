package integration

import (
	"os"
	"testing"

	"github.com/dimitrije/datacoll-api/internal/handlers"
	"github.com/dimitrije/datacoll-api/internal/services"
	"github.com/dimitrije/datacoll-api/internal/store/postgres"
	"github.com/dimitrije/datacoll-api/tests/testutil"
	"go.uber.org/zap"
)

// TestMain runs before all tests in this package
func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}

type testEnv struct {
	DB     *testutil.TestDB
	Store  *postgres.Store
	Client *testutil.HTTPTestClient
}

// setupTest starts a postgres container and wires the full stack against it
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := testutil.SetupTestDB(t)
	st := postgres.New(tdb.DB)
	dispatcher := handlers.NewDispatcher(
		services.NewCollectionService(st, 100),
		services.NewMemberService(st, "http://hdl.handle.net", 100),
		services.NewCapabilityService(st),
		"test",
		zap.NewNop(),
	)
	return &testEnv{
		DB:     tdb,
		Store:  st,
		Client: testutil.NewHTTPTestClient(t, dispatcher),
	}
}

func strptr(s string) *string { return &s }
