//go:build integration

package mongodb

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories/storetest"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run with: PROJECTDESK_TEST_MONGO_URI=mongodb://localhost:27017/?replicaSet=rs0 go test -tags integration ./internal/app/repositories/mongodb
// Transactions need a replica set.
const mongoURIEnv = "PROJECTDESK_TEST_MONGO_URI"

// newTestStore returns a store on a throwaway database with indexes in place
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv(mongoURIEnv)
	if uri == "" {
		t.Skipf("%s not set", mongoURIEnv)
	}
	ctx := context.Background()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	name := "projectdesk_it_" + strings.ReplaceAll(models.NewID(), "-", "")[:16]
	store := NewStore(client, name)
	t.Cleanup(func() {
		_ = client.Database(name).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestStore(t *testing.T) {
	storetest.Run(t, newTestStore(t))
}
