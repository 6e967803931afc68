package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocycle-backend/internal/offline/store"
)

func runAgent(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCollectQueuesWhenServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	storePath := filepath.Join(t.TempDir(), "pending.db")
	out, err := runAgent(t,
		"collect",
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--server", server.URL,
		"--user", "user-1",
		"--store", storePath,
		"--type", "paper",
		"--quantity", "5",
		"--price", "2",
		"--zone", "zone_1",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "saved offline")
	assert.Contains(t, out, "1 pending")

	st, err := store.Open(storePath)
	require.NoError(t, err)
	defer st.Close()

	records, err := st.ListWasteCollections()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "paper", records[0].WasteType)
	assert.Equal(t, 5.0, records[0].Quantity)
	assert.Equal(t, "zone_1", records[0].CollectionZone)
}

func TestCollectPostsDirectlyWhenReachable(t *testing.T) {
	posts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/waste-collections" {
			posts++
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	storePath := filepath.Join(t.TempDir(), "pending.db")
	out, err := runAgent(t,
		"collect",
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--server", server.URL,
		"--user", "user-1",
		"--store", storePath,
		"--type", "paper",
		"--quantity", "5",
		"--price", "2",
		"--zone", "zone_1",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded on server")
	assert.Equal(t, 1, posts)

	st, err := store.Open(storePath)
	require.NoError(t, err)
	defer st.Close()

	count, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCollectDoesNotQueueServerRejections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	storePath := filepath.Join(t.TempDir(), "pending.db")
	_, err := runAgent(t,
		"collect",
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--server", server.URL,
		"--user", "user-1",
		"--store", storePath,
		"--type", "paper",
		"--quantity", "5",
		"--price", "2",
		"--zone", "zone_1",
	)
	require.Error(t, err)

	st, openErr := store.Open(storePath)
	require.NoError(t, openErr)
	defer st.Close()

	count, countErr := st.Count()
	require.NoError(t, countErr)
	assert.Equal(t, 0, count)
}
