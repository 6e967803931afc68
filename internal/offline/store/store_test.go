package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pending.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, path
}

func strPtr(s string) *string { return &s }

func TestEnqueueAndListWasteCollections(t *testing.T) {
	st, _ := openTestStore(t)

	first, err := st.EnqueueWasteCollection(PendingWasteCollection{
		UserID:           "user-1",
		WasteType:        "paper",
		Quantity:         5,
		PricePerKg:       2,
		CollectionZone:   "zone_1",
		AvailableForSale: false,
	})
	require.NoError(t, err)

	second, err := st.EnqueueWasteCollection(PendingWasteCollection{
		UserID:           "user-1",
		WasteType:        "plastic",
		Quantity:         3.5,
		PricePerKg:       4,
		CollectionZone:   "zone_2",
		AvailableForSale: true,
		VoiceDescription: strPtr("bags by the gate"),
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	records, err := st.ListWasteCollections()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, first, records[0].LocalID)
	assert.Equal(t, "paper", records[0].WasteType)
	assert.Equal(t, 5.0, records[0].Quantity)
	assert.Equal(t, 2.0, records[0].PricePerKg)
	assert.Equal(t, "zone_1", records[0].CollectionZone)
	assert.False(t, records[0].AvailableForSale)
	assert.Nil(t, records[0].VoiceDescription)
	assert.NotZero(t, records[0].CreatedAt)

	assert.Equal(t, second, records[1].LocalID)
	assert.True(t, records[1].AvailableForSale)
	require.NotNil(t, records[1].VoiceDescription)
	assert.Equal(t, "bags by the gate", *records[1].VoiceDescription)
}

func TestEnqueueAndListComplaints(t *testing.T) {
	st, _ := openTestStore(t)

	id, err := st.EnqueueComplaint(PendingComplaint{
		UserID:      "user-1",
		Description: "overflowing container",
		Location:    "zone_3",
		ImageData:   strPtr("aGVsbG8="),
	})
	require.NoError(t, err)

	records, err := st.ListComplaints()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].LocalID)
	assert.Equal(t, "overflowing container", records[0].Description)
	require.NotNil(t, records[0].ImageData)
	assert.Equal(t, "aGVsbG8=", *records[0].ImageData)
}

func TestRecordsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.db")

	st, err := Open(path)
	require.NoError(t, err)
	_, err = st.EnqueueWasteCollection(PendingWasteCollection{
		UserID: "user-1", WasteType: "metal", Quantity: 1, PricePerKg: 9, CollectionZone: "zone_4",
	})
	require.NoError(t, err)
	_, err = st.EnqueueComplaint(PendingComplaint{
		UserID: "user-1", Description: "missed pickup", Location: "zone_4",
	})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	count, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	collections, err := st.ListWasteCollections()
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, "metal", collections[0].WasteType)
}

func TestRemoveIsIdempotent(t *testing.T) {
	st, _ := openTestStore(t)

	id, err := st.EnqueueComplaint(PendingComplaint{
		UserID: "user-1", Description: "noise", Location: "zone_1",
	})
	require.NoError(t, err)

	require.NoError(t, st.Remove(KindComplaint, id))
	require.NoError(t, st.Remove(KindComplaint, id))
	require.NoError(t, st.Remove(KindComplaint, 9999))

	count, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRemoveRejectsUnknownKind(t *testing.T) {
	st, _ := openTestStore(t)
	assert.Error(t, st.Remove(Kind("bogus"), 1))
}

func TestLocalIDsNeverReused(t *testing.T) {
	st, _ := openTestStore(t)

	first, err := st.EnqueueWasteCollection(PendingWasteCollection{
		UserID: "user-1", WasteType: "glass", Quantity: 2, PricePerKg: 1, CollectionZone: "zone_1",
	})
	require.NoError(t, err)
	require.NoError(t, st.Remove(KindWasteCollection, first))

	second, err := st.EnqueueWasteCollection(PendingWasteCollection{
		UserID: "user-1", WasteType: "glass", Quantity: 2, PricePerKg: 1, CollectionZone: "zone_1",
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestCountSpansBothQueues(t *testing.T) {
	st, _ := openTestStore(t)

	_, err := st.EnqueueWasteCollection(PendingWasteCollection{
		UserID: "user-1", WasteType: "paper", Quantity: 1, PricePerKg: 1, CollectionZone: "zone_1",
	})
	require.NoError(t, err)
	_, err = st.EnqueueComplaint(PendingComplaint{
		UserID: "user-1", Description: "smell", Location: "zone_2",
	})
	require.NoError(t, err)

	count, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
