package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anarmmdv/bazar/internal/domain/models"
)

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 1.5, ParseAmount("1,5"))
	assert.Equal(t, 1.5, ParseAmount("1.5"))
	assert.Equal(t, 12.0, ParseAmount(" 12 "))
	assert.Equal(t, 0.0, ParseAmount(""))
	assert.Equal(t, 0.0, ParseAmount("abc"))
	assert.Equal(t, 0.0, ParseAmount("1,5,0"))
	assert.Equal(t, -3.0, ParseAmount("-3"))
}

func TestNormalizeRows(t *testing.T) {
	rows := []models.DraftRow{
		{ProductID: "a", Qty: "2", Price: "3"},
		{ProductID: "b", Qty: "1,5", Price: "0,5"},
		{ProductID: "", Qty: "4", Price: "4"},    // no product selected
		{ProductID: "c", Qty: "0", Price: "2"},   // zero qty
		{ProductID: "d", Qty: "2", Price: "-1"},  // negative price
		{ProductID: "e", Qty: "", Price: "2"},    // empty qty
		{ProductID: "f", Qty: "x", Price: "2"},   // unparseable qty
	}

	got := NormalizeRows(rows)

	assert.Equal(t, []models.EntryRow{
		{ProductID: "a", Qty: 2, Price: 3},
		{ProductID: "b", Qty: 1.5, Price: 0.5},
	}, got)
}

func TestHasIncompleteSelected(t *testing.T) {
	assert.False(t, HasIncompleteSelected(nil))
	assert.False(t, HasIncompleteSelected([]models.DraftRow{{}}))

	// Unselected rows never count, whatever their other fields hold.
	assert.False(t, HasIncompleteSelected([]models.DraftRow{{Qty: "5"}}))

	assert.True(t, HasIncompleteSelected([]models.DraftRow{{ProductID: "a", Qty: "5"}}))
	assert.True(t, HasIncompleteSelected([]models.DraftRow{{ProductID: "a", Qty: "5", Price: "0"}}))
	assert.True(t, HasIncompleteSelected([]models.DraftRow{
		{ProductID: "a", Qty: "5", Price: "2"},
		{ProductID: "b", Qty: "", Price: "2"},
	}))

	assert.False(t, HasIncompleteSelected([]models.DraftRow{{ProductID: "a", Qty: "1,5", Price: "2"}}))
}
