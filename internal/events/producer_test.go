package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEnvelope(t *testing.T) {
	ev := New("product_created", map[string]any{"id": 3})

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "product_created", decoded["type"])
	assert.NotEmpty(t, decoded["occurred_at"])
	assert.EqualValues(t, 3, decoded["data"].(map[string]any)["id"])
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	ctx := context.Background()

	require.NoError(t, rec.PublishEvent(ctx, TopicProducts, "1", New("product_created", nil)))
	require.NoError(t, rec.PublishEvent(ctx, TopicFavorites, "2", New("favorite_added", nil)))
	require.NoError(t, rec.PublishEvent(ctx, TopicProducts, "1", New("product_deleted", nil)))

	assert.Equal(t, []string{"product_created", "product_deleted"}, rec.Types(TopicProducts))
	assert.NoError(t, Nop{}.PublishEvent(ctx, TopicUsers, "", nil))
}
