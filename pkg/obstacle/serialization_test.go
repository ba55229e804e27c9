package obstacle

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList(t *testing.T) {
	t.Run("decodes an array", func(t *testing.T) {
		list, _, recovered, err := DecodeList(`[{"id":"1","name":"a","description":"d","longitude":1.5,"latitude":-2.5}]`)
		require.NoError(t, err)
		assert.False(t, recovered)
		assert.Equal(t, []Obstacle{{ID: "1", Name: "a", Description: "d", Longitude: 1.5, Latitude: -2.5}}, list)
	})

	t.Run("wraps a single object", func(t *testing.T) {
		list, _, recovered, err := DecodeList(`  {"id":"9","name":"solo"}`)
		require.NoError(t, err)
		assert.True(t, recovered)
		require.Len(t, list, 1)
		assert.Equal(t, "solo", list[0].Name)
	})

	t.Run("null and empty decode to an empty list", func(t *testing.T) {
		for _, raw := range []string{"null", "", "   ", "[]"} {
			list, _, recovered, err := DecodeList(raw)
			require.NoError(t, err, raw)
			assert.False(t, recovered)
			assert.NotNil(t, list)
			assert.Empty(t, list)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		cases := map[string]string{
			"not json":      "{nope",
			"bare word":     "hello",
			"scalar":        "42",
			"string":        `"obstacles"`,
			"trailing junk": `[{"id":"1"}] extra`,
		}
		for name, raw := range cases {
			t.Run(name, func(t *testing.T) {
				list, _, _, err := DecodeList(raw)
				assert.Error(t, err)
				assert.Nil(t, list)
			})
		}
	})

	t.Run("accepts numeric IDs", func(t *testing.T) {
		list, _, _, err := DecodeList(`[{"id":1718000000000,"name":"a"},{"id":"x","name":"b"},{"name":"c"}]`)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "1718000000000", list[0].ID)
		assert.Equal(t, "x", list[1].ID)
		assert.Equal(t, "", list[2].ID)
	})

	t.Run("accepts numeric string coordinates", func(t *testing.T) {
		list, unreadable, _, err := DecodeList(`[{"id":"2","name":"Tree","longitude":"2.35","latitude":"48.85"},{"id":"3","name":"Cone","longitude":"","latitude":null}]`)
		require.NoError(t, err)
		assert.Empty(t, unreadable)
		require.Len(t, list, 2)
		assert.Equal(t, 2.35, list[0].Longitude)
		assert.Equal(t, 48.85, list[0].Latitude)
		assert.Zero(t, list[1].Longitude)
		assert.Zero(t, list[1].Latitude)
	})

	t.Run("keeps unreadable elements apart from readable ones", func(t *testing.T) {
		raw := `[{"id":"1","name":"Pothole"},{"id":{"nested":true},"name":"a"},{"id":"4","longitude":"east"},7,{"id":"5","name":"Cone"}]`
		list, unreadable, recovered, err := DecodeList(raw)
		require.NoError(t, err)
		assert.False(t, recovered)
		require.Len(t, list, 2)
		assert.Equal(t, "1", list[0].ID)
		assert.Equal(t, "5", list[1].ID)
		require.Len(t, unreadable, 3)
		assert.JSONEq(t, `{"id":{"nested":true},"name":"a"}`, string(unreadable[0]))
		assert.JSONEq(t, `{"id":"4","longitude":"east"}`, string(unreadable[1]))
		assert.Equal(t, "7", string(unreadable[2]))
	})

	t.Run("rejects non-finite string coordinates", func(t *testing.T) {
		list, unreadable, _, err := DecodeList(`[{"id":"1","longitude":"NaN"}]`)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Len(t, unreadable, 1)
	})
}

func TestEncodeList(t *testing.T) {
	t.Run("nil encodes as empty array", func(t *testing.T) {
		raw, err := EncodeList(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]", raw)
	})

	t.Run("uses the persisted field names", func(t *testing.T) {
		raw, err := EncodeList([]Obstacle{{ID: "1", Name: "n", Description: "d", Longitude: 3, Latitude: 4}})
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"1","name":"n","description":"d","longitude":3,"latitude":4}]`, raw)
	})

	t.Run("writes unreadable elements after the obstacles", func(t *testing.T) {
		raw, err := encodeStored(
			[]Obstacle{{ID: "1", Name: "n"}},
			[]json.RawMessage{json.RawMessage(`{"id":{"nested":true}}`), json.RawMessage(`7`)},
		)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"1","name":"n","description":"","longitude":0,"latitude":0},{"id":{"nested":true}},7]`, raw)
	})

	t.Run("fails on non-finite coordinates", func(t *testing.T) {
		_, err := EncodeList([]Obstacle{{ID: "1", Name: "n", Longitude: math.NaN()}})
		assert.Error(t, err)
	})
}

func TestEventJSON(t *testing.T) {
	ev := newEvent(EventCreated, Obstacle{ID: "5", Name: "n"}, time.UnixMilli(1234))

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ev, decoded)
	assert.Contains(t, string(data), `"kind":"created"`)
}
