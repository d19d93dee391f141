package envelope_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukit/edukit/pkg/envelope"
)

type course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// --- DecodeList: envelope shapes ---

func TestDecodeList_Shapes(t *testing.T) {
	t.Parallel()

	want := []course{{ID: "c1", Title: "Go"}, {ID: "c2", Title: "SQL"}}

	t.Run("items with pagination", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":{"items":[{"id":"c1","title":"Go"},{"id":"c2","title":"SQL"}],"pagination":{"totalItems":12,"currentPage":2,"totalPage":6}}}`)

		list, warns := envelope.DecodeList[course](raw, 1, 2)
		require.Empty(t, warns)
		require.Equal(t, want, list.Data)
		require.Equal(t, 12, list.Total)
		require.Equal(t, 2, list.Page)
		require.Equal(t, 2, list.Limit)
		require.Equal(t, 6, list.TotalPages)
	})

	t.Run("nested data array", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":{"data":[{"id":"c1","title":"Go"},{"id":"c2","title":"SQL"}]}}`)

		list, warns := envelope.DecodeList[course](raw, 1, 10)
		require.Empty(t, warns)
		require.Equal(t, want, list.Data)
		require.Equal(t, 2, list.Total)
	})

	t.Run("plain data array", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":[{"id":"c1","title":"Go"},{"id":"c2","title":"SQL"}]}`)

		list, warns := envelope.DecodeList[course](raw, 1, 10)
		require.Empty(t, warns)
		require.Equal(t, want, list.Data)
	})

	t.Run("bare array", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`[{"id":"c1","title":"Go"},{"id":"c2","title":"SQL"}]`)

		list, warns := envelope.DecodeList[course](raw, 1, 10)
		require.Empty(t, warns)
		require.Equal(t, want, list.Data)
	})

	t.Run("equivalent data yields equivalent canonical shape", func(t *testing.T) {
		t.Parallel()

		shapes := []json.RawMessage{
			json.RawMessage(`{"data":{"items":[{"id":"c1","title":"Go"}]}}`),
			json.RawMessage(`{"data":{"data":[{"id":"c1","title":"Go"}]}}`),
			json.RawMessage(`{"data":[{"id":"c1","title":"Go"}]}`),
			json.RawMessage(`[{"id":"c1","title":"Go"}]`),
		}

		first, _ := envelope.DecodeList[course](shapes[0], 1, 10)
		for _, raw := range shapes[1:] {
			list, _ := envelope.DecodeList[course](raw, 1, 10)
			require.Equal(t, first, list)
		}
	})
}

// --- DecodeList: degradation ---

func TestDecodeList_Degradation(t *testing.T) {
	t.Parallel()

	t.Run("missing data yields empty list and warning", func(t *testing.T) {
		t.Parallel()

		list, warns := envelope.DecodeList[course](json.RawMessage(`{}`), 1, 10)
		require.NotEmpty(t, warns)
		require.Empty(t, list.Data)
		require.Equal(t, 0, list.Total)
		require.Equal(t, 0, list.TotalPages)
	})

	t.Run("null envelope", func(t *testing.T) {
		t.Parallel()

		list, warns := envelope.DecodeList[course](json.RawMessage(`null`), 1, 10)
		require.Empty(t, warns)
		require.Empty(t, list.Data)
	})

	t.Run("scalar envelope warns", func(t *testing.T) {
		t.Parallel()

		list, warns := envelope.DecodeList[course](json.RawMessage(`42`), 1, 10)
		require.NotEmpty(t, warns)
		require.Empty(t, list.Data)
	})

	t.Run("pagination present but totalItems missing warns", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":{"items":[{"id":"c1"}],"pagination":{"currentPage":3}}}`)

		list, warns := envelope.DecodeList[course](raw, 1, 10)
		require.Len(t, warns, 1)
		require.Equal(t, "pagination.totalItems", warns[0].Path)
		require.Equal(t, 1, list.Total, "falls back to item count")
		require.Equal(t, 3, list.Page)
	})

	t.Run("undecodable items degrade to empty", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":{"items":[{"id":{"not":"a string"}}]}}`)

		list, warns := envelope.DecodeList[course](raw, 1, 10)
		require.NotEmpty(t, warns)
		require.Empty(t, list.Data)
	})

	t.Run("page clamps to 1", func(t *testing.T) {
		t.Parallel()

		list, _ := envelope.DecodeList[course](json.RawMessage(`[]`), 0, 10)
		require.Equal(t, 1, list.Page)
	})

	t.Run("over-limit data is truncated with warning", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`[{"id":"a"},{"id":"b"},{"id":"c"}]`)

		list, warns := envelope.DecodeList[course](raw, 1, 2)
		require.NotEmpty(t, warns)
		require.Len(t, list.Data, 2)
	})
}

// --- DecodeList: totalPages computation ---

func TestDecodeList_TotalPages(t *testing.T) {
	t.Parallel()

	t.Run("ceiling division when backend omits totalPage", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			total, limit, want int
		}{
			{0, 10, 0},
			{1, 10, 1},
			{10, 10, 1},
			{11, 10, 2},
			{25, 10, 3},
			{100, 7, 15},
		}

		for _, tc := range cases {
			raw, err := json.Marshal(map[string]any{
				"data": map[string]any{
					"items":      []course{},
					"pagination": map[string]int{"totalItems": tc.total, "currentPage": 1},
				},
			})
			require.NoError(t, err)

			list, _ := envelope.DecodeList[course](raw, 1, tc.limit)
			require.Equal(t, tc.want, list.TotalPages, "total=%d limit=%d", tc.total, tc.limit)
		}
	})

	t.Run("non-positive limit yields zero total pages", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":{"items":[],"pagination":{"totalItems":50,"currentPage":1}}}`)

		list, _ := envelope.DecodeList[course](raw, 1, 0)
		require.Equal(t, 0, list.TotalPages)

		list, _ = envelope.DecodeList[course](raw, 1, -5)
		require.Equal(t, 0, list.TotalPages)
	})

	t.Run("backend totalPage wins over computed", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":{"items":[],"pagination":{"totalItems":50,"currentPage":1,"totalPage":99}}}`)

		list, _ := envelope.DecodeList[course](raw, 1, 10)
		require.Equal(t, 99, list.TotalPages)
	})
}

// --- DecodeOne ---

func TestDecodeOne(t *testing.T) {
	t.Parallel()

	t.Run("double-wrapped detail", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":{"data":{"id":"c1","title":"Go"}}}`)

		v, warns := envelope.DecodeOne[course](raw)
		require.Empty(t, warns)
		require.Equal(t, course{ID: "c1", Title: "Go"}, v)
	})

	t.Run("single-wrapped detail", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"data":{"id":"c1","title":"Go"}}`)

		v, warns := envelope.DecodeOne[course](raw)
		require.Empty(t, warns)
		require.Equal(t, "c1", v.ID)
	})

	t.Run("bare object", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{"id":"c1","title":"Go"}`)

		v, warns := envelope.DecodeOne[course](raw)
		require.Empty(t, warns)
		require.Equal(t, "c1", v.ID)
	})

	t.Run("empty envelope warns", func(t *testing.T) {
		t.Parallel()

		v, warns := envelope.DecodeOne[course](json.RawMessage(`null`))
		require.NotEmpty(t, warns)
		require.Zero(t, v)
	})
}
