package elastic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaloupe/internal/domain/entity"
)

func TestBuildSearchBody(t *testing.T) {
	body := buildSearchBody(&entity.SearchQuery{
		ChatID: -100123,
		Query:  "привет мир",
		Limit:  12,
		Offset: 24,
	})

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	var parsed struct {
		Size           int  `json:"size"`
		From           int  `json:"from"`
		TrackTotalHits bool `json:"track_total_hits"`
		Query          struct {
			Bool struct {
				Must []struct {
					SimpleQueryString struct {
						Query           string   `json:"query"`
						Fields          []string `json:"fields"`
						DefaultOperator string   `json:"default_operator"`
					} `json:"simple_query_string"`
				} `json:"must"`
				Filter []struct {
					Term map[string]string `json:"term"`
				} `json:"filter"`
			} `json:"bool"`
		} `json:"query"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))

	assert.Equal(t, 12, parsed.Size)
	assert.Equal(t, 24, parsed.From)
	assert.True(t, parsed.TrackTotalHits)

	require.Len(t, parsed.Query.Bool.Must, 1)
	sqs := parsed.Query.Bool.Must[0].SimpleQueryString
	assert.Equal(t, "привет мир", sqs.Query)
	assert.Equal(t, []string{"text^2", "text_trimmed"}, sqs.Fields)
	assert.Equal(t, "and", sqs.DefaultOperator)

	require.Len(t, parsed.Query.Bool.Filter, 1)
	assert.Equal(t, "-100123", parsed.Query.Bool.Filter[0].Term["chat_id"])
}

func TestBuildSearchBody_ClampsWindow(t *testing.T) {
	body := buildSearchBody(&entity.SearchQuery{
		ChatID: 1,
		Query:  "q",
		Limit:  100,
		Offset: -5,
	})

	assert.Equal(t, maxSearchLimit, body["size"])
	assert.Equal(t, 0, body["from"])
}

func TestSearchResponseParsing(t *testing.T) {
	raw := `{
		"hits": {
			"total": {"value": 30, "relation": "eq"},
			"hits": [
				{
					"_id": "42:7",
					"_score": 3.14,
					"_source": {"chat_id": "42", "message_id": 7, "text": "привет всем", "text_trimmed": "привет всем"},
					"highlight": {"text": ["привет всем"]}
				}
			]
		}
	}`

	var parsed searchResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))

	assert.Equal(t, int64(30), parsed.Hits.Total.Value)
	require.Len(t, parsed.Hits.Hits, 1)
	assert.Equal(t, "42:7", parsed.Hits.Hits[0].ID)
	assert.Equal(t, 3.14, parsed.Hits.Hits[0].Score)
	assert.Equal(t, int64(7), parsed.Hits.Hits[0].Source.MessageID)
	assert.Equal(t, "привет всем", parsed.Hits.Hits[0].Highlight["text"][0])
}

func TestDocumentID(t *testing.T) {
	doc := &entity.IndexedMessage{ChatID: "-100500", MessageID: 1234}
	assert.Equal(t, "-100500:1234", doc.DocumentID())
}
