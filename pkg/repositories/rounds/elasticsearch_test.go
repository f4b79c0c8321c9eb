package rounds

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElasticsearch answers the handful of endpoints the repository uses
type fakeElasticsearch struct {
	mu       sync.Mutex
	indices  map[string]bool
	docs     map[string][]byte
	aliases  []string
	searches []string
	search   string
}

func newFakeElasticsearch(t *testing.T, indices ...string) (*fakeElasticsearch, *httptest.Server) {
	f := &fakeElasticsearch{
		indices: make(map[string]bool),
		docs:    make(map[string][]byte),
		search:  `{"aggregations":{"players":{"buckets":[]}}}`,
	}
	for _, name := range indices {
		f.indices[name] = true
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	body, _ := io.ReadAll(req.Body)
	parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")

	switch {
	case parts[0] == "_aliases":
		f.aliases = append(f.aliases, string(body))
		io.WriteString(w, `{"acknowledged":true}`)

	case len(parts) == 2 && parts[1] == "_search":
		f.searches = append(f.searches, string(body))
		io.WriteString(w, f.search)

	case len(parts) == 3 && parts[1] == "_doc":
		f.docs[parts[0]+"/"+parts[2]] = body
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)

	case req.Method == http.MethodHead:
		if !f.indices[parts[0]] {
			w.WriteHeader(http.StatusNotFound)
		}

	case req.Method == http.MethodPut:
		f.indices[parts[0]] = true
		io.WriteString(w, `{"acknowledged":true}`)

	case req.Method == http.MethodDelete:
		delete(f.indices, parts[0])
		io.WriteString(w, `{"acknowledged":true}`)

	case req.Method == http.MethodGet:
		prefix := strings.TrimSuffix(parts[0], "*")
		matched := map[string]interface{}{}
		for name := range f.indices {
			if strings.HasPrefix(name, prefix) {
				matched[name] = map[string]interface{}{}
			}
		}
		json.NewEncoder(w).Encode(matched)

	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newTestElasticsearchRepository(t *testing.T, base Repository, clock rng.Clock, indices ...string) (*ElasticsearchRepository, *fakeElasticsearch) {
	fake, srv := newFakeElasticsearch(t, indices...)
	repo, err := NewElasticsearchRepository(context.Background(), base, ElasticsearchConfig{
		URL:         srv.URL,
		IndexPrefix: "test",
		Retention:   2,
	}, clock, zerolog.Nop())
	require.NoError(t, err)
	return repo, fake
}

func TestElasticsearchCreatesMonthlyIndex(t *testing.T) {
	repo, fake := newTestElasticsearchRepository(t, NewMemoryRepository(), &rng.FixedClock{T: epoch}, "test_rounds_2024-02")

	assert.Equal(t, "test_rounds_2024-03", repo.IndexFor(epoch))
	assert.True(t, fake.indices["test_rounds_2024-03"])
	require.Len(t, fake.aliases, 1)
	assert.Contains(t, fake.aliases[0], `{"add":{"alias":"test_rounds","index":"test_rounds_2024-02","is_write_index":false}}`)
	assert.Contains(t, fake.aliases[0], `{"add":{"alias":"test_rounds","index":"test_rounds_2024-03","is_write_index":true}}`)
}

func TestElasticsearchRecordWritesBaseAndIndex(t *testing.T) {
	base := NewMemoryRepository()
	repo, fake := newTestElasticsearchRepository(t, base, &rng.FixedClock{T: epoch})
	r := round("r1", "u1", "coinflip", entities.OutcomeWin, 500, 1)

	require.NoError(t, repo.Record(context.Background(), r))

	history, err := repo.PlayerRounds(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	doc, ok := fake.docs["test_rounds_2024-03/r1"]
	require.True(t, ok)
	var indexed entities.RoundRecord
	require.NoError(t, json.Unmarshal(doc, &indexed))
	assert.Equal(t, *r, indexed)
}

func TestElasticsearchRotatesOnNewMonth(t *testing.T) {
	clock := &rng.FixedClock{T: epoch}
	repo, fake := newTestElasticsearchRepository(t, NewMemoryRepository(), clock)

	clock.T = epoch.AddDate(0, 1, 0)
	r := round("r9", "u1", "coinflip", entities.OutcomeWin, 500, 0)
	r.PlayedAt = clock.T
	require.NoError(t, repo.Record(context.Background(), r))

	assert.True(t, fake.indices["test_rounds_2024-04"])
	assert.Contains(t, fake.docs, "test_rounds_2024-04/r9")
	assert.Len(t, fake.aliases, 2)
}

func TestElasticsearchPruneOldIndices(t *testing.T) {
	repo, fake := newTestElasticsearchRepository(t, NewMemoryRepository(), &rng.FixedClock{T: epoch},
		"test_rounds_2023-12", "test_rounds_2024-01", "test_rounds_2024-02", "test_rounds_bogus")

	pruned, err := repo.PruneOldIndices(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"test_rounds_2023-12", "test_rounds_2024-01"}, pruned)
	assert.True(t, fake.indices["test_rounds_2024-02"])
	assert.True(t, fake.indices["test_rounds_2024-03"])
	assert.True(t, fake.indices["test_rounds_bogus"])
}

func TestElasticsearchLeaderboard(t *testing.T) {
	repo, fake := newTestElasticsearchRepository(t, NewMemoryRepository(), &rng.FixedClock{T: epoch})
	fake.search = `{"aggregations":{"players":{"buckets":[
		{"key":"u2","doc_count":2,"won":{"doc_count":1,"coins":{"value":800}}},
		{"key":"u1","doc_count":3,"won":{"doc_count":2,"coins":{"value":2500}}}
	]}}}`

	standings, err := repo.Leaderboard(context.Background(), "coinflip", 5)

	require.NoError(t, err)
	assert.Equal(t, []Standing{
		{UserID: "u1", Won: 2_500, Rounds: 3},
		{UserID: "u2", Won: 800, Rounds: 2},
	}, standings)
	require.Len(t, fake.searches, 1)
	assert.Contains(t, fake.searches[0], `"game_id":"coinflip"`)
	assert.Contains(t, fake.searches[0], `"won>coins":"desc"`)
}
