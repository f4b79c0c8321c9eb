package rounds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/rs/zerolog"
)

const indexDateFormat = "2006-01"

const roundMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"session_id": { "type": "keyword" },
			"user_id": { "type": "keyword" },
			"game_id": { "type": "keyword" },
			"outcome": { "type": "keyword" },
			"reason": { "type": "text" },
			"bet": { "type": "long" },
			"payoff": { "type": "long" },
			"multiplier": { "type": "long" },
			"wallet": { "type": "long" },
			"played_at": { "type": "date" }
		}
	},
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1,
		"refresh_interval": "1s"
	}
}`

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	// Retention is how many monthly indices are kept, the current one included
	Retention int
}

// ElasticsearchRepository indexes every round into monthly indices on top of
// a base repository. Reads that need exact history go to the base repository;
// the leaderboard is answered by an aggregation over the indices.
type ElasticsearchRepository struct {
	base   Repository
	client *elasticsearch.Client
	config ElasticsearchConfig
	clock  rng.Clock
	log    zerolog.Logger

	currentIndex string
}

// NewElasticsearchRepository creates the client and makes sure this month's index exists
func NewElasticsearchRepository(ctx context.Context, base Repository, config ElasticsearchConfig, clock rng.Clock, log zerolog.Logger) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.IndexPrefix == "" {
		config.IndexPrefix = "coinpurse"
	}
	if config.Retention < 1 {
		config.Retention = 6
	}

	repo := &ElasticsearchRepository{
		base:   base,
		client: client,
		config: config,
		clock:  clock,
		log:    log.With().Str("repository", "elasticsearch").Logger(),
	}
	if err := repo.RotateIndices(ctx); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}
	return repo, nil
}

// Alias is the read alias spanning every monthly index
func (r *ElasticsearchRepository) Alias() string {
	return r.config.IndexPrefix + "_rounds"
}

// IndexFor returns the monthly index name for t
func (r *ElasticsearchRepository) IndexFor(t time.Time) string {
	return r.Alias() + "_" + t.UTC().Format(indexDateFormat)
}

func (r *ElasticsearchRepository) pattern() string {
	return r.Alias() + "_*"
}

// Record saves to the base repository and then indexes the round
func (r *ElasticsearchRepository) Record(ctx context.Context, round *entities.RoundRecord) error {
	if err := r.base.Record(ctx, round); err != nil {
		return fmt.Errorf("error saving round to base repository: %w", err)
	}
	return r.IndexRound(ctx, round)
}

// IndexRound writes a round into the index of the month it was played in
func (r *ElasticsearchRepository) IndexRound(ctx context.Context, round *entities.RoundRecord) error {
	index := r.IndexFor(round.PlayedAt)
	if index != r.currentIndex {
		if err := r.RotateIndices(ctx); err != nil {
			return fmt.Errorf("error rotating indices: %w", err)
		}
	}

	body, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("error marshaling round: %w", err)
	}

	res, err := r.client.Index(
		index,
		bytes.NewReader(body),
		r.client.Index.WithDocumentID(round.ID),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error indexing round: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing round: %s", res.String())
	}
	return nil
}

func (r *ElasticsearchRepository) PlayerRounds(ctx context.Context, userID string, limit int) ([]*entities.RoundRecord, error) {
	return r.base.PlayerRounds(ctx, userID, limit)
}

// PruneRoundsPerPlayer trims the base repository. The indices keep the full
// history until PruneOldIndices drops their month.
func (r *ElasticsearchRepository) PruneRoundsPerPlayer(ctx context.Context, maxRounds int) (int64, error) {
	return r.base.PruneRoundsPerPlayer(ctx, maxRounds)
}

// Leaderboard sums winning payoffs per player across the retained indices
func (r *ElasticsearchRepository) Leaderboard(ctx context.Context, gameID string, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = 10
	}
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"players": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "user_id",
					"size":  limit,
					"order": map[string]interface{}{"won>coins": "desc"},
				},
				"aggs": map[string]interface{}{
					"won": map[string]interface{}{
						"filter": map[string]interface{}{
							"terms": map[string]interface{}{
								"outcome": []string{string(entities.OutcomeWin), string(entities.OutcomeJackpot)},
							},
						},
						"aggs": map[string]interface{}{
							"coins": map[string]interface{}{"sum": map[string]interface{}{"field": "payoff"}},
						},
					},
				},
			},
		},
	}
	if gameID != "" {
		query["query"] = map[string]interface{}{
			"term": map[string]interface{}{"game_id": gameID},
		}
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("error marshaling leaderboard query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.Alias()),
		r.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching leaderboard: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching leaderboard: %s", res.String())
	}

	var result struct {
		Aggregations struct {
			Players struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int64  `json:"doc_count"`
					Won      struct {
						Coins struct {
							Value float64 `json:"value"`
						} `json:"coins"`
					} `json:"won"`
				} `json:"buckets"`
			} `json:"players"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing leaderboard response: %w", err)
	}

	standings := make([]Standing, 0, len(result.Aggregations.Players.Buckets))
	for _, b := range result.Aggregations.Players.Buckets {
		standings = append(standings, Standing{
			UserID: b.Key,
			Won:    int64(b.Won.Coins.Value),
			Rounds: b.DocCount,
		})
	}
	sortStandings(standings)
	return standings, nil
}

// RotateIndices creates this month's index if needed and makes it the write
// index of the alias
func (r *ElasticsearchRepository) RotateIndices(ctx context.Context) error {
	index := r.IndexFor(r.clock.Now())

	res, err := r.client.Indices.Exists([]string{index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 404 {
		res, err := r.client.Indices.Create(
			index,
			r.client.Indices.Create.WithBody(strings.NewReader(roundMapping)),
			r.client.Indices.Create.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("error creating index %s: %w", index, err)
		}
		defer res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("error creating index %s: %s", index, res.String())
		}
		r.log.Info().Str("index", index).Msg("Created round index")
	}

	existing, err := r.GetIndices(ctx, r.pattern())
	if err != nil {
		return err
	}

	actions := make([]map[string]interface{}, 0, len(existing)+1)
	for _, name := range existing {
		if name == index {
			continue
		}
		actions = append(actions, map[string]interface{}{
			"add": map[string]interface{}{"index": name, "alias": r.Alias(), "is_write_index": false},
		})
	}
	actions = append(actions, map[string]interface{}{
		"add": map[string]interface{}{"index": index, "alias": r.Alias(), "is_write_index": true},
	})

	body, err := json.Marshal(map[string]interface{}{"actions": actions})
	if err != nil {
		return fmt.Errorf("error marshaling alias actions: %w", err)
	}

	aliasRes, err := r.client.Indices.UpdateAliases(
		bytes.NewReader(body),
		r.client.Indices.UpdateAliases.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error updating alias: %w", err)
	}
	defer aliasRes.Body.Close()

	if aliasRes.IsError() {
		return fmt.Errorf("error updating alias: %s", aliasRes.String())
	}

	r.currentIndex = index
	return nil
}

// PruneOldIndices deletes monthly indices outside the retention window and
// returns their names
func (r *ElasticsearchRepository) PruneOldIndices(ctx context.Context) ([]string, error) {
	indices, err := r.GetIndices(ctx, r.pattern())
	if err != nil {
		return nil, err
	}

	now := r.clock.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(r.config.Retention - 1), 0)

	var pruned []string
	for _, name := range indices {
		month, err := time.Parse(indexDateFormat, strings.TrimPrefix(name, r.Alias()+"_"))
		if err != nil {
			r.log.Warn().Str("index", name).Err(err).Msg("Skipping index with unexpected name")
			continue
		}
		if !month.Before(cutoff) {
			continue
		}

		res, err := r.client.Indices.Delete([]string{name}, r.client.Indices.Delete.WithContext(ctx))
		if err != nil {
			r.log.Error().Str("index", name).Err(err).Msg("Error deleting index")
			continue
		}
		failed := res.IsError()
		if failed {
			r.log.Error().Str("index", name).Str("response", res.String()).Msg("Error deleting index")
		}
		res.Body.Close()
		if !failed {
			pruned = append(pruned, name)
			r.log.Info().Str("index", name).Msg("Deleted index older than retention")
		}
	}
	return pruned, nil
}

// GetIndices returns the sorted names of open indices matching pattern
func (r *ElasticsearchRepository) GetIndices(ctx context.Context, pattern string) ([]string, error) {
	res, err := r.client.Indices.Get(
		[]string{pattern},
		r.client.Indices.Get.WithContext(ctx),
		r.client.Indices.Get.WithExpandWildcards("open"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error getting indices: %s", res.String())
	}

	var indices map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil && err != io.EOF {
		return nil, fmt.Errorf("error parsing indices response: %w", err)
	}

	names := make([]string, 0, len(indices))
	for name := range indices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
