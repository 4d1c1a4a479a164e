// Package embeddings seeds the brand_embeddings table with vectors for the
// active identity's voice phrases and content pillars. The vectors power
// similarity lookups against the brand voice; they are written once per
// identity and refreshed only when the spec changes.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/postforge/postforge/internal/identity"
)

// DefaultModel is the embedding model used for brand phrases.
const DefaultModel = "text-embedding-ada-002"

// ErrNoPhrases indicates the identity spec yields nothing to embed.
var ErrNoPhrases = errors.New("identity spec has no voice phrases or pillars to embed")

// Embedder generates embedding vectors for a batch of phrases.
type Embedder interface {
	Embed(ctx context.Context, phrases []string) ([][]float64, error)
}

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
}

// NewOpenAIEmbedder creates an embedder. Model defaults to DefaultModel.
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not set")
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Embed returns one vector per input phrase, in order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, phrases []string) ([][]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: phrases,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(phrases) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d phrases", len(resp.Data), len(phrases))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

// BrandPhrases collects the phrases worth embedding from an identity spec:
// string-valued voice attributes first, then the ranked pillars. Duplicates
// are dropped, first occurrence wins.
func BrandPhrases(spec *identity.Spec) []string {
	var phrases []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		phrases = append(phrases, p)
	}

	for _, key := range sortedVoiceKeys(spec.Voice) {
		switch v := spec.Voice[key].(type) {
		case string:
			add(v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		}
	}
	for _, pillar := range spec.PillarsRanked {
		add(pillar)
	}
	return phrases
}

// VectorLiteral formats a vector as a pgvector input literal, e.g.
// "[0.1,0.2,0.3]".
func VectorLiteral(vec []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}

// Seeder writes brand embeddings into Postgres.
type Seeder struct {
	db       *sqlx.DB
	embedder Embedder
}

// NewSeeder connects to the database and wraps the given embedder.
func NewSeeder(databaseURL string, embedder Embedder) (*Seeder, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is not set")
	}
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect embeddings store: %w", err)
	}
	return &Seeder{db: db, embedder: embedder}, nil
}

// NewSeederFromDB wraps an existing connection, used by tests.
func NewSeederFromDB(db *sqlx.DB, embedder Embedder) *Seeder {
	return &Seeder{db: db, embedder: embedder}
}

// Close releases the underlying connection pool.
func (s *Seeder) Close() error {
	return s.db.Close()
}

// Seed embeds the spec's brand phrases and replaces the brand_embeddings
// rows for the given identity. Returns the number of rows written.
func (s *Seeder) Seed(ctx context.Context, identityID int64, spec *identity.Spec) (int, error) {
	phrases := BrandPhrases(spec)
	if len(phrases) == 0 {
		return 0, ErrNoPhrases
	}

	vectors, err := s.embedder.Embed(ctx, phrases)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin embeddings tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM brand_embeddings WHERE identity_id = $1`, identityID); err != nil {
		return 0, fmt.Errorf("clear previous embeddings: %w", err)
	}

	for i, phrase := range phrases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO brand_embeddings (identity_id, name, embedding) VALUES ($1, $2, $3::vector)`,
			identityID, phrase, VectorLiteral(vectors[i])); err != nil {
			return 0, fmt.Errorf("insert embedding for %q: %w", phrase, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit embeddings tx: %w", err)
	}

	log.Printf("[embeddings] seeded %d phrases for identity %d", len(phrases), identityID)
	return len(phrases), nil
}

func sortedVoiceKeys(voice map[string]any) []string {
	keys := make([]string, 0, len(voice))
	for k := range voice {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
