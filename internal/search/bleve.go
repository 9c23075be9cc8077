package search

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

const (
	fieldTitle   = "title"
	fieldExcerpt = "excerpt"
	fieldCreated = "created_at"
)

// Options configures a bleve-backed index.
type Options struct {
	// Path is the on-disk index location. Empty means an in-memory index,
	// which is rebuilt from the store on startup.
	Path string
	// TitleWeight and ExcerptWeight are the per-field query boosts. Title
	// should outweigh excerpt.
	TitleWeight   float64
	ExcerptWeight float64
	// Conjunctive requires every query term to match within a field instead
	// of any term.
	Conjunctive bool
	Logger      *zap.Logger
}

// BleveIndex implements Index on top of a bleve full-text index.
type BleveIndex struct {
	index  bleve.Index
	opts   Options
	logger *zap.Logger
}

// NewBleveIndex opens the index at opts.Path, creating it if missing, or
// builds an in-memory index when no path is configured.
func NewBleveIndex(opts Options) (*BleveIndex, error) {
	if opts.TitleWeight <= 0 {
		opts.TitleWeight = 1.0
	}
	if opts.ExcerptWeight <= 0 {
		opts.ExcerptWeight = 0.4
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var (
		index bleve.Index
		err   error
	)

	if opts.Path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory bleve index: %w", err)
		}
	} else {
		index, err = bleve.Open(opts.Path)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			opts.Logger.Debug("creating new bleve index", zap.String("path", opts.Path))
			index, err = bleve.NewUsing(opts.Path, buildIndexMapping(), bleve.Config.DefaultIndexType, bleve.Config.DefaultKVStore, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to create bleve index: %w", err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to open bleve index: %w", err)
		}
	}

	return &BleveIndex{index: index, opts: opts, logger: opts.Logger}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()

	createdField := bleve.NewDateTimeFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(fieldTitle, textField)
	docMapping.AddFieldMappingsAt(fieldExcerpt, textField)
	docMapping.AddFieldMappingsAt(fieldCreated, createdField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// IndexPost adds or replaces the document for one published post.
func (b *BleveIndex) IndexPost(doc Document) error {
	if err := b.index.Index(docID(doc.ID), docFields(doc)); err != nil {
		return fmt.Errorf("failed to index post %d: %w", doc.ID, err)
	}
	return nil
}

// Remove deletes the document for a post. Removing an unindexed post is not
// an error.
func (b *BleveIndex) Remove(id uint) error {
	if err := b.index.Delete(docID(id)); err != nil {
		return fmt.Errorf("failed to remove post %d from index: %w", id, err)
	}
	return nil
}

// Search runs a ranked query and returns matching post IDs, best first.
func (b *BleveIndex) Search(queryString string, limit int) ([]uint, error) {
	if limit <= 0 {
		limit = 100
	}

	request := bleve.NewSearchRequestOptions(b.buildQuery(queryString), limit, 0, false)
	request.SortBy([]string{"-_score", "-" + fieldCreated})

	result, err := b.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	ids := make([]uint, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			b.logger.Warn("skipping malformed document id", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// Rebuild replaces every indexed document with docs in a single batch.
func (b *BleveIndex) Rebuild(docs []Document) error {
	count, err := b.index.DocCount()
	if err != nil {
		return fmt.Errorf("failed to count indexed documents: %w", err)
	}

	batch := b.index.NewBatch()

	if count > 0 {
		all := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
		existing, err := b.index.Search(all)
		if err != nil {
			return fmt.Errorf("failed to enumerate indexed documents: %w", err)
		}
		for _, hit := range existing.Hits {
			batch.Delete(hit.ID)
		}
	}

	for _, doc := range docs {
		if err := batch.Index(docID(doc.ID), docFields(doc)); err != nil {
			return fmt.Errorf("failed to stage post %d for indexing: %w", doc.ID, err)
		}
	}

	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to apply index batch: %w", err)
	}

	b.logger.Debug("search index rebuilt", zap.Int("documents", len(docs)))
	return nil
}

// Close releases the underlying bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

func (b *BleveIndex) buildQuery(queryString string) query.Query {
	title := bleve.NewMatchQuery(queryString)
	title.SetField(fieldTitle)
	title.SetBoost(b.opts.TitleWeight)

	excerpt := bleve.NewMatchQuery(queryString)
	excerpt.SetField(fieldExcerpt)
	excerpt.SetBoost(b.opts.ExcerptWeight)

	if b.opts.Conjunctive {
		title.SetOperator(query.MatchQueryOperatorAnd)
		excerpt.SetOperator(query.MatchQueryOperatorAnd)
	}

	return bleve.NewDisjunctionQuery(title, excerpt)
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func docFields(doc Document) map[string]interface{} {
	return map[string]interface{}{
		fieldTitle:   doc.Title,
		fieldExcerpt: doc.Excerpt,
		fieldCreated: doc.CreatedAt,
	}
}
