package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/parsets/pkg/cache"
	"github.com/matzehuels/parsets/pkg/dataset"
	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/observability"
)

// Source names where records come from. Exactly one of Path or Mongo is set.
type Source struct {
	Path         string
	Mongo        *dataset.MongoSource
	InferNumbers bool // CSV only: parse numeric cells as numbers
}

// Name identifies the source in logs and cache keys.
func (s Source) Name() string {
	if s.Mongo != nil {
		return s.Mongo.Database + "." + s.Mongo.Collection
	}
	return s.Path
}

// Validate checks that exactly one origin is configured.
func (s Source) Validate() error {
	switch {
	case s.Path != "" && s.Mongo != nil:
		return perrors.New(perrors.ErrCodeInvalidInput, "use either a file or a mongo collection, not both")
	case s.Path == "" && s.Mongo == nil:
		return perrors.New(perrors.ErrCodeInvalidInput, "a dataset file or mongo collection is required")
	case s.Mongo != nil:
		return s.Mongo.Validate()
	default:
		return perrors.ValidatePath(s.Path)
	}
}

// Load reads records from a file or MongoDB.
func Load(ctx context.Context, src Source) (dataset.Dataset, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Mongo != nil {
		return dataset.LoadMongo(ctx, *src.Mongo)
	}
	var opts []dataset.ReadOption
	if src.InferNumbers {
		opts = append(opts, dataset.WithNumberInference())
	}
	return dataset.ImportFile(src.Path, opts...)
}

// LoadWithCacheInfo reads records, caching collection snapshots.
//
// Files are always read fresh. MongoDB results are cached under the
// collection and filter for [cache.TTLDataset] unless refresh is set.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, src Source, refresh bool) (dataset.Dataset, bool, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, src.Name())

	data, hit, err := r.load(ctx, src, refresh)

	n := 0
	if err == nil {
		n = len(data)
	}
	observability.Pipeline().OnLoadComplete(ctx, src.Name(), n, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("loaded records", "source", src.Name(), "rows", n, "cached", hit)
	return data, hit, nil
}

func (r *Runner) load(ctx context.Context, src Source, refresh bool) (dataset.Dataset, bool, error) {
	if src.Mongo == nil {
		data, err := Load(ctx, src)
		return data, false, err
	}
	if err := src.Validate(); err != nil {
		return nil, false, err
	}

	version, _ := cache.HashJSON(struct {
		Filter any      `json:"filter"`
		Fields []string `json:"fields"`
		Limit  int64    `json:"limit"`
	}{src.Mongo.Filter, src.Mongo.Fields, src.Mongo.Limit})
	key := r.Keyer.DatasetKey(src.Mongo.URI+"/"+src.Name(), version)

	if !refresh {
		if blob, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var data dataset.Dataset
			if err := json.Unmarshal(blob, &data); err == nil {
				observability.Cache().OnCacheHit(ctx, "dataset")
				return data, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	data, err := Load(ctx, src)
	if err != nil {
		return nil, false, err
	}
	if blob, err := json.Marshal(data); err == nil {
		if err := r.Cache.Set(ctx, key, blob, cache.TTLDataset); err == nil {
			observability.Cache().OnCacheSet(ctx, "dataset", len(blob))
		}
	}
	return data, false, nil
}
