// Package requirements holds the coverage-requirement reference data: which
// structured fields each coverage type needs before a claim can be
// validated. The data is read-only to the intake pipeline.
package requirements

import (
	"context"
	"fmt"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"claimos/internal/domain"
)

// FieldType describes how a required field is extracted and validated.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeDate     FieldType = "date"
	FieldTypeAmount   FieldType = "amount"
	FieldTypeLocation FieldType = "location"
)

// FieldSpec is one structured field a coverage type collects.
type FieldSpec struct {
	Name           string    `json:"name"`
	Label          string    `json:"label"`
	Type           FieldType `json:"type"`
	Required       bool      `json:"required"`
	ExtractionHint string    `json:"extraction_hint,omitempty"`
}

// CoverageRequirements is the full requirement set for one coverage type.
type CoverageRequirements struct {
	CoverageTypeID string      `json:"coverage_type_id"`
	Fields         []FieldSpec `json:"fields"`
}

// Registry resolves coverage requirements. Implementations must be safe for
// concurrent use.
type Registry interface {
	RequirementsFor(ctx context.Context, coverageTypeID string) (*CoverageRequirements, error)
	// MissingRequired returns required fields of the given coverage types
	// that have no extracted value yet.
	MissingRequired(ctx context.Context, coverageTypeIDs []string, extracted domain.ExtractedData) ([]FieldSpec, error)
}

// Source loads the requirement table from wherever it is authored.
type Source interface {
	Load(ctx context.Context) (map[string]CoverageRequirements, error)
}

// StaticSource serves a fixed in-memory table. Used for defaults and test
// fixtures.
type StaticSource map[string]CoverageRequirements

func (s StaticSource) Load(ctx context.Context) (map[string]CoverageRequirements, error) {
	return s, nil
}

const cacheKey = "coverage_requirements"

// cachedRegistry caches the loaded table so per-message stage evaluations
// do not re-read the source.
type cachedRegistry struct {
	source Source
	cache  *gocache.Cache
}

// NewRegistry creates a Registry that caches source loads for ttl.
func NewRegistry(source Source, ttl time.Duration) Registry {
	return &cachedRegistry{
		source: source,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

func (r *cachedRegistry) table(ctx context.Context) (map[string]CoverageRequirements, error) {
	if v, ok := r.cache.Get(cacheKey); ok {
		return v.(map[string]CoverageRequirements), nil
	}
	table, err := r.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading coverage requirements: %w", err)
	}
	r.cache.SetDefault(cacheKey, table)
	log.Printf("requirements.Registry: loaded %d coverage requirement sets", len(table))
	return table, nil
}

func (r *cachedRegistry) RequirementsFor(ctx context.Context, coverageTypeID string) (*CoverageRequirements, error) {
	table, err := r.table(ctx)
	if err != nil {
		return nil, err
	}
	req, ok := table[coverageTypeID]
	if !ok {
		return &CoverageRequirements{CoverageTypeID: coverageTypeID}, nil
	}
	return &req, nil
}

func (r *cachedRegistry) MissingRequired(ctx context.Context, coverageTypeIDs []string, extracted domain.ExtractedData) ([]FieldSpec, error) {
	var missing []FieldSpec
	seen := map[string]struct{}{}
	for _, id := range coverageTypeIDs {
		req, err := r.RequirementsFor(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, f := range req.Fields {
			if !f.Required {
				continue
			}
			if _, dup := seen[f.Name]; dup {
				continue
			}
			if ef, ok := extracted[f.Name]; ok && ef.Value != "" {
				continue
			}
			seen[f.Name] = struct{}{}
			missing = append(missing, f)
		}
	}
	return missing, nil
}
