package requirements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimos/internal/domain"
)

type countingSource struct {
	loads int
	table map[string]CoverageRequirements
	err   error
}

func (s *countingSource) Load(ctx context.Context) (map[string]CoverageRequirements, error) {
	s.loads++
	return s.table, s.err
}

func TestRegistry_CachesSourceLoads(t *testing.T) {
	src := &countingSource{table: map[string]CoverageRequirements{
		"baggage_loss": {CoverageTypeID: "baggage_loss"},
	}}
	reg := NewRegistry(src, time.Minute)

	_, err := reg.RequirementsFor(context.Background(), "baggage_loss")
	require.NoError(t, err)
	_, err = reg.RequirementsFor(context.Background(), "baggage_loss")
	require.NoError(t, err)

	assert.Equal(t, 1, src.loads)
}

func TestRegistry_UnknownCoverageTypeIsEmptyNotError(t *testing.T) {
	reg := NewRegistry(StaticSource{}, time.Minute)

	req, err := reg.RequirementsFor(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, req.Fields)
}

func TestRegistry_SourceErrorPropagates(t *testing.T) {
	src := &countingSource{err: errors.New("db down")}
	reg := NewRegistry(src, time.Minute)

	_, err := reg.RequirementsFor(context.Background(), "baggage_loss")
	assert.Error(t, err)
}

func TestMissingRequired(t *testing.T) {
	reg := NewRegistry(DefaultSource(), time.Minute)

	extracted := domain.ExtractedData{
		"incident_date": {Value: "2025-03-07"},
		"flight_number": {Value: "SA-204"},
	}
	missing, err := reg.MissingRequired(context.Background(), []string{"baggage_loss"}, extracted)
	require.NoError(t, err)

	names := make([]string, 0, len(missing))
	for _, f := range missing {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"incident_location", "claimed_amount"}, names)
}

func TestMissingRequired_DeduplicatesAcrossCoverageTypes(t *testing.T) {
	reg := NewRegistry(DefaultSource(), time.Minute)

	missing, err := reg.MissingRequired(context.Background(), []string{"baggage_loss", "flight_delay"}, nil)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, f := range missing {
		counts[f.Name]++
	}
	assert.Equal(t, 1, counts["incident_date"], "shared field listed once")
	assert.Equal(t, 1, counts["claimed_amount"])
}

func TestMissingRequired_IgnoresEmptyExtractedValues(t *testing.T) {
	reg := NewRegistry(DefaultSource(), time.Minute)

	extracted := domain.ExtractedData{"flight_number": {Value: ""}}
	missing, err := reg.MissingRequired(context.Background(), []string{"baggage_loss"}, extracted)
	require.NoError(t, err)

	names := make([]string, 0, len(missing))
	for _, f := range missing {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "flight_number")
}
