package dto

import (
	"testing"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "", MaskAPIKey(""))
	assert.Equal(t, "****", MaskAPIKey("abc"))
	assert.Equal(t, "****wxyz", MaskAPIKey("sk-proj-wxyz"))
}

func TestNewSummaryResponse(t *testing.T) {
	out := NewSummaryResponse(model.DatasetSummary{TotalJobs: 3})
	assert.Equal(t, 3, out.TotalJobs)
	assert.Nil(t, out.AvgGrowthRate)
	assert.Nil(t, out.MaxGrowthRate)

	out = NewSummaryResponse(model.DatasetSummary{TotalJobs: 3, GrowthSamples: 2, AvgGrowthRate: 7.5, MaxGrowthRate: 10, HasGrowthStats: true})
	require.NotNil(t, out.AvgGrowthRate)
	assert.Equal(t, 7.5, *out.AvgGrowthRate)
	assert.Equal(t, 10.0, *out.MaxGrowthRate)
}

func TestNewQueryResponse(t *testing.T) {
	out := NewQueryResponse(&model.QueryResponse{
		Question: "q",
		Answer:   "a",
		Sources:  []model.Source{{SOCCode: "29-1141", JobTitle: "Registered Nurses", GrowthRate: 5.6, Score: 0.9}},
	})
	require.Len(t, out.Sources, 1)
	assert.Equal(t, "Registered Nurses", out.Sources[0].JobTitle)
	assert.Equal(t, float32(0.9), out.Sources[0].Score)
}
