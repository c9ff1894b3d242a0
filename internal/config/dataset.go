package config

import "sync"

// DatasetConfig points at the BLS projections export.
type DatasetConfig struct {
	Path string
}

var (
	datasetConfig *DatasetConfig
	datasetOnce   sync.Once
)

func LoadDatasetConfig() *DatasetConfig {
	datasetOnce.Do(func() {
		datasetConfig = &DatasetConfig{
			Path: getEnv("DATASET_PATH", "job_cards_streamlit.csv"),
		}
	})
	return datasetConfig
}
