package port

import "ragchunk/internal/domain"

// DatasetSink persists the two parallel datasets of one build.
type DatasetSink interface {
	Write(ds domain.Datasets, manifest domain.Manifest) error
}

// DatasetSource loads previously written datasets.
type DatasetSource interface {
	Load() (domain.Datasets, domain.Manifest, error)
}
