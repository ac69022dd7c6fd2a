package occupancy

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const cacheSize = 256

type cacheKey struct {
	variable string
	window   int
	sigma    int
}

// Service memoises outlier computations over one dataset.
type Service struct {
	data  *Dataset
	cache *lru.Cache[cacheKey, *Result]
}

func NewService(data *Dataset) (*Service, error) {
	cache, err := lru.New[cacheKey, *Result](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{data: data, cache: cache}, nil
}

func (s *Service) Variables() []string {
	return s.data.Variables()
}

// Outliers returns the cached result for the parameters, computing it on a
// miss. Cached results are shared and must not be modified.
func (s *Service) Outliers(variable string, window, sigma int) (*Result, error) {
	key := cacheKey{variable: variable, window: window, sigma: sigma}
	if res, ok := s.cache.Get(key); ok {
		return res, nil
	}

	res, err := s.data.FindOutliers(variable, window, sigma)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, res)
	return res, nil
}

func (s *Service) Nearest(t time.Time) Row {
	return s.data.Nearest(t)
}

func (s *Service) Start() time.Time {
	return s.data.Start()
}
