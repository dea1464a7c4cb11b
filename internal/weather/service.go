package weather

import (
	"context"
	"errors"
	"time"

	"github.com/yegors/co-wx/pkg/logger"
)

// Fetcher retrieves the raw report for a set of stations
type Fetcher interface {
	Fetch(ctx context.Context, kind Kind, stations []string) (*RawReport, error)
}

// Service runs queries one station/kind pair at a time
type Service struct {
	fetcher Fetcher
	logger  *logger.Logger
}

// NewService creates a new weather service
func NewService(fetcher Fetcher, log *logger.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  log.Named("weather-service"),
	}
}

// Run fetches and decodes every station/kind pair of the query in input order.
// Each pair is a separate request; a failure only affects its own Result.
func (s *Service) Run(ctx context.Context, q Query) []Result {
	startTime := time.Now()
	results := make([]Result, 0, len(q.Stations)*len(q.Kinds))

	for _, station := range q.Stations {
		for _, kind := range q.Kinds {
			if err := ctx.Err(); err != nil {
				results = append(results, Result{Station: station, Kind: kind, Err: err})
				continue
			}
			results = append(results, s.runOne(ctx, station, kind))
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Info("Weather query completed",
		logger.Strings("stations", q.Stations),
		logger.Int("total_requests", len(results)),
		logger.Int("failed_requests", failed),
		logger.Duration("duration", time.Since(startTime)))

	return results
}

func (s *Service) runOne(ctx context.Context, station string, kind Kind) Result {
	result := Result{Station: station, Kind: kind}

	raw, err := s.fetcher.Fetch(ctx, kind, []string{station})
	result.Raw = raw
	if err != nil {
		result.Err = err
		return result
	}

	records, err := SelectReports(raw.Body)
	if err != nil {
		s.logger.Warn("Malformed weather response",
			logger.String("type", string(kind)),
			logger.String("airport", station),
			logger.String("request_id", raw.RequestID),
			logger.Error(err))
		result.Err = err
		return result
	}

	for _, rec := range records {
		decoded := FormatRecord(kind, rec)
		if decoded.Err != nil {
			var tpe *TimeParseError
			s.logger.Warn("Some report fields could not be decoded",
				logger.String("type", string(kind)),
				logger.String("airport", station),
				logger.Bool("time_parse_error", errors.As(decoded.Err, &tpe)),
				logger.Error(decoded.Err))
		}
		result.Reports = append(result.Reports, decoded)
	}

	return result
}
