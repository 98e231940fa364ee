// Package observability ships operational metrics to CloudWatch. A nil
// client disables publication, which is how local development runs.
package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"meetgraph/infrastructure/cache"
)

// MetricsPublisher pushes application metrics to a CloudWatch namespace
type MetricsPublisher struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewMetricsPublisher creates a MetricsPublisher. client may be nil to
// disable publication.
func NewMetricsPublisher(namespace string, client *cloudwatch.Client, logger *zap.Logger) *MetricsPublisher {
	return &MetricsPublisher{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// PublishCacheMetrics pushes a cache counter snapshot. Failures are
// logged; metrics never fail a request path.
func (m *MetricsPublisher) PublishCacheMetrics(ctx context.Context, snap cache.MetricsSnapshot) {
	if m.client == nil {
		return
	}

	now := time.Now()
	datum := func(name string, value float64, unit types.StandardUnit) types.MetricDatum {
		return types.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(value),
			Unit:       unit,
			Timestamp:  aws.Time(now),
		}
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			datum("CacheHits", float64(snap.Hits), types.StandardUnitCount),
			datum("CacheMisses", float64(snap.Misses), types.StandardUnitCount),
			datum("CacheSets", float64(snap.Sets), types.StandardUnitCount),
			datum("CacheDeletes", float64(snap.Deletes), types.StandardUnitCount),
			datum("CacheHitRate", snap.HitRate*100, types.StandardUnitPercent),
		},
	})
	if err != nil {
		m.logger.Warn("Failed to publish cache metrics", zap.Error(err))
	}
}

// RecordRequestLatency pushes one request latency sample tagged by route
func (m *MetricsPublisher) RecordRequestLatency(ctx context.Context, route string, latency time.Duration) {
	if m.client == nil {
		return
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("RequestLatency"),
				Dimensions: []types.Dimension{
					{Name: aws.String("Route"), Value: aws.String(route)},
				},
				Value:     aws.Float64(float64(latency.Milliseconds())),
				Unit:      types.StandardUnitMilliseconds,
				Timestamp: aws.Time(time.Now()),
			},
		},
	})
	if err != nil {
		m.logger.Warn("Failed to publish latency metric", zap.Error(err))
	}
}

// StartCachePump publishes cache metrics on an interval until ctx is
// cancelled.
func (m *MetricsPublisher) StartCachePump(ctx context.Context, engine *cache.Engine, interval time.Duration) {
	if m.client == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.PublishCacheMetrics(ctx, engine.Metrics().Snapshot())
			}
		}
	}()
}
