package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// MetricsClient is the subset of the CloudWatch API used by Metrics
type MetricsClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes application metrics to CloudWatch. Emission is
// best-effort: failures are logged and never surfaced to callers.
type Metrics struct {
	client    MetricsClient
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a metrics publisher under the given namespace
func NewMetrics(client MetricsClient, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// IncrementCounter records a count metric
func (m *Metrics) IncrementCounter(ctx context.Context, name string, value float64, dimensions map[string]string) {
	m.put(ctx, name, value, types.StandardUnitCount, dimensions)
}

// RecordDuration records an elapsed duration in milliseconds
func (m *Metrics) RecordDuration(ctx context.Context, name string, elapsed time.Duration, dimensions map[string]string) {
	m.put(ctx, name, float64(elapsed.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

// RecordGauge records an instantaneous value
func (m *Metrics) RecordGauge(ctx context.Context, name string, value float64, dimensions map[string]string) {
	m.put(ctx, name, value, types.StandardUnitNone, dimensions)
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit types.StandardUnit, dimensions map[string]string) {
	if m == nil || m.client == nil {
		return
	}

	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dims,
			},
		},
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("failed to publish metric",
			zap.String("metric", name),
			zap.Error(err))
	}
}
