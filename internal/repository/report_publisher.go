package repository

import (
	"context"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
	pkgkafka "BondLens/pkg/kafka"
)

// KafkaReportPublisher ships finished reports and per-metric failures to
// Kafka topics for downstream dashboards.
type KafkaReportPublisher struct {
	producer     *pkgkafka.Producer
	reportTopic  string
	failureTopic string
}

func NewKafkaReportPublisher(producer *pkgkafka.Producer, reportTopic, failureTopic string) domrepo.ReportPublisher {
	return &KafkaReportPublisher{
		producer:     producer,
		reportTopic:  reportTopic,
		failureTopic: failureTopic,
	}
}

func (p *KafkaReportPublisher) PublishReport(ctx context.Context, report *models.ValidationReport) error {
	key := []byte(report.GeneratedAt.Format("2006-01-02T15:04:05"))
	return p.producer.Publish(ctx, p.reportTopic, key, report)
}

func (p *KafkaReportPublisher) PublishFailures(ctx context.Context, failures []models.ValidationResult) error {
	if len(failures) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(failures))
	for i, f := range failures {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(f.CUSIP),
			Value: f,
		}
	}
	return p.producer.PublishBatch(ctx, p.failureTopic, msgs)
}

func (p *KafkaReportPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
