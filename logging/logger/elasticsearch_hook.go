package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/ncobase/staffing/config"
	"github.com/sirupsen/logrus"
)

const indexTimeout = 5 * time.Second

// ElasticSearchHook ships log entries to an Elasticsearch index.
type ElasticSearchHook struct {
	client    *elasticsearch.Client
	indexName string
	hostname  string
}

// NewElasticSearchHook creates new Elasticsearch hook
func NewElasticSearchHook(cfg *config.Elasticsearch, indexName string) (*ElasticSearchHook, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()
	return &ElasticSearchHook{client: client, indexName: indexName, hostname: hostname}, nil
}

// Levels returns the levels shipped to Elasticsearch
func (h *ElasticSearchHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

// Fire sends log entry to Elasticsearch
func (h *ElasticSearchHook) Fire(entry *logrus.Entry) error {
	body, err := json.Marshal(h.prepareLogDocument(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal log document: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	res, err := h.client.Index(
		h.currentIndexName(entry.Time),
		bytes.NewReader(body),
		h.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index error: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index error: %s", res.Status())
	}
	return nil
}

// currentIndexName returns the daily index name
func (h *ElasticSearchHook) currentIndexName(t time.Time) string {
	return fmt.Sprintf("%s-%s", h.indexName, t.Format("2006.01.02"))
}

// prepareLogDocument prepares the log document structure
func (h *ElasticSearchHook) prepareLogDocument(entry *logrus.Entry) map[string]any {
	doc := make(map[string]any, len(entry.Data)+4)
	for key, value := range entry.Data {
		doc[key] = value
	}
	doc["@timestamp"] = entry.Time.Format(time.RFC3339)
	doc["level"] = entry.Level.String()
	doc["message"] = entry.Message
	if h.hostname != "" {
		doc["hostname"] = h.hostname
	}
	return doc
}
