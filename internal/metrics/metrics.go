package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"saveit/internal/importer"
)

var (
	collectionItemsDesc = prometheus.NewDesc(
		"saveit_collection_items",
		"Number of stored collection items by kind",
		[]string{"kind"},
		nil,
	)

	importItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saveit_import_items_total",
			Help: "Items processed by shared collection imports, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

// collectTimeout bounds the count queries run on each scrape.
const collectTimeout = 5 * time.Second

// Counter reports how many items are stored.
type Counter interface {
	CountLinks(ctx context.Context) (int64, error)
	CountFolders(ctx context.Context) (int64, error)
}

// CollectionCollector is a custom Prometheus collector that reads item
// counts from the database on each scrape.
type CollectionCollector struct {
	store Counter
}

// NewCollectionCollector creates a collector over store.
func NewCollectionCollector(store Counter) *CollectionCollector {
	return &CollectionCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *CollectionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collectionItemsDesc
}

// Collect queries the database for item counts and emits them as gauges.
func (c *CollectionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	counts := []struct {
		kind  string
		count func(context.Context) (int64, error)
	}{
		{"link", c.store.CountLinks},
		{"folder", c.store.CountFolders},
	}
	for _, k := range counts {
		n, err := k.count(ctx)
		if err != nil {
			slog.Error("failed to collect collection metrics", "kind", k.kind, "error", err)
			continue
		}
		ch <- prometheus.MustNewConstMetric(collectionItemsDesc, prometheus.GaugeValue, float64(n), k.kind)
	}
}

var initOnce sync.Once

// Init registers the collectors with the default registry.
// Must be called once at startup.
func Init(store Counter) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewCollectionCollector(store), importItems)
	})
}

// RecordImport adds an import's outcome to the import counters.
func RecordImport(res *importer.Result) {
	if res == nil {
		return
	}

	var failedLinks, failedFolders int
	for _, e := range res.Errors {
		if e.Kind == importer.KindFolder {
			failedFolders++
		} else {
			failedLinks++
		}
	}

	add := func(kind, outcome string, n int) {
		if n > 0 {
			importItems.WithLabelValues(kind, outcome).Add(float64(n))
		}
	}
	add("link", "saved", res.SavedLinkCount)
	add("link", "reused", res.SkippedDuplicateCount)
	add("link", "failed", failedLinks)
	add("folder", "saved", res.SavedFolderCount)
	add("folder", "skipped", res.SkippedFolderCount)
	add("folder", "failed", failedFolders)
}
