// Command shieldgen turns classified road centrelines into zoom-banded
// shield anchor layers: it samples every line at a fixed interval, then
// thins the samples per label group through a ladder of radii, writing one
// point layer per zoom band plus the dense node layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"

	"github.com/tilecraft/shieldgen/core"
	"github.com/tilecraft/shieldgen/internal/geojson"
	"github.com/tilecraft/shieldgen/internal/logging"
	"github.com/tilecraft/shieldgen/internal/observability"
	"github.com/tilecraft/shieldgen/internal/progress"
	"github.com/tilecraft/shieldgen/internal/store"
	"github.com/tilecraft/shieldgen/layers"
	"github.com/tilecraft/shieldgen/model"
)

func main() {
	input := flag.String("input", "", "Path to a GeoJSON file of labelled line features")
	outDir := flag.String("out-dir", ".", "Directory the output layers are written to")
	interval := flag.Float64("interval", 2000, "Sampling interval along lines, in projected units")
	bandSpec := flag.String("bands", "4000:13,8000:12,16000:11,30000:10,50000:9", "Comma-separated radius:zoom pairs, applied in order")
	regionFlag := flag.String("region", "", "Process only features of this region (USA or Global); empty processes all")
	skipInvalid := flag.Bool("skip-invalid", false, "Skip features without a label instead of failing the run")
	parallel := flag.Bool("parallel", true, "Thin distinct label groups concurrently")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics; empty disables the server")
	pgDSN := flag.String("pg-dsn", os.Getenv("SHIELDGEN_PG_DSN"), "Postgres DSN for the optional layer sink; empty disables it")
	flag.Parse()

	// A local .env supplies SHIELDGEN_* and LOG_* variables in dev setups.
	_ = godotenv.Load()

	ctx, log := logging.WithRunLogger(context.Background(), logging.NewFromEnv())
	runID := logging.RunIDFromContext(ctx)

	if *input == "" {
		log.Error(ctx, "missing -input")
		os.Exit(2)
	}

	bands, err := parseBands(*bandSpec)
	if err != nil {
		log.Error(ctx, "invalid -bands", logging.String("error", err.Error()))
		os.Exit(2)
	}

	collector, err := observability.NewPipelineCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	tracer := otel.Tracer("shieldgen")

	features, err := readFeatures(ctx, *input, *regionFlag, collector)
	if err != nil {
		log.Error(ctx, "failed to read input", logging.String("path", *input), logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "loaded line features",
		logging.String("path", *input),
		logging.Int("count", len(features)),
	)

	layerStore := layers.NewStore()
	layerStore.Subscribe(func(ev layers.Event) {
		collector.SetLayerCount(ev.Name, ev.Count)
	})

	var repo *store.PointRepository
	if *pgDSN != "" {
		repo, err = store.NewPointRepository(*pgDSN)
		if err != nil {
			log.Error(ctx, "failed to open postgres sink", logging.String("error", err.Error()))
			os.Exit(1)
		}
		defer repo.Close()
		layerStore.Subscribe(func(ev layers.Event) {
			points, ok := layerStore.Get(ev.Name)
			if !ok {
				return
			}
			if err := repo.SaveLayer(ctx, runID, ev.Name, ev.Zoom, points); err != nil {
				log.Warn(ctx, "postgres sink failed", logging.String("layer", ev.Name), logging.String("error", err.Error()))
			}
		})
	}

	pipeline, err := core.NewPipeline(*interval, bands)
	if err != nil {
		log.Error(ctx, "invalid pipeline configuration", logging.String("error", err.Error()))
		os.Exit(2)
	}
	pipeline.SkipInvalid = *skipInvalid
	pipeline.Parallel = *parallel

	reporter := progress.NewReporter(log, "thinning", len(bands), 10*time.Second)
	reporter.Start()
	pipeline.RegisterBandListener(func(res core.BandResult) {
		reporter.Add(1)
		collector.RecordBand(res.Band.Zoom, res.Input, len(res.Points))
		log.Info(ctx, "band thinned",
			logging.Int("zoom", res.Band.Zoom),
			logging.Float64("radius", res.Band.Radius),
			logging.Int("in", res.Input),
			logging.Int("out", len(res.Points)),
		)
	})

	runCtx, span := tracer.Start(ctx, "pipeline.run")
	start := time.Now()
	dense, results, err := pipeline.Run(features)
	span.End()
	reporter.Stop()
	if err != nil {
		log.Error(runCtx, "pipeline failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	collector.ObserveStage("pipeline", time.Since(start))
	collector.PointsGenerated.Add(float64(len(dense)))

	layerStore.Put(layerName("nodes", 0, *interval), 0, dense)
	for _, res := range results {
		layerStore.Put(layerName("shields", res.Band.Zoom, res.Band.Radius), res.Band.Zoom, res.Points)
	}

	if err := writeLayers(ctx, *outDir, layerStore, collector); err != nil {
		log.Error(ctx, "failed to write output layers", logging.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info(ctx, "run complete",
		logging.Int("features", len(features)),
		logging.Int("dense_points", len(dense)),
		logging.Int("bands", len(results)),
		logging.String("out_dir", *outDir),
	)

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func layerName(prefix string, zoom int, param float64) string {
	if zoom == 0 {
		return fmt.Sprintf("%s_%d", prefix, int(param))
	}
	return fmt.Sprintf("%s_z%d", prefix, zoom)
}

func readFeatures(ctx context.Context, path, regionFlag string, collector *observability.PipelineCollector) ([]model.LineFeature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start := time.Now()
	features, err := geojson.ReadLineFeatures(f)
	if err != nil {
		return nil, err
	}
	collector.ObserveStage("read", time.Since(start))

	if regionFlag != "" {
		region, err := model.ParseRegion(regionFlag)
		if err != nil {
			return nil, err
		}
		filtered := features[:0]
		for _, lf := range features {
			if lf.Region == region {
				filtered = append(filtered, lf)
			}
		}
		features = filtered
	}

	collector.FeaturesProcessed.Add(float64(len(features)))
	return features, nil
}

func writeLayers(ctx context.Context, outDir string, layerStore *layers.Store, collector *observability.PipelineCollector) error {
	start := time.Now()
	for _, name := range layerStore.Names() {
		points, ok := layerStore.Get(name)
		if !ok {
			continue
		}
		path := filepath.Join(outDir, name+".geojson")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := geojson.WritePoints(f, points); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
	}
	collector.ObserveStage("write", time.Since(start))
	return nil
}

func serveMetrics(addr string, collector *observability.PipelineCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
