// Command labelgen prepares raw route-tagged centrelines for the shield
// pipeline: it dissolves features by route reference, duplicates features
// carrying compound refs, and derives the label and shield-type attributes
// the sampler requires.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/tilecraft/shieldgen/classify"
	"github.com/tilecraft/shieldgen/internal/geojson"
	"github.com/tilecraft/shieldgen/internal/logging"
	"github.com/tilecraft/shieldgen/model"
)

func main() {
	input := flag.String("input", "", "Path to a GeoJSON file of ref-tagged line features")
	output := flag.String("output", "", "Path the labelled line features are written to")
	regionFlag := flag.String("region", "", "Classification rule set to apply: USA or Global")
	flag.Parse()

	_ = godotenv.Load()

	ctx, log := logging.WithRunLogger(context.Background(), logging.NewFromEnv())

	if *input == "" || *output == "" {
		log.Error(ctx, "missing -input or -output")
		os.Exit(2)
	}
	region, err := model.ParseRegion(*regionFlag)
	if err != nil {
		log.Error(ctx, "invalid -region", logging.String("error", err.Error()))
		os.Exit(2)
	}

	in, err := os.Open(*input)
	if err != nil {
		log.Error(ctx, "failed to open input", logging.String("path", *input), logging.String("error", err.Error()))
		os.Exit(1)
	}
	features, err := geojson.ReadLineFeatures(in)
	in.Close()
	if err != nil {
		log.Error(ctx, "failed to read input", logging.String("path", *input), logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "loaded raw features", logging.Int("count", len(features)))

	dissolved := classify.Dissolve(features)
	log.Info(ctx, "dissolved by ref", logging.Int("count", len(dissolved)))

	split := classify.SplitFeatures(dissolved)
	log.Info(ctx, "split compound refs", logging.Int("count", len(split)))

	classifier := classify.Classifier{Region: region}
	labelled := classifier.Process(split)
	log.Info(ctx, "classified features",
		logging.String("region", string(region)),
		logging.Int("labelled", len(labelled)),
		logging.Int("dropped", len(split)-len(labelled)),
	)

	out, err := os.Create(*output)
	if err != nil {
		log.Error(ctx, "failed to create output", logging.String("path", *output), logging.String("error", err.Error()))
		os.Exit(1)
	}
	if err := geojson.WriteLineFeatures(out, labelled); err != nil {
		out.Close()
		log.Error(ctx, "failed to write output", logging.String("path", *output), logging.String("error", err.Error()))
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		log.Error(ctx, "failed to close output", logging.String("path", *output), logging.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info(ctx, "wrote labelled features", logging.String("path", *output), logging.Int("count", len(labelled)))
}
