package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strings"

	"github.com/snehareddy22/airaware/internal/dataset"
	"github.com/snehareddy22/airaware/internal/forest"
	"github.com/snehareddy22/airaware/pkg/logger"
)

// trainingCities are the dataset city labels the model is fitted on.
// Note "Delhi" here, not "New Delhi": the CSV uses the short label.
var trainingCities = []string{"Delhi", "Mumbai", "Kolkata", "Chennai", "Bengaluru"}

func main() {
	datasetPath := flag.String("dataset", "city_day.csv", "Path to the historical observations CSV")
	outPath := flag.String("out", "aqi_model.json", "Path to write the trained model artifact")
	trees := flag.Int("trees", 300, "Number of trees in the forest")
	seed := flag.Int64("seed", 42, "Random seed for bootstrap sampling and the train/test split")
	testFraction := flag.Float64("test-fraction", 0.2, "Fraction of rows held out for evaluation")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of parallel tree builders")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: *logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	file, err := os.Open(*datasetPath)
	if err != nil {
		log.Error("Failed to open dataset", logger.Error(err), logger.String("path", *datasetPath))
		os.Exit(1)
	}
	rows, err := dataset.Parse(file)
	file.Close()
	if err != nil {
		log.Error("Failed to parse dataset", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Parsed dataset", logger.String("path", *datasetPath), logger.Int("rows", len(rows)))

	features, targets := buildTrainingSet(rows)
	if len(features) == 0 {
		log.Error("No complete rows for the training cities", logger.Any("cities", trainingCities))
		os.Exit(1)
	}
	log.Info("Built training set", logger.Int("rows", len(features)))

	trainX, trainY, testX, testY := split(features, targets, *testFraction, *seed)
	log.Info("Split train/test",
		logger.Int("train_rows", len(trainX)),
		logger.Int("test_rows", len(testX)))

	model, err := forest.Fit(trainX, trainY, forest.Options{
		Trees:   *trees,
		Seed:    *seed,
		Workers: *workers,
	})
	if err != nil {
		log.Error("Training failed", logger.Error(err))
		os.Exit(1)
	}

	// Hold-out metrics are diagnostic only; the artifact is written
	// regardless of how they come out.
	if len(testX) > 0 {
		predicted := make([]float64, len(testX))
		for i, x := range testX {
			p, err := model.Predict(x)
			if err != nil {
				log.Error("Prediction failed during evaluation", logger.Error(err))
				os.Exit(1)
			}
			predicted[i] = p
		}
		mae, err := forest.MAE(predicted, testY)
		if err != nil {
			log.Error("MAE computation failed", logger.Error(err))
			os.Exit(1)
		}
		log.Info("Hold-out MAE", logger.Float64("mae", mae))
		if r2, err := forest.R2(predicted, testY); err != nil {
			log.Warn("R2 not computable", logger.Error(err))
		} else {
			log.Info("Hold-out R2", logger.Float64("r2", r2))
		}
	}

	if err := model.Save(*outPath); err != nil {
		log.Error("Failed to write model artifact", logger.Error(err), logger.String("path", *outPath))
		os.Exit(1)
	}
	log.Info("Wrote model artifact",
		logger.String("path", *outPath),
		logger.Int("trees", len(model.Trees)))
}

// buildTrainingSet filters the parsed rows down to complete observations
// from the training cities and lays them out as feature/target slices.
func buildTrainingSet(rows []dataset.Observation) ([][]float64, []float64) {
	var features [][]float64
	var targets []float64
	for _, row := range rows {
		if !row.Complete() {
			continue
		}
		if !isTrainingCity(row.City) {
			continue
		}
		features = append(features, []float64{*row.PM25, *row.CO, *row.NO2})
		targets = append(targets, *row.AQI)
	}
	return features, targets
}

func isTrainingCity(city string) bool {
	trimmed := strings.TrimSpace(city)
	for _, c := range trainingCities {
		if trimmed == c {
			return true
		}
	}
	return false
}

// split shuffles the rows with the given seed and carves off the last
// testFraction of them as the hold-out set.
func split(features [][]float64, targets []float64, testFraction float64, seed int64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	n := len(features)
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testN := int(float64(n) * testFraction)
	if testN < 0 {
		testN = 0
	}
	trainN := n - testN

	for i, j := range perm {
		if i < trainN {
			trainX = append(trainX, features[j])
			trainY = append(trainY, targets[j])
		} else {
			testX = append(testX, features[j])
			testY = append(testY, targets[j])
		}
	}
	return trainX, trainY, testX, testY
}
