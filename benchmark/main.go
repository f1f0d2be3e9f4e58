// Package main provides a performance benchmarking tool for the Newsline CLI.
// It generates synthetic document datasets of increasing size, runs a fixed set of
// queries against each one several times, treats the first successful run as cold and
// averages the rest as warm, and writes a CSV for performance analysis and documentation.
//
// Prerequisites:
// - newsline binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic datasets and metrics database are written
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-tracking average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset        string
	Query          string
	NoTrackingTime string
	ColdTime       string
	WarmTime       string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir         string
	Timeout         time.Duration
	NoTrackingRuns  int
	TrackingRuns    int
	DatasetSizes    map[string]int
	DatasetOrder    []string
	Queries         []string
	QueryCountries  map[string]string
	DatasetBaseTime time.Time
}

// syntheticDoc mirrors the JSON document format read by --docs.
type syntheticDoc struct {
	ArticleID   int     `json:"articleId"`
	Title       string  `json:"title"`
	Source      string  `json:"source"`
	PublishedAt string  `json:"publishedAt"`
	Sentiment   float64 `json:"sentiment"`
	CountryCode string  `json:"countryCode"`
}

var (
	subjects  = []string{"Gazprom", "Rosneft", "Naftogaz", "KazMunayGas", "OPEC", "the central bank", "grain traders", "port authorities"}
	verbs     = []string{"raises", "cuts", "delays", "expands", "reviews", "suspends", "doubles", "questions"}
	objects   = []string{"oil exports", "gas transit", "grain shipments", "sanctions compliance", "pipeline repairs", "tariffs", "currency reserves"}
	sources   = []string{"Reuters", "Interfax", "TASS", "Bloomberg", "Kazinform", "RIA", "AP"}
	countries = []string{"RU", "UA", "KZ", "TR", "DE"}
)

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:        os.Args[1],
		Timeout:        2 * time.Minute,
		NoTrackingRuns: 3,
		TrackingRuns:   4,
		DatasetSizes: map[string]int{
			"small":  1_000,
			"medium": 10_000,
			"large":  50_000,
		},
		DatasetOrder: []string{"small", "medium", "large"},
		Queries: []string{
			"Gazprom oil exports",
			"why did grain shipments stall last 30 days",
			"compare gas transit and tariffs",
		},
		QueryCountries: map[string]string{
			"why did grain shipments stall last 30 days": "UA,TR",
		},
		DatasetBaseTime: time.Now().UTC(),
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	datasets, err := writeDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the newsline binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("newsline"); err != nil {
		return fmt.Errorf("newsline binary not found in PATH")
	}
	if info, err := os.Stat(config.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("work directory %s does not exist", config.WorkDir)
	}
	return nil
}

// writeDatasets generates one reproducible JSON dataset per configured size.
func writeDatasets(config BenchmarkConfig) (map[string]string, error) {
	paths := make(map[string]string, len(config.DatasetSizes))
	for _, name := range config.DatasetOrder {
		size := config.DatasetSizes[name]
		rng := rand.New(rand.NewPCG(uint64(size), 42))

		docs := make([]syntheticDoc, size)
		for i := range docs {
			age := time.Duration(rng.IntN(90*24)) * time.Hour
			docs[i] = syntheticDoc{
				ArticleID: i + 1,
				Title: fmt.Sprintf("%s %s %s",
					subjects[rng.IntN(len(subjects))], verbs[rng.IntN(len(verbs))], objects[rng.IntN(len(objects))]),
				Source:      sources[rng.IntN(len(sources))],
				PublishedAt: config.DatasetBaseTime.Add(-age).Format(time.RFC3339),
				Sentiment:   rng.Float64()*2 - 1,
				CountryCode: countries[rng.IntN(len(countries))],
			}
		}

		path := filepath.Join(config.WorkDir, fmt.Sprintf("newsline_%s.json", name))
		data, err := json.Marshal(docs)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		fmt.Printf("Generated %s dataset: %d documents at %s\n", name, size, path)
		paths[name] = path
	}
	return paths, nil
}

// runBenchmarks executes every query against every dataset
func runBenchmarks(config BenchmarkConfig, datasets map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %d queries, %v timeout, no-tracking: %d runs, tracking: %d runs\n",
		len(datasets), len(config.Queries), config.Timeout, config.NoTrackingRuns, config.TrackingRuns)

	for _, name := range config.DatasetOrder {
		fmt.Printf("Benchmarking %s dataset\n", name)
		for _, query := range config.Queries {
			results = append(results, runBenchmarkSuite(config, name, datasets[name], query))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-tracking and tracking benchmarks for a query
func runBenchmarkSuite(config BenchmarkConfig, dataset, docsPath, query string) BenchmarkResult {
	fmt.Printf("Running %q on %s\n", query, dataset)

	args := []string{"retrieve", query, "--docs", docsPath, "--output", "json"}
	if countries, ok := config.QueryCountries[query]; ok {
		args = append(args, "--countries", countries)
	}

	// Helper to run a benchmark phase
	runPhase := func(metricsBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		phaseArgs := append(append([]string{}, args...), "--metrics-backend", metricsBackend)
		if metricsBackend == "sqlite" {
			phaseArgs = append(phaseArgs, "--metrics-db-connect", filepath.Join(config.WorkDir, "newsline_benchmark.db"))
		}
		cold, times := runBenchmark(config, phaseArgs, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: runs without metrics tracking
	_, noTrackingAvg := runPhase("none", config.NoTrackingRuns, "No-tracking")

	// Phase 2: runs recording every retrieval into SQLite
	coldTime, warmAvg := runPhase("sqlite", config.TrackingRuns, "Tracking")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-tracking average: %s, Cold time: %s, Warm average: %s\n", noTrackingAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:        dataset,
		Query:          query,
		NoTrackingTime: noTrackingAvg,
		ColdTime:       coldTimeStr,
		WarmTime:       warmAvg,
	}
}

// runBenchmark executes a newsline command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("newsline", args...)
		cmd.Dir = config.WorkDir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the output is a timeline report
func isSuccess(output []byte) bool {
	var report struct {
		RequestID string            `json:"requestId"`
		Timeline  []json.RawMessage `json:"timeline"`
	}
	if err := json.Unmarshal(output, &report); err != nil {
		return false
	}
	return report.RequestID != "" && report.Timeline != nil
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("newsline_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "query", "no_tracking_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Query, result.NoTrackingTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, query := range config.Queries {
		fmt.Printf("%s\n", query)
		for _, result := range results {
			if result.Query == query {
				fmt.Printf("  %-8s: No-tracking: %s, Cold: %s, Warm: %s\n",
					result.Dataset, result.NoTrackingTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
