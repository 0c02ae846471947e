// Load generator for the spending guard.
//
// Usage:
//   go run cmd/benchmark/main.go -url http://localhost:8080 -count 10000
//
// This tool:
//  1. Generates synthetic transactions across categories, amounts, and hours
//  2. Sends each to POST /transactions/check
//  3. Tallies gate outcomes and intervention levels
//  4. Reports latency and throughput
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// CheckRequest is the spending guard API request format.
type CheckRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	RecentCount *int    `json:"recentTransactionsCount,omitempty"`
}

// CheckResponse is the subset of the API response the benchmark reads.
type CheckResponse struct {
	TransactionID string `json:"transactionId"`
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason"`
	Assessment    *struct {
		Score int `json:"score"`
	} `json:"assessment"`
	Intervention *struct {
		Level string `json:"level"`
	} `json:"intervention"`
}

// Metrics tracks benchmark results.
type Metrics struct {
	Allowed int64
	Denied  int64

	Gentle   int64
	Moderate int64
	Strong   int64
	Critical int64

	TotalProcessed int64
	TotalErrors    int64
	ScoreSum       int64

	ProcessingTimeMs int64
}

var categories = []string{
	"jogos", "delivery", "lazer", "compras", "assinaturas",
	"mercado", "transporte", "farmacia", "educacao",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Spending guard base URL")
	userID := flag.String("user", "benchmark-test", "User ID for requests")
	count := flag.Int("count", 10000, "Number of transactions to send")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	nightOnly := flag.Bool("night-only", false, "Only generate night-time transactions")
	maxAmount := flag.Float64("max-amount", 600, "Maximum transaction amount")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	verbose := flag.Bool("verbose", false, "Print each transaction result")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║        DASHBOARD FINANCEIRO BENCHMARK - Transaction Gate      ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nGuard URL:   %s\n", *baseURL)
	fmt.Printf("User ID:     %s\n", *userID)
	fmt.Printf("Count:       %d\n", *count)
	fmt.Printf("Workers:     %d\n", *workers)
	fmt.Printf("Night Only:  %v\n", *nightOnly)
	fmt.Printf("Max Amount:  %.2f\n", *maxAmount)
	fmt.Printf("Seed:        %d\n", *seed)
	fmt.Println()

	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: guard not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure the server is running:")
		fmt.Println("  go run cmd/dashboard/main.go")
		os.Exit(1)
	}
	fmt.Println("✓ Guard is healthy")

	transactions := generate(rng, *count, *nightOnly, *maxAmount)
	fmt.Printf("✓ Generated %d transactions\n", len(transactions))

	fmt.Printf("\nRunning benchmark with %d workers...\n", *workers)
	startTime := time.Now()
	metrics := runBenchmark(transactions, *baseURL, *userID, *workers, *verbose)
	duration := time.Since(startTime)

	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// generate builds synthetic transactions. Hours skew toward evening and
// night so the gate's time factors are exercised.
func generate(rng *rand.Rand, count int, nightOnly bool, maxAmount float64) []CheckRequest {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := make([]CheckRequest, 0, count)

	for i := 0; i < count; i++ {
		hour := rng.Intn(24)
		if nightOnly {
			hour = rng.Intn(7) // 00:00 - 06:59
		}
		ts := base.Add(time.Duration(hour) * time.Hour).
			Add(time.Duration(rng.Intn(60)) * time.Minute)

		// Skew amounts low with an occasional spike
		amount := rng.Float64() * maxAmount / 4
		if rng.Intn(10) == 0 {
			amount = maxAmount/2 + rng.Float64()*maxAmount/2
		}

		recent := rng.Intn(6)
		txs = append(txs, CheckRequest{
			Amount:      float64(int(amount*100)) / 100,
			Category:    categories[rng.Intn(len(categories))],
			Timestamp:   ts.Format(time.RFC3339),
			RecentCount: &recent,
		})
	}

	return txs
}

func runBenchmark(transactions []CheckRequest, baseURL, userID string, numWorkers int, verbose bool) *Metrics {
	metrics := &Metrics{}

	work := make(chan CheckRequest, 100)
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 10 * time.Second}

			for tx := range work {
				start := time.Now()
				result, err := checkTransaction(client, baseURL, userID, tx)
				elapsed := time.Since(start).Milliseconds()

				atomic.AddInt64(&metrics.ProcessingTimeMs, elapsed)
				atomic.AddInt64(&metrics.TotalProcessed, 1)

				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("ERROR: %v\n", err)
					}
					continue
				}

				if result.Allowed {
					atomic.AddInt64(&metrics.Allowed, 1)
				} else {
					atomic.AddInt64(&metrics.Denied, 1)
				}
				if result.Assessment != nil {
					atomic.AddInt64(&metrics.ScoreSum, int64(result.Assessment.Score))
				}
				if result.Intervention != nil {
					switch result.Intervention.Level {
					case "gentle":
						atomic.AddInt64(&metrics.Gentle, 1)
					case "moderate":
						atomic.AddInt64(&metrics.Moderate, 1)
					case "strong":
						atomic.AddInt64(&metrics.Strong, 1)
					case "critical":
						atomic.AddInt64(&metrics.Critical, 1)
					}
				}

				if verbose {
					status := "ALLOW"
					if !result.Allowed {
						status = "DENY"
					}
					score := -1
					if result.Assessment != nil {
						score = result.Assessment.Score
					}
					fmt.Printf("%-5s | %-12s | R$%8.2f | score %3d | %s\n",
						status, tx.Category, tx.Amount, score, tx.Timestamp)
				}
			}
		}()
	}

	for _, tx := range transactions {
		work <- tx
	}
	close(work)

	wg.Wait()

	return metrics
}

func checkTransaction(client *http.Client, baseURL, userID string, tx CheckRequest) (*CheckResponse, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, baseURL+"/transactions/check", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-User-ID", userID)

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var result CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println("\n╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      BENCHMARK RESULTS                        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	fmt.Printf("\n📊 GATE OUTCOMES\n")
	fmt.Printf("   Total Processed:  %d\n", m.TotalProcessed)
	fmt.Printf("   Allowed:          %d\n", m.Allowed)
	fmt.Printf("   Denied:           %d\n", m.Denied)
	fmt.Printf("   Errors:           %d\n", m.TotalErrors)

	decided := m.Allowed + m.Denied
	if decided > 0 {
		fmt.Printf("   Denial Rate:      %.2f%%\n", 100*float64(m.Denied)/float64(decided))
		fmt.Printf("   Avg Risk Score:   %.1f\n", float64(m.ScoreSum)/float64(decided))
	}

	fmt.Printf("\n🛑 INTERVENTION LEVELS\n")
	fmt.Printf("   Gentle:    %d\n", m.Gentle)
	fmt.Printf("   Moderate:  %d\n", m.Moderate)
	fmt.Printf("   Strong:    %d\n", m.Strong)
	fmt.Printf("   Critical:  %d\n", m.Critical)

	fmt.Printf("\n⏱️  PERFORMANCE\n")
	fmt.Printf("   Total Duration:   %v\n", duration.Round(time.Millisecond))
	if m.TotalProcessed > 0 {
		avgMs := float64(m.ProcessingTimeMs) / float64(m.TotalProcessed)
		tps := float64(m.TotalProcessed) / duration.Seconds()
		fmt.Printf("   Avg Latency:      %.2f ms\n", avgMs)
		fmt.Printf("   Throughput:       %.2f tx/sec\n", tps)
	}

	fmt.Println()
}
