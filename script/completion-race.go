package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"
)

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the subset of GET /api/v1/me the probe reads
type Profile struct {
	ID      uint64 `json:"id"`
	Balance string `json:"balance"`
}

// TestResult contains metrics for a single completion request
type TestResult struct {
	StatusCode   int
	ResponseTime time.Duration
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests int
	StatusCounts  map[int]int
	ErrorCounts   map[string]int
	ResponseTimes []time.Duration
	TotalTime     time.Duration
	Lock          sync.Mutex
}

// Fires concurrent completions of one task for one user. A correct server credits
// the reward once and answers every other request with 429 (cooldown) or a replay.
func main() {
	concurrency := flag.Int("c", 20, "Number of simultaneous completion requests")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	email := flag.String("email", "", "Email of the user completing the task")
	password := flag.String("password", "", "Password of the user completing the task")
	taskID := flag.Uint64("task", 1, "Task to complete")
	sharedKey := flag.String("key", "", "Send this Idempotency-Key on every request")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := login(client, *baseURL, *email, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	before, err := profile(client, *baseURL, token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "profile failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Completing task %d for user %d with %d concurrent requests\n", *taskID, before.ID, *concurrency)
	if *sharedKey != "" {
		fmt.Printf("All requests share Idempotency-Key %q\n", *sharedKey)
	}

	stats := &TestStats{
		TotalRequests: *concurrency,
		StatusCounts:  make(map[int]int),
		ErrorCounts:   make(map[string]int),
		ResponseTimes: make([]time.Duration, 0, *concurrency),
	}

	// Release every worker at once so the requests overlap on the server
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			result := complete(client, *baseURL, token, *taskID, *sharedKey)

			stats.Lock.Lock()
			defer stats.Lock.Unlock()
			if result.Error != nil {
				stats.ErrorCounts[result.Error.Error()]++
				return
			}
			stats.StatusCounts[result.StatusCode]++
			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
		}()
	}

	startTime := time.Now()
	close(start)
	wg.Wait()
	stats.TotalTime = time.Since(startTime)

	after, err := profile(client, *baseURL, token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "profile failed: %v\n", err)
		os.Exit(1)
	}

	printResults(stats, before.Balance, after.Balance)
}

func login(client *http.Client, baseURL, email, password string) (string, error) {
	body, err := json.Marshal(LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}

	var auth struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", err
	}
	return auth.Token, nil
}

func profile(client *http.Client, baseURL, token string) (*Profile, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func complete(client *http.Client, baseURL, token string, taskID uint64, key string) TestResult {
	url := fmt.Sprintf("%s/api/v1/tasks/%d/complete", baseURL, taskID)
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return TestResult{Error: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	startTime := time.Now()
	resp, err := client.Do(req)
	responseTime := time.Since(startTime)
	if err != nil {
		return TestResult{Error: err, ResponseTime: responseTime}
	}
	resp.Body.Close()
	return TestResult{StatusCode: resp.StatusCode, ResponseTime: responseTime}
}

func printResults(stats *TestStats, balanceBefore, balanceAfter string) {
	var p50, p99, maxTime time.Duration
	if n := len(stats.ResponseTimes); n > 0 {
		sorted := slices.Clone(stats.ResponseTimes)
		slices.Sort(sorted)
		p50 = sorted[n*50/100]
		p99 = sorted[n*99/100]
		maxTime = sorted[n-1]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P99 Response:        %v\n", p99)
	fmt.Printf("Maximum Response:    %v\n", maxTime)

	fmt.Println("\n----------------- STATUS CODES -----------------")
	for code, count := range stats.StatusCounts {
		fmt.Printf("%d: %d\n", code, count)
	}
	if len(stats.ErrorCounts) > 0 {
		fmt.Println("\n----------------- TRANSPORT ERRORS -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", errMsg, count)
		}
	}

	fmt.Println("\n----------------- BALANCE -----------------")
	fmt.Printf("Before: %s\n", balanceBefore)
	fmt.Printf("After:  %s\n", balanceAfter)

	fmt.Println("\n================= CONCLUSION =================")
	credited := stats.StatusCounts[http.StatusOK]
	switch {
	case credited == 0:
		fmt.Println("❌ No completion succeeded; check the task id and the cooldown")
	case stats.StatusCounts[http.StatusInternalServerError] > 0:
		fmt.Println("❌ Server errors under contention")
	default:
		fmt.Printf("✅ %d request(s) answered 200; compare the balance delta with one reward\n", credited)
	}
	fmt.Println("================================================")
}
