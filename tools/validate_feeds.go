// tools/validate_feeds.go
//
// Standalone checker for config/sources.yml. Fetches and parses every
// registered feed concurrently and prints a pass/fail line per source.
// Run from the repository root: go run tools/validate_feeds.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v2"
)

type source struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type sourcesFile struct {
	Sources []source `yaml:"sources"`
}

type result struct {
	src     source
	ok      bool
	message string
	elapsed time.Duration
}

func main() {
	path := "config/sources.yml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		fmt.Printf("Error parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("Validating %d feeds from %s\n\n", len(file.Sources), path)

	client := &http.Client{Timeout: 15 * time.Second}
	results := make(chan result, len(file.Sources))

	var wg sync.WaitGroup
	for _, src := range file.Sources {
		wg.Add(1)
		go func(src source) {
			defer wg.Done()
			results <- checkFeed(client, src)
		}(src)
	}
	wg.Wait()
	close(results)

	failures := 0
	for res := range results {
		status := "OK"
		if !res.ok {
			status = "FAIL"
			failures++
		}
		fmt.Printf("[%-4s] %-25s %-40s %s (%.1fs)\n",
			status, res.src.ID, res.src.URL, res.message, res.elapsed.Seconds())
	}

	fmt.Printf("\n%d of %d feeds healthy\n", len(file.Sources)-failures, len(file.Sources))
	if failures > 0 {
		os.Exit(1)
	}
}

func checkFeed(client *http.Client, src source) result {
	start := time.Now()

	resp, err := client.Get(src.URL)
	if err != nil {
		return result{src, false, fmt.Sprintf("request failed: %v", err), time.Since(start)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result{src, false, fmt.Sprintf("HTTP %d", resp.StatusCode), time.Since(start)}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return result{src, false, fmt.Sprintf("parse failed: %v", err), time.Since(start)}
	}

	return result{src, true, fmt.Sprintf("%d entries", len(feed.Items)), time.Since(start)}
}
