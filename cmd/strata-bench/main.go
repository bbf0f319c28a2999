// Command strata-bench measures route table compile and match throughput.
//
// It synthesizes a manifest with a realistic mix of static, parameter, and
// wildcard routes, compiles it, then hammers Match from concurrent workers
// with a request stream containing a configurable share of misses. Every
// request carries its expected route id, so the run doubles as a
// correctness check under load.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"os/exec"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/strata-dev/strata/pkg/manifest"
	"github.com/strata-dev/strata/pkg/router"
)

const (
	gib = int64(1024 * 1024 * 1024)

	// matches per latency sample; per-op timing would swamp the work
	batchSize = 256
)

type profile struct {
	Name          string
	Routes        int
	Workers       int
	Duration      time.Duration
	MissShare     float64
	MaxProcs      int
	MemLimitBytes int64
}

var profiles = map[string]profile{
	"fast": {
		Name:      "fast",
		Routes:    256,
		Workers:   4,
		Duration:  5 * time.Second,
		MissShare: 0.1,
	},
	"standard": {
		Name:      "standard",
		Routes:    1024,
		Workers:   8,
		Duration:  15 * time.Second,
		MissShare: 0.1,
	},
	"stress": {
		Name:          "stress",
		Routes:        8192,
		Workers:       32,
		Duration:      30 * time.Second,
		MissShare:     0.25,
		MaxProcs:      4,
		MemLimitBytes: 2 * gib,
	},
}

type benchConfig struct {
	Profile       string
	Routes        int
	Workers       int
	Duration      time.Duration
	MissShare     float64
	Seed          int64
	MaxProcs      int
	MemLimitBytes int64
	JSONOutput    string
}

type benchCounters struct {
	matchesTotal atomic.Uint64
	hitsTotal    atomic.Uint64
	missesTotal  atomic.Uint64
}

type benchErrors struct {
	missedHits     atomic.Uint64
	unexpectedHits atomic.Uint64
	wrongRoute     atomic.Uint64
}

func (e *benchErrors) total() uint64 {
	return e.missedHits.Load() + e.unexpectedHits.Load() + e.wrongRoute.Load()
}

// benchRequest pairs a request path with the route id it must resolve to,
// or "" when the path must miss.
type benchRequest struct {
	path    string
	routeID string
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.MaxProcs > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcs)
	}
	if cfg.MemLimitBytes > 0 {
		debug.SetMemoryLimit(cfg.MemLimitBytes)
	}
	debug.SetGCPercent(100)

	rng := rand.New(rand.NewSource(cfg.Seed))

	decls := generateDeclarations(cfg.Routes)
	manifestData, err := json.Marshal(&manifest.Manifest{Routes: decls})
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal manifest: %v\n", err)
		os.Exit(1)
	}

	compileStart := time.Now()
	m, err := manifest.Parse("bench.json", manifestData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse manifest: %v\n", err)
		os.Exit(1)
	}
	table, err := router.New(m.Declarations())
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile table: %v\n", err)
		os.Exit(1)
	}
	compileElapsed := time.Since(compileStart)

	requests := generateRequests(decls, cfg.MissShare, rng)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	samplesCh := make(chan time.Duration, sampleBuffer(cfg.Workers))
	var samples []time.Duration
	var samplesMu sync.Mutex
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for lat := range samplesCh {
			samplesMu.Lock()
			samples = append(samples, lat)
			samplesMu.Unlock()
		}
	}()

	var counters benchCounters
	var errCounts benchErrors

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	beforeMetrics := readRuntimeMetrics()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		offset := rng.Intn(len(requests))
		go func() {
			defer wg.Done()
			runWorker(ctx, table, requests, offset, &counters, &errCounts, samplesCh)
		}()
	}

	wg.Wait()
	close(samplesCh)
	<-collectorDone

	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)
	afterMetrics := readRuntimeMetrics()

	samplesMu.Lock()
	latencies := append([]time.Duration(nil), samples...)
	samplesMu.Unlock()
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	report := buildReport(cfg, table.Stats(), len(manifestData), compileElapsed, elapsed, latencies, &counters, &errCounts, before, after, beforeMetrics, afterMetrics)

	writeSummary(os.Stderr, report)
	if err := writeJSON(cfg.JSONOutput, report); err != nil {
		fmt.Fprintf(os.Stderr, "write json: %v\n", err)
		os.Exit(1)
	}

	if report.Errors.TotalErrors > 0 {
		os.Exit(1)
	}
}

func runWorker(
	ctx context.Context,
	table *router.Router,
	requests []benchRequest,
	offset int,
	counters *benchCounters,
	errCounts *benchErrors,
	samples chan<- time.Duration,
) {
	idx := offset
	for {
		if ctx.Err() != nil {
			return
		}

		var hits, misses, missedHits, unexpectedHits, wrongRoute uint64

		begin := time.Now()
		for i := 0; i < batchSize; i++ {
			req := requests[idx%len(requests)]
			idx++

			m := table.Match(req.path)
			if m == nil {
				misses++
				if req.routeID != "" {
					missedHits++
				}
				continue
			}
			hits++
			if req.routeID == "" {
				unexpectedHits++
			} else if m.Route.ID != req.routeID {
				wrongRoute++
			}
		}
		lat := time.Since(begin) / batchSize

		counters.matchesTotal.Add(batchSize)
		counters.hitsTotal.Add(hits)
		counters.missesTotal.Add(misses)
		errCounts.missedHits.Add(missedHits)
		errCounts.unexpectedHits.Add(unexpectedHits)
		errCounts.wrongRoute.Add(wrongRoute)

		// drop samples when the collector lags
		select {
		case samples <- lat:
		default:
		}
	}
}

func sampleBuffer(workers int) int {
	if workers < 1 {
		return 1024
	}
	buf := workers * 256
	if buf < 1024 {
		buf = 1024
	}
	return buf
}

func parseConfig() (benchConfig, error) {
	profileFlag := flag.String("profile", "standard", "profile: fast|standard|stress")
	routesFlag := flag.Int("routes", -1, "number of routes in the synthesized table")
	workersFlag := flag.Int("workers", -1, "number of concurrent match workers")
	durationFlag := flag.String("duration", "", "benchmark duration, e.g. 30s")
	missFlag := flag.Float64("miss-share", -1, "fraction of requests that must miss")
	seedFlag := flag.Int64("seed", 1, "workload random seed")
	maxProcsFlag := flag.Int("max-procs", -1, "GOMAXPROCS cap (0 to leave unchanged)")
	memLimitFlag := flag.String("mem-limit", "", "GOMEMLIMIT (e.g. 2GiB)")
	jsonFlag := flag.String("json", "-", "JSON output path ('-' for stdout)")
	flag.Parse()

	name := strings.ToLower(strings.TrimSpace(*profileFlag))
	if name == "" {
		name = "standard"
	}

	base, ok := profiles[name]
	if !ok {
		return benchConfig{}, fmt.Errorf("unknown profile %q", name)
	}

	cfg := benchConfig{
		Profile:       base.Name,
		Routes:        base.Routes,
		Workers:       base.Workers,
		Duration:      base.Duration,
		MissShare:     base.MissShare,
		Seed:          *seedFlag,
		MaxProcs:      base.MaxProcs,
		MemLimitBytes: base.MemLimitBytes,
		JSONOutput:    strings.TrimSpace(*jsonFlag),
	}

	if *routesFlag != -1 {
		cfg.Routes = *routesFlag
	}
	if *workersFlag != -1 {
		cfg.Workers = *workersFlag
	}
	if *durationFlag != "" {
		d, err := time.ParseDuration(*durationFlag)
		if err != nil {
			return benchConfig{}, fmt.Errorf("invalid -duration: %w", err)
		}
		cfg.Duration = d
	}
	if *missFlag != -1 {
		cfg.MissShare = *missFlag
	}
	if *maxProcsFlag != -1 {
		cfg.MaxProcs = *maxProcsFlag
	}
	if *memLimitFlag != "" {
		limit, err := parseBytes(*memLimitFlag)
		if err != nil {
			return benchConfig{}, fmt.Errorf("invalid -mem-limit: %w", err)
		}
		cfg.MemLimitBytes = limit
	}
	if cfg.JSONOutput == "" {
		cfg.JSONOutput = "-"
	}

	if cfg.Routes <= 0 {
		return benchConfig{}, errors.New("-routes must be > 0")
	}
	if cfg.Workers <= 0 {
		return benchConfig{}, errors.New("-workers must be > 0")
	}
	if cfg.Duration <= 0 {
		return benchConfig{}, errors.New("-duration must be > 0")
	}
	if cfg.MissShare < 0 || cfg.MissShare >= 1 {
		return benchConfig{}, errors.New("-miss-share must be in [0, 1)")
	}
	if cfg.MaxProcs < 0 {
		return benchConfig{}, errors.New("-max-procs must be >= 0")
	}
	if cfg.MemLimitBytes < 0 {
		return benchConfig{}, errors.New("-mem-limit must be >= 0")
	}

	return cfg, nil
}

func parseBytes(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, errors.New("empty size")
	}

	var i int
	for i < len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return 0, fmt.Errorf("invalid size %q", input)
	}

	numPart := strings.TrimSpace(s[:i])
	suffix := strings.ToLower(strings.TrimSpace(s[i:]))

	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, err
	}

	multiplier := float64(1)
	switch suffix {
	case "", "b":
		multiplier = 1
	case "kb":
		multiplier = 1e3
	case "mb":
		multiplier = 1e6
	case "gb":
		multiplier = 1e9
	case "kib":
		multiplier = 1024
	case "mib":
		multiplier = 1024 * 1024
	case "gib":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix %q", suffix)
	}

	bytes := value * multiplier
	if bytes < 0 {
		return 0, fmt.Errorf("invalid size %q", input)
	}

	return int64(bytes + 0.5), nil
}

var sections = []string{
	"users", "posts", "orders", "teams", "files",
	"docs", "events", "billing", "projects", "search",
}

// generateDeclarations produces n conflict-free declarations with a mix of
// static, parameter, and wildcard patterns. Sections repeat under /v1, /v2,
// ... prefixes once the base names are exhausted.
func generateDeclarations(n int) []router.RouteDeclaration {
	decls := make([]router.RouteDeclaration, 0, n)
	decls = append(decls, router.RouteDeclaration{
		ID: "home", Pattern: "/", Kind: router.KindPage, ModuleRef: "routes/home",
	})

	for i := 0; len(decls) < n; i++ {
		section := sections[i%len(sections)]
		group := i / len(sections)

		id := section
		base := "/" + section
		if group > 0 {
			id = fmt.Sprintf("v%d.%s", group, section)
			base = fmt.Sprintf("/v%d/%s", group, section)
		}
		moduleRef := "routes" + base

		candidates := []router.RouteDeclaration{
			{ID: id + ".list", Pattern: base, Kind: router.KindPage, ModuleRef: moduleRef},
			{ID: id + ".new", Pattern: base + "/new", Kind: router.KindPage, ModuleRef: moduleRef},
			{ID: id + ".show", Pattern: base + "/:id", Kind: router.KindPage, ModuleRef: moduleRef},
			{ID: id + ".edit", Pattern: base + "/:id/edit", Kind: router.KindPage, ModuleRef: moduleRef},
			{ID: id + ".assets", Pattern: base + "/assets/*", Kind: router.KindPage, ModuleRef: moduleRef},
		}
		for _, c := range candidates {
			if len(decls) >= n {
				break
			}
			decls = append(decls, c)
		}
	}

	return decls
}

// generateRequests builds the request stream: one concrete path per route
// plus enough guaranteed misses to reach missShare.
func generateRequests(decls []router.RouteDeclaration, missShare float64, rng *rand.Rand) []benchRequest {
	requests := make([]benchRequest, 0, len(decls)*2)

	for _, decl := range decls {
		path := concretePath(decl.Pattern, rng)
		requests = append(requests, benchRequest{path: path, routeID: decl.ID})
	}

	hits := len(requests)
	misses := int(float64(hits) * missShare / (1 - missShare))
	for i := 0; i < misses; i++ {
		requests = append(requests, benchRequest{
			path: fmt.Sprintf("/no-such-section-%d/%d", i%7, rng.Intn(100000)),
		})
	}

	rng.Shuffle(len(requests), func(i, j int) {
		requests[i], requests[j] = requests[j], requests[i]
	})

	return requests
}

// concretePath substitutes parameters and wildcards in a pattern with
// request-like values.
func concretePath(pattern string, rng *rand.Rand) string {
	if pattern == "/" {
		return "/"
	}

	segments := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	out := make([]string, 0, len(segments)+2)
	for _, seg := range segments {
		switch {
		case seg == "*" || strings.HasSuffix(seg, "*"):
			out = append(out, "deep", "nested", fmt.Sprintf("file-%d.txt", rng.Intn(1000)))
		case strings.HasPrefix(seg, ":"):
			out = append(out, strconv.Itoa(rng.Intn(100000)))
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/")
}

type runtimeMetricsSnapshot struct {
	cpuTotalSeconds   float64
	cpuGCSeconds      float64
	heapAllocsBytes   uint64
	heapAllocsObjects uint64
}

func readRuntimeMetrics() runtimeMetricsSnapshot {
	samples := []metrics.Sample{
		{Name: "/cpu/classes/total:cpu-seconds"},
		{Name: "/cpu/classes/gc/total:cpu-seconds"},
		{Name: "/gc/heap/allocs:bytes"},
		{Name: "/gc/heap/allocs:objects"},
	}
	metrics.Read(samples)

	var out runtimeMetricsSnapshot
	for _, s := range samples {
		switch s.Name {
		case "/cpu/classes/total:cpu-seconds":
			out.cpuTotalSeconds = s.Value.Float64()
		case "/cpu/classes/gc/total:cpu-seconds":
			out.cpuGCSeconds = s.Value.Float64()
		case "/gc/heap/allocs:bytes":
			out.heapAllocsBytes = s.Value.Uint64()
		case "/gc/heap/allocs:objects":
			out.heapAllocsObjects = s.Value.Uint64()
		}
	}
	return out
}

func cpuFraction(after, before runtimeMetricsSnapshot) float64 {
	total := after.cpuTotalSeconds - before.cpuTotalSeconds
	if total <= 0 {
		return 0
	}
	gc := after.cpuGCSeconds - before.cpuGCSeconds
	if gc < 0 {
		return 0
	}
	return gc / total
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func avgPause(after, before runtime.MemStats) time.Duration {
	gcCount := after.NumGC - before.NumGC
	if gcCount == 0 {
		return 0
	}
	return time.Duration((after.PauseTotalNs - before.PauseTotalNs) / uint64(gcCount))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func us(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

type benchReport struct {
	Version    string         `json:"version"`
	Run        runInfo        `json:"run"`
	Workload   workloadInfo   `json:"workload"`
	Table      tableInfo      `json:"table"`
	LatencyUS  latencyInfo    `json:"latency_us"`
	Throughput throughputInfo `json:"throughput"`
	GC         gcInfo         `json:"gc"`
	Errors     errorInfo      `json:"errors"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
	GitCommit string `json:"git_commit,omitempty"`
}

type workloadInfo struct {
	Profile       string  `json:"profile"`
	Routes        int     `json:"routes"`
	Workers       int     `json:"workers"`
	DurationMS    int64   `json:"duration_ms"`
	MissShare     float64 `json:"miss_share"`
	Seed          int64   `json:"seed"`
	MaxProcs      int     `json:"max_procs"`
	MemLimitBytes int64   `json:"mem_limit_bytes"`
}

type tableInfo struct {
	ManifestBytes int     `json:"manifest_bytes"`
	StaticRoutes  int     `json:"static_routes"`
	DynamicRoutes int     `json:"dynamic_routes"`
	CompileMS     float64 `json:"compile_ms"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type throughputInfo struct {
	MatchesTotal        uint64  `json:"matches_total"`
	MatchesPerSec       float64 `json:"matches_per_sec"`
	MatchesPerSecWorker float64 `json:"matches_per_sec_per_worker"`
	HitRate             float64 `json:"hit_rate"`
}

type gcInfo struct {
	AllocMB       float64 `json:"alloc_mb"`
	HeapLiveMB    float64 `json:"heap_live_mb"`
	NumGC         uint32  `json:"num_gc"`
	PauseTotalMS  float64 `json:"pause_total_ms"`
	PauseAvgMS    float64 `json:"pause_avg_ms"`
	GCCPUFraction float64 `json:"gc_cpu_fraction"`
	AllocsObjects uint64  `json:"allocs_objects"`
}

type errorInfo struct {
	TotalErrors    uint64 `json:"total_errors"`
	MissedHits     uint64 `json:"missed_hits"`
	UnexpectedHits uint64 `json:"unexpected_hits"`
	WrongRoute     uint64 `json:"wrong_route"`
}

func buildReport(
	cfg benchConfig,
	stats router.Stats,
	manifestBytes int,
	compileElapsed time.Duration,
	elapsed time.Duration,
	latencies []time.Duration,
	counters *benchCounters,
	errCounts *benchErrors,
	before runtime.MemStats,
	after runtime.MemStats,
	beforeMetrics runtimeMetricsSnapshot,
	afterMetrics runtimeMetricsSnapshot,
) benchReport {
	matchesTotal := counters.matchesTotal.Load()
	hitsTotal := counters.hitsTotal.Load()

	elapsedSeconds := math.Max(0.001, elapsed.Seconds())
	matchesPerSec := float64(matchesTotal) / elapsedSeconds
	matchesPerSecWorker := matchesPerSec / float64(cfg.Workers)

	hitRate := 0.0
	if matchesTotal > 0 {
		hitRate = float64(hitsTotal) / float64(matchesTotal)
	}

	latency := latencyInfo{}
	if len(latencies) > 0 {
		latency = latencyInfo{
			Min: us(latencies[0]),
			P50: us(percentile(latencies, 0.50)),
			P95: us(percentile(latencies, 0.95)),
			P99: us(percentile(latencies, 0.99)),
			Max: us(latencies[len(latencies)-1]),
		}
	}

	pauseTotal := time.Duration(after.PauseTotalNs - before.PauseTotalNs)
	pauseAvg := avgPause(after, before)

	return benchReport{
		Version: "1",
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
			GitCommit: gitCommit(),
		},
		Workload: workloadInfo{
			Profile:       cfg.Profile,
			Routes:        cfg.Routes,
			Workers:       cfg.Workers,
			DurationMS:    cfg.Duration.Milliseconds(),
			MissShare:     cfg.MissShare,
			Seed:          cfg.Seed,
			MaxProcs:      cfg.MaxProcs,
			MemLimitBytes: cfg.MemLimitBytes,
		},
		Table: tableInfo{
			ManifestBytes: manifestBytes,
			StaticRoutes:  stats.StaticCount,
			DynamicRoutes: stats.DynamicCount,
			CompileMS:     ms(compileElapsed),
		},
		LatencyUS: latency,
		Throughput: throughputInfo{
			MatchesTotal:        matchesTotal,
			MatchesPerSec:       matchesPerSec,
			MatchesPerSecWorker: matchesPerSecWorker,
			HitRate:             hitRate,
		},
		GC: gcInfo{
			AllocMB:       float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
			HeapLiveMB:    float64(after.HeapAlloc) / (1024 * 1024),
			NumGC:         after.NumGC - before.NumGC,
			PauseTotalMS:  ms(pauseTotal),
			PauseAvgMS:    ms(pauseAvg),
			GCCPUFraction: cpuFraction(afterMetrics, beforeMetrics),
			AllocsObjects: afterMetrics.heapAllocsObjects - beforeMetrics.heapAllocsObjects,
		},
		Errors: errorInfo{
			TotalErrors:    errCounts.total(),
			MissedHits:     errCounts.missedHits.Load(),
			UnexpectedHits: errCounts.unexpectedHits.Load(),
			WrongRoute:     errCounts.wrongRoute.Load(),
		},
	}
}

func writeSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== Strata Route Table Benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "Routes: %d (%d static, %d dynamic)\n", report.Workload.Routes, report.Table.StaticRoutes, report.Table.DynamicRoutes)
	fmt.Fprintf(w, "Workers: %d\n", report.Workload.Workers)
	fmt.Fprintf(w, "Duration: %s\n", time.Duration(report.Workload.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "Miss share: %.0f%%\n", report.Workload.MissShare*100)
	if report.Workload.MaxProcs > 0 {
		fmt.Fprintf(w, "GOMAXPROCS cap: %d\n", report.Workload.MaxProcs)
	}
	if report.Workload.MemLimitBytes > 0 {
		fmt.Fprintf(w, "GOMEMLIMIT cap: %.2f GiB\n", float64(report.Workload.MemLimitBytes)/float64(gib))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Manifest: %d bytes, compiled in %.2f ms\n", report.Table.ManifestBytes, report.Table.CompileMS)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total matches: %d\n", report.Throughput.MatchesTotal)
	fmt.Fprintf(w, "Throughput: %.0f matches/s (%.0f per worker)\n", report.Throughput.MatchesPerSec, report.Throughput.MatchesPerSecWorker)
	fmt.Fprintf(w, "Hit rate: %.1f%%\n", report.Throughput.HitRate*100)
	fmt.Fprintf(w, "Errors: %d\n", report.Errors.TotalErrors)
	fmt.Fprintln(w)

	if report.LatencyUS.Max == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
	} else {
		fmt.Fprintf(w, "Match latency (averaged over %d-op batches):\n", batchSize)
		fmt.Fprintf(w, "  min: %.2f us\n", report.LatencyUS.Min)
		fmt.Fprintf(w, "  p50: %.2f us\n", report.LatencyUS.P50)
		fmt.Fprintf(w, "  p95: %.2f us\n", report.LatencyUS.P95)
		fmt.Fprintf(w, "  p99: %.2f us\n", report.LatencyUS.P99)
		fmt.Fprintf(w, "  max: %.2f us\n", report.LatencyUS.Max)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Go runtime / GC (process-wide):")
	fmt.Fprintf(w, "  alloc:     %.2f MB\n", report.GC.AllocMB)
	fmt.Fprintf(w, "  heap_live: %.2f MB\n", report.GC.HeapLiveMB)
	fmt.Fprintf(w, "  num_gc:    %d\n", report.GC.NumGC)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (total)\n", report.GC.PauseTotalMS)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (avg)\n", report.GC.PauseAvgMS)
	fmt.Fprintf(w, "  gc_cpu:    %.2f%%\n", report.GC.GCCPUFraction*100)
}

func writeJSON(path string, report benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func gitCommit() string {
	if val := strings.TrimSpace(os.Getenv("STRATA_GIT_COMMIT")); val != "" {
		return val
	}
	if val := strings.TrimSpace(os.Getenv("GIT_COMMIT")); val != "" {
		return val
	}
	cmd := exec.Command("git", "rev-parse", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
