package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"linkdiag/internal/diag"
	"linkdiag/internal/observ"
	"linkdiag/internal/parsers"
	"linkdiag/internal/source"
	"linkdiag/internal/trace"
)

// StdinPath is the input argument that selects standard input.
const StdinPath = "-"

// ErrNoInputs is returned when the given paths resolve to no logs at all.
var ErrNoInputs = errors.New("no log files found")

// ScanOptions configures Scan.
type ScanOptions struct {
	Parser           string // parser id, parsers.Default when empty
	Encoding         source.Encoding
	Jobs             int // <= 0 means GOMAXPROCS
	MaxDiagnostics   int // per log, <= 0 means unbounded
	MinSeverity      diag.Severity
	WarningsAsErrors bool
	Dedup            bool
	Sort             bool
	EnableDiskCache  bool
	Cache            *DiskCache // overrides the default cache location
	Extensions       []string   // for directory inputs, DefaultExtensions when empty
	Events           chan<- Event
	EnableTimings    bool
	Stdin            io.Reader // os.Stdin when nil
	BaseDir          string
}

// FileResult is the outcome for one log.
type FileResult struct {
	Path   string
	LogID  source.LogID
	Bag    *diag.Bag
	Cached bool
}

// ScanResult is the outcome of a whole scan.
type ScanResult struct {
	Logs   *source.LogSet
	Files  []FileResult
	Bag    *diag.Bag
	Timing *observ.Report
}

// HasErrors reports whether any kept diagnostic is an error.
func (r *ScanResult) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// Scan loads every log named by paths, classifies it and merges the results.
// Diagnostics of one log keep their order of appearance; logs are merged in
// sorted path order with standard input first.
func Scan(ctx context.Context, paths []string, opts ScanOptions) (*ScanResult, error) {
	parserID := opts.Parser
	if parserID == "" {
		parserID = parsers.Default
	}
	variant, err := parsers.Lookup(parserID)
	if err != nil {
		return nil, err
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "scan", 0)
	defer span.End("")

	timer := newPhaseTimer(opts.EnableTimings)

	idx := timer.begin("resolve")
	names, err := resolveInputs(paths, opts.Extensions)
	timer.end(idx, strconv.Itoa(len(names))+" logs")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoInputs
	}
	for _, name := range names {
		emit(ctx, opts.Events, Event{Path: name, Stage: StageQueued})
	}

	cache := opts.Cache
	if cache == nil && opts.EnableDiskCache {
		if cache, err = OpenDiskCache("linkdiag"); err != nil {
			trace.Point(tracer, trace.ScopePhase, "cache", "disabled: "+err.Error(), span.ID())
			cache = nil
		}
	}
	if !opts.EnableDiskCache {
		cache = nil
	}

	idx = timer.begin("load")
	logs, ids, err := loadLogs(ctx, names, opts)
	timer.end(idx, "")
	if err != nil {
		return nil, err
	}

	idx = timer.begin("classify")
	caches := resultCaches{mem: NewMemCache(len(ids)), disk: cache}
	results, err := classifyAll(ctx, logs, ids, variant, caches, opts, timer, span.ID())
	timer.end(idx, variant.ID)
	if err != nil {
		return nil, err
	}

	idx = timer.begin("merge")
	total := diag.NewBag(0)
	for _, fr := range results {
		total.Merge(fr.Bag)
	}
	if opts.Dedup {
		total.Dedup()
	}
	if opts.Sort {
		total.Sort()
	}
	timer.end(idx, "")

	span.WithExtra("logs", strconv.Itoa(len(results))).WithExtra("diagnostics", strconv.Itoa(total.Len()))

	return &ScanResult{
		Logs:   logs,
		Files:  results,
		Bag:    total,
		Timing: timer.report(),
	}, nil
}

// resolveInputs expands directories and returns the sorted, de-duplicated
// list of log names. Standard input, when requested, comes first.
func resolveInputs(paths []string, exts []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	stdin := false
	add := func(p string) {
		// same form as source.Log.Path so events line up across stages
		p = filepath.ToSlash(filepath.Clean(p))
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, p := range paths {
		if p == StdinPath {
			stdin = true
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		found, err := ListLogs(p, exts)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(files)
	if stdin {
		files = append([]string{source.StdinName}, files...)
	}
	return files, nil
}

func loadLogs(ctx context.Context, names []string, opts ScanOptions) (*source.LogSet, []source.LogID, error) {
	logs := source.NewLogSetWithBase(opts.BaseDir)
	ids := make([]source.LogID, 0, len(names))

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		emit(ctx, opts.Events, Event{Path: name, Stage: StageLoading})

		var (
			id  source.LogID
			err error
		)
		if name == source.StdinName {
			id, err = logs.LoadReader(source.StdinName, stdin, opts.Encoding)
		} else {
			id, err = logs.Load(name, opts.Encoding)
		}
		if err != nil {
			emit(ctx, opts.Events, Event{Path: name, Stage: StageFailed, Err: err})
			return nil, nil, fmt.Errorf("failed to load log: %w", err)
		}
		ids = append(ids, id)
	}
	return logs, ids, nil
}

func classifyAll(
	ctx context.Context,
	logs *source.LogSet,
	ids []source.LogID,
	variant parsers.Variant,
	caches resultCaches,
	opts ScanOptions,
	timer phaseTimer,
	parent uint64,
) ([]FileResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine writes only its own index
	results := make([]FileResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(ids))))

	for i, id := range ids {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = classifyLog(gctx, logs.Get(id), variant, caches, opts, timer, parent)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func classifyLog(
	ctx context.Context,
	log *source.Log,
	variant parsers.Variant,
	caches resultCaches,
	opts ScanOptions,
	timer phaseTimer,
	parent uint64,
) FileResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeLog, "classify:"+log.Path, parent)
	started := time.Now()

	key := NewCacheKey(variant.ID, log.Hash)
	diags, cached := caches.lookup(key, variant.ID, tracer, span.ID())
	if cached {
		emit(ctx, opts.Events, Event{Path: log.Path, Stage: StageCached})
	} else {
		emit(ctx, opts.Events, Event{Path: log.Path, Stage: StageClassifying})
		diags = variant.Parse(log.Text())
		caches.store(key, variant.ID, diags, tracer, span.ID())
	}

	bag := limitLog(adjustLog(diags, log.Path, opts), opts)

	timer.add("classify/log", time.Since(started))
	detail := ""
	if cached {
		detail = "cached"
	}
	span.WithExtra("diagnostics", strconv.Itoa(bag.Len())).End(detail)
	emit(ctx, opts.Events, Event{Path: log.Path, Stage: StageDone, Count: bag.Len()})

	return FileResult{
		Path:   log.Path,
		LogID:  log.ID,
		Bag:    bag,
		Cached: cached,
	}
}

// adjustLog stamps the origin on a log's diagnostics, then promotes and
// filters them by severity. The result is unbounded.
func adjustLog(diags []diag.Diagnostic, origin string, opts ScanOptions) *diag.Bag {
	all := diag.NewBag(0)
	for _, d := range diags {
		all.Add(d.WithOrigin(origin))
	}
	if opts.WarningsAsErrors {
		all.Transform(promoteWarning)
	}
	all.FilterMinSeverity(opts.MinSeverity)
	return all
}

// limitLog copies all into a bag capped at MaxDiagnostics, dropping repeats
// when Dedup is set.
func limitLog(all *diag.Bag, opts ScanOptions) *diag.Bag {
	bag := diag.NewBag(opts.MaxDiagnostics)
	var rep diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Dedup {
		rep = diag.NewDedupReporter(rep)
	}
	for _, d := range all.Items() {
		rep.Report(d)
	}
	return bag
}

func promoteWarning(d diag.Diagnostic) diag.Diagnostic {
	if d.Severity == diag.SevNormalWarning {
		return d.WithSeverity(diag.SevError)
	}
	return d
}

// resultCaches chains the per-scan memo in front of the optional disk cache.
type resultCaches struct {
	mem  *MemCache
	disk *DiskCache
}

func (c resultCaches) lookup(key CacheKey, parserID string, tracer trace.Tracer, parent uint64) ([]diag.Diagnostic, bool) {
	if diags, ok := c.mem.Get(key); ok {
		return diags, true
	}
	if c.disk == nil {
		return nil, false
	}
	var payload DiskPayload
	ok, err := c.disk.Get(key, &payload)
	if err != nil {
		trace.Point(tracer, trace.ScopeLog, "cache-get", err.Error(), parent)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	diags := payloadToDiags(parserID, &payload)
	if diags == nil {
		return nil, false
	}
	c.mem.Put(key, diags)
	return diags, true
}

func (c resultCaches) store(key CacheKey, parserID string, diags []diag.Diagnostic, tracer trace.Tracer, parent uint64) {
	c.mem.Put(key, diags)
	if c.disk == nil {
		return
	}
	payload, err := diagsToPayload(parserID, diags)
	if err == nil {
		err = c.disk.Put(key, payload)
	}
	if err != nil {
		trace.Point(tracer, trace.ScopeLog, "cache-put", err.Error(), parent)
	}
}
