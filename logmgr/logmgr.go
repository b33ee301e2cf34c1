// Package logmgr accumulates per-step simulation quantities pushed by the
// driver and emits them as fixed-width table rows, with wall clock timers
// and process memory tracking.
package logmgr

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Manager collects named quantities between emits. Producers push values
// with Set, the driver calls Emit once per logged step.
type Manager struct {
	mu      sync.Mutex
	out     io.Writer
	names   []string
	vals    map[string]float64
	timers  map[string]*Timer
	kernels map[string]*KernelTimer
	lines   int
}

func NewManager(out io.Writer) (lm *Manager) {
	if out == nil {
		out = os.Stdout
	}
	lm = &Manager{
		out:     out,
		vals:    make(map[string]float64),
		timers:  make(map[string]*Timer),
		kernels: make(map[string]*KernelTimer),
	}
	return
}

// AddQuantity declares table columns in output order.
func (lm *Manager) AddQuantity(names ...string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.names = append(lm.names, names...)
}

// Set pushes the current value of a quantity.
func (lm *Manager) Set(name string, val float64) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.vals[name] = val
}

// Timer returns the named accumulating timer, creating it on first use.
// Timers report their accumulated seconds under their name at each emit,
// then reset.
func (lm *Manager) Timer(name string) (tm *Timer) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	tm, ok := lm.timers[name]
	if !ok {
		tm = &Timer{}
		lm.timers[name] = tm
		lm.names = append(lm.names, name)
	}
	return
}

// NewKernelTimer registers a profiled compute kernel. The per-call flop
// and byte counts are fixed work estimates supplied by the kernel's
// owner; the timer reports seconds, call count and the implied GFLOPS
// and GB/s rates under <name>_s, <name>_calls, <name>_gflops and
// <name>_gbs at each emit.
func (lm *Manager) NewKernelTimer(name string, flopsPerCall, bytesPerCall float64) (kt *KernelTimer) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	kt = &KernelTimer{flopsPerCall: flopsPerCall, bytesPerCall: bytesPerCall}
	lm.kernels[name] = kt
	lm.names = append(lm.names, name+"_s", name+"_calls", name+"_gflops", name+"_gbs")
	return
}

// Emit writes one table row with the step, time and all declared
// quantities, re-printing the header every 50 rows.
func (lm *Manager) Emit(step int, t float64) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	for name, tm := range lm.timers {
		lm.vals[name] = tm.Collect()
	}
	for name, kt := range lm.kernels {
		seconds, calls := kt.Collect()
		lm.vals[name+"_s"] = seconds
		lm.vals[name+"_calls"] = float64(calls)
		lm.vals[name+"_gflops"], lm.vals[name+"_gbs"] = 0, 0
		if seconds > 0 {
			lm.vals[name+"_gflops"] = float64(calls) * kt.flopsPerCall / seconds / 1.e9
			lm.vals[name+"_gbs"] = float64(calls) * kt.bytesPerCall / seconds / 1.e9
		}
	}
	if lm.lines%50 == 0 {
		var hdr strings.Builder
		hdr.WriteString(fmt.Sprintf("%8s %12s", "step", "time"))
		for _, name := range lm.names {
			hdr.WriteString(fmt.Sprintf(" %12s", name))
		}
		fmt.Fprintln(lm.out, hdr.String())
	}
	var row strings.Builder
	row.WriteString(fmt.Sprintf("%8d %12.5e", step, t))
	for _, name := range lm.names {
		row.WriteString(fmt.Sprintf(" %12.5e", lm.vals[name]))
	}
	fmt.Fprintln(lm.out, row.String())
	lm.lines++
}

// Timer accumulates wall clock time across Start/Stop pairs.
type Timer struct {
	mu    sync.Mutex
	accum time.Duration
	start time.Time
	on    bool
}

func (tm *Timer) Start() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.start = time.Now()
	tm.on = true
}

func (tm *Timer) Stop() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.on {
		tm.accum += time.Since(tm.start)
		tm.on = false
	}
}

// Collect returns the accumulated seconds and resets the timer.
func (tm *Timer) Collect() (seconds float64) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	seconds = tm.accum.Seconds()
	tm.accum = 0
	return
}

// KernelTimer accumulates wall time and call counts for one named
// compute kernel between emits. Flop and byte totals derive from the
// per-call work estimates registered with the manager.
type KernelTimer struct {
	mu           sync.Mutex
	accum        time.Duration
	start        time.Time
	on           bool
	calls        int
	flopsPerCall float64
	bytesPerCall float64
}

func (kt *KernelTimer) Start() {
	kt.mu.Lock()
	defer kt.mu.Unlock()
	kt.start = time.Now()
	kt.on = true
}

// Stop closes a Start pair and counts one kernel call.
func (kt *KernelTimer) Stop() {
	kt.mu.Lock()
	defer kt.mu.Unlock()
	if kt.on {
		kt.accum += time.Since(kt.start)
		kt.calls++
		kt.on = false
	}
}

// Collect returns the accumulated seconds and call count, then resets.
func (kt *KernelTimer) Collect() (seconds float64, calls int) {
	kt.mu.Lock()
	defer kt.mu.Unlock()
	seconds, calls = kt.accum.Seconds(), kt.calls
	kt.accum, kt.calls = 0, 0
	return
}

// RSSBytes reads the resident set size from /proc/self/statm. It returns
// zero on platforms without procfs.
func RSSBytes() (rss uint64) {
	buf, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(buf))
	if len(fields) < 2 {
		return 0
	}
	pages, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	rss = pages * uint64(os.Getpagesize())
	return
}
