// Package profiling adds pprof flags to a cobra command tree.
package profiling

import (
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Profiler holds the profile destinations chosen on the command line.
type Profiler struct {
	cpuProfilePath string
	memProfilePath string
	timing         bool

	cpuProfileFile *os.File
	started        time.Time
	log            *logrus.Entry
}

// New creates a Profiler. Nothing is recorded until Start.
func New() *Profiler {
	return &Profiler{log: logging.NewLogger("padnav.profiling")}
}

// AddFlags registers --cpu-profile, --mem-profile and --timing.
func (p *Profiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write a CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write a heap profile to file on exit")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Log how long the command took")
}

// Attach installs the profiler into cmd's persistent hooks, keeping any
// PersistentPreRun already set.
func (p *Profiler) Attach(cmd *cobra.Command) {
	p.AddFlags(cmd)
	prev := cmd.PersistentPreRun
	cmd.PersistentPreRun = nil
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if prev != nil {
			prev(c, args)
		}
		return p.Start()
	}
	cmd.PersistentPostRun = func(*cobra.Command, []string) { p.Stop() }
}

// Start begins CPU profiling when a path was given.
func (p *Profiler) Start() error {
	p.started = time.Now()
	if p.cpuProfilePath == "" {
		return nil
	}
	f, err := os.Create(p.cpuProfilePath)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "could not create CPU profile")
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "could not start CPU profile")
	}
	p.cpuProfileFile = f
	return nil
}

// Stop finishes the CPU profile and writes the heap profile.
func (p *Profiler) Stop() {
	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		p.cpuProfileFile = nil
		p.log.WithField("path", p.cpuProfilePath).Info("CPU profile written")
	}

	if p.memProfilePath != "" {
		if err := p.writeHeap(); err != nil {
			p.log.WithError(err).Warn("Could not write memory profile")
		} else {
			p.log.WithField("path", p.memProfilePath).Info("Memory profile written")
		}
	}

	if p.timing && !p.started.IsZero() {
		p.log.WithField("elapsed", time.Since(p.started).String()).Info("Command finished")
	}
}

func (p *Profiler) writeHeap() error {
	f, err := os.Create(p.memProfilePath)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC() // up-to-date statistics
	return pprof.WriteHeapProfile(f)
}
