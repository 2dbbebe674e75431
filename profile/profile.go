package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
)

// ErrUnknownProfile indicates a profile name is not one of [Kinds].
var ErrUnknownProfile = errors.New("unknown profile")

// ProfileCPU names the CPU profile. Every other kind is a snapshot written
// when profiling stops.
const ProfileCPU = "cpu"

// Kinds returns every supported profile name.
func Kinds() []string {
	return []string{ProfileCPU, "heap", "allocs", "goroutine", "block", "mutex"}
}

// Profiler writes the selected runtime profiles to <dir>/<kind>.pprof.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	dir     string
	kinds   []string
}

// Enabled reports whether any profile is selected.
func (p *Profiler) Enabled() bool {
	return len(p.kinds) > 0
}

// Path returns the output file of kind.
func (p *Profiler) Path(kind string) string {
	return filepath.Join(p.dir, kind+".pprof")
}

// Start enables sampling for the selected profiles and starts CPU
// profiling. Call [Profiler.Stop] to write the results.
func (p *Profiler) Start() error {
	if slices.Contains(p.kinds, "block") {
		runtime.SetBlockProfileRate(1)
	}

	if slices.Contains(p.kinds, "mutex") {
		runtime.SetMutexProfileFraction(1)
	}

	if !slices.Contains(p.kinds, ProfileCPU) {
		return nil
	}

	f, err := os.Create(p.Path(ProfileCPU))
	if err != nil {
		return fmt.Errorf("creating cpu profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("starting cpu profile: %w", err), f.Close())
	}

	p.cpuFile = f

	return nil
}

// Stop stops CPU profiling and writes every selected snapshot profile.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing cpu profile: %w", err))
		}

		slog.Debug("wrote profile", slog.String("path", p.cpuFile.Name()))

		p.cpuFile = nil
	}

	for _, kind := range p.kinds {
		if kind == ProfileCPU {
			continue
		}

		err := p.writeSnapshot(kind)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (p *Profiler) writeSnapshot(kind string) error {
	prof := pprof.Lookup(kind)
	if prof == nil {
		return fmt.Errorf("%w: %q", ErrUnknownProfile, kind)
	}

	path := p.Path(kind)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s profile: %w", kind, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("writing %s profile: %w", kind, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("closing %s profile: %w", kind, err)
	}

	slog.Debug("wrote profile", slog.String("path", path))

	return nil
}
