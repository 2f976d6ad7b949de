package services

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweepable is anything holding entries that expire: idle form sessions,
// staged downloads kept in memory.
type Sweepable interface {
	Sweep() int
}

type sweepTarget struct {
	name   string
	target Sweepable
}

// Sweeper periodically evicts expired state on a cron schedule.
type Sweeper struct {
	cron    *cron.Cron
	spec    string
	targets []sweepTarget
}

// NewSweeper creates a sweeper firing on spec, e.g. "@every 5m".
func NewSweeper(spec string) *Sweeper {
	return &Sweeper{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		spec: spec,
	}
}

// Add registers a target. Call before Start.
func (s *Sweeper) Add(name string, target Sweepable) {
	s.targets = append(s.targets, sweepTarget{name: name, target: target})
}

// Start registers the sweep job and starts the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
	}
	s.cron.Start()
	log.Printf("🧹 Sweeper started: %s (%d targets)", s.spec, len(s.targets))
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🧹 Sweeper stopped")
}

// RunOnce sweeps every target once.
func (s *Sweeper) RunOnce() {
	for _, t := range s.targets {
		if n := t.target.Sweep(); n > 0 {
			log.Printf("🧹 Swept %d expired %s", n, t.name)
		}
	}
}
