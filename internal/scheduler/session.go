package scheduler

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimezone  = "America/New_York"
	DefaultOpenCron  = "0 30 9 * * 1-5"
	DefaultCloseCron = "0 0 16 * * 1-5"
)

var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Session tracks whether the market is open. Two cron jobs flip the status
// at the open and close bells and report it to the change callback.
type Session struct {
	Cron *cron.Cron

	loc       *time.Location
	openSpec  string
	closeSpec string
	openAt    cron.Schedule
	closeAt   cron.Schedule
	now       func() time.Time

	mu       sync.RWMutex
	open     bool
	onChange func(open bool)
}

// NewSession creates a Session for the bells described by openSpec and
// closeSpec (seconds-precision cron) in timezone. An unknown timezone falls
// back to UTC.
func NewSession(timezone, openSpec, closeSpec string, onChange func(open bool)) (*Session, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	if openSpec == "" {
		openSpec = DefaultOpenCron
	}
	if closeSpec == "" {
		closeSpec = DefaultCloseCron
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", timezone).Msg("unknown timezone, using UTC")
		loc = time.UTC
	}

	openAt, err := parser.Parse(openSpec)
	if err != nil {
		return nil, fmt.Errorf("parse open schedule: %w", err)
	}
	closeAt, err := parser.Parse(closeSpec)
	if err != nil {
		return nil, fmt.Errorf("parse close schedule: %w", err)
	}

	s := &Session{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		onChange:  onChange,
		loc:       loc,
		openSpec:  openSpec,
		closeSpec: closeSpec,
		openAt:    openAt,
		closeAt:   closeAt,
		now:       time.Now,
	}
	s.open = s.IsOpen(s.now())
	return s, nil
}

// RegisterAll registers the open and close bells.
func (s *Session) RegisterAll() error {
	if _, err := s.Cron.AddFunc(s.openSpec, func() { s.set(true) }); err != nil {
		return fmt.Errorf("register open bell: %w", err)
	}
	if _, err := s.Cron.AddFunc(s.closeSpec, func() { s.set(false) }); err != nil {
		return fmt.Errorf("register close bell: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Session) Start() {
	s.Cron.Start()
	log.Info().Str("location", s.loc.String()).Bool("open", s.Open()).Msg("market session clock started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Session) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("market session clock stopped")
}

// IsOpen reports whether t falls inside a session: the next bell after t is
// a close bell.
func (s *Session) IsOpen(t time.Time) bool {
	t = t.In(s.loc)
	nextOpen := s.openAt.Next(t)
	nextClose := s.closeAt.Next(t)
	if nextClose.IsZero() {
		return false
	}
	return nextOpen.IsZero() || nextClose.Before(nextOpen)
}

// Open returns the last reported status.
func (s *Session) Open() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Status is "Open" or "Closed".
func (s *Session) Status() string {
	return StatusText(s.Open())
}

func StatusText(open bool) string {
	if open {
		return "Open"
	}
	return "Closed"
}

// OnChange replaces the callback run from the cron goroutine on every bell.
func (s *Session) OnChange(fn func(open bool)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) set(open bool) {
	s.mu.Lock()
	s.open = open
	fn := s.onChange
	s.mu.Unlock()

	log.Info().Str("status", StatusText(open)).Msg("market bell")
	if fn != nil {
		fn(open)
	}
}
