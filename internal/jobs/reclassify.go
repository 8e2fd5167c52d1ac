// Package jobs runs the background maintenance work that keeps stored
// license statuses in step with the calendar.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"tavara/internal/services/verification"
)

// LicenseSweeper re-derives the stored license_status of every verified
// agency on a fixed schedule. Statuses are a pure function of the expiry
// date and the current day, so the sweep is idempotent and safe to run as
// often as needed.
type LicenseSweeper struct {
	cron    *cron.Cron
	service *verification.Service
	spec    string
}

// NewLicenseSweeper builds a sweeper. spec is a standard cron expression;
// the default "0 1 * * *" runs once a day shortly after midnight so the
// day-boundary transitions land before anyone looks at a dashboard.
func NewLicenseSweeper(service *verification.Service, spec string) *LicenseSweeper {
	if spec == "" {
		spec = "0 1 * * *"
	}
	return &LicenseSweeper{
		cron:    cron.New(),
		service: service,
		spec:    spec,
	}
}

func (s *LicenseSweeper) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("License sweeper scheduled (%s)", s.spec)
	return nil
}

// Stop waits for an in-flight sweep to finish before returning.
func (s *LicenseSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *LicenseSweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	changed, err := s.service.ReclassifyAll(ctx)
	if err != nil {
		log.Printf("License sweep failed: %v", err)
		return
	}
	if changed > 0 {
		log.Printf("License sweep reclassified %d agencies", changed)
	}
}
