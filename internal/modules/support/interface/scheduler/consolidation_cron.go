package scheduler

import (
	"fmt"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/service"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"github.com/robfig/cron/v3"
)

// ConsolidationScheduler periodically sweeps every customer with duplicate
// open sessions and merges them. The HTTP endpoint triggers the same sweep
// on demand; this just keeps the backlog from growing overnight.
type ConsolidationScheduler struct {
	cron *cron.Cron
	svc  service.ConsolidationService
	spec string
}

func NewConsolidationScheduler(svc service.ConsolidationService, spec string) *ConsolidationScheduler {
	if spec == "" {
		spec = "30 3 * * *"
	}
	return &ConsolidationScheduler{
		cron: cron.New(),
		svc:  svc,
		spec: spec,
	}
}

func (s *ConsolidationScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	zlog.Info("session consolidation scheduler started: " + s.spec)
	return nil
}

func (s *ConsolidationScheduler) Stop() {
	s.cron.Stop()
}

func (s *ConsolidationScheduler) run() {
	report, err := s.svc.ConsolidateAllDuplicateSessions()
	if err != nil {
		zlog.Error("session consolidation sweep failed: " + err.Error())
		return
	}
	zlog.Info(fmt.Sprintf("session consolidation sweep: %d users scanned, %d consolidated, %d messages moved",
		report.UsersProcessed, report.UsersConsolidated, report.MessagesConsolidated))
}
