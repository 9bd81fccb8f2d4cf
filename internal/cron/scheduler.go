package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pathwaygaza/pathway-back/internal/config"
	"github.com/pathwaygaza/pathway-back/internal/excel"
)

// StartJobs schedules the daily curriculum re-import when a workbook source is
// configured. The import only creates missing rows, so re-running it is safe.
func StartJobs(cfg *config.Config, log *zap.SugaredLogger) {
	if cfg.CurriculumSheet == "" {
		return
	}

	c := cron.New()

	c.AddFunc("@daily", func() {
		log.Infow("running curriculum import job", "source", cfg.CurriculumSheet)
		if err := excel.Import(context.Background(), cfg.CurriculumSheet, log); err != nil {
			log.Errorw("curriculum import failed", "err", err)
		}
	})

	c.Start()
}
