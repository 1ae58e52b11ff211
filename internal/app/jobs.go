package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func (a *Application) initJobs() {
	spec := a.appConfig.Job.ImageSweepSpec
	if spec == "" {
		return
	}
	a.sched = cron.New()
	_, err := a.sched.AddFunc(spec, func() {
		a.SweepOrphanImages(context.Background())
	})
	if err != nil {
		zap.L().Error("invalid image sweep spec", zap.String("spec", spec), zap.Error(err))
		return
	}
	a.sched.Start()
	zap.L().Info("image sweep scheduled", zap.String("spec", spec))
}

// SweepOrphanImages reclaims storage left behind by entity deletion:
// image rows no slot references anymore, then files with no image row.
func (a *Application) SweepOrphanImages(ctx context.Context) {
	orphans, err := a.imageRepo.ListOrphans(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		zap.L().Error("failed to list orphan images", zap.Error(err))
		return
	}

	removedRows := 0
	for _, img := range orphans {
		if err := a.imageStore.Remove(img.Path); err != nil {
			zap.L().Warn("failed to remove image file", zap.String("path", img.Path), zap.Error(err))
			continue
		}
		if err := a.imageRepo.Delete(ctx, img.ID); err != nil {
			zap.L().Warn("failed to delete image row", zap.Int64("id", img.ID), zap.Error(err))
			continue
		}
		removedRows++
	}

	files, err := a.imageStore.Files()
	if err != nil {
		zap.L().Error("failed to list image files", zap.Error(err))
		return
	}

	removedFiles := 0
	for _, name := range files {
		info, err := os.Stat(filepath.Join(a.imageStore.Dir(), name))
		if err != nil {
			continue
		}
		// an upload may not have its image row committed yet
		if time.Since(info.ModTime()) < time.Hour {
			continue
		}
		n, err := a.imageRepo.CountByPath(ctx, name)
		if err != nil || n > 0 {
			continue
		}
		if err := a.imageStore.Remove(name); err != nil {
			zap.L().Warn("failed to remove stray file", zap.String("path", name), zap.Error(err))
			continue
		}
		removedFiles++
	}

	if removedRows > 0 || removedFiles > 0 {
		zap.L().Info("image sweep finished",
			zap.Int("orphan_rows", removedRows),
			zap.Int("stray_files", removedFiles),
		)
	}
}
