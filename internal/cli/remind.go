package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"personal-planner/internal/model"
	"personal-planner/internal/service"
)

func newRemindCommand() *cli.Command {
	return &cli.Command{
		Name:  "remind",
		Usage: "Print overdue, due today and upcoming tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "Report day (YYYY-MM-DD), defaults to today"},
		},
		Action: runRemind,
	}
}

func newWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Run in the foreground and print the daily report on schedule",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "now", Usage: "Also print the report immediately"},
		},
		Action: runWatch,
	}
}

func runRemind(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	day := model.DateOf(time.Now())
	if raw := cmd.String("date"); raw != "" {
		day, err = model.ParseDate(raw)
		if err != nil {
			return model.ErrInvalidDateFormat
		}
	}

	summary, err := service.NewReminderService(a.store, a.cfg.Reminder.UpcomingDays).DailySummary(ctx, day)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, summary)
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	reminders := service.NewReminderService(a.store, a.cfg.Reminder.UpcomingDays)
	report := func() {
		jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		summary, err := reminders.DailySummary(jobCtx, model.DateOf(time.Now()))
		if err != nil {
			a.logger.Error("daily report", zap.Error(err))
			return
		}
		fmt.Fprintln(a.out, summary)
	}

	scheduler := service.NewSchedulerService(time.Local, a.logger)
	if a.cfg.Reminder.Every > 0 {
		_, err = scheduler.ScheduleInterval(a.cfg.Reminder.Every, report)
	} else {
		_, err = scheduler.ScheduleDaily(a.cfg.Reminder.At, report)
	}
	if err != nil {
		return fmt.Errorf("schedule reports: %w", err)
	}

	if cmd.Bool("now") {
		report()
	}

	scheduler.Start()
	a.logger.Info("watching for due tasks",
		zap.String("at", a.cfg.Reminder.At),
		zap.Duration("every", a.cfg.Reminder.Every),
	)
	<-ctx.Done()
	scheduler.Stop()
	a.logger.Info("watch stopped")
	return nil
}
