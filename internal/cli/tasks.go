package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"personal-planner/internal/model"
	"personal-planner/internal/service"
)

func newAddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Create a task",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Task title"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Free text description"},
			&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "Low, Medium or High"},
			&cli.BoolFlag{Name: "recurring", Aliases: []string{"r"}, Usage: "Repeat daily after completion"},
		},
		Action: runAdd,
	}
}

func newCompleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Mark a task done; recurring tasks spawn their next instance",
		ArgsUsage: "<task_id>",
		Action:    runComplete,
	}
}

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Usage: "Only show Pending or Done tasks"},
		},
		Action: runList,
	}
}

func newShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show task details",
		ArgsUsage: "<task_id>",
		Action:    runShow,
	}
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.tasks.CreateTask(ctx, service.TaskInput{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		DueDate:     cmd.String("due"),
		Priority:    cmd.String("priority"),
		IsRecurring: cmd.Bool("recurring"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Task %d created: %s (due %s)\n", task.ID, task.Title, task.DueDate)
	return nil
}

func runComplete(ctx context.Context, cmd *cli.Command) error {
	id, err := taskIDArg(cmd, "complete")
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	next, err := a.tasks.CompleteTask(ctx, id)
	switch {
	case model.IsCode(err, model.CodeUnrecognizedRecurrence):
		fmt.Fprintf(a.out, "Task %d done.\nWarning: %v\n", id, err)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(a.out, "Task %d done.\n", id)
	if next != nil {
		fmt.Fprintf(a.out, "Next instance %d created, due %s.\n", next.ID, next.DueDate)
	}
	return nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.tasks.ListTasks(ctx, service.ListFilter{Status: model.Status(cmd.String("status"))})
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
		return nil
	}
	return writeTaskTable(a.out, list)
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	id, err := taskIDArg(cmd, "show")
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.tasks.GetTask(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:          %d\n", t.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", t.Title)
	fmt.Fprintf(a.out, "Status:      %s\n", t.Status)
	fmt.Fprintf(a.out, "Priority:    %s\n", t.Priority)
	fmt.Fprintf(a.out, "Due:         %s\n", t.DueDate)
	if t.IsRecurring {
		fmt.Fprintf(a.out, "Repeats:     %s\n", t.RecurrencePattern)
	}
	fmt.Fprintf(a.out, "Created:     %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Updated:     %s\n", t.LastUpdatedAt.Format("2006-01-02 15:04:05"))
	if t.Description != "" {
		fmt.Fprintf(a.out, "\nDescription:\n%s\n", t.Description)
	}
	return nil
}

func writeTaskTable(out io.Writer, list []model.Task) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tDUE\tPRIORITY\tREPEATS\tTITLE")
	for _, t := range list {
		repeats := "-"
		if t.IsRecurring {
			repeats = string(t.RecurrencePattern)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			t.Status,
			t.DueDate,
			t.Priority,
			repeats,
			t.Title,
		)
	}
	return w.Flush()
}

func taskIDArg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("usage: planner %s <task_id>", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}
