package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/ucc/internal/board"
	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/tui"
	"github.com/idilsaglam/ucc/internal/ui"
)

// args wraps a cobra arity check so violations exit 2.
func args(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := check(cmd, a); err != nil {
			return &usageError{msg: fmt.Sprintf("%s: %v", cmd.Name(), err)}
		}
		return nil
	}
}

func (a *app) addCmd() *cobra.Command {
	var status, desc, assignee, project, due string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a task",
		Example: `  ucc add "Write quarterly report" --due 2025-06-30
  ucc add --team "Review onboarding doc" --assignee leo --status team-review`,
		Args: args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			list := a.list()

			d := board.Draft{
				Name:        strings.Join(argv, " "),
				Description: desc,
				Assignee:    model.ParseAssignee(assignee),
				Project:     projectID(s, project),
			}
			if status != "" {
				col, err := resolveStatus(s, list, status)
				if err != nil {
					return err
				}
				d.Status = col.Status
			}
			if d.DueDate, err = model.ParseDate(due); err != nil {
				return err
			}

			t, err := s.Create(list, d)
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("added %s to %s %s", ui.C(ui.Current().Accent, t.ID), list, columnTitle(s, list, t.Status)))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&status, "status", "s", "", "column status or title (default: first column)")
	f.StringVarP(&desc, "desc", "d", "", "description")
	f.StringVarP(&assignee, "assignee", "a", "", "greg, leo or nikah")
	f.StringVarP(&project, "project", "p", "", "project id or name")
	f.StringVar(&due, "due", "", "due date YYYY-MM-DD")
	return cmd
}

func (a *app) lsCmd() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the board by column",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			v := s.Board(a.list())
			if group {
				ui.Panel(groupLines(v))
			} else {
				ui.Panel(boardLines(v))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group by pending/done instead of column")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its comments",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			t, list, err := a.resolve(s, argv[0])
			if err != nil {
				return err
			}
			ui.Panel(taskLines(t, columnTitle(s, list, t.Status), projectName(s, t.Project), time.Now()))
			return nil
		},
	}
}

func (a *app) mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <column>",
		Short: "Move a task to another column",
		Args:  args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			t, list, err := a.resolve(s, argv[0])
			if err != nil {
				return err
			}
			col, err := resolveStatus(s, list, argv[1])
			if err != nil {
				return err
			}
			if !s.MoveStatus(t.ID, list, col.Status) {
				fmt.Fprintln(ui.Stdout, ui.Dim(fmt.Sprintf("already in %s", col.Title)))
				return nil
			}
			ui.OK(fmt.Sprintf("moved to %s", col.Title))
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			t, list, err := a.resolve(s, argv[0])
			if err != nil {
				return err
			}
			if completed, _ := s.ToggleCompletion(t.ID, list); completed {
				ui.OK("completed " + ui.Truncate(t.Name, 60))
			} else {
				ui.OK("reopened " + ui.Truncate(t.Name, 60))
			}
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	var name, desc, due string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's name, description or due date",
		Example: `  ucc edit 1717243 --due 2025-07-01
  ucc edit 1717243 --description ""`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			type change struct {
				field model.Field
				value string
			}
			var changes []change
			for _, c := range []struct {
				flag  string
				field model.Field
				value string
			}{
				{"name", model.FieldName, name},
				{"description", model.FieldDescription, desc},
				{"due", model.FieldDueDate, due},
			} {
				if cmd.Flags().Changed(c.flag) {
					changes = append(changes, change{c.field, c.value})
				}
			}
			if len(changes) == 0 {
				return usagef("edit: nothing to change (use --name, --description or --due)")
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			t, list, err := a.resolve(s, argv[0])
			if err != nil {
				return err
			}
			for _, c := range changes {
				if _, err := s.UpdateField(t.ID, list, c.field, c.value); err != nil {
					return err
				}
			}
			s.Flush()
			ui.OK(fmt.Sprintf("updated %s", t.ID))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new name")
	f.StringVar(&desc, "description", "", "new description (empty clears)")
	f.StringVar(&due, "due", "", "new due date YYYY-MM-DD (empty clears)")
	return cmd
}

func (a *app) commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text...>",
		Short: "Comment on a task",
		Args:  args(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			t, list, err := a.resolve(s, argv[0])
			if err != nil {
				return err
			}
			c, ok := s.AppendComment(t.ID, list, strings.Join(argv[1:], " "))
			if !ok {
				return usagef("comment: text is empty")
			}
			ui.OK(fmt.Sprintf("comment by %s added", c.AuthorInitials))
			return nil
		},
	}
}

func (a *app) columnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List or rename board columns",
		Args:  args(cobra.NoArgs),
	}
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List columns with their status ids",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			v := s.Board(a.list())
			lines := []string{ui.C(ui.Current().Title, fmt.Sprintf("%s columns", v.List)), ""}
			for _, c := range v.Columns {
				lines = append(lines, fmt.Sprintf("%-18s %s %s",
					ui.C(ui.Current().Muted, c.Column.Status),
					ui.C(ui.Current().Column, c.Column.Title),
					ui.Dim(fmt.Sprintf("(%d)", len(c.Tasks))),
				))
			}
			ui.Panel(lines)
			return nil
		},
	}
	rename := &cobra.Command{
		Use:   "rename <status> <title...>",
		Short: "Rename a column",
		Args:  args(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			list := a.list()
			col, err := resolveStatus(s, list, argv[0])
			if err != nil {
				return err
			}
			title := strings.Join(argv[1:], " ")
			if !s.RenameColumn(list, col.Status, title) {
				fmt.Fprintln(ui.Stdout, ui.Dim("title unchanged"))
				return nil
			}
			ui.OK(fmt.Sprintf("renamed %q to %q", col.Title, strings.TrimSpace(title)))
			return nil
		},
	}
	cmd.AddCommand(ls, rename)
	return cmd
}

func (a *app) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List or add projects",
		Args:  args(cobra.NoArgs),
	}
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List projects",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			ps := s.Projects()
			lines := []string{ui.C(ui.Current().Title, "Projects"), ""}
			if len(ps) == 0 {
				lines = append(lines, ui.C(ui.Current().Muted, "no projects"))
			}
			for _, p := range ps {
				lines = append(lines, fmt.Sprintf("%s  %s", ui.C(ui.Current().Muted, p.ID), p.Name))
			}
			ui.Panel(lines)
			return nil
		},
	}
	add := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a project",
		Args:  args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := s.AddProject(strings.Join(argv, " "))
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("added project %s (%s)", p.Name, p.ID))
			return nil
		},
	}
	cmd.AddCommand(ls, add)
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of the personal board",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			e := s.Export(time.Now())
			b, err := e.Marshal()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("export dir: %w", err)
			}
			path := filepath.Join(out, e.FileName())
			if err := os.WriteFile(path, b, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			ui.OK(fmt.Sprintf("exported %d tasks to %s", len(e.Tasks), path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "directory to write the export into")
	return cmd
}

func (a *app) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.logToFile(); err != nil {
				return err
			}
			return tui.Run(s, a.list())
		},
	}
}

func columnTitle(s *board.Store, list model.List, status string) string {
	for _, c := range s.Columns(list) {
		if c.Status == status {
			return c.Title
		}
	}
	return status
}

// projectID maps a project name to its id; anything else passes through.
func projectID(s *board.Store, in string) string {
	in = strings.TrimSpace(in)
	for _, p := range s.Projects() {
		if p.ID == in || strings.EqualFold(p.Name, in) {
			return p.ID
		}
	}
	return in
}

func projectName(s *board.Store, id string) string {
	for _, p := range s.Projects() {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
