package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alanyang/llm-roles/internal/appstate"
	"github.com/alanyang/llm-roles/internal/view"
)

const msgDefaultTemplateLocked = "默认模板不可删除"

func newTemplatesCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage prompt templates",
	}
	cmd.AddCommand(
		newTemplatesListCommand(a),
		newTemplatesViewCommand(a),
		newTemplatesCreateCommand(a),
		newTemplatesEditCommand(a),
		newTemplatesDeleteCommand(a),
	)
	return cmd
}

func newTemplatesListCommand(a *App) *cobra.Command {
	var (
		page, size int
		noDefaults bool
		search     string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates page by page",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(*cobra.Command, []string) error {
		v := view.NewTemplatesView(a.ctx, a.templates)
		defer v.Close()
		if noDefaults {
			v.SetIncludeDefaults(false)
		}
		v.Show(page, size)
		if search != "" {
			v.SetSearchText(search)
			v.Search()
		}
		printTemplates(a.out, v.Templates())
		printPage(a.out, v.Page(), v.PageSize(), v.Total())
		return nil
	})
	fs := cmd.Flags()
	fs.IntVar(&page, "page", 0, "page number, from 0")
	fs.IntVar(&size, "size", view.DefaultPageSize, "page size")
	fs.BoolVar(&noDefaults, "no-defaults", false, "hide the builtin templates")
	fs.StringVar(&search, "search", "", "keep templates whose name or description contains this text")
	return cmd
}

func newTemplatesViewCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "Show a template",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		form := view.NewTemplateForm(a.ctx, a.templates)
		defer form.Close()
		if form.Load(id) {
			printTemplate(a.out, *a.state.ActiveTemplate())
		}
		return nil
	})
	return cmd
}

type templateFlags struct {
	name, description, format, content, contentFile string
	roleTypes, vars                                 []string
	isDefault                                       bool
}

func (f *templateFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "template name")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.format, "format", "", "format (openai, anthropic)")
	fs.StringVar(&f.content, "content", "", "template content")
	fs.StringVar(&f.contentFile, "content-file", "", "read the template content from a file")
	fs.StringSliceVar(&f.roleTypes, "role-type", nil, "role type the template applies to, repeatable")
	fs.StringArrayVar(&f.vars, "var", nil, "variable name=source, repeatable")
	fs.BoolVar(&f.isDefault, "default", false, "mark as a default template")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
}

// apply copies the flags set on the command line into the form.
// --role-type and --var replace the whole list.
func (f *templateFlags) apply(cmd *cobra.Command, form *view.TemplateForm) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		form.Name = f.name
	}
	if changed("description") {
		form.Description = f.description
	}
	if changed("format") {
		form.Format = f.format
	}
	if changed("content") {
		form.TemplateContent = f.content
	}
	if changed("content-file") {
		data, err := os.ReadFile(f.contentFile)
		if err != nil {
			return fmt.Errorf("reading template content: %w", err)
		}
		form.TemplateContent = string(data)
	}
	if changed("role-type") {
		form.RoleTypes = nil
		for _, rt := range f.roleTypes {
			form.RoleTypes.Add(rt)
		}
	}
	if changed("var") {
		form.Variables = nil
		for _, v := range f.vars {
			name, source, _ := strings.Cut(v, "=")
			if !form.AddVariable(name, source) {
				return fmt.Errorf("invalid or duplicate variable %q", v)
			}
		}
	}
	if changed("default") {
		form.IsDefault = f.isDefault
	}
	return nil
}

func newTemplatesCreateCommand(a *App) *cobra.Command {
	var flags templateFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a template",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		form := view.NewTemplateForm(a.ctx, a.templates)
		defer form.Close()
		if err := flags.apply(cmd, form); err != nil {
			return err
		}
		if t, ok := form.Submit(); ok {
			printTemplate(a.out, t)
		}
		return nil
	})
	flags.register(cmd)
	return cmd
}

func newTemplatesEditCommand(a *App) *cobra.Command {
	var flags templateFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update the given fields of a template",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		form := view.NewTemplateForm(a.ctx, a.templates)
		defer form.Close()
		if !form.Load(id) {
			return nil
		}
		if err := flags.apply(cmd, form); err != nil {
			return err
		}
		if t, ok := form.Submit(); ok {
			printTemplate(a.out, t)
		}
		return nil
	})
	flags.register(cmd)
	return cmd
}

func newTemplatesDeleteCommand(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template after confirmation",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		form := view.NewTemplateForm(a.ctx, a.templates)
		defer form.Close()
		if !form.Load(id) {
			return nil
		}
		target := *a.state.ActiveTemplate()

		v := view.NewTemplatesView(a.ctx, a.templates)
		defer v.Close()
		if !v.RequestDelete(target) {
			a.state.ShowNotification(msgDefaultTemplateLocked, appstate.SeverityWarning)
			return nil
		}
		if !yes && !a.confirm(fmt.Sprintf(`确定要删除模板 "%s" 吗？此操作无法撤销`, target.Name)) {
			v.CancelDelete()
			fmt.Fprintln(a.errOut, "已取消")
			return nil
		}
		v.ConfirmDelete()
		return nil
	})
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}
