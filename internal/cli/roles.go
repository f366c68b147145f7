package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	roleclient "github.com/alanyang/llm-roles/internal/client/role"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	"github.com/alanyang/llm-roles/internal/view"
)

func newRolesCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage roles",
	}
	cmd.AddCommand(
		newRolesListCommand(a),
		newRolesSearchCommand(a),
		newRolesViewCommand(a),
		newRolesCreateCommand(a),
		newRolesEditCommand(a),
		newRolesDeleteCommand(a),
		newRolesPromptCommand(a),
		newRolesGenerateCommand(a),
		newRolesPreviewCommand(a),
		newRolesDefaultsCommand(a),
	)
	return cmd
}

func newRolesListCommand(a *App) *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roles page by page",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(*cobra.Command, []string) error {
		v := view.NewRolesView(a.ctx, a.roles)
		defer v.Close()
		v.Show(page, size)
		printRoles(a.out, v.Roles())
		printPage(a.out, v.Page(), v.PageSize(), v.Total())
		return nil
	})
	cmd.Flags().IntVar(&page, "page", 0, "page number, from 0")
	cmd.Flags().IntVar(&size, "size", view.DefaultPageSize, "page size")
	return cmd
}

func newRolesSearchCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search roles by name or description",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ *cobra.Command, args []string) error {
		v := view.NewRolesView(a.ctx, a.roles)
		defer v.Close()
		v.SetSearchText(args[0])
		v.Search()
		printRoles(a.out, v.Roles())
		return nil
	})
	return cmd
}

func newRolesViewCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "Show a role and its default templates",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		v := view.NewRoleDetail(a.ctx, a.roles)
		defer v.Close()
		if !v.Load(id) {
			return nil
		}
		printRole(a.out, *v.Role())
		if len(v.Defaults()) > 0 {
			fmt.Fprintln(a.out, "默认模板:")
			printTemplates(a.out, v.Defaults())
		}
		return nil
	})
	return cmd
}

type roleFlags struct {
	name, description, roleType, style, mode string
	domains, allowed, forbidden              []string
}

func (f *roleFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "role name")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.roleType, "type", "", "role type (advisor, assistant, teacher, specialist, consultant)")
	fs.StringVar(&f.style, "style", "", "language style")
	fs.StringVar(&f.mode, "mode", "", "response mode")
	fs.StringSliceVar(&f.domains, "domain", nil, "knowledge domain, repeatable")
	fs.StringSliceVar(&f.allowed, "allow", nil, "allowed topic, repeatable")
	fs.StringSliceVar(&f.forbidden, "forbid", nil, "forbidden topic, repeatable")
}

// apply copies the flags set on the command line into the form.
// A tag flag replaces the whole list.
func (f *roleFlags) apply(cmd *cobra.Command, form *view.RoleForm) {
	changed := cmd.Flags().Changed
	if changed("name") {
		form.Name = f.name
	}
	if changed("description") {
		form.Description = f.description
	}
	if changed("type") {
		form.RoleType = f.roleType
	}
	if changed("style") {
		form.LanguageStyle = f.style
	}
	if changed("mode") {
		form.ResponseMode = f.mode
	}
	setTags := func(flag string, dst *view.Tags, values []string) {
		if !changed(flag) {
			return
		}
		*dst = nil
		for _, v := range values {
			dst.Add(v)
		}
	}
	setTags("domain", &form.KnowledgeDomains, f.domains)
	setTags("allow", &form.AllowedTopics, f.allowed)
	setTags("forbid", &form.ForbiddenTopics, f.forbidden)
}

func newRolesCreateCommand(a *App) *cobra.Command {
	var flags roleFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a role",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		form := view.NewRoleForm(a.ctx, a.roles)
		defer form.Close()
		flags.apply(cmd, form)
		if r, ok := form.Submit(); ok {
			printRole(a.out, r)
		}
		return nil
	})
	flags.register(cmd)
	return cmd
}

func newRolesEditCommand(a *App) *cobra.Command {
	var flags roleFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update the given fields of a role",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		form := view.NewRoleForm(a.ctx, a.roles)
		defer form.Close()
		if !form.Load(id) {
			return nil
		}
		flags.apply(cmd, form)
		if r, ok := form.Submit(); ok {
			printRole(a.out, r)
		}
		return nil
	})
	flags.register(cmd)
	return cmd
}

func newRolesDeleteCommand(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a role after confirmation",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		detail := view.NewRoleDetail(a.ctx, a.roles)
		defer detail.Close()
		if !detail.Load(id) {
			return nil
		}

		v := view.NewRolesView(a.ctx, a.roles)
		defer v.Close()
		v.RequestDelete(*detail.Role())
		if !yes && !a.confirm(fmt.Sprintf(`确定要删除角色 "%s" 吗？此操作无法撤销`, detail.Role().Name)) {
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

type promptFlags struct {
	format, promptType, template string
	vars                         []string
}

func (f *promptFlags) register(cmd *cobra.Command, withVars bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.format, "format", "", "output format (openai, anthropic)")
	fs.StringVar(&f.promptType, "type", "", "prompt type (system, user, assistant, complete)")
	fs.StringVar(&f.template, "template", "", "template id")
	if withVars {
		fs.StringArrayVar(&f.vars, "var", nil, "custom variable name=value, repeatable")
	}
}

func (f *promptFlags) templateID() (*uuid.UUID, error) {
	if f.template == "" {
		return nil, nil
	}
	id, err := parseID(f.template)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// withRole loads role id into a detail view before calling fn.
func (a *App) withRole(idArg string, fn func(v *view.RoleDetail) error) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	v := view.NewRoleDetail(a.ctx, a.roles)
	defer v.Close()
	if !v.Load(id) {
		return nil
	}
	return fn(v)
}

func newRolesPromptCommand(a *App) *cobra.Command {
	var flags promptFlags
	cmd := &cobra.Command{
		Use:   "prompt <id>",
		Short: "Render the prompt of a role",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ *cobra.Command, args []string) error {
		tid, err := flags.templateID()
		if err != nil {
			return err
		}
		return a.withRole(args[0], func(v *view.RoleDetail) error {
			if v.RenderPrompt(roleclient.PromptOptions{Format: flags.format, Type: flags.promptType, TemplateID: tid}) {
				printPrompt(a.out, *v.Prompt())
			}
			return nil
		})
	})
	flags.register(cmd, false)
	return cmd
}

func newRolesGenerateCommand(a *App) *cobra.Command {
	var flags promptFlags
	cmd := &cobra.Command{
		Use:   "generate <id>",
		Short: "Render the prompt of a role with custom variables",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ *cobra.Command, args []string) error {
		tid, err := flags.templateID()
		if err != nil {
			return err
		}
		vars, err := parseVariables(flags.vars)
		if err != nil {
			return err
		}
		return a.withRole(args[0], func(v *view.RoleDetail) error {
			if v.Generate(domainprompt.GenerateRequest{
				Format:          flags.format,
				Type:            flags.promptType,
				TemplateID:      tid,
				CustomVariables: vars,
			}) {
				printPrompt(a.out, *v.Prompt())
			}
			return nil
		})
	})
	flags.register(cmd, true)
	return cmd
}

func newRolesPreviewCommand(a *App) *cobra.Command {
	var flags promptFlags
	cmd := &cobra.Command{
		Use:   "preview <id>",
		Short: "Preview a role rendered with one template",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ *cobra.Command, args []string) error {
		tid, err := flags.templateID()
		if err != nil {
			return err
		}
		vars, err := parseVariables(flags.vars)
		if err != nil {
			return err
		}
		if tid == nil {
			return errors.New("--template is required")
		}
		return a.withRole(args[0], func(v *view.RoleDetail) error {
			if v.Preview(domainprompt.PreviewRequest{
				TemplateID:      *tid,
				Format:          flags.format,
				Type:            flags.promptType,
				CustomVariables: vars,
			}) {
				printPrompt(a.out, *v.Prompt())
			}
			return nil
		})
	})
	flags.register(cmd, true)
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func newRolesDefaultsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Manage the default templates of a role",
	}

	list := &cobra.Command{
		Use:   "list <role-id>",
		Short: "List the default templates of a role",
		Args:  cobra.ExactArgs(1),
	}
	list.RunE = a.run(func(_ *cobra.Command, args []string) error {
		return a.withRole(args[0], func(v *view.RoleDetail) error {
			printTemplates(a.out, v.Defaults())
			return nil
		})
	})

	add := &cobra.Command{
		Use:   "add <role-id> <template-id>",
		Short: "Register a default template",
		Args:  cobra.ExactArgs(2),
	}
	add.RunE = a.run(func(_ *cobra.Command, args []string) error {
		tid, err := parseID(args[1])
		if err != nil {
			return err
		}
		return a.withRole(args[0], func(v *view.RoleDetail) error {
			if v.SetDefault(tid) {
				printTemplates(a.out, v.Defaults())
			}
			return nil
		})
	})

	remove := &cobra.Command{
		Use:   "remove <role-id> <template-id>",
		Short: "Unregister a default template",
		Args:  cobra.ExactArgs(2),
	}
	remove.RunE = a.run(func(_ *cobra.Command, args []string) error {
		tid, err := parseID(args[1])
		if err != nil {
			return err
		}
		return a.withRole(args[0], func(v *view.RoleDetail) error {
			if v.RemoveDefault(tid) {
				printTemplates(a.out, v.Defaults())
			}
			return nil
		})
	})

	cmd.AddCommand(list, add, remove)
	return cmd
}
