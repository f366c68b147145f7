package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/alanyang/llm-roles/internal/appstate"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

var severityColors = map[appstate.Severity]*color.Color{
	appstate.SeveritySuccess: color.New(color.FgGreen, color.Bold),
	appstate.SeverityError:   color.New(color.FgRed, color.Bold),
	appstate.SeverityWarning: color.New(color.FgYellow, color.Bold),
	appstate.SeverityInfo:    color.New(color.FgCyan),
}

func printBanner(w io.Writer, n appstate.Notification) {
	c, ok := severityColors[n.Severity]
	if !ok {
		c = severityColors[appstate.SeverityInfo]
	}
	c.Fprintf(w, "[%s] %s\n", n.Severity, n.Message)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	return t
}

func printRoles(w io.Writer, roles []domainrole.Role) {
	t := newTable(w, "ID", "名称", "类型", "描述", "创建时间")
	for _, r := range roles {
		t.Append([]string{r.ID.String(), r.Name, r.RoleType, truncate(r.Description, 40), formatTime(r.CreatedAt)})
	}
	t.Render()
}

func printRole(w io.Writer, r domainrole.Role) {
	t := newTable(w, "字段", "值")
	t.AppendBulk([][]string{
		{"ID", r.ID.String()},
		{"名称", r.Name},
		{"描述", r.Description},
		{"角色类型", r.RoleType},
		{"语言风格", r.LanguageStyle},
		{"响应模式", r.ResponseMode},
		{"知识领域", strings.Join(r.KnowledgeDomains, ", ")},
		{"允许话题", strings.Join(r.AllowedTopics, ", ")},
		{"禁止话题", strings.Join(r.ForbiddenTopics, ", ")},
		{"创建时间", formatTime(r.CreatedAt)},
		{"更新时间", formatTime(r.UpdatedAt)},
	})
	t.Render()
}

func printTemplates(w io.Writer, templates []domaintemplate.Template) {
	t := newTable(w, "ID", "名称", "格式", "适用角色类型", "默认")
	for _, tmpl := range templates {
		t.Append([]string{tmpl.ID.String(), tmpl.Name, tmpl.Format, strings.Join(tmpl.RoleTypes, ", "), yesNo(tmpl.IsDefault)})
	}
	t.Render()
}

func printTemplate(w io.Writer, tmpl domaintemplate.Template) {
	t := newTable(w, "字段", "值")
	t.AppendBulk([][]string{
		{"ID", tmpl.ID.String()},
		{"名称", tmpl.Name},
		{"描述", tmpl.Description},
		{"格式", tmpl.Format},
		{"适用角色类型", strings.Join(tmpl.RoleTypes, ", ")},
		{"默认", yesNo(tmpl.IsDefault)},
	})
	t.Render()

	if len(tmpl.Variables) > 0 {
		vt := newTable(w, "变量", "来源", "说明")
		for _, v := range tmpl.Variables {
			vt.Append([]string{v.Name, v.Source, v.Description})
		}
		vt.Render()
	}
	fmt.Fprintln(w, tmpl.TemplateContent)
}

func printPrompt(w io.Writer, res domainprompt.Result) {
	fmt.Fprintf(w, "# %s × %s (%s/%s)\n", res.RoleName, res.TemplateName, res.Format, res.Type)
	fmt.Fprintln(w, res.Prompt)
}

func printPage(w io.Writer, page, size, total int) {
	fmt.Fprintf(w, "第 %d 页，每页 %d 条，共 %d 条\n", page+1, size, total)
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.DateTime)
}
