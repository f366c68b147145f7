package prompt

import (
	"regexp"
	"sort"
	"strings"

	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

// Render substitutes template placeholders with values resolved from the role's
// fields (via each variable's source) and then from custom, which wins on conflict.
//
// Supported forms: {{{name}}}, {{name}}, {name}, and list sections
// {{#name}}...{{.}}...{{/name}} repeated once per item.
func Render(t domaintemplate.Template, fields map[string]any, custom Variables) string {
	merged := make(Variables, len(t.Variables)+len(custom))
	for _, v := range t.Variables {
		if v.Name == "" {
			continue
		}
		if val, ok := lookup(fields, v.Source); ok {
			merged[v.Name] = val
		}
	}
	for name, val := range custom {
		merged[name] = val
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	content := t.TemplateContent
	for _, name := range names {
		text := merged[name].Text()
		content = strings.ReplaceAll(content, "{{{"+name+"}}}", text)
		content = strings.ReplaceAll(content, "{{"+name+"}}", text)
		content = strings.ReplaceAll(content, "{"+name+"}", text)
	}

	for _, name := range names {
		val := merged[name]
		if val.Kind() != KindList {
			continue
		}
		section := regexp.MustCompile(`(?s)\{\{#` + regexp.QuoteMeta(name) + `\}\}(.*?)\{\{/` + regexp.QuoteMeta(name) + `\}\}`)
		content = section.ReplaceAllStringFunc(content, func(match string) string {
			body := section.FindStringSubmatch(match)[1]
			var b strings.Builder
			for _, item := range val.Items() {
				part := strings.ReplaceAll(body, "{{{.}}}", item)
				b.WriteString(strings.ReplaceAll(part, "{{.}}", item))
			}
			return b.String()
		})
	}
	return content
}

// lookup resolves a variable source against the role fields. A leading "role."
// segment is accepted; deeper paths do not resolve.
func lookup(fields map[string]any, source string) (Value, bool) {
	key := strings.TrimPrefix(source, "role.")
	if key == "" || strings.Contains(key, ".") {
		return Value{}, false
	}
	raw, ok := fields[key]
	if !ok {
		return Value{}, false
	}
	switch x := raw.(type) {
	case string:
		return String(x), true
	case []string:
		return List(x...), true
	case bool:
		return Bool(x), true
	case float64:
		return Number(x), true
	case int:
		return Number(float64(x)), true
	}
	return Value{}, false
}

// Format shapes rendered content for the target model family and message slot.
func Format(content, format, promptType string) string {
	if format != FormatAnthropic {
		return content
	}
	switch promptType {
	case TypeSystem, TypeComplete:
		return "<admin>\n" + content + "\n</admin>"
	case TypeUser:
		return "Human: " + content
	case TypeAssistant:
		return "Assistant: " + content
	}
	return content
}
