package prompt_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

func tmpl(content string, vars ...domaintemplate.Variable) domaintemplate.Template {
	return domaintemplate.Template{Name: "t", TemplateContent: content, Variables: vars}
}

// ── Render ──────────────────────────────────────────────────────────────────

func TestRender_AllPlaceholderForms(t *testing.T) {
	tp := tmpl("{{{name}}} | {{name}} | {name}", domaintemplate.Variable{Name: "name", Source: "name"})

	got := domainprompt.Render(tp, map[string]any{"name": "Tutor"}, nil)
	assert.Equal(t, "Tutor | Tutor | Tutor", got)
}

func TestRender_RolePrefixedSource(t *testing.T) {
	tp := tmpl("I am {role.name}", domaintemplate.Variable{Name: "role.name", Source: "role.name"})

	got := domainprompt.Render(tp, map[string]any{"name": "Tutor"}, nil)
	assert.Equal(t, "I am Tutor", got)
}

func TestRender_CustomOverridesRoleField(t *testing.T) {
	tp := tmpl("Style: {style}", domaintemplate.Variable{Name: "style", Source: "language_style"})

	got := domainprompt.Render(tp, map[string]any{"language_style": "formal"},
		domainprompt.Variables{"style": domainprompt.String("casual")})
	assert.Equal(t, "Style: casual", got)
}

func TestRender_ListJoinedAndSections(t *testing.T) {
	tp := tmpl("Topics: {topics}\n{{#topics}}- {{.}}\n{{/topics}}",
		domaintemplate.Variable{Name: "topics", Source: "allowed_topics"})

	got := domainprompt.Render(tp, map[string]any{"allowed_topics": []string{"math", "physics"}}, nil)
	assert.Equal(t, "Topics: math, physics\n- math\n- physics\n", got)
}

func TestRender_UnresolvedPlaceholderKept(t *testing.T) {
	tp := tmpl("Mode: {response_mode}", domaintemplate.Variable{Name: "response_mode", Source: "response_mode"})

	got := domainprompt.Render(tp, map[string]any{"name": "x"}, nil)
	assert.Equal(t, "Mode: {response_mode}", got)
}

func TestRender_CustomNumberAndBool(t *testing.T) {
	tp := tmpl("{n} {b}")

	got := domainprompt.Render(tp, nil, domainprompt.Variables{
		"n": domainprompt.Number(2.5),
		"b": domainprompt.Bool(true),
	})
	assert.Equal(t, "2.5 true", got)
}

// ── Format ──────────────────────────────────────────────────────────────────

func TestFormat(t *testing.T) {
	cases := []struct {
		format, typ, want string
	}{
		{domainprompt.FormatOpenAI, domainprompt.TypeSystem, "hi"},
		{domainprompt.FormatOpenAI, domainprompt.TypeComplete, "hi"},
		{domainprompt.FormatAnthropic, domainprompt.TypeSystem, "<admin>\nhi\n</admin>"},
		{domainprompt.FormatAnthropic, domainprompt.TypeComplete, "<admin>\nhi\n</admin>"},
		{domainprompt.FormatAnthropic, domainprompt.TypeUser, "Human: hi"},
		{domainprompt.FormatAnthropic, domainprompt.TypeAssistant, "Assistant: hi"},
	}
	for _, tc := range cases {
		t.Run(tc.format+"/"+tc.typ, func(t *testing.T) {
			assert.Equal(t, tc.want, domainprompt.Format("hi", tc.format, tc.typ))
		})
	}
}

// ── Value ───────────────────────────────────────────────────────────────────

func TestValue_UnmarshalKinds(t *testing.T) {
	var vars domainprompt.Variables
	err := json.Unmarshal([]byte(`{"s":"a","n":3,"b":false,"l":["x","y"]}`), &vars)
	require.NoError(t, err)

	assert.Equal(t, domainprompt.KindString, vars["s"].Kind())
	assert.Equal(t, "3", vars["n"].Text())
	assert.Equal(t, "false", vars["b"].Text())
	assert.Equal(t, []string{"x", "y"}, vars["l"].Items())
}

func TestValue_UnmarshalRejectsObjects(t *testing.T) {
	var vars domainprompt.Variables
	err := json.Unmarshal([]byte(`{"o":{"a":1}}`), &vars)
	require.ErrorIs(t, err, domainprompt.ErrUnsupportedValue)

	err = json.Unmarshal([]byte(`{"l":[1,2]}`), &vars)
	require.ErrorIs(t, err, domainprompt.ErrUnsupportedValue)
}

func TestParseAssignment(t *testing.T) {
	name, v, err := domainprompt.ParseAssignment("topics=a, b")
	require.NoError(t, err)
	assert.Equal(t, "topics", name)
	assert.Equal(t, []string{"a", "b"}, v.Items())

	_, v, err = domainprompt.ParseAssignment("strict=true")
	require.NoError(t, err)
	assert.Equal(t, domainprompt.KindBool, v.Kind())

	_, v, err = domainprompt.ParseAssignment("level=3")
	require.NoError(t, err)
	assert.Equal(t, domainprompt.KindNumber, v.Kind())

	_, v, err = domainprompt.ParseAssignment("tone=warm")
	require.NoError(t, err)
	assert.Equal(t, "warm", v.Text())

	_, _, err = domainprompt.ParseAssignment("novalue")
	require.Error(t, err)

	for _, raw := range []string{"mood=NaN", "level=inf", "x=Infinity", "y=-Inf"} {
		name, v, err := domainprompt.ParseAssignment(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, domainprompt.KindString, v.Kind(), raw)

		_, err = json.Marshal(domainprompt.GenerateRequest{
			CustomVariables: domainprompt.Variables{name: v},
		})
		assert.NoError(t, err, raw)
	}
}

func TestValue_NonFiniteNumberDoesNotMarshal(t *testing.T) {
	for _, n := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := domainprompt.Number(n).MarshalJSON()
		assert.ErrorIs(t, err, domainprompt.ErrUnsupportedValue)
	}
}
