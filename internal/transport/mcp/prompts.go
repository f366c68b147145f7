package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	promptsvc "github.com/alanyang/llm-roles/internal/service/prompt"
)

const rolePromptName = "role_prompt"

// RegisterPrompts exposes role prompt rendering as an MCP native prompt.
// [OCP] Further prompts are added with another AddPrompt call here.
func RegisterPrompts(s *mcpserver.MCPServer, promptSvc *promptsvc.Service) {
	s.AddPrompt(
		mcpmcp.NewPrompt(rolePromptName,
			mcpmcp.WithPromptDescription("Rendered system prompt for a stored role."),
			mcpmcp.WithArgument("role_id",
				mcpmcp.ArgumentDescription("Role UUID."),
				mcpmcp.RequiredArgument(),
			),
			mcpmcp.WithArgument("template_id",
				mcpmcp.ArgumentDescription("Template UUID. Defaults to the role's first default template, then the builtin matching its role type."),
			),
			mcpmcp.WithArgument("format",
				mcpmcp.ArgumentDescription("openai (default) or anthropic."),
			),
			mcpmcp.WithArgument("type",
				mcpmcp.ArgumentDescription("system, user, assistant or complete (default)."),
			),
		),
		rolePromptHandler(promptSvc),
	)
}

func rolePromptHandler(promptSvc *promptsvc.Service) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, req mcpmcp.GetPromptRequest) (*mcpmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		roleID, err := uuid.Parse(args["role_id"])
		if err != nil {
			return nil, fmt.Errorf("invalid role_id: %w", err)
		}
		genReq := domainprompt.GenerateRequest{Format: args["format"], Type: args["type"]}
		if raw := args["template_id"]; raw != "" {
			tid, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid template_id: %w", err)
			}
			genReq.TemplateID = &tid
		}

		res, err := promptSvc.Generate(ctx, roleID, genReq)
		if err != nil {
			return nil, fmt.Errorf("render prompt for role %s: %w", roleID, err)
		}

		return mcpmcp.NewGetPromptResult(
			fmt.Sprintf("%s (%s)", res.RoleName, res.TemplateName),
			[]mcpmcp.PromptMessage{
				mcpmcp.NewPromptMessage(
					mcpmcp.RoleUser,
					mcpmcp.TextContent{
						Type: "text",
						Text: res.Prompt,
					},
				),
			},
		), nil
	}
}
