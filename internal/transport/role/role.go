package role

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
	promptsvc "github.com/alanyang/llm-roles/internal/service/prompt"
	rolesvc "github.com/alanyang/llm-roles/internal/service/role"
	templatesvc "github.com/alanyang/llm-roles/internal/service/template"
	"github.com/alanyang/llm-roles/internal/transport/respond"
)

const msgRoleNotFound = "角色不存在: "

// Register mounts the role routes on the /api group.
func Register(rg *gin.RouterGroup, roles *rolesvc.Service, prompts *promptsvc.Service) {
	rg.POST("/roles", createRole(roles))
	rg.GET("/roles", listRoles(roles))
	rg.GET("/roles/:id", getRole(roles))
	rg.PUT("/roles/:id", updateRole(roles))
	rg.DELETE("/roles/:id", deleteRole(roles))
	rg.GET("/search-roles", searchRoles(roles))

	rg.GET("/roles/:id/prompt", getPrompt(prompts))
	rg.POST("/roles/:id/prompt", generatePrompt(prompts))
	rg.POST("/roles/:id/preview-prompt", previewPrompt(prompts))

	rg.GET("/roles/:id/default-templates", listDefaultTemplates(prompts))
	rg.POST("/roles/:id/default-templates/:template_id", setDefaultTemplate(prompts))
	rg.DELETE("/roles/:id/default-templates/:template_id", removeDefaultTemplate(prompts))
}

// ── Records ─────────────────────────────────────────────────────────────────

func createRole(svc *rolesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domainrole.Create
		if !respond.BindJSON(c, &req, false) {
			return
		}

		r, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, rolesvc.ErrInvalid) {
				respond.Fail(c, http.StatusBadRequest, "缺少必要字段: name")
				return
			}
			respond.Fail(c, http.StatusInternalServerError, "角色创建失败: "+err.Error())
			return
		}
		respond.OK(c, http.StatusCreated, "角色创建成功", r)
	}
}

func listRoles(svc *rolesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := respond.IntQuery(c, "limit", rolesvc.DefaultLimit)
		offset := respond.IntQuery(c, "offset", 0)

		roles, total, err := svc.List(c.Request.Context(), limit, offset)
		if err != nil {
			respond.Fail(c, http.StatusInternalServerError, "获取角色列表失败: "+err.Error())
			return
		}
		limit, offset = rolesvc.NormalizePage(limit, offset)
		respond.OK(c, http.StatusOK, "获取角色列表成功", domainrole.List{
			Roles: roles, Count: total, Limit: limit, Offset: offset,
		})
	}
}

func getRole(svc *rolesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", msgRoleNotFound)
		if !ok {
			return
		}

		r, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			roleError(c, id, err, "获取角色失败: ")
			return
		}
		respond.OK(c, http.StatusOK, "获取角色成功", r)
	}
}

func updateRole(svc *rolesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", msgRoleNotFound)
		if !ok {
			return
		}
		var req domainrole.Update
		if !respond.BindJSON(c, &req, false) {
			return
		}

		r, err := svc.Update(c.Request.Context(), id, req)
		if err != nil {
			if errors.Is(err, rolesvc.ErrInvalid) {
				respond.Fail(c, http.StatusBadRequest, "角色名称不能为空")
				return
			}
			roleError(c, id, err, "角色更新失败: ")
			return
		}
		respond.OK(c, http.StatusOK, "角色更新成功", r)
	}
}

func deleteRole(svc *rolesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", "角色不存在或删除失败: ")
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, rolesvc.ErrNotFound) {
				respond.Fail(c, http.StatusNotFound, "角色不存在或删除失败: "+id.String())
				return
			}
			respond.Fail(c, http.StatusInternalServerError, "角色删除失败: "+err.Error())
			return
		}
		respond.Done(c, "角色删除成功")
	}
}

func searchRoles(svc *rolesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")

		roles, err := svc.Search(c.Request.Context(), query)
		if err != nil {
			if errors.Is(err, rolesvc.ErrInvalid) {
				respond.Fail(c, http.StatusBadRequest, "缺少必要参数: query")
				return
			}
			respond.Fail(c, http.StatusInternalServerError, "搜索角色失败: "+err.Error())
			return
		}
		if roles == nil {
			roles = []domainrole.Role{}
		}
		respond.OK(c, http.StatusOK, "搜索角色成功", domainrole.SearchResult{
			Roles: roles, Count: len(roles), Query: query,
		})
	}
}

// ── Prompts ─────────────────────────────────────────────────────────────────

func getPrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", msgRoleNotFound)
		if !ok {
			return
		}
		req := domainprompt.GenerateRequest{Format: c.Query("format"), Type: c.Query("type")}
		if raw := c.Query("template_id"); raw != "" {
			tid, err := uuid.Parse(raw)
			if err != nil {
				respond.Fail(c, http.StatusNotFound, "提示词模板不存在: "+raw)
				return
			}
			req.TemplateID = &tid
		}

		res, err := svc.Generate(c.Request.Context(), id, req)
		if err != nil {
			promptError(c, id, err, "提示词生成失败: ")
			return
		}
		respond.OK(c, http.StatusOK, "提示词生成成功", res)
	}
}

func generatePrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", msgRoleNotFound)
		if !ok {
			return
		}
		var req domainprompt.GenerateRequest
		if !respond.BindJSON(c, &req, true) {
			return
		}

		res, err := svc.Generate(c.Request.Context(), id, req)
		if err != nil {
			promptError(c, id, err, "提示词生成失败: ")
			return
		}
		respond.OK(c, http.StatusOK, "提示词生成成功", res)
	}
}

type previewBody struct {
	TemplateID      *uuid.UUID             `json:"template_id" binding:"required"`
	Format          string                 `json:"format"`
	Type            string                 `json:"type"`
	CustomVariables domainprompt.Variables `json:"custom_variables"`
}

func previewPrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", msgRoleNotFound)
		if !ok {
			return
		}
		var body previewBody
		if !respond.BindJSON(c, &body, false) {
			return
		}

		res, err := svc.Preview(c.Request.Context(), id, domainprompt.PreviewRequest{
			TemplateID:      *body.TemplateID,
			Format:          body.Format,
			Type:            body.Type,
			CustomVariables: body.CustomVariables,
		})
		if err != nil {
			promptError(c, id, err, "提示词预览失败: ")
			return
		}
		respond.OK(c, http.StatusOK, "提示词预览成功", res)
	}
}

// ── Default templates ───────────────────────────────────────────────────────

func listDefaultTemplates(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", msgRoleNotFound)
		if !ok {
			return
		}

		templates, err := svc.DefaultTemplates(c.Request.Context(), id)
		if err != nil {
			roleError(c, id, err, "获取角色默认模板列表失败: ")
			return
		}
		respond.OK(c, http.StatusOK, "获取角色默认模板列表成功", domaintemplate.RoleDefaults{
			Templates: templates, Count: len(templates), RoleID: id,
		})
	}
}

func setDefaultTemplate(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, tid, ok := pairParams(c, "角色或模板不存在，或设置失败")
		if !ok {
			return
		}

		if err := svc.SetDefaultTemplate(c.Request.Context(), id, tid); err != nil {
			if errors.Is(err, rolesvc.ErrNotFound) || errors.Is(err, templatesvc.ErrNotFound) {
				respond.Fail(c, http.StatusNotFound, "角色或模板不存在，或设置失败")
				return
			}
			respond.Fail(c, http.StatusInternalServerError, "设置角色默认模板失败: "+err.Error())
			return
		}
		respond.Done(c, "设置角色默认模板成功")
	}
}

func removeDefaultTemplate(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, tid, ok := pairParams(c, "角色默认模板不存在或移除失败")
		if !ok {
			return
		}

		if err := svc.RemoveDefaultTemplate(c.Request.Context(), id, tid); err != nil {
			respond.Fail(c, http.StatusInternalServerError, "移除角色默认模板失败: "+err.Error())
			return
		}
		respond.Done(c, "移除角色默认模板成功")
	}
}

func pairParams(c *gin.Context, notFound string) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.Fail(c, http.StatusNotFound, notFound)
		return uuid.Nil, uuid.Nil, false
	}
	tid, err := uuid.Parse(c.Param("template_id"))
	if err != nil {
		respond.Fail(c, http.StatusNotFound, notFound)
		return uuid.Nil, uuid.Nil, false
	}
	return id, tid, true
}

func roleError(c *gin.Context, id uuid.UUID, err error, prefix string) {
	if errors.Is(err, rolesvc.ErrNotFound) {
		respond.Fail(c, http.StatusNotFound, msgRoleNotFound+id.String())
		return
	}
	respond.Fail(c, http.StatusInternalServerError, prefix+err.Error())
}

func promptError(c *gin.Context, id uuid.UUID, err error, prefix string) {
	if errors.Is(err, templatesvc.ErrNotFound) {
		respond.Fail(c, http.StatusNotFound, "提示词模板不存在")
		return
	}
	roleError(c, id, err, prefix)
}
