package template

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
	rolesvc "github.com/alanyang/llm-roles/internal/service/role"
	templatesvc "github.com/alanyang/llm-roles/internal/service/template"
	"github.com/alanyang/llm-roles/internal/transport/respond"
)

const msgNotFound = "提示词模板不存在: "

func Register(rg *gin.RouterGroup, svc *templatesvc.Service) {
	rg.POST("", createTemplate(svc))
	rg.GET("", listTemplates(svc))
	rg.GET("/:id", getTemplate(svc))
	rg.PUT("/:id", updateTemplate(svc))
	rg.DELETE("/:id", deleteTemplate(svc))
}

func createTemplate(svc *templatesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domaintemplate.Create
		if !respond.BindJSON(c, &req, false) {
			return
		}

		t, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, templatesvc.ErrInvalid) {
				respond.Fail(c, http.StatusBadRequest, "缺少必要字段: name, template_content")
				return
			}
			respond.Fail(c, http.StatusInternalServerError, "提示词模板创建失败: "+err.Error())
			return
		}
		respond.OK(c, http.StatusCreated, "提示词模板创建成功", t)
	}
}

func listTemplates(svc *templatesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeDefaults := respond.BoolQuery(c, "include_defaults", true)
		limit := respond.IntQuery(c, "limit", rolesvc.DefaultLimit)
		offset := respond.IntQuery(c, "offset", 0)

		templates, total, err := svc.List(c.Request.Context(), includeDefaults, limit, offset)
		if err != nil {
			respond.Fail(c, http.StatusInternalServerError, "获取提示词模板列表失败: "+err.Error())
			return
		}
		limit, offset = rolesvc.NormalizePage(limit, offset)
		respond.OK(c, http.StatusOK, "获取提示词模板列表成功", domaintemplate.List{
			Templates: templates, Count: total, Limit: limit, Offset: offset,
		})
	}
}

func getTemplate(svc *templatesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", msgNotFound)
		if !ok {
			return
		}

		t, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, templatesvc.ErrNotFound) {
				respond.Fail(c, http.StatusNotFound, msgNotFound+id.String())
				return
			}
			respond.Fail(c, http.StatusInternalServerError, "获取提示词模板失败: "+err.Error())
			return
		}
		respond.OK(c, http.StatusOK, "获取提示词模板成功", t)
	}
}

func updateTemplate(svc *templatesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", "提示词模板不存在或不可修改: ")
		if !ok {
			return
		}
		var req domaintemplate.Update
		if !respond.BindJSON(c, &req, false) {
			return
		}

		t, err := svc.Update(c.Request.Context(), id, req)
		switch {
		case err == nil:
			respond.OK(c, http.StatusOK, "提示词模板更新成功", t)
		case errors.Is(err, templatesvc.ErrNotFound), errors.Is(err, templatesvc.ErrProtected):
			respond.Fail(c, http.StatusNotFound, "提示词模板不存在或不可修改: "+id.String())
		case errors.Is(err, templatesvc.ErrInvalid):
			respond.Fail(c, http.StatusBadRequest, "模板名称和内容不能为空")
		default:
			respond.Fail(c, http.StatusInternalServerError, "提示词模板更新失败: "+err.Error())
		}
	}
}

func deleteTemplate(svc *templatesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.UUIDParam(c, "id", "提示词模板不存在、不可删除或删除失败: ")
		if !ok {
			return
		}

		err := svc.Delete(c.Request.Context(), id)
		switch {
		case err == nil:
			respond.Done(c, "提示词模板删除成功")
		case errors.Is(err, templatesvc.ErrNotFound), errors.Is(err, templatesvc.ErrProtected):
			respond.Fail(c, http.StatusNotFound, "提示词模板不存在、不可删除或删除失败: "+id.String())
		default:
			respond.Fail(c, http.StatusInternalServerError, "提示词模板删除失败: "+err.Error())
		}
	}
}
