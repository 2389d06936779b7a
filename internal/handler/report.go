package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"sentinel/internal/model"
	"sentinel/internal/model/dto"
	"sentinel/internal/service"
	"sentinel/pkg/errors"
	"sentinel/pkg/response"
)

// IncidentReporting 事件报告接口，按 action 分发。
// POST /v1/incident-reporting
func IncidentReporting(ctx context.Context, c *app.RequestContext) {
	var req dto.IncidentReportRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	uid, role, ok := requireIdentity(ctx, c)
	if !ok {
		return
	}

	switch req.Action {
	case "create":
		createReport(ctx, c, uid, &req)
	case "update":
		updateReport(ctx, c, uid, &req)
	case "get":
		getReport(ctx, c, uid, role, &req)
	case "list":
		listReports(ctx, c, uid, role)
	case "generate_timeline":
		generateTimeline(ctx, c, uid, &req)
	case "export_json":
		exportReport(ctx, c, uid, role, &req, "json")
	case "export_pdf":
		exportReport(ctx, c, uid, role, &req, "pdf")
	default:
		response.Error(ctx, c, errors.InvalidAction)
	}
}

func createReport(ctx context.Context, c *app.RequestContext, uid int64, req *dto.IncidentReportRequest) {
	report, err := service.Report().Create(ctx, uid, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"report": report})
}

func updateReport(ctx context.Context, c *app.RequestContext, uid int64, req *dto.IncidentReportRequest) {
	report, err := service.Report().Update(ctx, uid, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"report": report})
}

func getReport(ctx context.Context, c *app.RequestContext, uid int64, role model.Role, req *dto.IncidentReportRequest) {
	if req.ReportID == nil {
		response.Error(ctx, c, errors.MissingField)
		return
	}
	report, err := service.Report().Get(ctx, uid, role, *req.ReportID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"report": report})
}

func listReports(ctx context.Context, c *app.RequestContext, uid int64, role model.Role) {
	reports, err := service.Report().List(ctx, uid, role)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"reports": reports})
}

func generateTimeline(ctx context.Context, c *app.RequestContext, uid int64, req *dto.IncidentReportRequest) {
	timeline, err := service.Report().GenerateTimeline(ctx, uid, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"timeline": timeline})
}

func exportReport(ctx context.Context, c *app.RequestContext, uid int64, role model.Role, req *dto.IncidentReportRequest, format string) {
	if req.ReportID == nil {
		response.Error(ctx, c, errors.MissingField)
		return
	}
	export, err := service.Report().Export(ctx, uid, role, *req.ReportID, format)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, response.H{"export": export})
}
