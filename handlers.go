package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models/reports"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError translates domain sentinels into HTTP statuses. Conflicts,
// not-found and validation failures each map distinctly; anything unknown is
// a 500.
func respondError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	switch {
	case errors.Is(err, models.ErrInvalidMonth):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound), errors.Is(err, models.ErrClosureNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrMonthClosed),
		errors.Is(err, models.ErrMonthAlreadyClosed),
		errors.Is(err, models.ErrMonthNotClosed),
		errors.Is(err, models.ErrOfficialReportImmutable),
		errors.Is(err, utils.ErrorFileAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrReopenForbidden), errors.Is(err, workflow.ErrOverrideDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return value, true
}

func periodParams(c *gin.Context) (int, int, bool) {
	year, ok := intParam(c, "year")
	if !ok {
		return 0, 0, false
	}
	month, ok := intParam(c, "month")
	if !ok {
		return 0, 0, false
	}
	return year, month, true
}

/* auth */

func loginHandler() gin.HandlerFunc {
	type loginInput struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		user, token, err := models.Authenticate(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func registerUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		user, err := models.CreateUser(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

/* families */

func createFamilyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewFamily
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		family, err := models.CreateFamily(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, family)
	}
}

func getFamilyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		family, err := models.GetFamily(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, family)
	}
}

func updateFamilyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input models.NewFamily
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		family, err := models.UpdateFamily(c.Request.Context(), id, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, family)
	}
}

func deactivateFamilyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		if err := models.DeactivateFamily(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listFamiliesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		families, err := models.ListFamilies(c.Request.Context(), models.FamilyFilter{
			Search:       c.Query("search"),
			Neighborhood: c.Query("neighborhood"),
			OnlyActive:   c.Query("include_inactive") != "true",
			Limit:        limit,
			Offset:       offset,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, families)
	}
}

/* eligibility */

func familyEligibilityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		result, err := workflow.ComputeFamilyEligibility(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func eligibleFamiliesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		entries, err := workflow.ListEligibleFamilies(c.Request.Context(), limit, c.Query("neighborhood"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

func exportEligibleFamiliesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		entries, err := workflow.ListEligibleFamilies(c.Request.Context(), limit, c.Query("neighborhood"))
		if err != nil {
			respondError(c, err)
			return
		}

		rows := make([]reports.EligibleFamilyRow, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, reports.EligibleFamilyRow{
				Name:                    entry.Family.ResponsibleName,
				Neighborhood:            entry.Family.Neighborhood,
				Vulnerability:           string(entry.Family.VulnerabilityLevel),
				LastDeliveryDate:        entry.LastDeliveryDate,
				MonthsSinceLastDelivery: entry.MonthsSinceLastDelivery,
				MonthDeliveries:         entry.MonthDeliveries,
				DocPending:              entry.DocPending,
			})
		}

		renderer := reports.DefaultRenderer()
		rendered, err := renderer.Render(reports.EligibleFamiliesDocument(rows, time.Now()))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=familias-elegiveis.xlsx")
		c.Data(http.StatusOK, renderer.ContentType(), rendered)
	}
}

/* food baskets */

func createFoodBasketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewFoodBasket
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		basket, err := models.CreateFoodBasket(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, basket)
	}
}

func deliverFoodBasketHandler() gin.HandlerFunc {
	type deliverInput struct {
		DeliveredAt *time.Time `json:"delivered_at"`
	}
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input deliverInput
		_ = c.ShouldBindJSON(&input)
		deliveredAt := time.Now()
		if input.DeliveredAt != nil {
			deliveredAt = *input.DeliveredAt
		}
		basket, err := models.MarkFoodBasketDelivered(c.Request.Context(), id, deliveredAt)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, basket)
	}
}

func cancelFoodBasketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		basket, err := models.CancelFoodBasket(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, basket)
	}
}

func listFoodBasketsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		baskets, err := models.ListFoodBasketsByMonth(c.Request.Context(), year, month)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, baskets)
	}
}

/* delivery events */

func createDeliveryEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewDeliveryEvent
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		event, err := models.CreateDeliveryEvent(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

func getDeliveryEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		event, err := models.GetDeliveryEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

func closeDeliveryEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		event, err := models.CloseDeliveryEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

func inviteFamilyHandler() gin.HandlerFunc {
	type inviteInput struct {
		FamilyId int `json:"family_id" binding:"required"`
	}
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input inviteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		invite, err := models.InviteFamilyToEvent(c.Request.Context(), id, input.FamilyId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, invite)
	}
}

func setInviteStatusHandler() gin.HandlerFunc {
	type statusInput struct {
		Status models.DeliveryInviteStatus `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input statusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		invite, err := models.SetInviteStatus(c.Request.Context(), id, input.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invite)
	}
}

func registerWithdrawalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewWithdrawal
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		withdrawal, err := models.RegisterWithdrawal(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, withdrawal)
	}
}

func listEventWithdrawalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		withdrawals, err := models.ListEventWithdrawals(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, withdrawals)
	}
}

/* equipment and loans */

func createEquipmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Equipment
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		equipment, err := models.CreateEquipment(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, equipment)
	}
}

func listEquipmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := models.ListEquipment(c.Request.Context(), models.EquipmentStatus(c.Query("status")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func createLoanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewLoan
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		loan, err := models.CreateLoan(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, loan)
	}
}

func returnLoanHandler() gin.HandlerFunc {
	type returnInput struct {
		ReturnedAt *time.Time                `json:"returned_at"`
		Condition  models.EquipmentCondition `json:"condition"`
	}
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input returnInput
		_ = c.ShouldBindJSON(&input)
		returnedAt := time.Now()
		if input.ReturnedAt != nil {
			returnedAt = *input.ReturnedAt
		}
		loan, err := models.ReturnLoan(c.Request.Context(), id, returnedAt, input.Condition)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, loan)
	}
}

func listLoansHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		loans, err := models.ListLoans(c.Request.Context(), models.LoanStatus(c.Query("status")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, loans)
	}
}

/* visits */

func createVisitRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewVisitRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		request, err := models.CreateVisitRequest(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, request)
	}
}

func scheduleVisitHandler() gin.HandlerFunc {
	type scheduleInput struct {
		ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	}
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input scheduleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		request, err := models.ScheduleVisit(c.Request.Context(), id, input.ScheduledDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, request)
	}
}

func recordVisitExecutionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input models.NewVisitExecution
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		execution, err := models.RecordVisitExecution(c.Request.Context(), id, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, execution)
	}
}

func cancelVisitRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		if err := models.CancelVisitRequest(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listVisitRequestsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := models.ListVisitRequests(c.Request.Context(), models.VisitRequestStatus(c.Query("status")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

/* referrals and street services */

func createReferralHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewReferral
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		referral, err := models.CreateReferral(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, referral)
	}
}

func updateReferralStatusHandler() gin.HandlerFunc {
	type statusInput struct {
		Status models.ReferralStatus `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		var input statusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		referral, err := models.UpdateReferralStatus(c.Request.Context(), id, input.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, referral)
	}
}

func listReferralsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		referrals, err := models.ListReferrals(c.Request.Context(), models.ReferralStatus(c.Query("status")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, referrals)
	}
}

func createStreetServiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.StreetService
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		service, err := models.CreateStreetService(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, service)
	}
}

func listStreetServicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		services, err := models.ListStreetServicesByMonth(c.Request.Context(), year, month)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, services)
	}
}

/* settings */

func getSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := models.GetSystemSettings(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

func updateSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdateSystemSettings
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		settings, err := models.SaveSystemSettings(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

/* monthly closures */

func listClosuresHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, _ := strconv.Atoi(c.Query("year"))
		closures, err := models.ListMonthlyClosures(c.Request.Context(), year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, closures)
	}
}

func getClosureHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		closure, err := models.GetMonthlyClosure(c.Request.Context(), year, month)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, closure)
	}
}

func closeMonthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		closure, err := workflow.CloseMonth(c.Request.Context(), year, month, reports.DefaultRenderer())
		if err != nil {
			respondError(c, err)
			return
		}
		reports.DropDashboardCache()
		c.JSON(http.StatusOK, closure)
	}
}

func reopenMonthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		respondError(c, workflow.ReopenMonth(c.Request.Context(), year, month))
	}
}

func getClosureSnapshotHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		closure, err := models.GetMonthlyClosure(c.Request.Context(), year, month)
		if err != nil {
			respondError(c, err)
			return
		}
		if closure.SummarySnapshotJson == "" {
			respondError(c, models.ErrMonthNotClosed)
			return
		}
		c.Data(http.StatusOK, "application/json", []byte(closure.SummarySnapshotJson))
	}
}

func downloadClosureReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		closure, err := models.GetMonthlyClosure(c.Request.Context(), year, month)
		if err != nil {
			respondError(c, err)
			return
		}
		if closure.PdfReportPath == "" {
			respondError(c, models.ErrMonthNotClosed)
			return
		}
		content, err := utils.ReadReportBytes(c.Request.Context(), closure.PdfReportPath)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=fechamento-%04d-%02d.xlsx", year, month))
		c.Data(http.StatusOK, reports.DefaultRenderer().ContentType(), content)
	}
}

func generateOfficialReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		override := c.Query("override") == "true"
		closure, rendered, err := workflow.GenerateOfficialReport(c.Request.Context(), year, month, override, reports.DefaultRenderer())
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("X-Content-SHA256", closure.OfficialPdfSha256)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=relatorio-oficial-%04d-%02d.xlsx", year, month))
		c.Data(http.StatusOK, reports.DefaultRenderer().ContentType(), rendered)
	}
}

func getOfficialSnapshotHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		closure, err := models.GetMonthlyClosure(c.Request.Context(), year, month)
		if err != nil {
			respondError(c, err)
			return
		}
		if closure.OfficialSnapshotJson == "" {
			respondError(c, utils.ErrorRecordNotFound)
			return
		}
		c.Data(http.StatusOK, "application/json", []byte(closure.OfficialSnapshotJson))
	}
}

func downloadOfficialReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		year, month, ok := periodParams(c)
		if !ok {
			return
		}
		closure, err := models.GetMonthlyClosure(c.Request.Context(), year, month)
		if err != nil {
			respondError(c, err)
			return
		}
		if closure.OfficialPdfPath == "" {
			respondError(c, utils.ErrorRecordNotFound)
			return
		}
		content, err := utils.ReadReportBytes(c.Request.Context(), closure.OfficialPdfPath)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("X-Content-SHA256", closure.OfficialPdfSha256)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=relatorio-oficial-%04d-%02d.xlsx", year, month))
		c.Data(http.StatusOK, reports.DefaultRenderer().ContentType(), content)
	}
}

/* dashboard and audit */

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response, err := reports.GetDashboardReport(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func listAuditLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		entityId, _ := strconv.Atoi(c.Query("entity_id"))
		logs, err := models.ListAuditLogs(c.Request.Context(), models.AuditLogFilter{
			Action:     c.Query("action"),
			EntityType: c.Query("entity_type"),
			EntityId:   entityId,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
