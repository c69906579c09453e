package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/models/dto"
	"github.com/pmb/admissions/internal/app/services"
	"github.com/pmb/admissions/internal/middleware"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/helpers"
)

// ApplicantController handles applicants and, under /students, the converted students
type ApplicantController struct {
	applicantService services.ApplicantService
}

// NewApplicantController creates a new ApplicantController
func NewApplicantController(applicantService services.ApplicantService) *ApplicantController {
	return &ApplicantController{applicantService: applicantService}
}

func applicantFilterFromQuery(ctx *gin.Context) models.ApplicantFilter {
	page, limit := helpers.ParsePaginationParams(ctx)
	sortBy, sortOrder := helpers.ParseSortParams(ctx, "createdAt")

	return models.ApplicantFilter{
		Page:          page,
		Limit:         limit,
		Search:        strings.TrimSpace(ctx.Query("search")),
		AdmissionPath: helpers.ParseStringQuery(ctx, "admissionPath"),
		MajorChoice1:  helpers.ParseStringQuery(ctx, "majorChoice1"),
		LoaPublished:  helpers.ParseBoolQuery(ctx, "loaPublished"),
		HasNIM:        helpers.ParseBoolQuery(ctx, "hasNim"),
		SortBy:        sortBy,
		SortOrder:     sortOrder,
	}
}

// ensureUnique returns a 409 error when exists reports the value as taken
func ensureUnique(exists func() (bool, error), message string) error {
	taken, err := exists()
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewConflictError(message)
	}
	return nil
}

// Create registers a new applicant
// @Summary Create an applicant
// @Tags applicants
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateApplicantRequest true "Applicant data"
// @Success 201 {object} dto.APIResponse{data=models.Applicant} "Applicant created successfully."
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Missing, invalid or disabled API key"
// @Failure 409 {object} dto.ErrorResponse "Registration number or NIM already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applicants [post]
func (c *ApplicantController) Create(ctx *gin.Context) {
	var req dto.CreateApplicantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingError(err))
		return
	}

	reqCtx := ctx.Request.Context()
	req.RegistrationNumber = strings.TrimSpace(req.RegistrationNumber)
	err := ensureUnique(func() (bool, error) {
		return c.applicantService.RegistrationNumberExists(reqCtx, req.RegistrationNumber, "")
	}, fmt.Sprintf("Applicant with registration number %s already exists.", req.RegistrationNumber))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if nim := helpers.NilIfBlank(helpers.StringValue(req.NIM)); nim != nil {
		err := ensureUnique(func() (bool, error) {
			return c.applicantService.NIMExists(reqCtx, *nim, "")
		}, fmt.Sprintf("NIM %s already exists.", *nim))
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		req.NIM = nim
	}

	applicant, err := c.applicantService.Create(reqCtx, req.ToApplicant())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Applicant created successfully.", applicant))
}

// FindAll lists applicants with pagination, search and filters
// @Summary List applicants
// @Tags applicants
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Matches fullName, registrationNumber, email or nim"
// @Param admissionPath query string false "Exact admission path"
// @Param majorChoice1 query string false "Exact first major choice"
// @Param loaPublished query bool false "LOA published"
// @Param hasNim query bool false "Converted to student"
// @Param sortBy query string false "Sort field" default(createdAt)
// @Param sortOrder query string false "asc or desc" default(desc)
// @Success 200 {object} dto.APIResponse{data=[]models.Applicant} "Applicants retrieved successfully."
// @Failure 401 {object} dto.ErrorResponse "Missing, invalid or disabled API key"
// @Router /applicants [get]
func (c *ApplicantController) FindAll(ctx *gin.Context) {
	result, err := c.applicantService.FindAll(ctx.Request.Context(), applicantFilterFromQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse("Applicants retrieved successfully.", result))
}

// FindByID returns one applicant
// @Summary Get an applicant
// @Tags applicants
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Applicant ID"
// @Success 200 {object} dto.APIResponse{data=models.Applicant} "Applicant retrieved successfully."
// @Failure 404 {object} dto.ErrorResponse "Applicant not found."
// @Router /applicants/{id} [get]
func (c *ApplicantController) FindByID(ctx *gin.Context) {
	applicant, err := c.applicantService.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Applicant retrieved successfully.", applicant))
}

// Update changes the provided fields of an applicant
// @Summary Update an applicant
// @Tags applicants
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Applicant ID"
// @Param request body models.ApplicantPatch true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Applicant} "Applicant updated successfully."
// @Failure 400 {object} dto.ErrorResponse "Invalid data"
// @Failure 404 {object} dto.ErrorResponse "Applicant not found."
// @Failure 409 {object} dto.ErrorResponse "Registration number or NIM already exists"
// @Router /applicants/{id} [put]
func (c *ApplicantController) Update(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	id := ctx.Param("id")

	if _, err := c.applicantService.FindByID(reqCtx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var patch models.ApplicantPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingError(err))
		return
	}

	if regNo := helpers.NilIfBlank(helpers.StringValue(patch.RegistrationNumber)); regNo != nil {
		err := ensureUnique(func() (bool, error) {
			return c.applicantService.RegistrationNumberExists(reqCtx, *regNo, id)
		}, fmt.Sprintf("Registration number %s already exists.", *regNo))
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		patch.RegistrationNumber = regNo
	}

	if nim := helpers.NilIfBlank(helpers.StringValue(patch.NIM)); nim != nil {
		err := ensureUnique(func() (bool, error) {
			return c.applicantService.NIMExists(reqCtx, *nim, id)
		}, fmt.Sprintf("NIM %s already exists.", *nim))
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	applicant, err := c.applicantService.Update(reqCtx, id, &patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Applicant updated successfully.", applicant))
}

// Delete removes an applicant
// @Summary Delete an applicant
// @Tags applicants
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Applicant ID"
// @Success 200 {object} dto.APIResponse "Applicant deleted successfully."
// @Failure 404 {object} dto.ErrorResponse "Applicant not found."
// @Router /applicants/{id} [delete]
func (c *ApplicantController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.applicantService.FindByID(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.applicantService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Applicant deleted successfully.", nil))
}

// ConvertToStudent assigns a NIM to an applicant
// @Summary Convert an applicant to a student
// @Tags applicants
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Applicant ID"
// @Param request body dto.ConvertApplicantRequest true "Student number"
// @Success 200 {object} dto.APIResponse{data=models.Applicant} "Applicant converted to student successfully."
// @Failure 400 {object} dto.ErrorResponse "NIM is required or applicant already converted"
// @Failure 404 {object} dto.ErrorResponse "Applicant not found."
// @Failure 409 {object} dto.ErrorResponse "NIM already exists"
// @Router /applicants/{id}/convert [post]
func (c *ApplicantController) ConvertToStudent(ctx *gin.Context) {
	var req dto.ConvertApplicantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleAPIError(ctx, middleware.BindingError(err))
		return
	}

	applicant, err := c.applicantService.ConvertToStudent(ctx.Request.Context(), ctx.Param("id"), req.NIM)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Applicant converted to student successfully.", applicant))
}

// PublishLoa publishes the letter of acceptance
// @Summary Publish the LOA of an applicant
// @Tags applicants
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Applicant ID"
// @Success 200 {object} dto.APIResponse{data=models.Applicant} "LOA published successfully."
// @Failure 400 {object} dto.ErrorResponse "LOA already published for this applicant."
// @Failure 404 {object} dto.ErrorResponse "Applicant not found."
// @Router /applicants/{id}/publish-loa [post]
func (c *ApplicantController) PublishLoa(ctx *gin.Context) {
	applicant, err := c.applicantService.PublishLoa(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("LOA published successfully.", applicant))
}

// Sync upserts applicants from the external system of record
// @Summary Bulk sync applicants
// @Description Upserts by registrationNumber. camelCase, snake_case and legacy keys are accepted; failures are reported per record.
// @Tags applicants
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.SyncRequest true "Records to upsert"
// @Success 200 {object} dto.APIResponse{data=models.SyncResult} "Sync completed"
// @Failure 400 {object} dto.ErrorResponse "data is not an array"
// @Router /applicants/sync [post]
func (c *ApplicantController) Sync(ctx *gin.Context) {
	records, err := bindSyncRecords(ctx, `Request body must contain a "data" array of applicants.`)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result, err := c.applicantService.SyncFromExternal(ctx.Request.Context(), records)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := fmt.Sprintf("Sync completed. Created: %d, Updated: %d", result.Created, result.Updated)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message, result))
}
