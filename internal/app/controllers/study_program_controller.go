package controllers

import (
	"errors"
	"fmt"
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

// StudyProgramController handles the study program catalog
type StudyProgramController struct {
	studyProgramService services.StudyProgramService
}

// NewStudyProgramController creates a new StudyProgramController
func NewStudyProgramController(studyProgramService services.StudyProgramService) *StudyProgramController {
	return &StudyProgramController{studyProgramService: studyProgramService}
}

// bindStudyProgram decodes the body through the alias mapping so legacy field names are accepted
func bindStudyProgram(ctx *gin.Context) (*models.StudyProgramPatch, error) {
	raw, err := ctx.GetRawData()
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid request body.")
	}

	patch, err := services.DecodeStudyProgramJSON(raw)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotObject) {
			return nil, apperrors.NewBadRequestError("Request body must be a JSON object.")
		}
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid request body: %s", err.Error()))
	}
	return patch, nil
}

// checkNaturalKeys rejects a code or program id already held by another program
func (c *StudyProgramController) checkNaturalKeys(ctx *gin.Context, patch *models.StudyProgramPatch, excludeID string) error {
	reqCtx := ctx.Request.Context()

	if code := helpers.NilIfBlank(helpers.StringValue(patch.Code)); code != nil {
		err := ensureUnique(func() (bool, error) {
			return c.studyProgramService.CodeExists(reqCtx, *code, excludeID)
		}, fmt.Sprintf("Study program with code %s already exists.", *code))
		if err != nil {
			return err
		}
	}

	if programID := helpers.NilIfBlank(helpers.StringValue(patch.ProgramID)); programID != nil {
		err := ensureUnique(func() (bool, error) {
			return c.studyProgramService.ProgramIDExists(reqCtx, *programID, excludeID)
		}, fmt.Sprintf("Study program with program ID %s already exists.", *programID))
		if err != nil {
			return err
		}
	}
	return nil
}

// Create adds a study program
// @Summary Create a study program
// @Description Accepts either {code, name, nimFormat} or {programId, name, levelId, levelName, facultyId, facultyName}. Legacy names such as idProdi and namaProdi are accepted.
// @Tags study-programs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.StudyProgramPatch true "Study program data"
// @Success 201 {object} dto.APIResponse{data=models.StudyProgram} "Study program created successfully."
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or code too long"
// @Failure 409 {object} dto.ErrorResponse "Code or program ID already exists"
// @Router /study-programs [post]
func (c *StudyProgramController) Create(ctx *gin.Context) {
	patch, err := bindStudyProgram(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if missing := services.MissingStudyProgramFields(patch); len(missing) > 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(
			fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))))
		return
	}
	if err := services.ValidateCodeLength(patch.Code); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := c.checkNaturalKeys(ctx, patch, ""); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	program, err := c.studyProgramService.Create(ctx.Request.Context(), patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Study program created successfully.", program))
}

// FindAll lists study programs with pagination, search and filters
// @Summary List study programs
// @Tags study-programs
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Matches name, code, programId or facultyName"
// @Param isActive query bool false "Active flag"
// @Param levelId query string false "Level"
// @Param facultyId query string false "Faculty"
// @Param sortBy query string false "Sort field" default(createdAt)
// @Param sortOrder query string false "asc or desc" default(desc)
// @Success 200 {object} dto.APIResponse{data=[]models.StudyProgram} "Study programs retrieved successfully."
// @Router /study-programs [get]
func (c *StudyProgramController) FindAll(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	sortBy, sortOrder := helpers.ParseSortParams(ctx, "createdAt")

	result, err := c.studyProgramService.FindAll(ctx.Request.Context(), models.StudyProgramFilter{
		Page:      page,
		Limit:     limit,
		Search:    strings.TrimSpace(ctx.Query("search")),
		IsActive:  helpers.ParseBoolQuery(ctx, "isActive"),
		LevelID:   helpers.ParseStringQuery(ctx, "levelId"),
		FacultyID: helpers.ParseStringQuery(ctx, "facultyId"),
		SortBy:    sortBy,
		SortOrder: sortOrder,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse("Study programs retrieved successfully.", result))
}

// FindAllActive lists the active programs for selection lists
// @Summary List active study programs
// @Tags study-programs
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ActiveStudyProgram} "Active study programs retrieved successfully."
// @Router /study-programs/active [get]
func (c *StudyProgramController) FindAllActive(ctx *gin.Context) {
	programs, err := c.studyProgramService.FindAllActive(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Active study programs retrieved successfully.", programs))
}

// FindByID returns one study program
// @Summary Get a study program
// @Tags study-programs
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Study program ID"
// @Success 200 {object} dto.APIResponse{data=models.StudyProgram} "Study program retrieved successfully."
// @Failure 404 {object} dto.ErrorResponse "Study program not found."
// @Router /study-programs/{id} [get]
func (c *StudyProgramController) FindByID(ctx *gin.Context) {
	program, err := c.studyProgramService.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Study program retrieved successfully.", program))
}

// Update changes the provided fields of a study program
// @Summary Update a study program
// @Tags study-programs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Study program ID"
// @Param request body models.StudyProgramPatch true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.StudyProgram} "Study program updated successfully."
// @Failure 400 {object} dto.ErrorResponse "Code must be maximum 4 characters."
// @Failure 404 {object} dto.ErrorResponse "Study program not found."
// @Failure 409 {object} dto.ErrorResponse "Code or program ID already exists"
// @Router /study-programs/{id} [put]
func (c *StudyProgramController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.studyProgramService.FindByID(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	patch, err := bindStudyProgram(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := services.ValidateCodeLength(patch.Code); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := c.checkNaturalKeys(ctx, patch, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	program, err := c.studyProgramService.Update(ctx.Request.Context(), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Study program updated successfully.", program))
}

// Delete removes a study program
// @Summary Delete a study program
// @Tags study-programs
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Study program ID"
// @Success 200 {object} dto.APIResponse "Study program deleted successfully."
// @Failure 404 {object} dto.ErrorResponse "Study program not found."
// @Router /study-programs/{id} [delete]
func (c *StudyProgramController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.studyProgramService.FindByID(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studyProgramService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Study program deleted successfully.", nil))
}

// Sync upserts study programs from the external system of record
// @Summary Bulk sync study programs
// @Description Upserts by programId when present, otherwise by code. Failures are reported per record.
// @Tags study-programs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.SyncRequest true "Records to upsert"
// @Success 200 {object} dto.APIResponse{data=models.SyncResult} "Sync completed"
// @Failure 400 {object} dto.ErrorResponse "data is not an array"
// @Router /study-programs/sync [post]
func (c *StudyProgramController) Sync(ctx *gin.Context) {
	records, err := bindSyncRecords(ctx, `Request body must contain a "data" array of study programs.`)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result, err := c.studyProgramService.SyncFromExternal(ctx.Request.Context(), records)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := fmt.Sprintf("Sync completed. Created: %d, Updated: %d", result.Created, result.Updated)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message, result))
}
