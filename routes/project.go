package routes

import (
	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"
	"volunteer-connect-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type CreateOrganizationInput struct {
	Name    string `json:"name" validate:"required,max=256"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"lt=32"`
	City    string `json:"city" validate:"lt=128"`
	Country string `json:"country" validate:"lt=128"`
}

func CreateOrganization(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var input CreateOrganizationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	org := models.Organization{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		City:    input.City,
		Country: input.Country,
		OwnerID: userID,
	}
	if err := storage.DB.Create(&org).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "organization": org})
}

type CreateProjectInput struct {
	OrganizationID uint            `json:"organizationID" validate:"required"`
	Title          string          `json:"title" validate:"required,max=256"`
	Description    string          `json:"description" validate:"lt=5000"`
	Type           string          `json:"type" validate:"required,oneof=free paid"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	MaxTravellers  int             `json:"maxTravellers" validate:"min=0"`
}

func CreateProject(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var input CreateProjectInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var org models.Organization
	if err := storage.DB.First(&org, input.OrganizationID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if org.OwnerID != userID {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "not the owner of this organization")
		return
	}
	if input.Type == models.ProjectTypePaid && input.DailyRate.IsNegative() {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "dailyRate must not be negative")
		return
	}

	project := models.Project{
		OrganizationID: org.ID,
		Title:          input.Title,
		Description:    input.Description,
		Type:           input.Type,
		DailyRate:      input.DailyRate,
		MaxTravellers:  input.MaxTravellers,
		IsActive:       true,
	}
	if err := storage.DB.Create(&project).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "project": project})
}

func ListProjects(ctx iris.Context) {
	var projects []models.Project
	if err := storage.DB.Where("is_active = ?", true).
		Preload("Organization").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": projects})
}
