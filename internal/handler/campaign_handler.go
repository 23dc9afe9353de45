package handler

import (
	"net/http"

	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles the campaign composer
type CampaignHandler struct {
	campaignService service.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create handles campaign creation for all three composer actions
// POST /api/v1/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.SetAuditResourceID(c, campaign.ID)
	c.JSON(http.StatusCreated, response.Success(campaign))
}

// List handles listing campaigns
// GET /api/v1/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var query dto.ListCampaignsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.campaignService.ListCampaigns(c.Request.Context(), tenantID, &query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Get handles retrieving one campaign
// GET /api/v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(campaign))
}

// Update handles editing a draft or scheduled campaign
// PUT /api/v1/campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(c.Request.Context(), tenantID, resourceID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(campaign))
}

// Send handles sending a stored campaign
// POST /api/v1/campaigns/:id/send
func (h *CampaignHandler) Send(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	campaign, err := h.campaignService.SendCampaign(c.Request.Context(), tenantID, resourceID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(campaign))
}

// Delete handles removing a campaign
// DELETE /api/v1/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), tenantID, resourceID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Campaign deleted"}))
}

// Audiences handles GET /api/v1/campaigns/audiences
func (h *CampaignHandler) Audiences(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(h.campaignService.Audiences()))
}

// Templates handles GET /api/v1/campaigns/templates
func (h *CampaignHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(h.campaignService.Templates()))
}
