package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realestate-listing/constants"
	"realestate-listing/dto"
	"realestate-listing/models"
	"realestate-listing/services"
)

type IListingController interface {
	FindAll(ctx *gin.Context)
	FindById(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type ListingController struct {
	service services.IListingService
}

func NewListingController(service services.IListingService) IListingController {
	return &ListingController{service: service}
}

func (c *ListingController) FindAll(ctx *gin.Context) {
	user, exists := ctx.Get("user")
	if !exists {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID := user.(*models.User).ID

	listings, err := c.service.FindAllByOwner(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListingResponseList(*listings))
}

func (c *ListingController) FindById(ctx *gin.Context) {
	listingID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidID})
		return
	}

	listing, err := c.service.FindById(uint(listingID))
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": constants.ErrListingNotFound})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListingResponse(listing))
}

func (c *ListingController) Create(ctx *gin.Context) {
	user, exists := ctx.Get("user")
	if !exists {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID := user.(*models.User).ID

	var input dto.ListingUpsertInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidInput})
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	newListing, err := c.service.Create(input, userID)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			ctx.JSON(http.StatusBadRequest, gin.H{"errors": validationErr.Messages})
			return
		}
		log.Printf("Create listing error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewListingResponse(newListing))
}

func (c *ListingController) Update(ctx *gin.Context) {
	user, exists := ctx.Get("user")
	if !exists {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID := user.(*models.User).ID

	listingID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidID})
		return
	}

	var input dto.ListingUpsertInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidInput})
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	updatedListing, err := c.service.Update(uint(listingID), userID, input)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": constants.ErrListingNotFound})
			return
		}
		if errors.Is(err, services.ErrUpdateOtherOwner) {
			ctx.JSON(http.StatusBadRequest, gin.H{"errors": []string{constants.ErrUpdateOtherOwner}})
			return
		}
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			ctx.JSON(http.StatusBadRequest, gin.H{"errors": validationErr.Messages})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListingResponse(updatedListing))
}

func (c *ListingController) Delete(ctx *gin.Context) {
	user, exists := ctx.Get("user")
	if !exists {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID := user.(*models.User).ID

	listingID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidID})
		return
	}

	deletedListing, err := c.service.Delete(uint(listingID), userID)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": constants.ErrListingNotFound})
			return
		}
		if errors.Is(err, services.ErrDeleteOtherOwner) {
			ctx.JSON(http.StatusBadRequest, gin.H{"errors": []string{constants.ErrDeleteOtherOwner}})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	ctx.JSON(http.StatusAccepted, dto.NewListingResponse(deletedListing))
}
