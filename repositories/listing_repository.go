package repositories

import (
	"gorm.io/gorm"

	"realestate-listing/models"
)

type IListingRepository interface {
	FindByOwner(ownerID uint) (*[]models.Listing, error)
	FindById(listingID uint) (*models.Listing, error)
	Create(newListing models.Listing) (*models.Listing, error)
	Update(listingID uint, updates map[string]interface{}) (*models.Listing, error)
	Delete(listingID uint) error
}

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) IListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) FindByOwner(ownerID uint) (*[]models.Listing, error) {
	var listings []models.Listing
	result := r.db.
		Where("created_by_id = ?", ownerID).
		Order("created_at asc").
		Find(&listings)
	if result.Error != nil {
		return nil, result.Error
	}
	return &listings, nil
}

func (r *ListingRepository) FindById(listingID uint) (*models.Listing, error) {
	var listing models.Listing
	result := r.db.First(&listing, "id = ?", listingID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &listing, nil
}

func (r *ListingRepository) Create(newListing models.Listing) (*models.Listing, error) {
	result := r.db.Create(&newListing)
	if result.Error != nil {
		return nil, result.Error
	}
	return &newListing, nil
}

func (r *ListingRepository) Update(listingID uint, updates map[string]interface{}) (*models.Listing, error) {
	result := r.db.Model(&models.Listing{}).
		Where("id = ?", listingID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var updatedListing models.Listing
	if err := r.db.First(&updatedListing, "id = ?", listingID).Error; err != nil {
		return nil, err
	}
	return &updatedListing, nil
}

func (r *ListingRepository) Delete(listingID uint) error {
	result := r.db.Delete(&models.Listing{}, "id = ?", listingID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
