package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"realestate-listing/constants"
	"realestate-listing/dto"
	"realestate-listing/models"
	"realestate-listing/repositories"
	"realestate-listing/tasks"
)

var (
	ErrListingNotFound  = errors.New(constants.ErrListingNotFound)
	ErrDeleteOtherOwner = errors.New(constants.ErrDeleteOtherOwner)
	ErrUpdateOtherOwner = errors.New(constants.ErrUpdateOtherOwner)
)

// ValidationError は入力検証の失敗をフィールドごとのメッセージで保持する
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

const mirrorDelay = constants.MirrorDelaySeconds * time.Second

type IListingService interface {
	FindAllByOwner(ownerID uint) (*[]models.Listing, error)
	FindById(listingID uint) (*models.Listing, error)
	Create(input dto.ListingUpsertInput, ownerID uint) (*models.Listing, error)
	Update(listingID uint, callerID uint, input dto.ListingUpsertInput) (*models.Listing, error)
	Delete(listingID uint, callerID uint) (*models.Listing, error)
}

type ListingService struct {
	repository repositories.IListingRepository
	queue      tasks.Enqueuer
}

func NewListingService(repository repositories.IListingRepository, queue tasks.Enqueuer) IListingService {
	return &ListingService{repository: repository, queue: queue}
}

// FindAllByOwner は呼び出し元が所有するListingのみを作成日時昇順で返す
func (s *ListingService) FindAllByOwner(ownerID uint) (*[]models.Listing, error) {
	return s.repository.FindByOwner(ownerID)
}

// FindById は所有者に関係なく返す。閲覧は所有者制限しない
func (s *ListingService) FindById(listingID uint) (*models.Listing, error) {
	listing, err := s.repository.FindById(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) Create(input dto.ListingUpsertInput, ownerID uint) (*models.Listing, error) {
	// 所有者はリクエスト内容に関係なくサーバー側で呼び出し元に固定する
	newListing := models.Listing{CreatedByID: ownerID}
	if input.Description != nil {
		newListing.Description = *input.Description
	}
	if input.Address != nil {
		newListing.Address = *input.Address
	}
	if input.Price != nil {
		price, msg := dto.ParsePrice(string(*input.Price))
		if msg != "" {
			return nil, &ValidationError{Messages: []string{msg}}
		}
		newListing.Price = price
	}

	created, err := s.repository.Create(newListing)
	if err != nil {
		return nil, err
	}

	// ミラーはベストエフォート。スケジュールの失敗が作成を巻き戻すことはない
	task := tasks.Task{Type: tasks.TypeMirrorListing, ListingID: created.ID}
	if err := s.queue.Enqueue(task, mirrorDelay); err != nil {
		log.Printf("Failed to schedule mirror for listing %d: %v", created.ID, err)
	}

	return created, nil
}

func (s *ListingService) Update(listingID uint, callerID uint, input dto.ListingUpsertInput) (*models.Listing, error) {
	target, err := s.FindById(listingID)
	if err != nil {
		return nil, err
	}
	if target.CreatedByID != callerID {
		return nil, ErrUpdateOtherOwner
	}

	updates := map[string]interface{}{}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Price != nil {
		price, msg := dto.ParsePrice(string(*input.Price))
		if msg != "" {
			return nil, &ValidationError{Messages: []string{msg}}
		}
		updates["price"] = price
	}
	if len(updates) == 0 {
		return target, nil
	}

	updated, err := s.repository.Update(listingID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *ListingService) Delete(listingID uint, callerID uint) (*models.Listing, error) {
	target, err := s.FindById(listingID)
	if err != nil {
		return nil, err
	}
	if target.CreatedByID != callerID {
		return nil, ErrDeleteOtherOwner
	}

	if err := s.repository.Delete(listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return target, nil
}
