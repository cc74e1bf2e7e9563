package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"realestate-listing/models"
)

const (
	priceMaxDigits        = 10
	priceMaxDecimalPlaces = 2
)

// PriceString はJSONの文字列・数値どちらで渡されても受け付ける
type PriceString string

func (p *PriceString) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		s = ""
	}
	*p = PriceString(s)
	return nil
}

// ListingUpsertInput は作成・部分更新の共通入力。nil のフィールドは未指定
type ListingUpsertInput struct {
	Description *string      `json:"description"`
	Address     *string      `json:"address"`
	Price       *PriceString `json:"price"`
}

func (in ListingUpsertInput) Validate() []string {
	var errs []string
	if in.Price != nil {
		if _, msg := ParsePrice(string(*in.Price)); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// ParsePrice は価格文字列を検証する。不正な場合はエラーメッセージを返す
func ParsePrice(raw string) (decimal.Decimal, string) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, "price field must be a valid decimal number"
	}
	if d.IsNegative() {
		return decimal.Zero, "price field may not be negative"
	}
	if d.Exponent() < -priceMaxDecimalPlaces {
		return decimal.Zero, "price field must have no more than 2 decimal places"
	}
	digits := len(d.Coefficient().String())
	if exp := int(d.Exponent()); exp > 0 {
		digits += exp
	}
	if digits > priceMaxDigits {
		return decimal.Zero, "price field must have no more than 10 digits in total"
	}
	return d, ""
}

type ListingResponse struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Price       string    `json:"price"`
	CreatedBy   uint      `json:"created_by"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

func NewListingResponse(listing *models.Listing) ListingResponse {
	return ListingResponse{
		ID:          listing.ID,
		Description: listing.Description,
		Address:     listing.Address,
		Price:       listing.Price.StringFixed(priceMaxDecimalPlaces),
		CreatedBy:   listing.CreatedByID,
		Created:     listing.CreatedAt,
		Modified:    listing.UpdatedAt,
	}
}

func NewListingResponseList(listings []models.Listing) []ListingResponse {
	responses := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, NewListingResponse(&listings[i]))
	}
	return responses
}
