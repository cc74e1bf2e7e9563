package tasks

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"realestate-listing/repositories"
	"realestate-listing/sheets"
)

// NewListingMirror は作成済みListingをスプレッドシートへ転記するExecutorを返す。
// タスクに積まれたIDから実行時点のレコードを引き直すため、
// 作成からミラーまでの間に削除されたListingは黙ってスキップする
func NewListingMirror(listings repositories.IListingRepository, users repositories.IAuthRepository, sheet sheets.Client) Executor {
	return func(ctx context.Context, task Task) error {
		listing, err := listings.FindById(task.ListingID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Mirror skipped: listing %d no longer exists", task.ListingID)
			return nil
		}
		if err != nil {
			return err
		}

		owner, err := users.FindUserByID(listing.CreatedByID)
		if err != nil {
			return err
		}

		row := []string{owner.Email, listing.Description, listing.Price.StringFixed(2), listing.Address}
		if err := sheet.InsertRow(ctx, row); err != nil {
			return err
		}

		// 診断用にシート全体を読み戻してログへ出す
		rows, err := sheet.ReadAllRows(ctx)
		if err != nil {
			return err
		}
		log.Printf("Mirror sheet now holds %d rows", len(rows))
		return nil
	}
}
