package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"realestate-listing/dto"
	"realestate-listing/models"
	"realestate-listing/repositories"
	"realestate-listing/tasks"
)

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []tasks.Task
	delays   []time.Duration
}

func (q *fakeQueue) Enqueue(task tasks.Task, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, task)
	q.delays = append(q.delays, delay)
	return nil
}

func setupListingTest(t *testing.T) (IListingService, *fakeQueue, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Listing{}))

	queue := &fakeQueue{}
	service := NewListingService(repositories.NewListingRepository(db), queue)
	return service, queue, db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func strPtr(s string) *string { return &s }

func pricePtr(s string) *dto.PriceString {
	p := dto.PriceString(s)
	return &p
}

func TestCreateListingDefaultsAndMirrorSchedule(t *testing.T) {
	service, queue, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	created, err := service.Create(dto.ListingUpsertInput{}, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "", created.Description)
	assert.Equal(t, "", created.Address)
	assert.Equal(t, "0.00", created.Price.StringFixed(2))
	assert.Equal(t, owner.ID, created.CreatedByID)
	assert.NotZero(t, created.ID)

	// ミラーは作成1件につきちょうど1回、遅延付きでスケジュールされる
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, tasks.TypeMirrorListing, queue.enqueued[0].Type)
	assert.Equal(t, created.ID, queue.enqueued[0].ListingID)
	assert.Equal(t, 2*time.Second, queue.delays[0])
}

func TestCreateListingWithFields(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	created, err := service.Create(dto.ListingUpsertInput{
		Description: strPtr("Cozy 2BR"),
		Address:     strPtr("123 Main St"),
		Price:       pricePtr("250000.00"),
	}, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "Cozy 2BR", created.Description)
	assert.Equal(t, "123 Main St", created.Address)
	assert.Equal(t, "250000.00", created.Price.StringFixed(2))
}

func TestCreateListingWithInvalidPrice(t *testing.T) {
	service, queue, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	_, err := service.Create(dto.ListingUpsertInput{Price: pricePtr("99999999999.99")}, owner.ID)
	require.Error(t, err)

	// 検証エラーは型で区別できる。500扱いにはしない
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Messages, 1)
	assert.Contains(t, validationErr.Messages[0], "price field")

	assert.Empty(t, queue.enqueued)
}

func TestUpdateListingWithInvalidPrice(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	created, err := service.Create(dto.ListingUpsertInput{Price: pricePtr("100.00")}, owner.ID)
	require.NoError(t, err)

	_, err = service.Update(created.ID, owner.ID, dto.ListingUpsertInput{Price: pricePtr("1.999")})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages[0], "price field")

	unchanged, err := service.FindById(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", unchanged.Price.StringFixed(2))
}

func TestFindAllByOwnerScoping(t *testing.T) {
	service, _, db := setupListingTest(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	first, err := service.Create(dto.ListingUpsertInput{Description: strPtr("first")}, alice.ID)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := service.Create(dto.ListingUpsertInput{Description: strPtr("second")}, alice.ID)
	require.NoError(t, err)
	_, err = service.Create(dto.ListingUpsertInput{Description: strPtr("other")}, bob.ID)
	require.NoError(t, err)

	listings, err := service.FindAllByOwner(alice.ID)
	require.NoError(t, err)
	require.Len(t, *listings, 2)
	// 作成日時の昇順
	assert.Equal(t, first.ID, (*listings)[0].ID)
	assert.Equal(t, second.ID, (*listings)[1].ID)

	bobListings, err := service.FindAllByOwner(bob.ID)
	require.NoError(t, err)
	require.Len(t, *bobListings, 1)
	assert.Equal(t, "other", (*bobListings)[0].Description)
}

func TestFindByIdIsNotOwnerRestricted(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	created, err := service.Create(dto.ListingUpsertInput{}, owner.ID)
	require.NoError(t, err)

	found, err := service.FindById(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.FindById(9999)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	created, err := service.Create(dto.ListingUpsertInput{
		Description: strPtr("before"),
		Address:     strPtr("123 Main St"),
		Price:       pricePtr("100.00"),
	}, owner.ID)
	require.NoError(t, err)

	updated, err := service.Update(created.ID, owner.ID, dto.ListingUpsertInput{Description: strPtr("after")})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Description)
	assert.Equal(t, "123 Main St", updated.Address)
	assert.Equal(t, "100.00", updated.Price.StringFixed(2))
}

func TestUpdateIsIdempotent(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	created, err := service.Create(dto.ListingUpsertInput{}, owner.ID)
	require.NoError(t, err)

	input := dto.ListingUpsertInput{Description: strPtr("same"), Price: pricePtr("42.00")}
	first, err := service.Update(created.ID, owner.ID, input)
	require.NoError(t, err)
	second, err := service.Update(created.ID, owner.ID, input)
	require.NoError(t, err)

	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.Address, second.Address)
	assert.Equal(t, first.Price.StringFixed(2), second.Price.StringFixed(2))
}

func TestUpdateByNonOwnerIsRejected(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")

	created, err := service.Create(dto.ListingUpsertInput{Description: strPtr("mine")}, owner.ID)
	require.NoError(t, err)

	_, err = service.Update(created.ID, intruder.ID, dto.ListingUpsertInput{Description: strPtr("stolen")})
	assert.ErrorIs(t, err, ErrUpdateOtherOwner)

	unchanged, err := service.FindById(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", unchanged.Description)
}

func TestUpdateUnknownListing(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	_, err := service.Update(9999, owner.ID, dto.ListingUpsertInput{Description: strPtr("x")})
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestDeleteByOwnerReturnsDeletedRecord(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")

	created, err := service.Create(dto.ListingUpsertInput{Description: strPtr("doomed")}, owner.ID)
	require.NoError(t, err)

	deleted, err := service.Delete(created.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "doomed", deleted.Description)

	_, err = service.FindById(created.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestDeleteByNonOwnerIsRejected(t *testing.T) {
	service, _, db := setupListingTest(t)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")

	created, err := service.Create(dto.ListingUpsertInput{}, owner.ID)
	require.NoError(t, err)

	_, err = service.Delete(created.ID, intruder.ID)
	require.ErrorIs(t, err, ErrDeleteOtherOwner)
	assert.Contains(t, err.Error(), "delete any other owner")

	// レコードは残る
	_, err = service.FindById(created.ID)
	assert.NoError(t, err)
}
