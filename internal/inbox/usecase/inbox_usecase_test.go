package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	authrepo "notify-backend/internal/auth/repository"
	"notify-backend/internal/inbox/domain"
	"notify-backend/internal/inbox/repository"
	"notify-backend/internal/testutil"
	"notify-backend/pkg/apperror"
	"notify-backend/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUsecase(t *testing.T, batchSize int) (InboxUsecase, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	uc := NewInboxUsecase(repository.NewInboxRepository(db), authrepo.NewUserRepository(db), batchSize, nil, nil)
	return uc, db
}

func draft(title string) domain.Draft {
	admin := "admin-1"
	return domain.Draft{Title: title, Body: "hello", SenderID: &admin}
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&domain.InboxMessage{}).Count(&n).Error)
	return n
}

func TestSendToUsersRejectsUnknownRecipients(t *testing.T) {
	uc, db := newUsecase(t, 100)
	testutil.SeedUser(t, db, "u1", "en")

	_, err := uc.SendToUsers(context.Background(), []string{"u1", "ghost"}, draft("Hi"))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"ghost"}, appErr.Details["invalid_ids"])
	assert.Zero(t, countRows(t, db), "no partial send")
}

func TestSendToUsersRejectsBlankRecipients(t *testing.T) {
	uc, db := newUsecase(t, 100)
	testutil.SeedUser(t, db, "u1", "en")

	for _, ids := range [][]string{{"u1", ""}, {"u1", "  "}, {""}} {
		n, err := uc.SendToUsers(context.Background(), ids, draft("Hi"))
		require.Error(t, err)
		assert.Zero(t, n)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Details, "invalid_ids")
	}
	assert.Zero(t, countRows(t, db), "no partial send")
}

func TestSendToUsersCollapsesDuplicates(t *testing.T) {
	uc, db := newUsecase(t, 100)
	testutil.SeedUser(t, db, "u1", "en")
	testutil.SeedUser(t, db, "u2", "ar")

	n, err := uc.SendToUsers(context.Background(), []string{"u1", "u2", "u1"}, draft("Hi"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var msg domain.InboxMessage
	require.NoError(t, db.First(&msg, "recipient_id = ?", "u2").Error)
	assert.Equal(t, domain.TypeAdminMessage, msg.Type)
	assert.False(t, msg.IsRead)
	require.NotNil(t, msg.SenderID)
	assert.Equal(t, "admin-1", *msg.SenderID)
}

func TestSendToUsersValidatesDraft(t *testing.T) {
	uc, _ := newUsecase(t, 100)

	_, err := uc.SendToUsers(context.Background(), []string{"u1"}, domain.Draft{Body: "no title"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = uc.SendToUsers(context.Background(), nil, draft("Hi"))
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestBroadcastToAllBatches(t *testing.T) {
	db := testutil.NewTestDB(t)
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	uc := NewInboxUsecase(repository.NewInboxRepository(db), authrepo.NewUserRepository(db), 2, m, nil)

	_, err = uc.BroadcastToAll(context.Background(), draft("News"))
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "no users")

	for i := 0; i < 5; i++ {
		testutil.SeedUser(t, db, fmt.Sprintf("u%d", i), "en")
	}
	n, err := uc.BroadcastToAll(context.Background(), draft("News"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(5), countRows(t, db))
	assert.Equal(t, float64(5), promtest.ToFloat64(m.InboxMessagesCreated.WithLabelValues("broadcast")))

	var msg domain.InboxMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, domain.TypeAdminBroadcast, msg.Type)
}

// failingRepo fails CreateMany on the given call number
type failingRepo struct {
	repository.InboxRepository
	failOn int
	calls  int
}

func (r *failingRepo) CreateMany(ctx context.Context, messages []domain.InboxMessage, batchSize int) error {
	r.calls++
	if r.calls == r.failOn {
		return apperror.StoreUnavailable(errors.New("connection reset"), "create inbox messages")
	}
	return r.InboxRepository.CreateMany(ctx, messages, batchSize)
}

func TestBroadcastToAllKeepsEarlierBatchesOnFailure(t *testing.T) {
	db := testutil.NewTestDB(t)
	for i := 0; i < 5; i++ {
		testutil.SeedUser(t, db, fmt.Sprintf("u%d", i), "en")
	}
	repo := &failingRepo{InboxRepository: repository.NewInboxRepository(db), failOn: 2}
	uc := NewInboxUsecase(repo, authrepo.NewUserRepository(db), 2, nil, nil)

	n, err := uc.BroadcastToAll(context.Background(), draft("News"))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStoreUnavailable))
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(2), countRows(t, db))
}

func TestListAndReadState(t *testing.T) {
	uc, db := newUsecase(t, 100)
	ctx := context.Background()
	testutil.SeedUser(t, db, "u1", "en")
	testutil.SeedUser(t, db, "u2", "en")

	for i := 0; i < 3; i++ {
		_, err := uc.SendToUsers(ctx, []string{"u1"}, draft(fmt.Sprintf("m%d", i)))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	page, err := uc.List(ctx, "u1", domain.ListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(3), page.UnreadCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "m2", page.Messages[0].Title)

	newest := page.Messages[0].ID
	msg, err := uc.MarkRead(ctx, "u1", newest)
	require.NoError(t, err)
	require.NotNil(t, msg.ReadAt)
	firstReadAt := *msg.ReadAt

	again, err := uc.MarkRead(ctx, "u1", newest)
	require.NoError(t, err)
	assert.True(t, again.ReadAt.Equal(firstReadAt), "second mark read is a no-op")

	_, err = uc.MarkRead(ctx, "u2", newest)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	unreadPage, err := uc.List(ctx, "u1", domain.ListQuery{Page: 1, Limit: 10, UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), unreadPage.Total)
	assert.Equal(t, int64(2), unreadPage.UnreadCount)

	n, err := uc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := uc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	empty, err := uc.List(ctx, "u2", domain.ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Messages)
	assert.Zero(t, empty.TotalPages)
}

func TestUnreadFilterCountsAcrossPages(t *testing.T) {
	uc, db := newUsecase(t, 100)
	ctx := context.Background()
	testutil.SeedUser(t, db, "u1", "en")

	for i := 0; i < 5; i++ {
		_, err := uc.SendToUsers(ctx, []string{"u1"}, draft(fmt.Sprintf("m%d", i)))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	first, err := uc.List(ctx, "u1", domain.ListQuery{Limit: 1})
	require.NoError(t, err)
	_, err = uc.MarkRead(ctx, "u1", first.Messages[0].ID)
	require.NoError(t, err)

	page, err := uc.List(ctx, "u1", domain.ListQuery{Page: 1, Limit: 2, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, int64(4), page.UnreadCount)
	assert.Equal(t, 2, page.TotalPages)
	for _, m := range page.Messages {
		assert.False(t, m.IsRead)
	}
}

func TestDeleteOnlyByOwner(t *testing.T) {
	uc, db := newUsecase(t, 100)
	ctx := context.Background()
	testutil.SeedUser(t, db, "u1", "en")

	_, err := uc.SendToUsers(ctx, []string{"u1"}, draft("Hi"))
	require.NoError(t, err)
	page, err := uc.List(ctx, "u1", domain.ListQuery{})
	require.NoError(t, err)
	id := page.Messages[0].ID

	err = uc.Delete(ctx, "u2", id)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	require.NoError(t, uc.Delete(ctx, "u1", id))
	err = uc.Delete(ctx, "u1", id)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
