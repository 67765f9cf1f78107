package helpers

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/repository"
	"github.com/xisxz/agente-vendas/pkg/pg"
	"github.com/xisxz/agente-vendas/pkg/redis"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.LeadEntity{},
		&repository.ConversationEntity{},
		&repository.FollowUpEntity{},
		&repository.AnalyticsEventEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	adapter, err := redis.NewRedisAdapter("test", "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestLead(t *testing.T, db *pg.DB, id int64, status model.LeadStatus) *repository.LeadEntity {
	ctx := context.Background()
	lead := &repository.LeadEntity{
		ID:     id,
		Name:   fmt.Sprintf("Lead %d", id),
		Email:  fmt.Sprintf("lead%d@example.com", id),
		Status: string(status),
		Source: "webchat",
	}
	err := db.Write(ctx).Create(lead).Error
	require.NoError(t, err)
	return lead
}

func CreateTestConversation(t *testing.T, db *pg.DB, leadID int64, direction model.Direction, content string) *repository.ConversationEntity {
	ctx := context.Background()
	conv := &repository.ConversationEntity{
		LeadID:    leadID,
		Channel:   "webchat",
		Direction: string(direction),
		Content:   content,
		CreatedAt: time.Now(),
	}
	err := db.Write(ctx).Create(conv).Error
	require.NoError(t, err)
	return conv
}

func CreateTestFollowUp(t *testing.T, db *pg.DB, leadID int64, fuType model.FollowUpType, status model.FollowUpStatus, scheduledAt time.Time) *repository.FollowUpEntity {
	ctx := context.Background()
	fu := &repository.FollowUpEntity{
		LeadID:      leadID,
		Type:        string(fuType),
		Status:      string(status),
		Message:     "scheduled by test",
		Channel:     "email",
		ScheduledAt: scheduledAt,
	}
	err := db.Write(ctx).Create(fu).Error
	require.NoError(t, err)
	return fu
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func AssertEventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	if !WaitForCondition(t, timeout, condition) {
		t.Fatal(msg)
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
