package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	supportEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
	supportPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/infrastructure/persistence"
	supportRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/repository"
	userEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/entity"
	userPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/infrastructure/persistence"
	userRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:support_svc_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userEntity.Role{},
		&userEntity.User{},
		&supportEntity.ChatMessage{},
	))
	return db
}

func newTestRepos(t *testing.T) (supportRepository.ChatMessageRepository, userRepository.UserRepository) {
	db := newTestDB(t)
	return supportPersistence.NewChatMessageRepository(db), userPersistence.NewUserRepository(db)
}

// capturedEvent records one gateway publish for assertions.
type capturedEvent struct {
	Topic   string
	Event   string
	Payload broadcast.Payload
}

type captureGateway struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (g *captureGateway) Publish(topic string, event string, payload broadcast.Payload) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, capturedEvent{Topic: topic, Event: event, Payload: payload})
	return nil
}

func (g *captureGateway) byEvent(event string) []capturedEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []capturedEvent
	for _, e := range g.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func seedAgent(t *testing.T, userRepo userRepository.UserRepository, uuid string, username string) {
	t.Helper()
	role, err := userRepo.EnsureRole("support", "Customer Support")
	require.NoError(t, err)
	err = userRepo.Create(&userEntity.User{
		Uuid:      uuid,
		Username:  username,
		Password:  "x",
		Status:    0,
		CreatedAt: time.Now(),
		Roles:     []userEntity.Role{*role},
	})
	require.NoError(t, err)
}

func seedMessage(t *testing.T, msgRepo supportRepository.ChatMessageRepository, msg supportEntity.ChatMessage) {
	t.Helper()
	if msg.Sender == "" {
		msg.Sender = supportEntity.SenderUser
	}
	if msg.Status == "" {
		msg.Status = supportEntity.StatusPending
	}
	if msg.AssignmentStatus == "" {
		msg.AssignmentStatus = supportEntity.AssignmentUnassigned
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	require.NoError(t, msgRepo.Create(&msg))
}

func strPtr(s string) *string {
	return &s
}
