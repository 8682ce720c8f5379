package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ewersson/app-api/internal/core/domain"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{ID: "u-1", Login: "alice", PasswordHash: "hash", Role: domain.RoleUser, CreatedAt: time.Now()}
		created, err := repo.Create(context.Background(), user)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID != "u-1" || created.Login != "alice" {
			t.Fatalf("unexpected user: %+v", created)
		}
	})

	mt.Run("create duplicate login", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: app.users index: login_1",
		}))

		_, err := repo.Create(context.Background(), &domain.User{ID: "u-2", Login: "alice", Role: domain.RoleUser})
		if !errors.Is(err, domain.ErrDuplicateLogin) {
			t.Fatalf("expected ErrDuplicateLogin, got %v", err)
		}
	})

	mt.Run("find by login", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "app.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "login", Value: "alice"},
			{Key: "password_hash", Value: "hash"},
			{Key: "role", Value: "ADMIN"},
			{Key: "created_at", Value: int64(1700000000)},
		}))

		user, err := repo.FindByLogin(context.Background(), "alice")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if user.ID != "u-1" || user.PasswordHash != "hash" || user.Role != domain.RoleAdmin {
			t.Fatalf("unexpected user: %+v", user)
		}
		if user.CreatedAt.Unix() != 1700000000 {
			t.Fatalf("unexpected created_at: %v", user.CreatedAt)
		}
	})

	mt.Run("find by login missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "app.users", mtest.FirstBatch))

		if _, err := repo.FindByLogin(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("exists by login", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "app.users", mtest.FirstBatch, bson.D{
			{Key: "n", Value: int32(1)},
		}))

		exists, err := repo.ExistsByLogin(context.Background(), "alice")
		if err != nil {
			t.Fatalf("exists: %v", err)
		}
		if !exists {
			t.Fatalf("expected login to exist")
		}
	})
}
