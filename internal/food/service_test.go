package food

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/savorspot/internal/model"
	"github.com/hitoshi/savorspot/internal/query"
)

// --- モック定義 ---

type mockFoodRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*model.Food, error)
	listFn        func(ctx context.Context, q query.ListQuery) ([]*model.Food, error)
	countFn       func(ctx context.Context, q query.ListQuery) (int, error)
	listTopFn     func(ctx context.Context, limit int) ([]*model.Food, error)
	listByOwnerFn func(ctx context.Context, email string) ([]*model.Food, error)
	createFn      func(ctx context.Context, food *model.Food) error
	updateFn      func(ctx context.Context, food *model.Food) error
}

func (m *mockFoodRepo) FindByID(ctx context.Context, id string) (*model.Food, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockFoodRepo) List(ctx context.Context, q query.ListQuery) ([]*model.Food, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return nil, nil
}

func (m *mockFoodRepo) Count(ctx context.Context, q query.ListQuery) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func (m *mockFoodRepo) ListTop(ctx context.Context, limit int) ([]*model.Food, error) {
	if m.listTopFn != nil {
		return m.listTopFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockFoodRepo) ListByOwner(ctx context.Context, email string) ([]*model.Food, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, email)
	}
	return nil, nil
}

func (m *mockFoodRepo) Create(ctx context.Context, food *model.Food) error {
	if m.createFn != nil {
		return m.createFn(ctx, food)
	}
	return nil
}

func (m *mockFoodRepo) Update(ctx context.Context, food *model.Food) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, food)
	}
	return nil
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

type markingSanitizer struct{ called bool }

func (m *markingSanitizer) Sanitize(raw string) string {
	m.called = true
	return "sanitized"
}

// --- テスト ---

// ListAllは一覧と同じクエリ記述子で件数を取得することを検証
func TestService_ListAll_CountUsesSameQuery(t *testing.T) {
	var listQ, countQ query.ListQuery
	repo := &mockFoodRepo{
		listFn: func(ctx context.Context, q query.ListQuery) ([]*model.Food, error) {
			listQ = q
			return []*model.Food{{ID: "f1", Name: "Pizza"}}, nil
		},
		countFn: func(ctx context.Context, q query.ListQuery) (int, error) {
			countQ = q
			return 1, nil
		},
	}
	svc := NewService(repo, passthroughSanitizer{}, time.Second)

	q := query.ListQuery{Name: "pizza", Skip: 10, Limit: 5}
	foods, total, err := svc.ListAll(context.Background(), q)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}

	if len(foods) != 1 || total != 1 {
		t.Errorf("foods=%d total=%d, want 1/1", len(foods), total)
	}
	if listQ != q {
		t.Errorf("list query = %+v, want %+v", listQ, q)
	}
	if countQ.Name != q.Name {
		t.Errorf("count filter = %q, want %q", countQ.Name, q.Name)
	}
}

func TestService_ListTop_RequestsSixItems(t *testing.T) {
	var gotLimit int
	repo := &mockFoodRepo{
		listTopFn: func(ctx context.Context, limit int) ([]*model.Food, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := NewService(repo, passthroughSanitizer{}, time.Second)

	if _, err := svc.ListTop(context.Background()); err != nil {
		t.Fatalf("ListTop failed: %v", err)
	}
	if gotLimit != 6 {
		t.Errorf("limit = %d, want 6", gotLimit)
	}
}

// Addは説明文をサニタイズし、IDとタイムスタンプを採番することを検証
func TestService_Add_SanitizesDescriptionAndAssignsID(t *testing.T) {
	var created *model.Food
	repo := &mockFoodRepo{
		createFn: func(ctx context.Context, food *model.Food) error {
			created = food
			return nil
		},
	}
	san := &markingSanitizer{}
	svc := NewService(repo, san, time.Second)

	f, err := svc.Add(context.Background(), FoodInput{
		Name:        "Pizza",
		Description: `<script>x</script>`,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if !san.called {
		t.Error("sanitizer was not invoked")
	}
	if created == nil || created.Description != "sanitized" {
		t.Errorf("stored description = %+v, want sanitized", created)
	}
	if f.ID == "" {
		t.Error("expected generated ID")
	}
	if f.CreatedAt.IsZero() || f.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestService_Add_EmptyName_ReturnsValidationError(t *testing.T) {
	svc := NewService(&mockFoodRepo{}, passthroughSanitizer{}, time.Second)

	_, err := svc.Add(context.Background(), FoodInput{})
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeInvalidRequest {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

// Updateは存在しないIDに対してFOOD_NOT_FOUNDを返すことを検証
func TestService_Update_MissingFood_ReturnsNotFound(t *testing.T) {
	svc := NewService(&mockFoodRepo{}, passthroughSanitizer{}, time.Second)

	_, err := svc.Update(context.Background(), "no-such-id", FoodInput{Name: "Pizza"})
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeFoodNotFound {
		t.Errorf("err = %v, want FOOD_NOT_FOUND", err)
	}
}

// Updateは全フィールドを置換し、作成日時は維持することを検証
func TestService_Update_ReplacesFieldsKeepsCreatedAt(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var updated *model.Food
	repo := &mockFoodRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Food, error) {
			return &model.Food{ID: id, Name: "Before", CreatedAt: createdAt}, nil
		},
		updateFn: func(ctx context.Context, food *model.Food) error {
			updated = food
			return nil
		},
	}
	svc := NewService(repo, passthroughSanitizer{}, time.Second)

	_, err := svc.Update(context.Background(), "f1", FoodInput{Name: "After", Price: 12})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Name != "After" || updated.Price != 12 {
		t.Errorf("fields not replaced: %+v", updated)
	}
	if !updated.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want preserved %v", updated.CreatedAt, createdAt)
	}
}

// ストア呼び出しには制限時間付きコンテキストが渡ることを検証
func TestService_List_AppliesQueryTimeout(t *testing.T) {
	repo := &mockFoodRepo{
		listFn: func(ctx context.Context, q query.ListQuery) ([]*model.Food, error) {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected a deadline on the store context")
			}
			return nil, nil
		},
	}
	svc := NewService(repo, passthroughSanitizer{}, time.Second)

	if _, err := svc.ListSpecial(context.Background()); err != nil {
		t.Fatalf("ListSpecial failed: %v", err)
	}
}
