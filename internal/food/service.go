// Package food はフードメニューのドメインサービスを提供する。
package food

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/savorspot/internal/model"
	"github.com/hitoshi/savorspot/internal/query"
	"github.com/hitoshi/savorspot/internal/repository"
	"github.com/hitoshi/savorspot/internal/security"
)

// topFoodCount は/top-foodsで返す件数。
const topFoodCount = 6

// defaultQueryTimeout はストア呼び出しの制限時間のデフォルト。
// ストアが応答しない場合にリクエストが無期限に待たされるのを防ぐ。
const defaultQueryTimeout = 5 * time.Second

// FoodInput はフード登録・更新の入力フィールド。
type FoodInput struct {
	Name         string
	Image        string
	Category     string
	Quantity     int
	Price        float64
	Origin       string
	Description  string
	AddedByName  string
	AddedByEmail string
	OrderCount   int
}

// Service はフードメニューのドメインサービス。
type Service struct {
	repo         repository.FoodRepository
	sanitizer    security.DescriptionSanitizerService
	queryTimeout time.Duration
}

// NewService はフードサービスを生成する。
// queryTimeoutが0以下の場合はデフォルト値を使用する。
func NewService(repo repository.FoodRepository, sanitizer security.DescriptionSanitizerService, queryTimeout time.Duration) *Service {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Service{
		repo:         repo,
		sanitizer:    sanitizer,
		queryTimeout: queryTimeout,
	}
}

// ListAll はクエリ記述子に従ってフード一覧と総件数を返す。
// 総件数は一覧と同じフィルタでカウントする。
func (s *Service) ListAll(ctx context.Context, q query.ListQuery) ([]*model.Food, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	foods, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	return foods, total, nil
}

// ListTop は注文数の多い順にフードを最大6件返す。
func (s *Service) ListTop(ctx context.Context) ([]*model.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.repo.ListTop(ctx, topFoodCount)
}

// ListSpecial はスペシャルメニュー（全件）を返す。
func (s *Service) ListSpecial(ctx context.Context) ([]*model.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.repo.List(ctx, query.ListQuery{})
}

// ListByOwner は指定メールアドレスのユーザーが追加したフード一覧を返す。
func (s *Service) ListByOwner(ctx context.Context, email string) ([]*model.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.repo.ListByOwner(ctx, email)
}

// Get は指定IDのフードを返す。見つからない場合はnilを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.repo.FindByID(ctx, id)
}

// Add は新規フードを登録する。説明文は保存前にサニタイズする。
func (s *Service) Add(ctx context.Context, in FoodInput) (*model.Food, error) {
	if in.Name == "" {
		return nil, model.NewInvalidRequestError("name is required")
	}

	now := time.Now().UTC()
	f := &model.Food{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Image:        in.Image,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Price:        in.Price,
		Origin:       in.Origin,
		Description:  s.sanitizer.Sanitize(in.Description),
		AddedByName:  in.AddedByName,
		AddedByEmail: in.AddedByEmail,
		OrderCount:   in.OrderCount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Update は指定IDのフードを入力フィールドで全置換する（部分更新ではない）。
// 対象が存在しない場合はFOOD_NOT_FOUNDエラーを返す。
func (s *Service) Update(ctx context.Context, id string, in FoodInput) (*model.Food, error) {
	if in.Name == "" {
		return nil, model.NewInvalidRequestError("name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.NewFoodNotFoundError(id)
	}

	f := &model.Food{
		ID:           id,
		Name:         in.Name,
		Image:        in.Image,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Price:        in.Price,
		Origin:       in.Origin,
		Description:  s.sanitizer.Sanitize(in.Description),
		AddedByName:  in.AddedByName,
		AddedByEmail: in.AddedByEmail,
		OrderCount:   in.OrderCount,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
