// Package order は注文のドメインサービスを提供する。
package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/savorspot/internal/model"
	"github.com/hitoshi/savorspot/internal/repository"
)

// defaultQueryTimeout はストア呼び出しの制限時間のデフォルト。
const defaultQueryTimeout = 5 * time.Second

// OrderInput は注文の入力フィールド。
type OrderInput struct {
	FoodName   string
	FoodImage  string
	Price      float64
	Quantity   int
	BuyerName  string
	BuyerEmail string
}

// Service は注文のドメインサービス。
type Service struct {
	repo         repository.OrderRepository
	queryTimeout time.Duration
}

// NewService は注文サービスを生成する。
// queryTimeoutが0以下の場合はデフォルト値を使用する。
func NewService(repo repository.OrderRepository, queryTimeout time.Duration) *Service {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Service{
		repo:         repo,
		queryTimeout: queryTimeout,
	}
}

// Place はmainFoodIDをキーとして注文を作成または上書きする。
// 同一キーの既存注文がある場合、全フィールドが新しい注文の内容に置き換わる
// （後勝ち、数量の加算は行わない）。並行する同一キーへの注文はこの層では
// 直列化されず、ストアの単一UPSERTの原子性のみが一貫性の境界となる。
func (s *Service) Place(ctx context.Context, mainFoodID string, in OrderInput) (*model.Order, error) {
	if mainFoodID == "" {
		return nil, model.NewInvalidRequestError("main food id is required")
	}

	now := time.Now().UTC()
	o := &model.Order{
		ID:         uuid.NewString(),
		MainFoodID: mainFoodID,
		FoodName:   in.FoodName,
		FoodImage:  in.FoodImage,
		Price:      in.Price,
		Quantity:   in.Quantity,
		BuyerName:  in.BuyerName,
		BuyerEmail: in.BuyerEmail,
		OrderedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Upsert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByBuyer は指定メールアドレスの購入者の注文一覧を返す。
func (s *Service) ListByBuyer(ctx context.Context, email string) ([]*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.repo.ListByBuyer(ctx, email)
}

// UpdateByID は指定IDの注文を入力フィールドで全置換する（数量の加算ではない）。
// 検索条件はID単独であり、他のリクエストパラメータは参照しない。
// 対象が存在しない場合はORDER_NOT_FOUNDエラーを返す。
func (s *Service) UpdateByID(ctx context.Context, id string, in OrderInput) (*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.NewOrderNotFoundError(id)
	}

	o := &model.Order{
		ID:         id,
		MainFoodID: existing.MainFoodID,
		FoodName:   in.FoodName,
		FoodImage:  in.FoodImage,
		Price:      in.Price,
		Quantity:   in.Quantity,
		BuyerName:  in.BuyerName,
		BuyerEmail: in.BuyerEmail,
		OrderedAt:  existing.OrderedAt,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}

	if err := s.repo.UpdateByID(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete は指定IDの注文を削除する。存在しないIDでもエラーとしない（冪等）。
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.repo.DeleteByID(ctx, id)
}
