// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/savorspot/internal/model"
	"github.com/hitoshi/savorspot/internal/query"
)

// FoodRepository はフードデータの永続化インターフェース。
type FoodRepository interface {
	// FindByID は指定IDのフードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Food, error)

	// List はクエリ記述子に従ってフード一覧を取得する。
	// q.Nameは大文字小文字を区別しない正規表現断片としてフード名に適用する。
	// q.Skip/q.Limitはオフセットと件数制限（0は制限なし）。
	List(ctx context.Context, q query.ListQuery) ([]*model.Food, error)

	// Count はクエリ記述子と同じフィルタでの総件数を返す。
	// 一覧と同じフィルタを適用するため、ページネーション総数が表示件数と一致する。
	Count(ctx context.Context, q query.ListQuery) (int, error)

	// ListTop は注文数の多い順にフードを最大limit件返す。
	ListTop(ctx context.Context, limit int) ([]*model.Food, error)

	// ListByOwner は指定メールアドレスのユーザーが追加したフード一覧を返す。
	ListByOwner(ctx context.Context, email string) ([]*model.Food, error)

	// Create はフードを作成する。
	Create(ctx context.Context, food *model.Food) error

	// Update は指定IDのフードを全フィールド上書きで更新する。
	Update(ctx context.Context, food *model.Food) error
}

// OrderRepository は注文データの永続化インターフェース。
type OrderRepository interface {
	// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// Upsert はmain_food_idをキーとして注文を作成または全フィールド上書きする。
	// 同一キーへの並行書き込みは後勝ちとなり、マージは行わない。
	// 原子性の境界はストアの単一UPSERT操作のみ。
	Upsert(ctx context.Context, order *model.Order) error

	// ListByBuyer は指定メールアドレスの購入者の注文一覧を返す。
	ListByBuyer(ctx context.Context, email string) ([]*model.Order, error)

	// UpdateByID は指定IDの注文を全フィールド上書きで更新する。
	// 検索条件はID単独であり、他のパラメータは一切参照しない。
	UpdateByID(ctx context.Context, order *model.Order) error

	// DeleteByID は指定IDの注文を削除する。
	DeleteByID(ctx context.Context, id string) error
}
