package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/savorspot/internal/model"
)

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

const orderColumns = `id, main_food_id, food_name, food_image, price, quantity,
	        buyer_name, buyer_email, ordered_at, created_at, updated_at`

// scanOrder は1行分の注文を読み取る。
func scanOrder(s interface{ Scan(...interface{}) error }) (*model.Order, error) {
	order := &model.Order{}
	err := s.Scan(
		&order.ID, &order.MainFoodID, &order.FoodName, &order.FoodImage,
		&order.Price, &order.Quantity, &order.BuyerName, &order.BuyerEmail,
		&order.OrderedAt, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
		id,
	)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("注文の取得に失敗しました: %w", err)
	}
	return order, nil
}

// Upsert はmain_food_idをキーとして注文を作成または全フィールド上書きする。
// ON CONFLICT DO UPDATEにより単一ステートメントで完結し、これがこの層で
// 唯一の原子性境界となる。既存行のIDとcreated_atは維持される。
func (r *PostgresOrderRepo) Upsert(ctx context.Context, order *model.Order) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, main_food_id, food_name, food_image, price, quantity,
		                     buyer_name, buyer_email, ordered_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (main_food_id) DO UPDATE SET
		    food_name = EXCLUDED.food_name,
		    food_image = EXCLUDED.food_image,
		    price = EXCLUDED.price,
		    quantity = EXCLUDED.quantity,
		    buyer_name = EXCLUDED.buyer_name,
		    buyer_email = EXCLUDED.buyer_email,
		    ordered_at = EXCLUDED.ordered_at,
		    updated_at = EXCLUDED.updated_at`,
		order.ID, order.MainFoodID, order.FoodName, order.FoodImage,
		order.Price, order.Quantity, order.BuyerName, order.BuyerEmail,
		order.OrderedAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("注文のアップサートに失敗しました: %w", err)
	}
	return nil
}

// ListByBuyer は指定メールアドレスの購入者の注文一覧を返す。
func (r *PostgresOrderRepo) ListByBuyer(ctx context.Context, email string) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE buyer_email = $1 ORDER BY ordered_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("注文一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("注文行の読み取りに失敗しました: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("注文一覧の走査に失敗しました: %w", err)
	}

	return orders, nil
}

// UpdateByID は指定IDの注文を全フィールド上書きで更新する。
// 検索条件はID単独。
func (r *PostgresOrderRepo) UpdateByID(ctx context.Context, order *model.Order) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET
		    food_name = $2, food_image = $3, price = $4, quantity = $5,
		    buyer_name = $6, buyer_email = $7, updated_at = $8
		 WHERE id = $1`,
		order.ID, order.FoodName, order.FoodImage, order.Price, order.Quantity,
		order.BuyerName, order.BuyerEmail, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("注文の更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの注文を削除する。
// 存在しないIDの削除はエラーとしない（冪等）。
func (r *PostgresOrderRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("注文の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
