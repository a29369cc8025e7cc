package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/savorspot/internal/model"
	"github.com/hitoshi/savorspot/internal/query"
)

// PostgresFoodRepo はPostgreSQLを使用したフードリポジトリ。
type PostgresFoodRepo struct {
	db *sql.DB
}

// NewPostgresFoodRepo はPostgresFoodRepoを生成する。
func NewPostgresFoodRepo(db *sql.DB) *PostgresFoodRepo {
	return &PostgresFoodRepo{db: db}
}

const foodColumns = `id, name, image, category, quantity, price, origin, description,
	        added_by_name, added_by_email, order_count, created_at, updated_at`

// scanFood は1行分のフードを読み取る。
func scanFood(s interface{ Scan(...interface{}) error }) (*model.Food, error) {
	food := &model.Food{}
	err := s.Scan(
		&food.ID, &food.Name, &food.Image, &food.Category, &food.Quantity,
		&food.Price, &food.Origin, &food.Description,
		&food.AddedByName, &food.AddedByEmail, &food.OrderCount,
		&food.CreatedAt, &food.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return food, nil
}

// FindByID は指定IDのフードを取得する。見つからない場合はnilを返す。
func (r *PostgresFoodRepo) FindByID(ctx context.Context, id string) (*model.Food, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE id = $1`,
		id,
	)

	food, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("フードの取得に失敗しました: %w", err)
	}
	return food, nil
}

// List はクエリ記述子に従ってフード一覧を取得する。
// 検索語は大文字小文字を区別しない正規表現（~*）としてバインドパラメータ経由で
// 適用する。正規表現のメタ文字はエスケープせずそのまま渡る（既知の制限）が、
// パラメータバインドのためSQL自体には影響しない。
func (r *PostgresFoodRepo) List(ctx context.Context, q query.ListQuery) ([]*model.Food, error) {
	baseQuery := `SELECT ` + foodColumns + ` FROM foods`

	var args []interface{}
	argIndex := 1

	if q.Name != "" {
		baseQuery += fmt.Sprintf(" WHERE name ~* $%d", argIndex)
		args = append(args, q.Name)
		argIndex++
	}

	baseQuery += " ORDER BY created_at DESC"

	if q.Limit > 0 {
		baseQuery += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, q.Limit)
		argIndex++
	}
	if q.Skip > 0 {
		baseQuery += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, q.Skip)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("フード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var foods []*model.Food
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("フード行の読み取りに失敗しました: %w", err)
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("フード一覧の走査に失敗しました: %w", err)
	}

	return foods, nil
}

// Count はクエリ記述子と同じフィルタでの総件数を返す。
// 元実装は検索語を無視した全件数を返していたが、ページネーション総数が
// 表示結果と食い違うため、一覧と同じフィルタを適用する。
func (r *PostgresFoodRepo) Count(ctx context.Context, q query.ListQuery) (int, error) {
	baseQuery := `SELECT count(*) FROM foods`

	var args []interface{}
	if q.Name != "" {
		baseQuery += " WHERE name ~* $1"
		args = append(args, q.Name)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, baseQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("フード件数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ListTop は注文数の多い順にフードを最大limit件返す。
func (r *PostgresFoodRepo) ListTop(ctx context.Context, limit int) ([]*model.Food, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods ORDER BY order_count DESC, created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("人気フード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var foods []*model.Food
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("フード行の読み取りに失敗しました: %w", err)
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("人気フード一覧の走査に失敗しました: %w", err)
	}

	return foods, nil
}

// ListByOwner は指定メールアドレスのユーザーが追加したフード一覧を返す。
func (r *PostgresFoodRepo) ListByOwner(ctx context.Context, email string) ([]*model.Food, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE added_by_email = $1 ORDER BY created_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("所有フード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var foods []*model.Food
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("フード行の読み取りに失敗しました: %w", err)
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("所有フード一覧の走査に失敗しました: %w", err)
	}

	return foods, nil
}

// Create はフードを作成する。
func (r *PostgresFoodRepo) Create(ctx context.Context, food *model.Food) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO foods (id, name, image, category, quantity, price, origin, description,
		                    added_by_name, added_by_email, order_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		food.ID, food.Name, food.Image, food.Category, food.Quantity,
		food.Price, food.Origin, food.Description,
		food.AddedByName, food.AddedByEmail, food.OrderCount,
		food.CreatedAt, food.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("フードの作成に失敗しました: %w", err)
	}
	return nil
}

// Update は指定IDのフードを全フィールド上書きで更新する。
func (r *PostgresFoodRepo) Update(ctx context.Context, food *model.Food) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE foods SET
		    name = $2, image = $3, category = $4, quantity = $5, price = $6,
		    origin = $7, description = $8, added_by_name = $9, added_by_email = $10,
		    order_count = $11, updated_at = $12
		 WHERE id = $1`,
		food.ID, food.Name, food.Image, food.Category, food.Quantity, food.Price,
		food.Origin, food.Description, food.AddedByName, food.AddedByEmail,
		food.OrderCount, food.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("フードの更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ FoodRepository = (*PostgresFoodRepo)(nil)
