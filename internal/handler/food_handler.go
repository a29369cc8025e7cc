package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/savorspot/internal/food"
	"github.com/hitoshi/savorspot/internal/model"
	"github.com/hitoshi/savorspot/internal/query"
)

// FoodServiceInterface はフードハンドラーが必要とするサービスインターフェース。
type FoodServiceInterface interface {
	// ListAll はクエリ記述子に従ってフード一覧と総件数を返す。
	ListAll(ctx context.Context, q query.ListQuery) ([]*model.Food, int, error)
	// ListTop は注文数の多い順にフードを返す。
	ListTop(ctx context.Context) ([]*model.Food, error)
	// ListSpecial はスペシャルメニューを返す。
	ListSpecial(ctx context.Context) ([]*model.Food, error)
	// ListByOwner は指定ユーザーが追加したフード一覧を返す。
	ListByOwner(ctx context.Context, email string) ([]*model.Food, error)
	// Get は指定IDのフードを返す。見つからない場合はnilを返す。
	Get(ctx context.Context, id string) (*model.Food, error)
	// Add は新規フードを登録する。
	Add(ctx context.Context, in food.FoodInput) (*model.Food, error)
	// Update は指定IDのフードを全置換する。
	Update(ctx context.Context, id string, in food.FoodInput) (*model.Food, error)
}

// FoodCreationRecorder はフード登録メトリクスの記録インターフェース。
type FoodCreationRecorder interface {
	RecordFoodCreated()
}

// FoodHandler はフードメニューのHTTPハンドラー。
type FoodHandler struct {
	service  FoodServiceInterface
	recorder FoodCreationRecorder
}

// NewFoodHandler はFoodHandlerを生成する。
// recorderがnilの場合、メトリクスは記録しない。
func NewFoodHandler(service FoodServiceInterface, recorder FoodCreationRecorder) *FoodHandler {
	return &FoodHandler{
		service:  service,
		recorder: recorder,
	}
}

// foodRequest はフード登録・更新リクエストのボディ。
type foodRequest struct {
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Origin       string  `json:"origin"`
	Description  string  `json:"description"`
	AddedByName  string  `json:"added_by_name"`
	AddedByEmail string  `json:"added_by_email"`
	OrderCount   int     `json:"order_count"`
}

// foodResponse はフード情報のAPIレスポンス。
type foodResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Category     string    `json:"category"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	Origin       string    `json:"origin"`
	Description  string    `json:"description"`
	AddedByName  string    `json:"added_by_name"`
	AddedByEmail string    `json:"added_by_email"`
	OrderCount   int       `json:"order_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// allFoodsResponse は/all-foodsのレスポンス。ページングUIのために総件数を含む。
type allFoodsResponse struct {
	TotalFood int            `json:"totalFood"`
	Foods     []foodResponse `json:"foods"`
}

// ListAllFoods はフード一覧を検索・ページング付きで返す。
// 総件数は一覧と同じ検索条件でカウントした値を返す。
// GET /all-foods?name=xxx&skip=0&size=9
func (h *FoodHandler) ListAllFoods(w http.ResponseWriter, r *http.Request) {
	q := query.Parse(r.URL.Query())

	foods, total, err := h.service.ListAll(r.Context(), q)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(allFoodsResponse{
		TotalFood: total,
		Foods:     toFoodResponses(foods),
	})
}

// ListTopFoods は注文数の多い順にフードを最大6件返す。
// GET /top-foods
func (h *FoodHandler) ListTopFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.service.ListTop(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFoodResponses(foods))
}

// ListSpecialMenu はスペシャルメニューを返す。
// GET /special-menu
func (h *FoodHandler) ListSpecialMenu(w http.ResponseWriter, r *http.Request) {
	foods, err := h.service.ListSpecial(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFoodResponses(foods))
}

// ListMyAddedFoods は指定ユーザーが追加したフード一覧を返す。
// emailパラメータはセッションミドルウェアと所有者ガードで検証済み。
// GET /my-added-foods?email=xxx
func (h *FoodHandler) ListMyAddedFoods(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	foods, err := h.service.ListByOwner(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFoodResponses(foods))
}

// GetSingleFood はフード詳細を返す。
// GET /single-food/{id}
func (h *FoodHandler) GetSingleFood(w http.ResponseWriter, r *http.Request) {
	foodID := chi.URLParam(r, "id")

	f, err := h.service.Get(r.Context(), foodID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if f == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewFoodNotFoundError(foodID))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFoodResponse(f))
}

// AddFood は新規フードを登録する。
// POST /add-food
func (h *FoodHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	f, err := h.service.Add(r.Context(), toFoodInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordFoodCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toFoodResponse(f))
}

// UpdateFood は指定IDのフードを全置換する。
// PUT /update-food/{id}
func (h *FoodHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	foodID := chi.URLParam(r, "id")

	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	f, err := h.service.Update(r.Context(), foodID, toFoodInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFoodResponse(f))
}

// --- ヘルパー関数 ---

// toFoodInput はリクエストボディからサービス入力に変換する。
func toFoodInput(req foodRequest) food.FoodInput {
	return food.FoodInput{
		Name:         req.Name,
		Image:        req.Image,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Price:        req.Price,
		Origin:       req.Origin,
		Description:  req.Description,
		AddedByName:  req.AddedByName,
		AddedByEmail: req.AddedByEmail,
		OrderCount:   req.OrderCount,
	}
}

// toFoodResponse はmodel.FoodからAPIレスポンスに変換する。
func toFoodResponse(f *model.Food) foodResponse {
	return foodResponse{
		ID:           f.ID,
		Name:         f.Name,
		Image:        f.Image,
		Category:     f.Category,
		Quantity:     f.Quantity,
		Price:        f.Price,
		Origin:       f.Origin,
		Description:  f.Description,
		AddedByName:  f.AddedByName,
		AddedByEmail: f.AddedByEmail,
		OrderCount:   f.OrderCount,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// toFoodResponses はフードのスライスをAPIレスポンスに変換する。
// nilスライスでも空配列としてエンコードされるように常に非nilを返す。
func toFoodResponses(foods []*model.Food) []foodResponse {
	out := make([]foodResponse, 0, len(foods))
	for _, f := range foods {
		out = append(out, toFoodResponse(f))
	}
	return out
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"code":     apiErr.Code,
		"message":  apiErr.Message,
		"category": apiErr.Category,
		"action":   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     model.ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeFoodNotFound, model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
