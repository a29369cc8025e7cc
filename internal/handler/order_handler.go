package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/savorspot/internal/model"
	"github.com/hitoshi/savorspot/internal/order"
)

// OrderServiceInterface は注文ハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	// Place はmainFoodIDをキーとして注文を作成または上書きする。
	Place(ctx context.Context, mainFoodID string, in order.OrderInput) (*model.Order, error)
	// ListByBuyer は指定購入者の注文一覧を返す。
	ListByBuyer(ctx context.Context, email string) ([]*model.Order, error)
	// UpdateByID は指定IDの注文を全置換する。
	UpdateByID(ctx context.Context, id string, in order.OrderInput) (*model.Order, error)
	// Delete は指定IDの注文を削除する（冪等）。
	Delete(ctx context.Context, id string) error
}

// OrderPlacementRecorder は注文受付メトリクスの記録インターフェース。
type OrderPlacementRecorder interface {
	RecordOrderPlaced()
}

// OrderHandler は注文のHTTPハンドラー。
type OrderHandler struct {
	service  OrderServiceInterface
	recorder OrderPlacementRecorder
}

// NewOrderHandler はOrderHandlerを生成する。
// recorderがnilの場合、メトリクスは記録しない。
func NewOrderHandler(service OrderServiceInterface, recorder OrderPlacementRecorder) *OrderHandler {
	return &OrderHandler{
		service:  service,
		recorder: recorder,
	}
}

// orderRequest は注文リクエストのボディ。
type orderRequest struct {
	FoodName   string  `json:"food_name"`
	FoodImage  string  `json:"food_image"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	BuyerName  string  `json:"buyer_name"`
	BuyerEmail string  `json:"buyer_email"`
}

// orderResponse は注文情報のAPIレスポンス。
type orderResponse struct {
	ID         string    `json:"id"`
	MainFoodID string    `json:"main_food_id"`
	FoodName   string    `json:"food_name"`
	FoodImage  string    `json:"food_image"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	BuyerName  string    `json:"buyer_name"`
	BuyerEmail string    `json:"buyer_email"`
	OrderedAt  time.Time `json:"ordered_at"`
}

// PlaceOrder はフードIDをキーとして注文を作成または上書きする。
// 同一フードへの再注文は既存レコードを全フィールド上書きする（後勝ち）。
// PUT /order-food/{id}
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	mainFoodID := chi.URLParam(r, "id")

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	o, err := h.service.Place(r.Context(), mainFoodID, toOrderInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordOrderPlaced()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponse(o))
}

// ListOrderedFoods は指定購入者の注文一覧を返す。
// emailパラメータはセッションミドルウェアと所有者ガードで検証済み。
// GET /ordered-foods?email=xxx
func (h *OrderHandler) ListOrderedFoods(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	orders, err := h.service.ListByBuyer(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponses(orders))
}

// UpdateQuantity は指定IDの注文を全置換する。
// エンドポイント名に反して数量の加算は行わず、供給されたフィールドで
// 丸ごと置き換える。対象の検索はID単独で行う。
// PATCH /update-quantity/{id}
func (h *OrderHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	o, err := h.service.UpdateByID(r.Context(), orderID, toOrderInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponse(o))
}

// DeleteOrder は指定IDの注文を削除する。
// DELETE /delete-food/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), orderID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toOrderInput はリクエストボディからサービス入力に変換する。
func toOrderInput(req orderRequest) order.OrderInput {
	return order.OrderInput{
		FoodName:   req.FoodName,
		FoodImage:  req.FoodImage,
		Price:      req.Price,
		Quantity:   req.Quantity,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
	}
}

// toOrderResponse はmodel.OrderからAPIレスポンスに変換する。
func toOrderResponse(o *model.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		MainFoodID: o.MainFoodID,
		FoodName:   o.FoodName,
		FoodImage:  o.FoodImage,
		Price:      o.Price,
		Quantity:   o.Quantity,
		BuyerName:  o.BuyerName,
		BuyerEmail: o.BuyerEmail,
		OrderedAt:  o.OrderedAt,
	}
}

// toOrderResponses は注文のスライスをAPIレスポンスに変換する。
func toOrderResponses(orders []*model.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
