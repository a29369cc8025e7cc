// Package query はリソース一覧取得のクエリ記述子を提供する。
//
// 信頼できないクエリパラメータをストア非依存のフィルタ＋ページネーション記述子に
// 正規化する。宣言されたフィールド（フード名）以外へのフィルタ注入は構造上
// 起こりえない。
package query

import (
	"net/url"
	"strconv"
)

// ListQuery はフード一覧取得のフィルタとページネーションを表す。
//
// Skip=0 はオフセットなし、Limit=0 は件数制限なしを意味する。
// 元実装はskip/sizeの解析失敗時にNaNをストアへ素通ししていたが、
// ここでは明示的に0へ正規化する。
type ListQuery struct {
	// Name は部分一致検索の検索語。空の場合はフィルタしない。
	// 値は大文字小文字を区別しない正規表現の断片としてストアに渡されるため、
	// エスケープされていないメタ文字はそのまま正規表現として解釈される
	// （元実装から引き継いだ既知の制限）。
	Name string

	// Skip は読み飛ばす件数。非負。
	Skip int

	// Limit は最大取得件数。0は無制限。
	Limit int
}

// Parse はURLクエリパラメータからListQueryを構築する。
// name: 検索語、skip: オフセット、size: 件数。
// 数値パラメータが欠落・非数値・負数の場合は0に正規化する。
func Parse(values url.Values) ListQuery {
	return ListQuery{
		Name:  values.Get("name"),
		Skip:  parseNonNegativeInt(values.Get("skip")),
		Limit: parseNonNegativeInt(values.Get("size")),
	}
}

// parseNonNegativeInt は文字列を非負整数として解析する。
// 解析できない値と負数は0として扱う。
func parseNonNegativeInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
