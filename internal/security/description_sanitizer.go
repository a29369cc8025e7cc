// Package security はアプリケーションのセキュリティ機能を提供する。
//
// DescriptionSanitizerService はユーザーが投稿するフード説明文をサニタイズし、
// 一覧・詳細表示でのXSSからクライアントを保護する。bluemondayライブラリを
// 使用した許可リストベースのポリシーで、安全なタグのみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// DescriptionSanitizerService はフード説明文のサニタイズ機能のインターフェースを定義する。
// フード登録・更新時に保存前のコンテンツへ適用する。
type DescriptionSanitizerService interface {
	// Sanitize は説明文をサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, ul, ol, li, strong, em）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// descriptionSanitizer はDescriptionSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type descriptionSanitizer struct {
	policy *bluemonday.Policy
}

// NewDescriptionSanitizer はDescriptionSanitizerServiceの新しいインスタンスを生成する。
// フード説明文は簡単な整形のみを想定するため、リンクや画像は許可しない。
// script, iframe, style等は許可リストに含めないことで自動的に除去され、
// on*イベント属性はbluemondayのデフォルトで許可されない。
func NewDescriptionSanitizer() *descriptionSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"strong", "em",
	)

	return &descriptionSanitizer{
		policy: p,
	}
}

// Sanitize は説明文をサニタイズして安全なHTMLを返す。
func (s *descriptionSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
