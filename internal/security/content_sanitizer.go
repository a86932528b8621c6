// Package security はユーザー入力のサニタイズ機能を提供する。
//
// 求人説明文などのリッチテキストは許可リストベースのポリシーで安全なタグのみを通過させ、
// タイトルや志望動機などのプレーンテキストは全てのタグを除去する。
package security

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer はbluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type ContentSanitizer struct {
	richText  *bluemonday.Policy
	plainText *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerを生成する。
// リッチテキストのポリシー:
//   - 許可タグ: p, br, a, ul, ol, li, blockquote, pre, code, strong, em, h3, h4
//   - script, iframe, style および全てのon*イベント属性は除去
//   - aタグ: 絶対URLのみ許可し、target="_blank" と rel="noopener noreferrer" を付与
//
// プレーンテキストはbluemonday.StrictPolicyで全てのタグを除去する。
// StrictPolicyの出力はHTMLエスケープされるため、保存前に元の文字へ戻す。
func NewContentSanitizer() *ContentSanitizer {
	p := bluemonday.NewPolicy()

	// 許可リストに含めないタグと属性は自動的に除去される
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "h3", "h4",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return u.Host != ""
	})
	p.AllowURLSchemes("mailto")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &ContentSanitizer{
		richText:  p,
		plainText: bluemonday.StrictPolicy(),
	}
}

// SanitizeRichText は求人説明文のHTMLをサニタイズする。
// 同一入力に対して常に同一出力を返す。
func (s *ContentSanitizer) SanitizeRichText(rawHTML string) string {
	return strings.TrimSpace(s.richText.Sanitize(rawHTML))
}

// SanitizePlainText は全てのタグを除去し、前後の空白を取り除く。
// 返り値はエスケープされていないプレーンテキストで、"R&D" は "R&D" のまま残る。
// HTMLとして出力する側でエスケープすること。
func (s *ContentSanitizer) SanitizePlainText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.plainText.Sanitize(raw)))
}
