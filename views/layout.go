// Package views provides the default templ components for the
// cardnews admin UI. Pages are built with templ.ComponentFunc so no
// code generation step is needed; apps that want a different look can
// supply their own ViewFuncs instead.
package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// page wraps body markup in the shared HTML shell.
func page(title string, body func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString("<!DOCTYPE html><html lang=\"ko\"><head><meta charset=\"utf-8\">")
		buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		buf.WriteString("<title>")
		buf.WriteString(html.EscapeString(title))
		buf.WriteString("</title><style>")
		buf.WriteString(baseCSS)
		buf.WriteString("</style></head><body><main>")
		body(&buf)
		buf.WriteString("</main></body></html>")
		_, err := w.Write(buf.Bytes())
		return err
	})
}

const baseCSS = `
body{font-family:'Pretendard',-apple-system,'Malgun Gothic',sans-serif;margin:0;background:#f6f6f4;color:#1b1b1b}
main{max-width:860px;margin:0 auto;padding:32px 20px}
h1{font-size:22px}h2{font-size:17px;margin-top:28px}
nav a{margin-right:14px;color:#0a6852;text-decoration:none;font-weight:600}
table{width:100%;border-collapse:collapse;font-size:14px}
th,td{text-align:left;padding:8px 10px;border-bottom:1px solid #e2e2de}
input,textarea,select{width:100%;box-sizing:border-box;padding:8px;border:1px solid #ccc;border-radius:6px;font:inherit;margin:4px 0 12px}
button{background:#0a6852;color:#fff;border:0;border-radius:6px;padding:10px 18px;font-weight:600;cursor:pointer}
button.secondary{background:#666}
.warn{background:#fff3cd;border:1px solid #e6d28a;border-radius:6px;padding:10px 14px;margin:10px 0;font-size:14px}
.msg{background:#d9efe8;border:1px solid #9fd4c2;border-radius:6px;padding:10px 14px;margin:10px 0;font-size:14px}
.error{color:#a11}
.slide-block{border:1px solid #ddd;border-radius:8px;padding:14px;margin:10px 0;background:#fff}
`

func esc(s string) string {
	return html.EscapeString(s)
}

// pathEscape escapes a value for use inside a URL path segment.
func pathEscape(s string) string {
	return url.PathEscape(s)
}

// hiddenCSRF emits the hidden CSRF field every POST form needs.
func hiddenCSRF(buf *bytes.Buffer, token string) {
	buf.WriteString(`<input type="hidden" name="_csrf" value="`)
	buf.WriteString(esc(token))
	buf.WriteString(`">`)
}

func navBar(buf *bytes.Buffer, csrfToken string) {
	buf.WriteString(`<nav><a href="/">대시보드</a><a href="/compose/">카드뉴스 작성</a><a href="/frames/">Figma 프레임</a><a href="/backgrounds/">배경 사진</a>`)
	buf.WriteString(`<form method="post" action="/logout/" style="display:inline">`)
	hiddenCSRF(buf, csrfToken)
	buf.WriteString(`<button class="secondary" type="submit">로그아웃</button></form></nav>`)
}
