package views

import (
	"bytes"
	"fmt"
	"time"

	"github.com/a-h/templ"

	cardnews "github.com/sejongkim-ctrl/figma-to-instagram"
)

// Default returns the stock view set for cardnews.New.
func Default() cardnews.ViewFuncs {
	return cardnews.ViewFuncs{
		Login:       Login,
		Dashboard:   Dashboard,
		Compose:     Compose,
		Frames:      Frames,
		Backgrounds: Backgrounds,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

// Login is the password prompt shown to unauthenticated visitors.
func Login(showError bool, csrfToken string) templ.Component {
	return page("로그인", func(buf *bytes.Buffer) {
		buf.WriteString("<h1>카드뉴스</h1>")
		if showError {
			buf.WriteString(`<p class="error">비밀번호가 올바르지 않습니다.</p>`)
		}
		buf.WriteString(`<form method="post" action="/login/">`)
		hiddenCSRF(buf, csrfToken)
		buf.WriteString(`<input type="password" name="password" placeholder="비밀번호" autofocus>`)
		buf.WriteString(`<button type="submit">로그인</button></form>`)
	})
}

// Dashboard shows accounts, token warnings, and recent publish history.
func Dashboard(accounts []cardnews.Account, publishes []cardnews.PublishRecord, warnings []string, message, csrfToken string) templ.Component {
	return page("대시보드", func(buf *bytes.Buffer) {
		navBar(buf, csrfToken)
		buf.WriteString("<h1>대시보드</h1>")
		if message != "" {
			buf.WriteString(`<p class="msg">` + esc(message) + `</p>`)
		}
		for _, w := range warnings {
			buf.WriteString(`<p class="warn">` + esc(w) + `</p>`)
		}

		buf.WriteString("<h2>계정</h2><table><tr><th>이름</th><th>IG 사용자 ID</th><th>토큰 만료일</th><th></th></tr>")
		for _, a := range accounts {
			expiry := "-"
			if !a.TokenExpiry.IsZero() {
				expiry = a.TokenExpiry.Format("2006-01-02")
			}
			buf.WriteString("<tr><td>" + esc(a.Name) + "</td><td>" + esc(a.IGUserID) + "</td><td>" + expiry + "</td><td>")
			buf.WriteString(`<form method="post" action="/accounts/` + pathEscape(a.Name) + `/delete/" onsubmit="return confirm('삭제할까요?')">`)
			hiddenCSRF(buf, csrfToken)
			buf.WriteString(`<button class="secondary" type="submit">삭제</button></form></td></tr>`)
		}
		buf.WriteString("</table>")

		buf.WriteString(`<h2>계정 추가</h2><form method="post" action="/accounts/save/">`)
		hiddenCSRF(buf, csrfToken)
		buf.WriteString(`<input name="name" placeholder="이름">`)
		buf.WriteString(`<input name="ig_user_id" placeholder="IG 사용자 ID">`)
		buf.WriteString(`<input name="access_token" placeholder="페이지 액세스 토큰">`)
		buf.WriteString(`<input name="token_expiry" placeholder="토큰 만료일 (YYYY-MM-DD)">`)
		buf.WriteString(`<button type="submit">저장</button></form>`)

		buf.WriteString("<h2>최근 게시</h2><table><tr><th>일시</th><th>계정</th><th>상태</th><th>이미지</th><th>캡션</th></tr>")
		for _, p := range publishes {
			caption := p.Caption
			if len([]rune(caption)) > 40 {
				caption = string([]rune(caption)[:40]) + "…"
			}
			buf.WriteString("<tr><td>" + p.CreatedAt.Local().Format("01-02 15:04") + "</td><td>" + esc(p.Account) + "</td><td>" + esc(p.Status) + "</td>")
			buf.WriteString("<td>" + fmt.Sprintf("%d", p.ImageCount) + "</td><td>" + esc(caption) + "</td></tr>")
		}
		buf.WriteString("</table>")
	})
}

// Compose is the slide deck editor.
func Compose(templates []string, backgrounds []cardnews.Background, accounts []cardnews.Account, csrfToken string) templ.Component {
	return page("카드뉴스 작성", func(buf *bytes.Buffer) {
		navBar(buf, csrfToken)
		buf.WriteString("<h1>카드뉴스 작성</h1>")
		buf.WriteString(`<form method="post" action="/compose/publish/">`)
		hiddenCSRF(buf, csrfToken)

		buf.WriteString(`<label>템플릿</label><select name="template">`)
		for _, t := range templates {
			buf.WriteString(`<option>` + esc(t) + `</option>`)
		}
		buf.WriteString(`</select>`)
		buf.WriteString(`<label>스타일</label><select name="style"><option value="photo">사진형</option><option value="flat">플랫형</option></select>`)

		buf.WriteString(`<div class="slide-block"><h2>표지</h2>`)
		buf.WriteString(`<input name="cover_title" placeholder="제목">`)
		buf.WriteString(`<input name="cover_subtitle" placeholder="부제목">`)
		backgroundSelect(buf, "cover_background", backgrounds)
		buf.WriteString(`</div>`)

		for i := 1; i <= 8; i++ {
			buf.WriteString(fmt.Sprintf(`<div class="slide-block"><h2>내용 %d</h2>`, i))
			buf.WriteString(`<input name="heading" placeholder="소제목">`)
			buf.WriteString(`<textarea name="body" rows="4" placeholder="- 항목 제목&#10;설명 줄"></textarea>`)
			backgroundSelect(buf, "background", backgrounds)
			buf.WriteString(`</div>`)
		}

		buf.WriteString(`<div class="slide-block"><h2>마무리</h2>`)
		buf.WriteString(`<input name="cta_text" placeholder="행동 유도 문구">`)
		buf.WriteString(`<input name="account_name" placeholder="@계정명">`)
		buf.WriteString(`<input name="profile_url" placeholder="프로필 URL (QR 코드)">`)
		backgroundSelect(buf, "closing_background", backgrounds)
		buf.WriteString(`</div>`)

		buf.WriteString(`<h2>게시</h2>`)
		accountSelect(buf, accounts)
		buf.WriteString(`<textarea name="caption" rows="3" placeholder="캡션"></textarea>`)
		buf.WriteString(`<label>예약 시간 (비우면 즉시 게시)</label><input type="datetime-local" name="scheduled_at">`)
		buf.WriteString(`<button type="submit">게시</button> `)
		buf.WriteString(`<button class="secondary" formaction="/compose/render/">ZIP 다운로드</button> `)
		buf.WriteString(`<button class="secondary" formaction="/compose/preview/" formtarget="_blank">미리보기</button>`)
		buf.WriteString(`</form>`)
	})
}

// Frames lists Figma frame groups ready to publish.
func Frames(groups []cardnews.FrameGroup, accounts []cardnews.Account, csrfToken string) templ.Component {
	return page("Figma 프레임", func(buf *bytes.Buffer) {
		navBar(buf, csrfToken)
		buf.WriteString("<h1>Figma 프레임</h1>")
		buf.WriteString(`<form method="post" action="/frames/refresh/">`)
		hiddenCSRF(buf, csrfToken)
		buf.WriteString(`<button class="secondary" type="submit">새로고침</button></form>`)

		if len(groups) == 0 {
			buf.WriteString(`<p>이름이 YYMMDD-N 형식인 프레임이 없습니다.</p>`)
			return
		}
		for _, g := range groups {
			buf.WriteString(`<div class="slide-block"><h2>` + esc(g.Date) + fmt.Sprintf(` (%d장)</h2><p>`, len(g.Frames)))
			for i, f := range g.Frames {
				if i > 0 {
					buf.WriteString(", ")
				}
				buf.WriteString(esc(f.Name))
			}
			buf.WriteString(`</p><form method="post" action="/frames/publish/">`)
			hiddenCSRF(buf, csrfToken)
			buf.WriteString(`<input type="hidden" name="date" value="` + esc(g.Date) + `">`)
			accountSelect(buf, accounts)
			buf.WriteString(`<textarea name="caption" rows="2" placeholder="캡션"></textarea>`)
			buf.WriteString(`<input type="datetime-local" name="scheduled_at">`)
			buf.WriteString(`<button type="submit">게시</button></form></div>`)
		}
	})
}

// Backgrounds manages uploaded photos for content slides.
func Backgrounds(backgrounds []cardnews.Background, csrfToken string) templ.Component {
	return page("배경 사진", func(buf *bytes.Buffer) {
		navBar(buf, csrfToken)
		buf.WriteString("<h1>배경 사진</h1>")
		buf.WriteString(`<form method="post" action="/backgrounds/upload/" enctype="multipart/form-data">`)
		hiddenCSRF(buf, csrfToken)
		buf.WriteString(`<input type="file" name="image" accept="image/*">`)
		buf.WriteString(`<button type="submit">업로드</button></form>`)

		buf.WriteString(`<table><tr><th></th><th>파일명</th><th>크기</th><th>업로드</th><th></th></tr>`)
		for _, b := range backgrounds {
			buf.WriteString(`<tr><td><img src="/public/uploads/` + esc(b.Filename) + `" alt="" width="72"></td>`)
			buf.WriteString(`<td>` + esc(b.Filename) + `</td>`)
			buf.WriteString(fmt.Sprintf(`<td>%d×%d, %dKB</td>`, b.Width, b.Height, b.Size/1024))
			uploaded := b.UploadedAt
			if t, err := time.Parse(time.RFC3339, b.UploadedAt); err == nil {
				uploaded = t.Local().Format("2006-01-02 15:04")
			}
			buf.WriteString(`<td>` + esc(uploaded) + `</td><td>`)
			buf.WriteString(`<form method="post" action="/backgrounds/` + pathEscape(b.Filename) + `/delete/" onsubmit="return confirm('삭제할까요?')">`)
			hiddenCSRF(buf, csrfToken)
			buf.WriteString(`<button class="secondary" type="submit">삭제</button></form></td></tr>`)
		}
		buf.WriteString(`</table>`)
	})
}

// NotFound is the 404 page.
func NotFound() templ.Component {
	return page("페이지 없음", func(buf *bytes.Buffer) {
		buf.WriteString(`<h1>404</h1><p>페이지를 찾을 수 없습니다. <a href="/">대시보드로</a></p>`)
	})
}

// ServerError is the 500 page.
func ServerError() templ.Component {
	return page("오류", func(buf *bytes.Buffer) {
		buf.WriteString(`<h1>오류</h1><p>처리 중 문제가 발생했습니다. 잠시 후 다시 시도하세요.</p>`)
	})
}

func backgroundSelect(buf *bytes.Buffer, name string, backgrounds []cardnews.Background) {
	buf.WriteString(`<select name="` + esc(name) + `"><option value="">배경 사진 없음</option>`)
	for _, b := range backgrounds {
		buf.WriteString(`<option value="` + esc(b.Filename) + `">` + esc(b.OriginalName) + `</option>`)
	}
	buf.WriteString(`</select>`)
}

func accountSelect(buf *bytes.Buffer, accounts []cardnews.Account) {
	buf.WriteString(`<select name="account">`)
	for _, a := range accounts {
		buf.WriteString(`<option value="` + esc(a.Name) + `">` + esc(a.Name) + `</option>`)
	}
	buf.WriteString(`</select>`)
}
